// Package buildenv models the execution context the pre-build tool
// runs in: the firmware project root and, when running under the
// native build system, a handle for registering compile-time defines.
// Making the context an explicit value keeps both modes (toolchain
// invocation and standalone run) testable.
package buildenv

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Context is threaded through every pre-build stage.
type Context struct {
	// ProjectDir is the firmware project root; all configured paths
	// resolve against it.
	ProjectDir string

	// PioEnv is the active toolchain environment name, if the build
	// system exported one. Informational only.
	PioEnv string

	// Integration registers preprocessor defines with the enclosing
	// native build. Nil when running standalone; the define stage then
	// silently no-ops.
	Integration Integration
}

// Integration abstracts the native build system's define registry.
// Define calls accumulate; Flush makes the result visible to the build.
type Integration interface {
	Define(name, value string) error
	Flush() error
}

type hostEnv struct {
	ProjectDir string `envconfig:"PROJECT_DIR"`
	PioEnv     string `envconfig:"PIOENV"`
}

// Resolve builds the execution context. An explicit projectDir wins,
// then $PROJECT_DIR as exported by the build toolchain, then the
// directory holding the running executable (the standalone case).
func Resolve(projectDir string) (*Context, error) {
	// Best-effort .env pickup; already-exported variables win.
	_ = godotenv.Load()

	var env hostEnv
	if err := envconfig.Process("", &env); err != nil {
		return nil, errors.Wrap(err, "reading host environment")
	}

	dir := projectDir
	if dir == "" {
		dir = env.ProjectDir
	}
	if dir == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, errors.Wrap(err, "locating executable for standalone project dir")
		}
		dir = filepath.Dir(exe)
	}

	return &Context{ProjectDir: dir, PioEnv: env.PioEnv}, nil
}

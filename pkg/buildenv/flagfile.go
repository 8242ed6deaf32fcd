package buildenv

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// FlagFile implements Integration by collecting -D compiler flags and
// writing them to a file the native build splices into its options
// (e.g. via build_flags = !cat in platformio.ini).
type FlagFile struct {
	Path string

	flags []string
}

func NewFlagFile(path string) *FlagFile {
	return &FlagFile{Path: path}
}

func (f *FlagFile) Define(name, value string) error {
	f.flags = append(f.flags, fmt.Sprintf("-D%s=%s", name, value))
	return nil
}

// Flush writes one flag per line. Defines arrive in a fixed order and
// carry only committed-history values, so an unchanged checkout yields
// byte-identical output; in that case the file is left untouched to
// keep its mtime from invalidating the compiler cache.
func (f *FlagFile) Flush() error {
	var buf bytes.Buffer
	for _, flag := range f.flags {
		buf.WriteString(flag)
		buf.WriteByte('\n')
	}

	data := buf.Bytes()
	existing, err := os.ReadFile(f.Path)
	if err == nil && bytes.Equal(existing, data) {
		return nil
	}

	return errors.Wrap(os.WriteFile(f.Path, data, 0o644), "writing flag file")
}

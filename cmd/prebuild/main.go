package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/alexflint/go-arg"
	"github.com/pkg/errors"

	"github.com/modsense/firmware-prebuild/internal/logger"
	"github.com/modsense/firmware-prebuild/pkg/buildenv"
	"github.com/modsense/firmware-prebuild/pkg/config"
	"github.com/modsense/firmware-prebuild/pkg/prebuild"
)

var log = logger.GetLogger()

type CLIArgs struct {
	ProjectDir string `arg:"--project-dir" help:"firmware project root (default: $PROJECT_DIR, then the executable's directory)"`
	ConfigFile string `arg:"--config,env:PREBUILD_CONFIG" default:"prebuild.toml" help:"optional tool configuration file"`
	FlagFile   string `arg:"--flag-file,env:PREBUILD_FLAG_FILE" help:"write -D compiler flags here; define injection is skipped when unset"`
}

func main() {
	var args CLIArgs
	arg.MustParse(&args)

	if err := run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, args CLIArgs) error {
	env, err := buildenv.Resolve(args.ProjectDir)
	if err != nil {
		return err
	}

	if args.FlagFile != "" {
		env.Integration = buildenv.NewFlagFile(args.FlagFile)
	}

	cfg := config.DefaultConfig
	cfgPath := args.ConfigFile
	if !filepath.IsAbs(cfgPath) {
		cfgPath = filepath.Join(env.ProjectDir, cfgPath)
	}
	if err := config.ReadFile(cfgPath, &cfg); err != nil && !os.IsNotExist(errors.Cause(err)) {
		return errors.Wrap(err, "reading tool config")
	}

	runner := prebuild.NewRunner(env, &cfg)

	_, err = runner.Run(ctx)
	return err
}

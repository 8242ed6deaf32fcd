// Package prebuild runs the pre-compile stages for the firmware build:
// materialize config.ini from its template, regenerate the build
// manifest inside the data directory, and inject revision defines into
// the native build. Stages run strictly in that order; only a failure
// to materialize the config aborts the run.
package prebuild

import (
	"context"
	"path/filepath"
	"strconv"
	"time"

	"github.com/modsense/firmware-prebuild/internal/logger"
	"github.com/modsense/firmware-prebuild/pkg/buildenv"
	"github.com/modsense/firmware-prebuild/pkg/config"
	"github.com/modsense/firmware-prebuild/pkg/fshash"
	"github.com/modsense/firmware-prebuild/pkg/manifest"
	"github.com/modsense/firmware-prebuild/pkg/vcs"
)

// revisionSource is the slice of pkg/vcs the runner needs; tests swap
// in a fixed-state stub.
type revisionSource interface {
	Info(ctx context.Context) vcs.Info
	CommitUnix(ctx context.Context) int64
	CommitISO(ctx context.Context) string
}

type Runner struct {
	env *buildenv.Context
	cfg *config.Config
	git revisionSource
	now func() time.Time
}

func NewRunner(env *buildenv.Context, cfg *config.Config) *Runner {
	return &Runner{
		env: env,
		cfg: cfg,
		git: vcs.New(env.ProjectDir),
		now: time.Now,
	}
}

// Report captures the outcome of each stage. Errors from the manifest
// and define stages are recorded here instead of failing the run, so
// the build proceeds on best-effort values.
type Report struct {
	Config   ConfigResult
	Manifest ManifestResult
	Defines  DefinesResult
}

type ConfigResult struct {
	Path    string
	Created bool
}

type ManifestResult struct {
	Path    string
	Written bool
	Info    *manifest.BuildInfo
	Err     error
}

type DefinesResult struct {
	Registered bool
	Err        error
}

func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	cfgRes, err := r.ensureConfig()
	if err != nil {
		return nil, err
	}
	report.Config = cfgRes

	// One revision snapshot feeds both remaining stages.
	info := r.git.Info(ctx)

	report.Manifest = r.generateManifest(ctx, info)
	if report.Manifest.Err != nil {
		logger.Warnf("manifest generation skipped: %v", report.Manifest.Err)
	}

	report.Defines = r.injectDefines(ctx, info)
	if report.Defines.Err != nil {
		logger.Warnf("build define injection skipped: %v", report.Defines.Err)
	}

	return report, nil
}

func (r *Runner) generateManifest(ctx context.Context, info vcs.Info) ManifestResult {
	dataDir := r.abs(r.cfg.Paths.DataDir)
	res := ManifestResult{Path: filepath.Join(dataDir, r.cfg.Paths.Manifest)}

	sum, err := fshash.TreeSHA256(dataDir, r.cfg.Paths.Manifest)
	if err != nil {
		res.Err = err
		return res
	}

	next := manifest.BuildInfo{
		Dirty:           info.Dirty,
		FsContentSha256: sum,
		GitCommit:       info.Commit,
		GitDescribe:     info.Describe,
	}

	// Keep the previous timestamp verbatim while nothing else changed,
	// so no-op rebuilds leave the manifest byte-identical.
	if prev, err := manifest.Load(res.Path); err == nil && next.SameSource(*prev) {
		next.BuiltAtUtc = prev.BuiltAtUtc
	} else {
		next.BuiltAtUtc = r.now().UTC().Format(time.RFC3339)
	}

	data, err := manifest.Encode(next)
	if err != nil {
		res.Err = err
		return res
	}

	written, err := manifest.WriteIfChanged(res.Path, data)
	if err != nil {
		res.Err = err
		return res
	}

	res.Info = &next
	res.Written = written
	if written {
		logger.Infof("manifest updated: commit=%s describe=%s dirty=%t",
			next.GitCommit, next.GitDescribe, next.Dirty)
	} else {
		logger.Debugf("manifest unchanged: %s", res.Path)
	}

	return res
}

func (r *Runner) injectDefines(ctx context.Context, info vcs.Info) DefinesResult {
	res := DefinesResult{}
	if r.env.Integration == nil {
		// Standalone run, no native build to feed.
		return res
	}

	// Both values derive from committed history only. Using the build
	// clock here would change the preprocessor input on every run and
	// force recompilation of everything that includes it.
	unix := r.git.CommitUnix(ctx)

	if err := r.env.Integration.Define(r.cfg.Defines.GitSHA, info.Commit); err != nil {
		res.Err = err
		return res
	}
	if err := r.env.Integration.Define(r.cfg.Defines.BuildUnix, strconv.FormatInt(unix, 10)); err != nil {
		res.Err = err
		return res
	}
	if err := r.env.Integration.Flush(); err != nil {
		res.Err = err
		return res
	}

	res.Registered = true
	logger.Infof("build defines registered: %s=%s %s=%d (committed %s)",
		r.cfg.Defines.GitSHA, info.Commit, r.cfg.Defines.BuildUnix, unix, r.git.CommitISO(ctx))

	return res
}

// abs resolves a configured path against the project root.
func (r *Runner) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(r.env.ProjectDir, path)
}

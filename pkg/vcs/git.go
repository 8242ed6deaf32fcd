// Package vcs reads revision metadata from the project's git checkout.
// Every query degrades to a safe fallback when git is unavailable or
// the project is not a repository; callers never see an error.
package vcs

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
)

// Unknown is the fallback for revision fields that cannot be determined.
const Unknown = "unknown"

// Info describes the checkout state at invocation time.
type Info struct {
	Commit   string
	Describe string
	Dirty    bool
}

type runFunc func(ctx context.Context, dir string, args ...string) (string, error)

type Git struct {
	dir string
	run runFunc
}

func New(dir string) *Git {
	return &Git{dir: dir, run: runGit}
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	out, err := cmd.Output()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(out)), nil
}

// Info gathers the revision record. Describe falls back to the short
// commit hash, and everything falls back to Unknown/false outside a
// repository.
func (g *Git) Info(ctx context.Context) Info {
	info := Info{Commit: Unknown, Describe: Unknown}

	if commit, err := g.run(ctx, g.dir, "rev-parse", "--short", "HEAD"); err == nil && commit != "" {
		info.Commit = commit
		info.Describe = commit
	}

	if describe, err := g.run(ctx, g.dir, "describe", "--tags", "--always", "--dirty"); err == nil && describe != "" {
		info.Describe = describe
	}

	// Porcelain output lists both tracked modifications and untracked
	// files, which is exactly the "working tree dirty" condition wanted
	// here.
	if status, err := g.run(ctx, g.dir, "status", "--porcelain"); err == nil {
		info.Dirty = status != ""
	}

	return info
}

// CommitUnix returns the committer date of HEAD in UNIX seconds, or 0
// when it cannot be determined. The value depends only on committed
// history, never on the build clock, so rebuilding without new commits
// cannot invalidate compiled objects.
func (g *Git) CommitUnix(ctx context.Context) int64 {
	out, err := g.run(ctx, g.dir, "log", "-1", "--format=%ct")
	if err != nil {
		return 0
	}

	secs, err := strconv.ParseInt(out, 10, 64)
	if err != nil {
		return 0
	}

	return secs
}

// CommitISO returns the committer date of HEAD in strict ISO-8601 form,
// or the empty string when it cannot be determined.
func (g *Git) CommitISO(ctx context.Context) string {
	out, err := g.run(ctx, g.dir, "log", "-1", "--format=%cI")
	if err != nil {
		return ""
	}

	return out
}

// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ownclt/ownclt/internal/config"
)

type (
	// Git is the subset of git the link/git commands need.
	Git interface {
		// Check fails with a GitNotFoundError when git cannot be run.
		Check(ctx context.Context) error
		// Clone clones url into dir. dir must not exist or be empty.
		Clone(ctx context.Context, url, dir string) error
	}

	// ExecGit runs the git binary.
	ExecGit struct {
		// Binary is the git executable name or path.
		Binary string
	}
)

func (g ExecGit) binary() string {
	if g.Binary == "" {
		return config.DefaultGitBinary
	}
	return g.Binary
}

// Check runs "git --version".
func (g ExecGit) Check(ctx context.Context) error {
	path, err := exec.LookPath(g.binary())
	if err != nil {
		return &GitNotFoundError{Binary: g.binary()}
	}
	if err := exec.CommandContext(ctx, path, "--version").Run(); err != nil {
		return &GitNotFoundError{Binary: g.binary(), Err: err}
	}
	return nil
}

// Clone runs "git clone -- url dir", capturing its output for the error.
func (g ExecGit) Clone(ctx context.Context, url, dir string) error {
	cmd := exec.CommandContext(ctx, g.binary(), "clone", "--", url, dir)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return &GitCloneError{URL: url, Output: strings.TrimSpace(out.String()), Err: err}
	}
	return nil
}

// IsGitURL reports whether url uses a scheme the link/git command accepts.
func IsGitURL(url string) bool {
	return strings.HasPrefix(url, "git@") || strings.HasPrefix(url, "https://")
}

// RepoPath derives "<owner>/<repo>" from a git URL, for both
// git@host:owner/repo.git and https://host/owner/repo(.git).
func RepoPath(url string) string {
	trimmed := strings.TrimSuffix(strings.TrimRight(url, "/"), ".git")
	parts := strings.FieldsFunc(trimmed, func(r rune) bool { return r == '/' || r == ':' })
	if len(parts) > 2 {
		parts = parts[len(parts)-2:]
	}
	clean := parts[:0]
	for _, p := range parts {
		if p != "." && p != ".." {
			clean = append(clean, p)
		}
	}
	return filepath.ToSlash(filepath.Join(clean...))
}

// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ownclt/ownclt/internal/mapfile"
	"github.com/ownclt/ownclt/internal/registry"
	"github.com/ownclt/ownclt/pkg/command"
)

// link registers the module described by the map file in a folder.
// Usage: /link FOLDER [AS]
func (c *Commands) link(ctx *command.Context) (any, error) {
	folder, as := ctx.Arg(0), strings.TrimSpace(ctx.Arg(1))
	if folder == "" {
		return nil, usage(ctx, "folder is required")
	}

	dir := ctx.Paths.CwdResolve(folder)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, &FolderNotFoundError{Path: dir}
	}

	m, err := mapfile.Read(dir)
	if err != nil {
		return nil, err
	}

	if ctx.State.GetBool(StateReadMapFileOnly) {
		ctx.State.Set(StateMapFile, m)
		return nil, nil
	}

	entry := m.Entry()
	ns := registry.NormalizeNamespace(cmp.Or(as, m.Namespace))
	if err := c.reg.Register(string(ns), entry); err != nil {
		return nil, err
	}
	if err := c.reg.Save(); err != nil {
		return nil, err
	}

	if ns != entry.Namespace {
		return command.Success(fmt.Sprintf("Command Linked: %q as %q", entry.Namespace, ns)), nil
	}
	return command.Success(fmt.Sprintf("Command Linked: %q", ns)), nil
}

// linkGit clones a repository below the git commands folder and links the
// map file folder inside it. With StateUpdateGitFolderOnly set it only
// refreshes the clone.
// Usage: /link/git URL FOLDER [AS]
func (c *Commands) linkGit(ctx *command.Context) (any, error) {
	url, folder, as := ctx.Arg(0), ctx.Arg(1), ctx.Arg(2)
	updating := ctx.State.GetBool(StateUpdateGitFolderOnly)

	if err := c.git.Check(ctx.Context); err != nil {
		return nil, err
	}
	if url == "" {
		return nil, usage(ctx, "git url is required")
	}
	repo := RepoPath(url)
	if !IsGitURL(url) || repo == "" {
		return nil, &InvalidGitURLError{URL: url}
	}
	if folder == "" && !updating {
		return nil, usage(ctx, "map folder is required")
	}

	gitFolder := filepath.Join(c.cfg.GitDir(), filepath.FromSlash(repo))
	folder = strings.TrimPrefix(filepath.ToSlash(folder), "/")
	mapDir := filepath.Join(gitFolder, filepath.FromSlash(folder))
	if rel, err := filepath.Rel(gitFolder, mapDir); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, usage(ctx, fmt.Sprintf("map folder %q is outside the repository", folder))
	}

	cloned, err := c.ensureClone(ctx, url, gitFolder, updating)
	if err != nil {
		return nil, err
	}
	if updating {
		return nil, nil
	}

	if _, err := mapfile.Find(mapDir); err != nil {
		// A reused clone may back namespaces linked earlier.
		if cloned {
			if rmErr := os.RemoveAll(gitFolder); rmErr != nil {
				ctx.Log.Warn("failed to remove clone", "dir", gitFolder, "error", rmErr)
			}
		}
		return nil, &RepoMapFileError{Repo: repo, Folder: folder}
	}

	return ctx.Self("link", mapDir, as)
}

// ensureClone clones url into dir unless dir already holds files. When
// refreshing, existing files are removed first. It reports whether a fresh
// clone was made.
func (c *Commands) ensureClone(ctx *command.Context, url, dir string, refresh bool) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}
	if len(entries) > 0 {
		if !refresh {
			ctx.Log.Debug("reusing existing clone", "dir", dir)
			return false, nil
		}
		if err := os.RemoveAll(dir); err != nil {
			return false, fmt.Errorf("failed to remove %s: %w", dir, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return false, err
	}
	ctx.Log.Info(fmt.Sprintf("Cloning into: %s...", dir))
	if err := c.git.Clone(ctx.Context, url, dir); err != nil {
		return false, err
	}
	return true, nil
}

// linkGitUpdate re-clones a repository linked through link/git.
// Usage: /link/git/update URL
func (c *Commands) linkGitUpdate(ctx *command.Context) (any, error) {
	url := ctx.Arg(0)
	if url == "" {
		return nil, usage(ctx, "git url is required")
	}

	ctx.State.Set(StateUpdateGitFolderOnly, true)
	if _, err := ctx.Self("link/git", ctx.Args...); err != nil {
		return nil, err
	}
	return command.Success(fmt.Sprintf("Command source codes have been updated: %q", url)), nil
}

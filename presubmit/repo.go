// Copyright 2025 The Sommelier Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// openRepo opens the git repository enclosing the current directory.
func openRepo() *git.Repository {
	repo, err := git.PlainOpenWithOptions(".", &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		dief("not in a git repository: %v", err)
	}
	return repo
}

// repoRoot returns the root of the currently selected git repo, or
// worktree root if this is an alternate worktree of a repo.
func repoRoot() string {
	wt, err := openRepo().Worktree()
	if err != nil {
		dief("finding repository root: %v", err)
	}
	return filepath.Clean(wt.Filesystem.Root())
}

// resolveCommit resolves ref to a commit and verifies that the commit
// has a parent to diff against. It dies otherwise.
func resolveCommit(ref string) *object.Commit {
	repo := openRepo()
	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		dief("cannot resolve commit %q: %v", ref, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		dief("cannot read commit %q: %v", ref, err)
	}
	if commit.NumParents() == 0 {
		dief("commit %q has no parent to diff against", ref)
	}
	return commit
}

// gitPath resolves the $GIT_DIR/path, taking in consideration
// all other path relocations, e.g. hooks for linked worktrees
// are not kept in their gitdir, but shared in the main one.
func gitPath(path string) string {
	root := repoRoot()
	// git 2.13.0 changed the behavior of --git-path from printing
	// a path relative to the repo root to printing a path
	// relative to the working directory (issue #19477). Normalize
	// both behaviors by running the command from the repo root.
	p, err := trimErr(cmdOutputErr("git", "-C", root, "rev-parse", "--git-path", path))
	if err != nil {
		// When --git-path is not available, assume the common case.
		p = filepath.Join(".git", path)
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(root, p)
	}
	return p
}

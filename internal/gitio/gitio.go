// Package gitio answers the repository questions the selector needs (changed
// files, tracked files, staged files) using go-git.
package gitio

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// ErrEmptyTree is returned when a revision lists no files. There is no
// meaningful audit without a file universe, so callers treat it as fatal.
var ErrEmptyTree = errors.New("revision tree has no files")

// Repository wraps a go-git repository.
type Repository struct {
	repo *git.Repository
	root string
}

// Open opens the repository containing path, searching parent directories
// for the .git directory.
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("opening worktree: %w", err)
	}
	return &Repository{repo: repo, root: wt.Filesystem.Root()}, nil
}

// Root returns the top level directory of the working tree.
func (r *Repository) Root() string {
	return r.root
}

// ResolveCommit resolves a revision such as "HEAD", "origin/master", a tag or
// a hash to its commit.
func (r *Repository) ResolveCommit(rev string) (*object.Commit, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolving revision %q: %w", rev, err)
	}
	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("getting commit for %q: %w", rev, err)
	}
	return commit, nil
}

// ChangeSet is the set of paths that differ between two revisions. An empty
// ChangeSet is a valid result.
type ChangeSet struct {
	Base     string   `json:"base"`
	Head     string   `json:"head"`
	Added    []string `json:"added"`
	Modified []string `json:"modified"`
	Deleted  []string `json:"deleted"`
}

// Paths returns every changed path once, sorted.
func (c ChangeSet) Paths() []string {
	seen := make(map[string]bool)
	var out []string
	for _, group := range [][]string{c.Added, c.Modified, c.Deleted} {
		for _, p := range group {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Empty reports whether nothing changed.
func (c ChangeSet) Empty() bool {
	return len(c.Added)+len(c.Modified)+len(c.Deleted) == 0
}

// ChangedFiles lists the files changed on head since it diverged from base,
// the equivalent of `git diff --name-only base...head`.
func (r *Repository) ChangedFiles(baseRev, headRev string) (ChangeSet, error) {
	head, err := r.ResolveCommit(headRev)
	if err != nil {
		return ChangeSet{}, err
	}
	base, err := r.ResolveCommit(baseRev)
	if err != nil {
		return ChangeSet{}, err
	}

	bases, err := base.MergeBase(head)
	if err != nil {
		return ChangeSet{}, fmt.Errorf("finding merge base of %s and %s: %w", baseRev, headRev, err)
	}
	if len(bases) > 0 {
		base = bases[0]
	}

	baseTree, err := base.Tree()
	if err != nil {
		return ChangeSet{}, fmt.Errorf("getting base tree: %w", err)
	}
	headTree, err := head.Tree()
	if err != nil {
		return ChangeSet{}, fmt.Errorf("getting head tree: %w", err)
	}

	changes, err := baseTree.Diff(headTree)
	if err != nil {
		return ChangeSet{}, fmt.Errorf("computing diff: %w", err)
	}

	cs := ChangeSet{Base: base.Hash.String(), Head: head.Hash.String()}
	for _, change := range changes {
		action, err := change.Action()
		if err != nil {
			return ChangeSet{}, fmt.Errorf("classifying change: %w", err)
		}

		switch action {
		case merkletrie.Insert:
			cs.Added = append(cs.Added, change.To.Name)
		case merkletrie.Delete:
			cs.Deleted = append(cs.Deleted, change.From.Name)
		case merkletrie.Modify:
			cs.Modified = append(cs.Modified, change.To.Name)
			if change.From.Name != change.To.Name {
				cs.Deleted = append(cs.Deleted, change.From.Name)
			}
		}
	}

	sort.Strings(cs.Added)
	sort.Strings(cs.Modified)
	sort.Strings(cs.Deleted)
	return cs, nil
}

// TrackedFiles lists every file in the tree of rev, the equivalent of
// `git ls-tree --name-only -r rev`.
func (r *Repository) TrackedFiles(rev string) ([]string, error) {
	commit, err := r.ResolveCommit(rev)
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("getting tree: %w", err)
	}

	var files []string
	err = tree.Files().ForEach(func(f *object.File) error {
		files = append(files, f.Name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing tree files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTree, rev)
	}

	sort.Strings(files)
	return files, nil
}

// StagedFiles lists paths with staged changes, the equivalent of
// `git diff --staged --name-only`.
func (r *Repository) StagedFiles() ([]string, error) {
	return r.statusFiles(func(s *git.FileStatus) bool {
		return s.Staging != git.Unmodified && s.Staging != git.Untracked
	})
}

// UncommittedFiles lists tracked paths with staged or unstaged changes.
func (r *Repository) UncommittedFiles() ([]string, error) {
	return r.statusFiles(func(s *git.FileStatus) bool {
		if s.Worktree == git.Untracked {
			return false
		}
		return s.Staging != git.Unmodified || s.Worktree != git.Unmodified
	})
}

// Universe returns the tracked files of rev plus the staged files, which is
// the inventory the coverage audit inspects.
func (r *Repository) Universe(rev string) ([]string, error) {
	tracked, err := r.TrackedFiles(rev)
	if err != nil {
		return nil, err
	}
	staged, err := r.StagedFiles()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(tracked)+len(staged))
	out := make([]string, 0, len(tracked)+len(staged))
	for _, f := range append(tracked, staged...) {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *Repository) statusFiles(keep func(*git.FileStatus) bool) ([]string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("opening worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("reading worktree status: %w", err)
	}

	var files []string
	for path, s := range status {
		if keep(s) {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}

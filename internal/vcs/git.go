package vcs

import (
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GitRepo implements VersionControl over a local git repository using
// go-git.
type GitRepo struct {
	repo   *git.Repository
	author Signature
}

// Open opens the repository at path, detecting .git in parent
// directories.
func Open(path string, author Signature) (*GitRepo, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return &GitRepo{repo: repo, author: author}, nil
}

// Init creates a new repository at path. Used in tests and for dry runs
// against scratch directories.
func Init(path string, author Signature) (*GitRepo, error) {
	repo, err := git.PlainInit(path, false)
	if err != nil {
		return nil, fmt.Errorf("initializing repository at %s: %w", path, err)
	}
	return &GitRepo{repo: repo, author: author}, nil
}

// CreateBranch creates and checks out a branch from HEAD.
func (g *GitRepo) CreateBranch(name string) (string, error) {
	wt, err := g.repo.Worktree()
	if err != nil {
		return "", err
	}
	err = wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
	})
	if err != nil {
		return "", fmt.Errorf("creating branch %s: %w", name, err)
	}
	return name, nil
}

// StageAndCommit stages the given paths and commits them.
func (g *GitRepo) StageAndCommit(paths []string, message string) (string, error) {
	wt, err := g.repo.Worktree()
	if err != nil {
		return "", err
	}
	for _, p := range paths {
		if _, err := wt.Add(p); err != nil {
			return "", fmt.Errorf("staging %s: %w", p, err)
		}
	}

	when := g.author.When
	if when.IsZero() {
		when = time.Now()
	}
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  g.author.Name,
			Email: g.author.Email,
			When:  when,
		},
	})
	if err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}
	return hash.String(), nil
}

// CurrentBranch returns the short name of the checked-out branch.
func (g *GitRepo) CurrentBranch() (string, error) {
	head, err := g.repo.Head()
	if err != nil {
		return "", err
	}
	return head.Name().Short(), nil
}

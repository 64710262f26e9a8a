// Package vcs provides the version control operations the publisher
// needs: branch creation and per-group commits.
package vcs

import "time"

// VersionControl abstracts the repository operations used when
// publishing approved fixes.
type VersionControl interface {
	// CreateBranch creates and checks out a new branch from HEAD,
	// returning the branch name.
	CreateBranch(name string) (string, error)
	// StageAndCommit stages the given paths and commits them, returning
	// the commit hash.
	StageAndCommit(paths []string, message string) (string, error)
	// CurrentBranch returns the checked-out branch name.
	CurrentBranch() (string, error)
}

// Signature identifies the commit author.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

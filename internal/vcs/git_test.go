package vcs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthor = Signature{
	Name:  "test",
	Email: "test@localhost",
	When:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
}

func initRepo(t *testing.T) (*GitRepo, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := Init(dir, testAuthor)
	require.NoError(t, err)

	// Seed an initial commit so HEAD exists for branching.
	path := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(path, []byte("seed\n"), 0644))
	_, err = repo.StageAndCommit([]string{"README.md"}, "initial")
	require.NoError(t, err)

	return repo, dir
}

func TestStageAndCommit(t *testing.T) {
	repo, dir := initRepo(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a\n"), 0644))
	hash, err := repo.StageAndCommit([]string{"a.txt"}, "add a")
	require.NoError(t, err)
	assert.Len(t, hash, 40)
}

func TestCreateBranch(t *testing.T) {
	repo, _ := initRepo(t)

	name, err := repo.CreateBranch("governance/auto-fix-test")
	require.NoError(t, err)
	assert.Equal(t, "governance/auto-fix-test", name)

	current, err := repo.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "governance/auto-fix-test", current)
}

func TestCreateBranchTwiceFails(t *testing.T) {
	repo, _ := initRepo(t)

	_, err := repo.CreateBranch("dup")
	require.NoError(t, err)
	_, err = repo.CreateBranch("dup")
	assert.Error(t, err)
}

func TestOpenMissingRepo(t *testing.T) {
	_, err := Open(t.TempDir(), testAuthor)
	assert.Error(t, err)
}

func TestStageMissingFile(t *testing.T) {
	repo, _ := initRepo(t)

	_, err := repo.StageAndCommit([]string{"does-not-exist.txt"}, "broken")
	assert.Error(t, err)
}

package gitops

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthor = Author{Name: "Test Author", Email: "test@example.com"}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func gitLog(t *testing.T, dir, format string) string {
	t.Helper()
	cmd := exec.Command("git", "log", "--format="+format, "-1")
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	return string(out)
}

func TestInit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	_, err := os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git directory should exist")
}

func TestIsRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	require.NoError(t, Init(dir))
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")
}

func TestCommit_All(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.txt"), []byte("hello"), 0o644))

	hash, err := Commit(dir, "init: test commit", testAuthor)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	assert.Contains(t, gitLog(t, dir, "%s"), "init: test commit")
	assert.Contains(t, gitLog(t, dir, "%an <%ae>"), "Test Author <test@example.com>")

	head, err := Head(dir)
	require.NoError(t, err)
	assert.Equal(t, hash, head)
}

func TestCommit_PathsOnly(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "accounts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "accounts", "coa.csv"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scratch.txt"), []byte("b"), 0o644))

	_, err := Commit(dir, "import: pt-maju", testAuthor, "accounts")
	require.NoError(t, err)

	changed, err := HasChanges(dir, "accounts")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = HasChanges(dir, "scratch.txt")
	require.NoError(t, err)
	assert.True(t, changed, "unlisted paths stay uncommitted")
}

func TestCommit_NothingToCommit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.txt"), []byte("hello"), 0o644))
	_, err := Commit(dir, "first", testAuthor)
	require.NoError(t, err)

	_, err = Commit(dir, "second", testAuthor)
	assert.ErrorIs(t, err, ErrNothingToCommit)
}

func TestHead_NotARepo(t *testing.T) {
	requireGit(t)
	_, err := Head(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git rev-parse")
}

func TestGitVerb(t *testing.T) {
	assert.Equal(t, "commit", gitVerb([]string{"-c", "user.name=x", "commit", "-m", "y"}))
	assert.Equal(t, "status", gitVerb([]string{"status"}))
	assert.Equal(t, "", gitVerb(nil))
}

func TestCommit_SkipsEmptyDirs(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "accounts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "accounts", "coa.csv"), []byte("a"), 0o644))

	hash, err := Commit(dir, "import", testAuthor, "accounts", "logs", "missing")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
}

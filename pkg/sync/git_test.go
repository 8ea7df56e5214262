package sync

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var author = Author{Name: "Test", Email: "test@example.com"}

func TestInitAndCommit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir, ""))

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), ".lock")

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tasks"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks", "a.md"), []byte("---\ntitle: a\n---\n"), 0644))

	now := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	made, err := Commit(dir, author, now)
	require.NoError(t, err)
	assert.True(t, made)

	made, err = Commit(dir, author, now)
	require.NoError(t, err)
	assert.False(t, made, "clean tree")

	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Equal(t, "sync 2024-01-08 09:00:00", commit.Message)
	assert.Equal(t, "Test", commit.Author.Name)
}

func TestInitSetsRemote(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir, "https://example.com/a.git"))
	require.NoError(t, Init(dir, "https://example.com/b.git"))

	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	remote, err := repo.Remote(RemoteName)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/b.git"}, remote.Config().URLs)
}

func TestCommitOutsideRepository(t *testing.T) {
	_, err := Commit(t.TempDir(), author, time.Now())
	assert.ErrorIs(t, err, ErrNotRepository)
}

func TestSyncWithoutRemote(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir, ""))

	err := Sync(dir, author, time.Now(), io.Discard)
	assert.ErrorIs(t, err, ErrNoRemote)
}

func TestRunUsesRepositoryDir(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	dir := t.TempDir()
	require.NoError(t, Init(dir, "https://example.com/a.git"))

	var out bytes.Buffer
	require.NoError(t, run(dir, &out, "remote", "get-url", RemoteName))
	assert.Equal(t, "https://example.com/a.git\n", out.String())

	assert.Error(t, run(dir, io.Discard, "rev-parse", "--verify", "HEAD"), "no commits yet")
}

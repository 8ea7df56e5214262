// Package sync keeps the data directory in a git repository and exchanges
// it with a remote.
package sync

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// RemoteName is the remote Sync pulls from and pushes to.
const RemoteName = "origin"

var (
	ErrNotRepository = errors.New("not a git repository; run 'cadence init' first")
	ErrNoRemote      = errors.New("no remote configured; run 'cadence init --remote <url>'")
)

// ignored keeps machine-local files out of history.
const ignored = ".lock\nlogs/\n"

// Author signs sync commits.
type Author struct {
	Name  string
	Email string
}

// Init makes dir a git repository and points origin at remote. Running it
// again on an existing repository only updates the remote.
func Init(dir, remote string) error {
	repo, err := git.PlainInit(dir, false)
	if errors.Is(err, git.ErrRepositoryAlreadyExists) {
		repo, err = git.PlainOpen(dir)
	}
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}

	gitignore := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(gitignore); os.IsNotExist(err) {
		if err := os.WriteFile(gitignore, []byte(ignored), 0644); err != nil {
			return fmt.Errorf("write .gitignore: %w", err)
		}
	}

	if remote == "" {
		return nil
	}
	if err := repo.DeleteRemote(RemoteName); err != nil && !errors.Is(err, git.ErrRemoteNotFound) {
		return fmt.Errorf("remove remote: %w", err)
	}
	if _, err := repo.CreateRemote(&config.RemoteConfig{Name: RemoteName, URLs: []string{remote}}); err != nil {
		return fmt.Errorf("set remote: %w", err)
	}
	return nil
}

func open(dir string) (*git.Repository, error) {
	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, ErrNotRepository
	}
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return repo, nil
}

// Commit stages everything in dir and commits it. It reports whether a
// commit was made; a clean tree is not an error.
func Commit(dir string, author Author, now time.Time) (bool, error) {
	repo, err := open(dir)
	if err != nil {
		return false, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("worktree: %w", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return false, fmt.Errorf("stage changes: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("status: %w", err)
	}
	if status.IsClean() {
		return false, nil
	}

	msg := "sync " + now.Format("2006-01-02 15:04:05")
	_, err = wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: author.Name, Email: author.Email, When: now},
	})
	if err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

// Sync commits local changes, pulls (rebase, falling back to merge) and
// pushes. Network operations go through the git binary so the user's
// credential helpers and ssh config apply. Progress is written to out.
func Sync(dir string, author Author, now time.Time, out io.Writer) error {
	repo, err := open(dir)
	if err != nil {
		return err
	}
	if _, err := repo.Remote(RemoteName); err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return ErrNoRemote
		}
		return fmt.Errorf("read remote: %w", err)
	}

	fmt.Fprintln(out, "Committing local changes...")
	if _, err := Commit(dir, author, now); err != nil {
		return err
	}

	fmt.Fprintln(out, "Pulling...")
	if err := run(dir, out, "pull", "--rebase", RemoteName); err != nil {
		fmt.Fprintln(out, "Rebase failed, trying merge...")
		_ = run(dir, out, "rebase", "--abort")

		if err := run(dir, out, "pull", "--no-rebase", RemoteName); err != nil {
			_ = run(dir, out, "merge", "--abort")
			return fmt.Errorf("sync failed: could not rebase or merge. Resolve conflicts manually")
		}
	}

	fmt.Fprintln(out, "Pushing...")
	if err := run(dir, out, "push", "-u", RemoteName, "HEAD"); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}

	fmt.Fprintln(out, "Sync complete.")
	return nil
}

// run invokes the git binary inside dir with output streamed to out.
func run(dir string, out io.Writer, args ...string) error {
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	cmd.Stdout = out
	cmd.Stderr = out
	return cmd.Run()
}

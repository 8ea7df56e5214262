// Package store persists tasks as markdown files with YAML frontmatter, one
// file per task under <root>/tasks.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/stefanpenner/cadence/pkg/reorder"
	"github.com/stefanpenner/cadence/pkg/task"
)

// Store manages the filesystem-backed task data.
type Store struct {
	Root string // e.g., ~/.local/share/cadence

	flk *flock.Flock
	now func() time.Time
}

// NewStore creates a Store rooted at the given directory.
// It creates the directory structure if it doesn't exist.
func NewStore(root string) (*Store, error) {
	tasksDir := filepath.Join(root, "tasks")
	if err := os.MkdirAll(tasksDir, 0755); err != nil {
		return nil, fmt.Errorf("creating tasks directory: %w", err)
	}
	return &Store{
		Root: root,
		flk:  flock.New(filepath.Join(root, ".lock")),
		now:  time.Now,
	}, nil
}

// TasksDir returns the path to the tasks directory.
func (s *Store) TasksDir() string {
	return filepath.Join(s.Root, "tasks")
}

func (s *Store) taskPath(id string) string {
	return filepath.Join(s.TasksDir(), id+".md")
}

func validateID(id string) error {
	if id == "" || strings.HasPrefix(id, ".") || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// withLock serialises writers across processes sharing the data dir.
func (s *Store) withLock(fn func() error) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("locking store: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()
	return fn()
}

// Get reads a single task by id.
func (s *Store) Get(id string) (*task.Task, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.load(s.taskPath(id))
}

func (s *Store) load(path string) (*task.Task, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.TrimSuffix(filepath.Base(path), ".md"))
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	t, err := ParseFrontmatter(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if t.ID == "" {
		t.ID = strings.TrimSuffix(filepath.Base(path), ".md")
	}
	t.FilePath = path
	return t, nil
}

// List loads every task, sorted by order. Ties keep file name order.
func (s *Store) List() ([]*task.Task, error) {
	entries, err := os.ReadDir(s.TasksDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading tasks directory: %w", err)
	}

	var tasks []*task.Task
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		t, err := s.load(filepath.Join(s.TasksDir(), entry.Name()))
		if err != nil {
			continue // skip broken task files
		}
		tasks = append(tasks, t)
	}
	task.SortByOrder(tasks)
	return tasks, nil
}

func (s *Store) save(t *task.Task) error {
	content, err := SerializeFrontmatter(t)
	if err != nil {
		return fmt.Errorf("serializing task: %w", err)
	}
	path := s.taskPath(t.ID)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing task %s: %w", t.ID, err)
	}
	t.FilePath = path
	return nil
}

// Create stores a new task. An empty id gets a fresh uuid and a zero order
// key sorts the task after everything already stored.
func (s *Store) Create(t *task.Task) (*task.Task, error) {
	var out *task.Task
	err := s.withLock(func() error {
		var err error
		out, err = s.create(t)
		return err
	})
	return out, err
}

func (s *Store) create(t *task.Task) (*task.Task, error) {
	if strings.TrimSpace(t.Title) == "" {
		return nil, task.ErrEmptyTitle
	}
	c := t.Clone()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := validateID(c.ID); err != nil {
		return nil, err
	}
	if _, err := os.Stat(s.taskPath(c.ID)); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrExists, c.ID)
	}

	now := s.now()
	if c.Order == 0 {
		key, err := s.nextOrder(now)
		if err != nil {
			return nil, err
		}
		c.Order = key
	}
	if c.Status == "" {
		c.Status = task.StatusPending
	}
	if c.Kind == "" {
		c.Kind = task.KindTask
	}
	if c.Created.IsZero() {
		c.Created = now
	}
	c.Updated = now

	if err := s.save(c); err != nil {
		return nil, err
	}
	return c, nil
}

// nextOrder returns a key above every stored key: the creation time in
// milliseconds, bumped past the current maximum when that is larger.
func (s *Store) nextOrder(now time.Time) (float64, error) {
	tasks, err := s.List()
	if err != nil {
		return 0, err
	}
	key := float64(now.UnixMilli())
	if n := len(tasks); n > 0 && tasks[n-1].Order >= key {
		key = tasks[n-1].Order + 1
	}
	return key, nil
}

// Update applies a patch to a stored task and returns the result.
func (s *Store) Update(id string, p task.Patch) (*task.Task, error) {
	var out *task.Task
	err := s.withLock(func() error {
		var err error
		out, err = s.update(id, p)
		return err
	})
	return out, err
}

func (s *Store) update(id string, p task.Patch) (*task.Task, error) {
	t, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if p.IsEmpty() {
		return t, nil
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return nil, task.ErrEmptyTitle
	}
	p.Apply(t)
	t.Updated = s.now()
	if err := s.save(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Put writes t as is, replacing any stored task with the same id. Missing
// ids and timestamps are filled in. Used for bulk imports.
func (s *Store) Put(tasks ...*task.Task) error {
	return s.withLock(func() error {
		now := s.now()
		for _, t := range tasks {
			if t.ID == "" {
				t.ID = uuid.NewString()
			}
			if err := validateID(t.ID); err != nil {
				return err
			}
			if t.Created.IsZero() {
				t.Created = now
			}
			if t.Updated.IsZero() {
				t.Updated = now
			}
			if err := s.save(t); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a task file. Children are left in place.
func (s *Store) Delete(id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.withLock(func() error {
		err := os.Remove(s.taskPath(id))
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return err
	})
}

// ApplyTransition persists a completion transition: the archive record is
// created first, then the live task is patched. A failed patch removes the
// archive again. It returns the created archive, if any, and the updated task.
func (s *Store) ApplyTransition(tr task.Transition) (archive, updated *task.Task, err error) {
	err = s.withLock(func() error {
		if _, err := s.Get(tr.ID); err != nil {
			return err
		}
		if tr.Archive != nil {
			a, err := s.create(tr.Archive)
			if err != nil {
				return fmt.Errorf("archiving %s: %w", tr.ID, err)
			}
			archive = a
		}
		u, err := s.update(tr.ID, tr.Patch)
		if err != nil {
			if archive != nil {
				if rmErr := os.Remove(s.taskPath(archive.ID)); rmErr != nil {
					err = errors.Join(err, fmt.Errorf("removing archive %s: %w", archive.ID, rmErr))
				}
				archive = nil
			}
			return err
		}
		updated = u
		return nil
	})
	return archive, updated, err
}

// ApplyOrder writes reconciled order keys. Every id is checked before any
// file is touched.
func (s *Store) ApplyOrder(updates []reorder.Update) error {
	if len(updates) == 0 {
		return nil
	}
	return s.withLock(func() error {
		for _, u := range updates {
			if err := validateID(u.ID); err != nil {
				return err
			}
			if _, err := os.Stat(s.taskPath(u.ID)); err != nil {
				return fmt.Errorf("%w: %s", ErrNotFound, u.ID)
			}
		}
		for _, u := range updates {
			order := u.Order
			if _, err := s.update(u.ID, task.Patch{Order: &order}); err != nil {
				return err
			}
		}
		return nil
	})
}

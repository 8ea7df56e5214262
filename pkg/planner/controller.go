// Package planner owns the in-memory task snapshot and forwards the changes
// computed by the engine packages to the store.
package planner

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/stefanpenner/cadence/pkg/logging"
	"github.com/stefanpenner/cadence/pkg/reorder"
	"github.com/stefanpenner/cadence/pkg/schedule"
	"github.com/stefanpenner/cadence/pkg/task"
	"github.com/stefanpenner/cadence/pkg/view"
)

// Store is the persistence the controller writes through.
type Store interface {
	List() ([]*task.Task, error)
	Create(t *task.Task) (*task.Task, error)
	Update(id string, p task.Patch) (*task.Task, error)
	Delete(id string) error
	ApplyTransition(tr task.Transition) (archive, updated *task.Task, err error)
	ApplyOrder(updates []reorder.Update) error
}

// Options configures a Controller. Zero values pick defaults.
type Options struct {
	Logger *slog.Logger
	Step   float64
	Now    func() time.Time
}

// Controller serialises mutations of the task collection. Every write is
// followed by a reload so the snapshot always mirrors the store.
type Controller struct {
	store Store
	log   *slog.Logger
	step  float64
	now   func() time.Time

	mu    sync.Mutex
	tasks []*task.Task
}

// New creates a Controller. Call Load before reading.
func New(s Store, opts Options) *Controller {
	c := &Controller{
		store: s,
		log:   opts.Logger,
		step:  opts.Step,
		now:   opts.Now,
	}
	if c.log == nil {
		c.log = logging.Discard()
	}
	if c.step <= 0 {
		c.step = reorder.DefaultStep
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Load replaces the snapshot with the store's current contents.
func (c *Controller) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reload()
}

func (c *Controller) reload() error {
	tasks, err := c.store.List()
	if err != nil {
		c.log.Error("load tasks", "err", err)
		return fmt.Errorf("loading tasks: %w", err)
	}
	task.SortByOrder(tasks)
	c.tasks = tasks
	return nil
}

// Replace installs a snapshot delivered by a store subscription.
func (c *Controller) Replace(tasks []*task.Task) {
	sorted := slices.Clone(tasks)
	task.SortByOrder(sorted)
	c.mu.Lock()
	c.tasks = sorted
	c.mu.Unlock()
	c.log.Debug("snapshot replaced", "tasks", len(sorted))
}

// Tasks returns the current snapshot in order. The slice is a copy; the
// tasks themselves must not be modified.
func (c *Controller) Tasks() []*task.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.tasks)
}

// Get returns the task with id from the snapshot.
func (c *Controller) Get(id string) (*task.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(id)
}

func (c *Controller) get(id string) (*task.Task, error) {
	for _, t := range c.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTask, id)
}

// Resolve finds a task by exact id or by a unique id prefix.
func (c *Controller) Resolve(ref string) (*task.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, err := c.get(ref); err == nil {
		return t, nil
	}
	var match *task.Task
	for _, t := range c.tasks {
		if ref != "" && strings.HasPrefix(t.ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("%w: %s is ambiguous", ErrUnknownTask, ref)
			}
			match = t
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTask, ref)
	}
	return match, nil
}

// Visible applies ctx to the snapshot.
func (c *Controller) Visible(ctx view.Context) []*task.Task {
	return view.Visible(c.Tasks(), ctx)
}

// Add validates and stores a new task.
func (c *Controller) Add(t *task.Task) (*task.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.Recurrence == schedule.Custom && len(schedule.SortedDays(t.RecurrenceDays)) == 0 {
		return nil, ErrNoDays
	}
	if t.ParentID != "" {
		ix := task.NewIndex(c.tasks)
		parent, ok := ix.Get(t.ParentID)
		if !ok {
			return nil, fmt.Errorf("parent %w: %s", ErrUnknownTask, t.ParentID)
		}
		if ix.Depth(parent) >= task.MaxDepth {
			return nil, ErrTooDeep
		}
	}

	created, err := c.store.Create(t)
	if err != nil {
		return nil, err
	}
	c.log.Info("task added", "id", created.ID, "kind", created.Kind, "recurrence", created.Recurrence)
	return created, c.reload()
}

// Outcome reports what a status change wrote.
type Outcome struct {
	Task    *task.Task `json:"task"`
	Archive *task.Task `json:"archive,omitempty"` // set when a recurring task left a completed copy
}

// RolledForward reports whether a recurring task moved to its next date.
func (o Outcome) RolledForward() bool {
	return o.Archive != nil && !o.Task.IsCompleted()
}

// Toggle completes a pending task or reopens a completed one.
func (c *Controller) Toggle(id string) (Outcome, error) {
	return c.transition(id, func(t *task.Task, now time.Time) (task.Transition, bool) {
		return task.Toggle(t, now), true
	})
}

// Complete marks a task completed. Completed tasks are left alone.
func (c *Controller) Complete(id string) (Outcome, error) {
	return c.transition(id, func(t *task.Task, now time.Time) (task.Transition, bool) {
		return task.Complete(t, now), !t.IsCompleted()
	})
}

// Reopen marks a completed task pending again.
func (c *Controller) Reopen(id string) (Outcome, error) {
	return c.transition(id, func(t *task.Task, _ time.Time) (task.Transition, bool) {
		return task.Reopen(t), t.IsCompleted()
	})
}

func (c *Controller) transition(id string, build func(*task.Task, time.Time) (task.Transition, bool)) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.get(id)
	if err != nil {
		return Outcome{}, err
	}
	tr, apply := build(t, c.now())
	if !apply {
		return Outcome{Task: t}, nil
	}

	archive, updated, err := c.store.ApplyTransition(tr)
	if err != nil {
		c.log.Error("apply transition", "id", id, "err", err)
		if rerr := c.reload(); rerr != nil {
			return Outcome{}, errors.Join(err, rerr)
		}
		return Outcome{}, err
	}

	out := Outcome{Task: updated, Archive: archive}
	c.log.Info("status changed", "id", id, "status", updated.Status, "rolled_forward", out.RolledForward())
	return out, c.reload()
}

// Reorder makes visual the new relative order of those tasks. The view is
// reconciled against a fresh listing; if it no longer matches, nothing is
// written and the caller should rebuild the view and retry the gesture.
func (c *Controller) Reorder(visual []string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.reload(); err != nil {
		return 0, err
	}
	return c.reorder(visual)
}

func (c *Controller) reorder(visual []string) (int, error) {
	updates, err := reorder.ReconcileStep(c.tasks, visual, c.step)
	if err != nil {
		c.log.Warn("reorder aborted", "visible", len(visual), "err", err)
		if rerr := c.reload(); rerr != nil {
			return 0, errors.Join(err, rerr)
		}
		return 0, err
	}
	if len(updates) == 0 {
		return 0, nil
	}
	if err := c.store.ApplyOrder(updates); err != nil {
		c.log.Error("apply order", "updates", len(updates), "err", err)
		return 0, errors.Join(err, c.reload())
	}
	c.log.Info("reordered", "visible", len(visual), "updates", len(updates))
	return len(updates), c.reload()
}

// Move places id directly before the task before within the view ctx, or
// at the end of the view when before is empty. Tasks outside the view keep
// their positions.
func (c *Controller) Move(id, before string, ctx view.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.reload(); err != nil {
		return 0, err
	}
	if _, err := c.get(id); err != nil {
		return 0, err
	}
	if before != "" {
		if _, err := c.get(before); err != nil {
			return 0, err
		}
	}
	if id == before {
		return 0, nil
	}

	var visual []string
	for _, t := range view.Visible(c.tasks, ctx) {
		if t.ID != id {
			visual = append(visual, t.ID)
		}
	}
	at := len(visual)
	if before != "" {
		at = slices.Index(visual, before)
		if at < 0 {
			return 0, fmt.Errorf("%w: %s is not in the current view", ErrUnknownTask, before)
		}
	}
	visual = slices.Insert(visual, at, id)
	return c.reorder(visual)
}

// Reparent nests id under parentID, or makes it a root when parentID is
// empty. The moved subtree must still fit within task.MaxDepth.
func (c *Controller) Reparent(id, parentID string) (*task.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.get(id)
	if err != nil {
		return nil, err
	}
	if t.ParentID == parentID {
		return t, nil
	}

	ix := task.NewIndex(c.tasks)
	depth := 0
	if parentID != "" {
		parent, ok := ix.Get(parentID)
		if !ok {
			return nil, fmt.Errorf("parent %w: %s", ErrUnknownTask, parentID)
		}
		if parentID == id || ix.IsWithin(parent, id) {
			return nil, ErrCycle
		}
		depth = ix.Depth(parent)
	}
	if depth+height(ix, id, 1) > task.MaxDepth {
		return nil, ErrTooDeep
	}

	updated, err := c.store.Update(id, task.Patch{ParentID: &parentID})
	if err != nil {
		return nil, err
	}
	c.log.Info("reparented", "id", id, "parent", parentID)
	return updated, c.reload()
}

// height counts the levels of the subtree rooted at id, stopping once it
// exceeds MaxDepth.
func height(ix *task.Index, id string, level int) int {
	if level > task.MaxDepth {
		return level
	}
	h := level
	for _, child := range ix.Children(id) {
		h = max(h, height(ix, child.ID, level+1))
	}
	return h
}

// Delete removes a task and everything nested below it. It returns the
// deleted ids, children first.
func (c *Controller) Delete(id string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.get(id); err != nil {
		return nil, err
	}
	ix := task.NewIndex(c.tasks)
	var ids []string
	for _, d := range ix.Descendants(id) {
		ids = append(ids, d.ID)
	}
	slices.Reverse(ids)
	ids = append(ids, id)

	for i, tid := range ids {
		if err := c.store.Delete(tid); err != nil {
			c.log.Error("delete", "id", tid, "err", err)
			return ids[:i], errors.Join(fmt.Errorf("deleting %s: %w", tid, err), c.reload())
		}
	}
	c.log.Info("deleted", "id", id, "cascade", len(ids)-1)
	return ids, c.reload()
}

// StartSession opens a time-tracking interval on id.
func (c *Controller) StartSession(id string) (*task.Task, error) {
	return c.session(id, task.StartSession)
}

// StopSession closes the running interval on id.
func (c *Controller) StopSession(id string) (*task.Task, error) {
	return c.session(id, task.StopSession)
}

func (c *Controller) session(id string, build func(*task.Task, time.Time) (task.Patch, error)) (*task.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.get(id)
	if err != nil {
		return nil, err
	}
	p, err := build(t, c.now())
	if err != nil {
		return nil, err
	}
	updated, err := c.store.Update(id, p)
	if err != nil {
		return nil, err
	}
	c.log.Info("session updated", "id", id, "running", updated.OpenSession() >= 0)
	return updated, c.reload()
}

// Update applies an edit to a task.
func (c *Controller) Update(id string, p task.Patch) (*task.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.get(id); err != nil {
		return nil, err
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return nil, task.ErrEmptyTitle
	}
	updated, err := c.store.Update(id, p)
	if err != nil {
		return nil, err
	}
	return updated, c.reload()
}

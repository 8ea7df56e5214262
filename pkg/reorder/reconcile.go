// Package reorder turns a user's reordering of a filtered view into order-key
// updates for the whole collection.
package reorder

import (
	"errors"
	"fmt"
	"slices"

	"github.com/stefanpenner/cadence/pkg/task"
)

// DefaultStep is the spacing between reassigned order keys.
const DefaultStep = 1000

// ErrStaleSnapshot means the visual order no longer matches the collection
// it was derived from. Nothing should be written; reload and retry.
var ErrStaleSnapshot = errors.New("task collection changed since the view was built")

// Update assigns a new order key to one task.
type Update struct {
	ID    string  `json:"id"`
	Order float64 `json:"order"`
}

// Reconcile computes the order updates that make visual the new relative
// order of its tasks while every other task keeps its position.
func Reconcile(tasks []*task.Task, visual []string) ([]Update, error) {
	return ReconcileStep(tasks, visual, DefaultStep)
}

// ReconcileStep is Reconcile with a custom key spacing.
func ReconcileStep(tasks []*task.Task, visual []string, step float64) ([]Update, error) {
	if step <= 0 {
		step = DefaultStep
	}

	global := slices.Clone(tasks)
	task.SortByOrder(global)

	byID := make(map[string]*task.Task, len(global))
	for _, t := range global {
		byID[t.ID] = t
	}
	want := make(map[string]bool, len(visual))
	for _, id := range visual {
		if want[id] {
			return nil, fmt.Errorf("%w: %s listed twice", ErrStaleSnapshot, id)
		}
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("%w: %s not found", ErrStaleSnapshot, id)
		}
		want[id] = true
	}

	var slots []int
	for i, t := range global {
		if want[t.ID] {
			slots = append(slots, i)
		}
	}
	if len(slots) != len(visual) {
		return nil, fmt.Errorf("%w: %d slots for %d visible tasks", ErrStaleSnapshot, len(slots), len(visual))
	}

	placed := slices.Clone(global)
	for k, i := range slots {
		placed[i] = byID[visual[k]]
	}

	var updates []Update
	for i, t := range placed {
		order := float64(i+1) * step
		if t.Order != order {
			updates = append(updates, Update{ID: t.ID, Order: order})
		}
	}
	return updates, nil
}

// Apply writes updates onto the matching tasks and re-sorts them.
func Apply(tasks []*task.Task, updates []Update) {
	orders := make(map[string]float64, len(updates))
	for _, u := range updates {
		orders[u.ID] = u.Order
	}
	for _, t := range tasks {
		if o, ok := orders[t.ID]; ok {
			t.Order = o
		}
	}
	task.SortByOrder(tasks)
}

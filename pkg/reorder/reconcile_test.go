package reorder

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/cadence/pkg/task"
)

func collection(orders ...float64) []*task.Task {
	out := make([]*task.Task, len(orders))
	for i, o := range orders {
		out[i] = &task.Task{ID: fmt.Sprintf("t%d", i), Order: o}
	}
	return out
}

func order(tasks []*task.Task) []string {
	sorted := slices.Clone(tasks)
	task.SortByOrder(sorted)
	ids := make([]string, len(sorted))
	for i, t := range sorted {
		ids[i] = t.ID
	}
	return ids
}

func TestReconcileSwapsVisibleSlots(t *testing.T) {
	ts := collection(1000, 2000, 3000, 4000)

	// t1 is hidden; the user swaps t0 and t2.
	updates, err := Reconcile(ts, []string{"t2", "t0", "t3"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []Update{{ID: "t2", Order: 1000}, {ID: "t0", Order: 3000}}, updates)

	Apply(ts, updates)
	assert.Equal(t, []string{"t2", "t1", "t0", "t3"}, order(ts))
}

func TestReconcileKeepsHiddenRanks(t *testing.T) {
	ts := collection(5, 10, 15, 20, 25, 30, 35)

	// t1, t4 and t6 are filtered out and must not move.
	updates, err := Reconcile(ts, []string{"t5", "t3", "t0", "t2"})
	require.NoError(t, err)
	Apply(ts, updates)

	assert.Equal(t, []string{"t5", "t1", "t3", "t0", "t4", "t2", "t6"}, order(ts))
}

func TestReconcileIsIdempotent(t *testing.T) {
	ts := collection(1000, 2000, 3000)

	updates, err := Reconcile(ts, []string{"t0", "t2"})
	require.NoError(t, err)
	assert.Empty(t, updates)
}

func TestReconcileRenumbersIrregularKeys(t *testing.T) {
	ts := collection(1.5, 1700000000000, 3)

	updates, err := Reconcile(ts, []string{"t0", "t2", "t1"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []Update{
		{ID: "t0", Order: 1000},
		{ID: "t2", Order: 2000},
		{ID: "t1", Order: 3000},
	}, updates)

	Apply(ts, updates)
	again, err := Reconcile(ts, []string{"t0", "t2", "t1"})
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestReconcileStaleSnapshot(t *testing.T) {
	ts := collection(1000, 2000, 3000)

	tests := []struct {
		name   string
		visual []string
	}{
		{"removed id", []string{"t0", "gone", "t2"}},
		{"duplicate id", []string{"t0", "t0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updates, err := Reconcile(ts, tt.visual)
			assert.ErrorIs(t, err, ErrStaleSnapshot)
			assert.Nil(t, updates)
		})
	}
	assert.Equal(t, []string{"t0", "t1", "t2"}, order(ts))
}

func TestReconcileTiesKeepCollectionOrder(t *testing.T) {
	ts := collection(0, 0, 0)

	updates, err := Reconcile(ts, []string{"t0", "t1", "t2"})
	require.NoError(t, err)
	assert.Equal(t, []Update{
		{ID: "t0", Order: 1000},
		{ID: "t1", Order: 2000},
		{ID: "t2", Order: 3000},
	}, updates)
}

func TestReconcileStep(t *testing.T) {
	ts := collection(1, 2)

	updates, err := ReconcileStep(ts, []string{"t1", "t0"}, 10)
	require.NoError(t, err)
	assert.Equal(t, []Update{{ID: "t1", Order: 10}, {ID: "t0", Order: 20}}, updates)
}

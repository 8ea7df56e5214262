package tui

import (
	"testing"
	"time"

	"github.com/stefanpenner/cadence/pkg/schedule"
	"github.com/stretchr/testify/assert"
)

func TestScrollWindow(t *testing.T) {
	tests := []struct {
		name               string
		cursor, n, height  int
		wantStart, wantEnd int
	}{
		{"fits", 3, 5, 10, 0, 5},
		{"top", 0, 20, 6, 0, 6},
		{"middle", 10, 20, 6, 7, 13},
		{"bottom", 19, 20, 6, 14, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := scrollWindow(tt.cursor, tt.n, tt.height)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestFit(t *testing.T) {
	assert.Equal(t, []string{"a", "b", ""}, fit([]string{"a", "b"}, 3))
	assert.Equal(t, []string{"a"}, fit([]string{"a", "b"}, 1))
}

func TestDescribeRule(t *testing.T) {
	assert.Equal(t, "weekly", describeRule(schedule.Rule{Kind: schedule.Weekly}))
	assert.Equal(t, "every Mon, Wed", describeRule(schedule.Rule{
		Kind: schedule.Custom,
		Days: []time.Weekday{time.Wednesday, time.Monday},
	}))
}

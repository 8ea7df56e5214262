package task

import (
	"slices"

	"github.com/stefanpenner/cadence/pkg/schedule"
)

// Patch represents a partial update.
// nil pointer => "no change"
type Patch struct {
	Title    *string        `json:"title,omitempty"`
	Notes    *string        `json:"notes,omitempty"`
	Status   *Status        `json:"status,omitempty"`
	Date     *schedule.Date `json:"date,omitempty"`
	ParentID *string        `json:"parentId,omitempty"`
	Order    *float64       `json:"order,omitempty"`
	Tags     *[]string      `json:"tags,omitempty"`
	Sessions *[]Session     `json:"sessions,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Apply writes the patch onto t.
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Date != nil {
		d := *p.Date
		t.Date = &d
	}
	if p.ParentID != nil {
		t.ParentID = *p.ParentID
	}
	if p.Order != nil {
		t.Order = *p.Order
	}
	if p.Tags != nil {
		t.Tags = slices.Clone(*p.Tags)
	}
	if p.Sessions != nil {
		// treat nil slice as empty slice
		t.Sessions = cloneSessions(*p.Sessions)
		if t.Sessions == nil {
			t.Sessions = []Session{}
		}
	}
}

package task

import (
	"time"

	"github.com/stefanpenner/cadence/pkg/schedule"
)

// Transition describes the writes a status toggle needs. Archive, when set,
// is a new record to create; Patch applies to the task with ID.
type Transition struct {
	ID      string
	Archive *Task
	Patch   Patch
}

// RollsForward reports whether the live task was moved to its next occurrence.
func (tr Transition) RollsForward() bool {
	return tr.Patch.Date != nil
}

// Complete builds the transition for marking t complete. Recurring tasks
// leave an archived copy behind and roll forward to their next occurrence;
// when the rule is exhausted or the next date passes EndDate the original is
// completed in place.
func Complete(t *Task, now time.Time) Transition {
	sessions := closeSessions(t.Sessions, now)
	completed := StatusCompleted

	if !t.IsRecurring() {
		return Transition{
			ID:    t.ID,
			Patch: Patch{Status: &completed, Sessions: &sessions},
		}
	}

	archive := t.Clone()
	archive.ID = ""
	archive.Status = StatusCompleted
	archive.Recurrence = schedule.None
	archive.RecurrenceDays = nil
	// EndDate bounded the recurrence; on a one-off it would turn into a span.
	archive.EndDate = nil
	archive.Sessions = cloneSessions(sessions)

	tr := Transition{ID: t.ID, Archive: archive}
	if t.Date != nil {
		next, ok := schedule.Next(*t.Date, t.Rule())
		if ok && (t.EndDate == nil || !next.After(*t.EndDate)) {
			pending := StatusPending
			tr.Patch = Patch{Date: &next, Status: &pending, Sessions: &[]Session{}}
			return tr
		}
	}
	tr.Patch = Patch{Status: &completed, Sessions: &sessions}
	return tr
}

// Reopen builds the transition for marking t pending again. The zero-length
// session left by a manual completion is dropped.
func Reopen(t *Task) Transition {
	pending := StatusPending
	sessions := cloneSessions(t.Sessions)
	if n := len(sessions); n > 0 && isCompletionMarker(sessions[n-1]) {
		sessions = sessions[:n-1]
	}
	if sessions == nil {
		sessions = []Session{}
	}
	return Transition{
		ID:    t.ID,
		Patch: Patch{Status: &pending, Sessions: &sessions},
	}
}

// Toggle completes a pending task or reopens a completed one.
func Toggle(t *Task, now time.Time) Transition {
	if t.IsCompleted() {
		return Reopen(t)
	}
	return Complete(t, now)
}

// StartSession returns a patch that opens a new time-tracking interval.
func StartSession(t *Task, now time.Time) (Patch, error) {
	if t.OpenSession() >= 0 {
		return Patch{}, ErrSessionRunning
	}
	sessions := append(cloneSessions(t.Sessions), Session{Start: now})
	return Patch{Sessions: &sessions}, nil
}

// StopSession returns a patch that closes the running interval.
func StopSession(t *Task, now time.Time) (Patch, error) {
	i := t.OpenSession()
	if i < 0 {
		return Patch{}, ErrNoSession
	}
	sessions := cloneSessions(t.Sessions)
	end := now
	sessions[i].End = &end
	return Patch{Sessions: &sessions}, nil
}

// Tracked returns the total closed session time plus the running interval up to now.
func Tracked(t *Task, now time.Time) time.Duration {
	var total time.Duration
	for _, s := range t.Sessions {
		end := now
		if s.End != nil {
			end = *s.End
		}
		if end.After(s.Start) {
			total += end.Sub(s.Start)
		}
	}
	return total
}

// closeSessions ends any open interval at now. With no sessions at all it
// records a zero-length one marking a manual completion.
func closeSessions(in []Session, now time.Time) []Session {
	if len(in) == 0 {
		end := now
		return []Session{{Start: now, End: &end}}
	}
	out := cloneSessions(in)
	for i := range out {
		if out[i].IsOpen() {
			end := now
			out[i].End = &end
		}
	}
	return out
}

func isCompletionMarker(s Session) bool {
	return s.End != nil && s.End.Equal(s.Start)
}

package till

import (
	"strings"
	"time"
)

// ShiftChange records one handover inside a shift.
type ShiftChange struct {
	At   time.Time `json:"at"`
	From string    `json:"from"`
	To   string    `json:"to"`
}

// DayMeta is the live shift/day record. A nil StartedAt means no shift is
// active. The whole value is replaced at shift start and at day end.
type DayMeta struct {
	StartedBy    string        `json:"startedBy"`
	StartedAt    *time.Time    `json:"startedAt"`
	EndedAt      *time.Time    `json:"endedAt"`
	EndedBy      string        `json:"endedBy"`
	LastReportAt *time.Time    `json:"lastReportAt"`
	ShiftChanges []ShiftChange `json:"shiftChanges"`
}

func normName(s string) string {
	return strings.TrimSpace(s)
}

func sameName(a, b string) bool {
	return strings.EqualFold(normName(a), normName(b))
}

// Active reports whether a shift is running and not yet ended.
func (d *DayMeta) Active() bool {
	return d.StartedAt != nil && d.EndedAt == nil
}

// Start begins a fresh shift, replacing the whole DayMeta. Fails if a shift
// is already active.
func (d *DayMeta) Start(worker string, at time.Time) error {
	if d.Active() {
		return errValidation("shift already started")
	}
	name := normName(worker)
	if name == "" {
		return errIncompleteOrder("worker name")
	}
	*d = DayMeta{StartedBy: name, StartedAt: &at, ShiftChanges: []ShiftChange{}}
	return nil
}

// Handover reattributes the active shift to a new worker. The current worker
// must confirm by name; the shift's start time is unaffected.
func (d *DayMeta) Handover(confirmCurrent, next string, at time.Time) error {
	if !d.Active() {
		return errNoActiveShift()
	}
	if !sameName(confirmCurrent, d.StartedBy) {
		return errNotAuthorized("only " + d.StartedBy + " can hand over the shift")
	}
	newName := normName(next)
	if newName == "" {
		return errInvalidHandover("new worker name is required")
	}
	if sameName(newName, d.StartedBy) {
		return errInvalidHandover("new worker must differ from the current worker")
	}
	d.ShiftChanges = append(d.ShiftChanges, ShiftChange{At: at, From: d.StartedBy, To: newName})
	d.StartedBy = newName
	return nil
}

// ReportView returns a copy with EndedAt/EndedBy filled in for the end-of-day
// report. The live DayMeta is not mutated; the report must describe the day
// being closed, not the fresh empty day.
func (d *DayMeta) ReportView(endedBy string, at time.Time) DayMeta {
	view := *d
	view.EndedAt = &at
	view.EndedBy = normName(endedBy)
	changes := make([]ShiftChange, len(d.ShiftChanges))
	copy(changes, d.ShiftChanges)
	view.ShiftChanges = changes
	return view
}

// Clear replaces the DayMeta with the no-shift value.
func (d *DayMeta) Clear() {
	*d = DayMeta{ShiftChanges: []ShiftChange{}}
}

// Package workspace ties the timetable, ledger and status set of one schedule together and
// exposes the operations a user performs on it.
package workspace

import (
	"strings"

	"github.com/bryan-cox/attendly/internal/calendar"
	"github.com/bryan-cox/attendly/internal/leave"
	"github.com/bryan-cox/attendly/internal/ledger"
	"github.com/bryan-cox/attendly/internal/model"
	"github.com/bryan-cox/attendly/internal/report"
	"github.com/bryan-cox/attendly/internal/schedule"
	"github.com/bryan-cox/attendly/internal/status"
)

// Workspace is one schedule with its attendance. Mutating methods report whether anything
// changed; the session persists only when they do.
type Workspace struct {
	meta     model.Workspace
	registry status.Registry
	schedule *schedule.Model
	ledger   *ledger.Ledger
	newID    func() string
}

// Load builds a workspace from its stored form. Orphaned records and unknown statuses are
// kept as they are.
func Load(ws model.Workspace, newID func() string) *Workspace {
	meta := ws
	meta.Units, meta.Attendance = nil, nil
	meta.Leaves = append([]model.LeaveRecord(nil), ws.Leaves...)
	meta.Events = append([]model.CalendarEvent(nil), ws.Events...)
	return &Workspace{
		meta:     meta,
		registry: status.New(ws.Config.Statuses),
		schedule: schedule.New(ws.Units, newID),
		ledger:   ledger.New(ws.Attendance),
		newID:    newID,
	}
}

// Snapshot returns the serializable form.
func (w *Workspace) Snapshot() model.Workspace {
	ws := w.meta
	ws.Config.Statuses = w.registry.Map()
	ws.Units = w.schedule.Units()
	ws.Attendance = w.ledger.Records()
	ws.Leaves = append([]model.LeaveRecord(nil), w.meta.Leaves...)
	ws.Events = append([]model.CalendarEvent(nil), w.meta.Events...)
	return ws
}

func (w *Workspace) ID() string { return w.meta.ID }
func (w *Workspace) Name() string { return w.meta.Name }
func (w *Workspace) OwnerID() string { return w.meta.OwnerID }
func (w *Workspace) Target() int { return w.meta.TargetPercentage }
func (w *Workspace) UnitName() string { return w.meta.Config.UnitName }
func (w *Workspace) Type() string { return w.meta.Config.Type }
func (w *Workspace) Registry() status.Registry { return w.registry }

// ToggleAttendance marks, re-marks or clears one unit on one date.
func (w *Workspace) ToggleAttendance(date, unitID, statusKey string) bool {
	if _, err := calendar.Parse(date); err != nil || unitID == "" || statusKey == "" {
		return false
	}
	w.ledger.Toggle(date, unitID, statusKey)
	return true
}

// Status returns the mark at (date, unitID).
func (w *Workspace) Status(date, unitID string) (string, bool) {
	return w.ledger.Get(date, unitID)
}

// ApplyLeave logs a leave and marks every covered unit LEAVE.
func (w *Workspace) ApplyLeave(startDate, endDate, reason string) (model.LeaveRecord, bool) {
	rec, ok := leave.Apply(startDate, endDate, reason, w.schedule, w.ledger, w.newID)
	if !ok {
		return model.LeaveRecord{}, false
	}
	w.meta.Leaves = append(w.meta.Leaves, rec)
	return rec, true
}

// Leaves returns the leave log.
func (w *Workspace) Leaves() []model.LeaveRecord {
	return append([]model.LeaveRecord(nil), w.meta.Leaves...)
}

// RemoveLeave drops a leave from the log. The LEAVE marks it produced stay.
func (w *Workspace) RemoveLeave(id string) bool {
	for i, l := range w.meta.Leaves {
		if l.ID == id {
			w.meta.Leaves = append(w.meta.Leaves[:i], w.meta.Leaves[i+1:]...)
			return true
		}
	}
	return false
}

// Records returns all attendance records.
func (w *Workspace) Records() []model.AttendanceRecord {
	return w.ledger.Records()
}

// OverallTotals returns the count and credit behind OverallPercentage.
func (w *Workspace) OverallTotals() report.Totals {
	return report.OverallTotals(w.registry, w.ledger.Records())
}

// OverallPercentage is the weighted attendance across the workspace.
func (w *Workspace) OverallPercentage() int {
	return report.OverallPercentage(w.registry, w.ledger.Records())
}

// SubjectStats is the weighted attendance per subject title.
func (w *Workspace) SubjectStats() []model.SubjectStat {
	return report.SubjectStats(w.registry, w.schedule, w.ledger.Records())
}

// DaySheets lists the timetable and marks for every date in [start, end].
func (w *Workspace) DaySheets(start, end calendar.Date) []report.DaySheet {
	var sheets []report.DaySheet
	for _, d := range calendar.Range(start, end) {
		sheets = append(sheets, report.DaySheet{
			Date:  d,
			Units: w.schedule.UnitsForDay(d.Weekday()),
			Marks: w.ledger.ForDate(d.String()),
		})
	}
	return sheets
}

// UnitsForDay returns the units on a weekday, earliest first.
func (w *Workspace) UnitsForDay(dayOfWeek int) []model.ScheduleUnit {
	return w.schedule.UnitsForDay(dayOfWeek)
}

// Units returns every unit.
func (w *Workspace) Units() []model.ScheduleUnit {
	return w.schedule.Units()
}

// AddUnit creates a unit. Empty titles are ignored.
func (w *Workspace) AddUnit(u model.ScheduleUnit) (model.ScheduleUnit, bool) {
	u.Title = strings.TrimSpace(u.Title)
	return w.schedule.Add(u)
}

// EditUnit updates a unit in place. Empty titles are ignored.
func (w *Workspace) EditUnit(u model.ScheduleUnit) bool {
	u.Title = strings.TrimSpace(u.Title)
	return w.schedule.Edit(u)
}

// RemoveUnit deletes a unit and leaves its attendance as orphaned records.
func (w *Workspace) RemoveUnit(id string) bool {
	return w.schedule.Remove(id)
}

// SetStatus adds or replaces one status definition.
func (w *Workspace) SetStatus(key string, def model.StatusDefinition) error {
	if err := status.ValidateDefinition(key, def); err != nil {
		return err
	}
	m := w.registry.Map()
	def.Key, def.Countable = "", false
	m[key] = def
	w.registry = status.New(m)
	return nil
}

// RemoveStatus deletes a status. The last status cannot be removed. Records using the key
// stay and drop out of aggregation.
func (w *Workspace) RemoveStatus(key string) (bool, error) {
	m := w.registry.Map()
	if _, ok := m[key]; !ok {
		return false, nil
	}
	delete(m, key)
	if err := status.Validate(m); err != nil {
		return false, err
	}
	w.registry = status.New(m)
	return true, nil
}

// ReplaceStatuses swaps the whole status set.
func (w *Workspace) ReplaceStatuses(statuses map[string]model.StatusDefinition) error {
	if err := status.Validate(statuses); err != nil {
		return err
	}
	w.registry = status.New(statuses)
	return nil
}

// SetTarget changes the target percentage. Values outside 0-100 are ignored.
func (w *Workspace) SetTarget(pct int) bool {
	if pct < 0 || pct > 100 || pct == w.meta.TargetPercentage {
		return false
	}
	w.meta.TargetPercentage = pct
	return true
}

// Events returns the calendar events.
func (w *Workspace) Events() []model.CalendarEvent {
	return append([]model.CalendarEvent(nil), w.meta.Events...)
}

// AddEvent stores a calendar event. Empty titles and bad dates are ignored.
func (w *Workspace) AddEvent(e model.CalendarEvent) (model.CalendarEvent, bool) {
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		return model.CalendarEvent{}, false
	}
	if _, err := calendar.Parse(e.Date); err != nil {
		return model.CalendarEvent{}, false
	}
	if e.Type == "" {
		e.Type = model.EventEvent
	}
	e.ID = w.newID()
	w.meta.Events = append(w.meta.Events, e)
	return e, true
}

// RemoveEvent deletes an event.
func (w *Workspace) RemoveEvent(id string) bool {
	for i, e := range w.meta.Events {
		if e.ID == id {
			w.meta.Events = append(w.meta.Events[:i], w.meta.Events[i+1:]...)
			return true
		}
	}
	return false
}

// MarkNotified flags events so they are not announced again.
func (w *Workspace) MarkNotified(ids []string) bool {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	changed := false
	for i := range w.meta.Events {
		if want[w.meta.Events[i].ID] && !w.meta.Events[i].HasNotified {
			w.meta.Events[i].HasNotified = true
			changed = true
		}
	}
	return changed
}

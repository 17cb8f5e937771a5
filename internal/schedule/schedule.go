// Package schedule keeps the weekly timetable of a workspace.
package schedule

import (
	"sort"
	"strings"

	"github.com/bryan-cox/attendly/internal/model"
)

// Model is the set of recurring units. Order of insertion is kept.
type Model struct {
	units []model.ScheduleUnit
	newID func() string
}

// New builds a model from existing units. newID generates ids for added units.
func New(units []model.ScheduleUnit, newID func() string) *Model {
	return &Model{units: append([]model.ScheduleUnit(nil), units...), newID: newID}
}

func valid(u model.ScheduleUnit) bool {
	return strings.TrimSpace(u.Title) != "" && u.DayOfWeek >= 0 && u.DayOfWeek <= 6
}

// UnitsForDay returns the units on dayOfWeek (Sunday = 0) sorted by start time. A missing
// start time sorts before every timed unit.
func (m *Model) UnitsForDay(dayOfWeek int) []model.ScheduleUnit {
	var out []model.ScheduleUnit
	for _, u := range m.units {
		if u.DayOfWeek == dayOfWeek {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// Lookup finds a unit by id.
func (m *Model) Lookup(id string) (model.ScheduleUnit, bool) {
	for _, u := range m.units {
		if u.ID == id {
			return u, true
		}
	}
	return model.ScheduleUnit{}, false
}

// Add stores a new unit under a fresh id. Units with an empty title or a day outside 0-6
// are ignored.
func (m *Model) Add(u model.ScheduleUnit) (model.ScheduleUnit, bool) {
	if !valid(u) {
		return model.ScheduleUnit{}, false
	}
	u.ID = m.newID()
	m.units = append(m.units, u)
	return u, true
}

// Edit replaces the fields of the unit with u.ID. The id itself never changes.
func (m *Model) Edit(u model.ScheduleUnit) bool {
	if !valid(u) {
		return false
	}
	for i := range m.units {
		if m.units[i].ID == u.ID {
			m.units[i] = u
			return true
		}
	}
	return false
}

// Remove deletes the unit. Attendance recorded against it is left alone.
func (m *Model) Remove(id string) bool {
	for i := range m.units {
		if m.units[i].ID == id {
			m.units = append(m.units[:i], m.units[i+1:]...)
			return true
		}
	}
	return false
}

// Units returns a copy of all units in insertion order.
func (m *Model) Units() []model.ScheduleUnit {
	return append([]model.ScheduleUnit(nil), m.units...)
}

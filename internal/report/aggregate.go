// Package report computes attendance percentages and prints them.
package report

import (
	"math"

	"github.com/bryan-cox/attendly/internal/model"
)

// Registry resolves status keys to their definitions.
type Registry interface {
	Lookup(key string) (model.StatusDefinition, bool)
}

// Units resolves unit ids to units.
type Units interface {
	Lookup(id string) (model.ScheduleUnit, bool)
}

// Totals is the raw count behind a percentage.
type Totals struct {
	Total  int
	Earned float64
}

// Percentage rounds earned/total to a whole percent, half away from zero. Zero total gives 0.
func (t Totals) Percentage() int {
	if t.Total == 0 {
		return 0
	}
	return int(math.Round(t.Earned / float64(t.Total) * 100))
}

// OverallTotals sums every record whose status is known to the registry.
func OverallTotals(reg Registry, records []model.AttendanceRecord) Totals {
	var t Totals
	for _, r := range records {
		def, ok := reg.Lookup(r.Status)
		if !ok {
			continue
		}
		t.Total++
		t.Earned += def.Weight
	}
	return t
}

// OverallPercentage is the weighted attendance across all known records.
func OverallPercentage(reg Registry, records []model.AttendanceRecord) int {
	return OverallTotals(reg, records).Percentage()
}

// SubjectStats groups records by the title of their unit. Records of deleted units are
// skipped, as are unknown and non-countable statuses. Subjects with nothing counted are
// dropped. Subjects appear in the order their first record appears.
func SubjectStats(reg Registry, units Units, records []model.AttendanceRecord) []model.SubjectStat {
	var order []string
	groups := make(map[string]*Totals)

	for _, r := range records {
		unit, ok := units.Lookup(r.UnitID)
		if !ok {
			continue
		}
		g, seen := groups[unit.Title]
		if !seen {
			g = &Totals{}
			groups[unit.Title] = g
			order = append(order, unit.Title)
		}
		def, ok := reg.Lookup(r.Status)
		if !ok || !def.Countable {
			continue
		}
		g.Total++
		g.Earned += def.Weight
	}

	stats := []model.SubjectStat{}
	for _, title := range order {
		g := groups[title]
		if g.Total == 0 {
			continue
		}
		stats = append(stats, model.SubjectStat{Title: title, Percentage: g.Percentage(), TotalClasses: g.Total})
	}
	return stats
}

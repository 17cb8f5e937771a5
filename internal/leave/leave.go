// Package leave turns a leave range into LEAVE marks on every scheduled unit in it.
package leave

import (
	"github.com/bryan-cox/attendly/internal/calendar"
	"github.com/bryan-cox/attendly/internal/model"
)

// Schedule is the part of the timetable leave propagation reads.
type Schedule interface {
	UnitsForDay(dayOfWeek int) []model.ScheduleUnit
}

// Ledger is the part of the attendance ledger leave propagation writes.
type Ledger interface {
	Merge(records []model.AttendanceRecord)
}

// Expand returns the LEAVE records for every unit scheduled between start and end
// inclusive. ok is false when either bound is missing or unparseable, or end precedes start.
func Expand(startDate, endDate string, sched Schedule) ([]model.AttendanceRecord, bool) {
	if startDate == "" || endDate == "" {
		return nil, false
	}
	start, err := calendar.Parse(startDate)
	if err != nil {
		return nil, false
	}
	end, err := calendar.Parse(endDate)
	if err != nil || end.Before(start) {
		return nil, false
	}

	records := []model.AttendanceRecord{}
	for _, d := range calendar.Range(start, end) {
		date := d.String()
		for _, u := range sched.UnitsForDay(d.Weekday()) {
			records = append(records, model.AttendanceRecord{Date: date, UnitID: u.ID, Status: model.StatusLeave})
		}
	}
	return records, true
}

// Apply logs a leave and overwrites the attendance of every unit it covers with LEAVE.
// Invalid ranges change nothing and return ok == false.
func Apply(startDate, endDate, reason string, sched Schedule, l Ledger, newID func() string) (model.LeaveRecord, bool) {
	records, ok := Expand(startDate, endDate, sched)
	if !ok {
		return model.LeaveRecord{}, false
	}
	rec := model.LeaveRecord{
		ID:        newID(),
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    reason,
	}
	l.Merge(records)
	return rec, true
}

// Package ledger stores attendance marks keyed by date and unit.
package ledger

import "github.com/bryan-cox/attendly/internal/model"

type key struct {
	date   string
	unitID string
}

// Ledger holds at most one record per (date, unit id). Records keep insertion order.
type Ledger struct {
	records []model.AttendanceRecord
	index   map[key]int
}

// New loads records as-is. A later record for an already seen key replaces the earlier one.
func New(records []model.AttendanceRecord) *Ledger {
	l := &Ledger{index: make(map[key]int, len(records))}
	l.Merge(records)
	return l
}

// Get returns the status at (date, unitID).
func (l *Ledger) Get(date, unitID string) (string, bool) {
	i, ok := l.index[key{date, unitID}]
	if !ok {
		return "", false
	}
	return l.records[i].Status, true
}

// Toggle inserts the mark, clears it when the same status is already set, or overwrites
// a different status.
func (l *Ledger) Toggle(date, unitID, status string) {
	k := key{date, unitID}
	i, ok := l.index[k]
	switch {
	case !ok:
		l.insert(model.AttendanceRecord{Date: date, UnitID: unitID, Status: status})
	case l.records[i].Status == status:
		l.remove(i)
	default:
		l.records[i].Status = status
	}
}

// Set writes status at (date, unitID), replacing any existing mark.
func (l *Ledger) Set(date, unitID, status string) {
	l.put(model.AttendanceRecord{Date: date, UnitID: unitID, Status: status})
}

// Merge writes every record, replacing marks at the same key. Other keys are untouched.
func (l *Ledger) Merge(records []model.AttendanceRecord) {
	for _, r := range records {
		l.put(r)
	}
}

// Delete clears the mark at (date, unitID).
func (l *Ledger) Delete(date, unitID string) bool {
	i, ok := l.index[key{date, unitID}]
	if ok {
		l.remove(i)
	}
	return ok
}

// Records returns a copy of all records in insertion order.
func (l *Ledger) Records() []model.AttendanceRecord {
	return append([]model.AttendanceRecord(nil), l.records...)
}

// ForDate returns the marks on one date keyed by unit id.
func (l *Ledger) ForDate(date string) map[string]string {
	out := make(map[string]string)
	for _, r := range l.records {
		if r.Date == date {
			out[r.UnitID] = r.Status
		}
	}
	return out
}

// Len is the number of records.
func (l *Ledger) Len() int {
	return len(l.records)
}

func (l *Ledger) put(r model.AttendanceRecord) {
	if i, ok := l.index[key{r.Date, r.UnitID}]; ok {
		l.records[i].Status = r.Status
		return
	}
	l.insert(r)
}

func (l *Ledger) insert(r model.AttendanceRecord) {
	l.index[key{r.Date, r.UnitID}] = len(l.records)
	l.records = append(l.records, r)
}

func (l *Ledger) remove(i int) {
	delete(l.index, key{l.records[i].Date, l.records[i].UnitID})
	l.records = append(l.records[:i], l.records[i+1:]...)
	for j := i; j < len(l.records); j++ {
		l.index[key{l.records[j].Date, l.records[j].UnitID}] = j
	}
}

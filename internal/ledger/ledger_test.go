package ledger

import (
	"math/rand"
	"testing"

	"github.com/bryan-cox/attendly/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleSameStatusClears(t *testing.T) {
	l := New(nil)
	l.Toggle("2024-01-01", "U1", "PRESENT")
	status, ok := l.Get("2024-01-01", "U1")
	require.True(t, ok)
	assert.Equal(t, "PRESENT", status)

	l.Toggle("2024-01-01", "U1", "PRESENT")
	_, ok = l.Get("2024-01-01", "U1")
	assert.False(t, ok)
	assert.Equal(t, 0, l.Len())
}

func TestToggleDifferentStatusOverwrites(t *testing.T) {
	l := New(nil)
	l.Toggle("2024-01-01", "U1", "PRESENT")
	l.Toggle("2024-01-01", "U1", "ABSENT")

	assert.Equal(t, []model.AttendanceRecord{{Date: "2024-01-01", UnitID: "U1", Status: "ABSENT"}}, l.Records())
}

func TestToggleRestoresPriorState(t *testing.T) {
	l := New([]model.AttendanceRecord{
		{Date: "2024-01-01", UnitID: "U1", Status: "PRESENT"},
		{Date: "2024-01-02", UnitID: "U1", Status: "ABSENT"},
	})
	before := l.Records()

	l.Toggle("2024-01-03", "U2", "BUNK")
	l.Toggle("2024-01-03", "U2", "BUNK")

	assert.Equal(t, before, l.Records())
}

func TestMergeOverwritesOnlyMatchingKeys(t *testing.T) {
	l := New([]model.AttendanceRecord{
		{Date: "2024-01-01", UnitID: "U1", Status: "PRESENT"},
		{Date: "2024-01-01", UnitID: "U2", Status: "ABSENT"},
	})
	l.Merge([]model.AttendanceRecord{
		{Date: "2024-01-01", UnitID: "U1", Status: "LEAVE"},
		{Date: "2024-01-02", UnitID: "U1", Status: "LEAVE"},
	})

	assert.Equal(t, []model.AttendanceRecord{
		{Date: "2024-01-01", UnitID: "U1", Status: "LEAVE"},
		{Date: "2024-01-01", UnitID: "U2", Status: "ABSENT"},
		{Date: "2024-01-02", UnitID: "U1", Status: "LEAVE"},
	}, l.Records())
}

func TestNewCollapsesDuplicateKeys(t *testing.T) {
	l := New([]model.AttendanceRecord{
		{Date: "2024-01-01", UnitID: "U1", Status: "PRESENT"},
		{Date: "2024-01-01", UnitID: "U1", Status: "ABSENT"},
	})
	assert.Equal(t, 1, l.Len())
	status, _ := l.Get("2024-01-01", "U1")
	assert.Equal(t, "ABSENT", status)
}

func TestDeleteKeepsIndexConsistent(t *testing.T) {
	l := New([]model.AttendanceRecord{
		{Date: "d1", UnitID: "U1", Status: "PRESENT"},
		{Date: "d2", UnitID: "U1", Status: "ABSENT"},
		{Date: "d3", UnitID: "U1", Status: "BUNK"},
	})
	assert.True(t, l.Delete("d1", "U1"))
	assert.False(t, l.Delete("d1", "U1"))

	status, ok := l.Get("d3", "U1")
	require.True(t, ok)
	assert.Equal(t, "BUNK", status)
	assert.Equal(t, map[string]string{"U1": "ABSENT"}, l.ForDate("d2"))
}

func TestAtMostOnePerKeyUnderRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	units := []string{"U1", "U2"}
	statuses := []string{"PRESENT", "ABSENT", "LEAVE"}

	l := New(nil)
	for i := 0; i < 500; i++ {
		d := dates[rng.Intn(len(dates))]
		u := units[rng.Intn(len(units))]
		s := statuses[rng.Intn(len(statuses))]
		if rng.Intn(3) == 0 {
			l.Merge([]model.AttendanceRecord{{Date: d, UnitID: u, Status: s}})
		} else {
			l.Toggle(d, u, s)
		}

		seen := map[[2]string]bool{}
		for _, r := range l.Records() {
			k := [2]string{r.Date, r.UnitID}
			require.False(t, seen[k], "duplicate key %v after op %d", k, i)
			seen[k] = true
			got, ok := l.Get(r.Date, r.UnitID)
			require.True(t, ok)
			require.Equal(t, r.Status, got)
		}
	}
}

package workspace

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/bryan-cox/attendly/internal/model"
	"github.com/bryan-cox/attendly/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqID() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}
}

type recordingPersister struct {
	calls []model.Workspace
	count int
	err   error
}

func (p *recordingPersister) Persist(ownerID string, ws []model.Workspace) error {
	p.count++
	p.calls = ws
	return p.err
}

func academicWorkspace(t *testing.T) model.Workspace {
	t.Helper()
	cfg, err := status.Template(model.ScheduleAcademic, nil)
	require.NoError(t, err)
	return model.Workspace{
		ID:               "ws1",
		OwnerID:          "usr1",
		Name:             "Main Schedule",
		Config:           cfg,
		TargetPercentage: 75,
		Units: []model.ScheduleUnit{
			{ID: "U1", Title: "Math", DayOfWeek: 1, StartTime: "09:00"},
		},
	}
}

func TestLoadAcceptsOrphansAndUnknownStatuses(t *testing.T) {
	ws := academicWorkspace(t)
	ws.Attendance = []model.AttendanceRecord{
		{Date: "2024-01-01", UnitID: "U1", Status: "PRESENT"},
		{Date: "2024-01-01", UnitID: "ghost", Status: "ABSENT"},
		{Date: "2024-01-08", UnitID: "U1", Status: "WEIRD"},
	}
	w := Load(ws, seqID())

	assert.Equal(t, 50, w.OverallPercentage())
	assert.Equal(t, []model.SubjectStat{{Title: "Math", Percentage: 100, TotalClasses: 1}}, w.SubjectStats())
	assert.Equal(t, ws.Attendance, w.Snapshot().Attendance)
}

func TestScenarioLeaveWithoutLeaveStatus(t *testing.T) {
	ws := academicWorkspace(t)
	ws.Config.Statuses = map[string]model.StatusDefinition{"PRESENT": {Weight: 1}, "ABSENT": {Weight: 0}}
	ws.Attendance = []model.AttendanceRecord{{Date: "2023-12-25", UnitID: "U1", Status: "PRESENT"}}
	w := Load(ws, seqID())

	_, ok := w.ApplyLeave("2024-01-01", "2024-01-01", "sick")
	require.True(t, ok)
	st, _ := w.Status("2024-01-01", "U1")
	assert.Equal(t, "LEAVE", st)
	assert.Equal(t, 1, w.OverallTotals().Total, "LEAVE is unknown to this registry")
	assert.Equal(t, 100, w.OverallPercentage())
}

func TestRemoveUnitKeepsRecords(t *testing.T) {
	w := Load(academicWorkspace(t), seqID())
	require.True(t, w.ToggleAttendance("2024-01-01", "U1", "PRESENT"))
	require.True(t, w.RemoveUnit("U1"))

	assert.Len(t, w.Records(), 1)
	assert.Empty(t, w.SubjectStats())
	assert.Equal(t, 100, w.OverallPercentage())
}

func TestToggleRejectsBadInput(t *testing.T) {
	w := Load(academicWorkspace(t), seqID())
	assert.False(t, w.ToggleAttendance("not-a-date", "U1", "PRESENT"))
	assert.False(t, w.ToggleAttendance("2024-01-01", "", "PRESENT"))
	assert.False(t, w.ToggleAttendance("2024-01-01", "U1", ""))
	assert.Empty(t, w.Records())
}

func TestStatusEditing(t *testing.T) {
	w := Load(academicWorkspace(t), seqID())

	require.NoError(t, w.SetStatus("HALF", model.StatusDefinition{Label: "Half", Weight: 0.5}))
	def, ok := w.Registry().Lookup("HALF")
	require.True(t, ok)
	assert.Equal(t, 0.5, def.Weight)

	assert.ErrorIs(t, w.SetStatus("BAD", model.StatusDefinition{Weight: 2}), status.ErrWeightOutOfRange)
	assert.ErrorIs(t, w.SetStatus("WEIRD", model.StatusDefinition{Weight: math.NaN()}), status.ErrWeightOutOfRange)
	require.True(t, w.ToggleAttendance("2024-01-01", "U1", "WEIRD"))
	assert.Equal(t, 0, w.OverallPercentage())
	assert.Empty(t, w.SubjectStats())
	require.True(t, w.ToggleAttendance("2024-01-01", "U1", "WEIRD"))

	removed, err := w.RemoveStatus("HALF")
	require.NoError(t, err)
	assert.True(t, removed)

	require.NoError(t, w.ReplaceStatuses(map[string]model.StatusDefinition{"ONLY": {Weight: 1}}))
	_, err = w.RemoveStatus("ONLY")
	assert.ErrorIs(t, err, status.ErrEmptyStatuses)
	assert.Equal(t, 1, w.Registry().Len())

	assert.ErrorIs(t, w.ReplaceStatuses(nil), status.ErrEmptyStatuses)
}

func TestEventsAndNotified(t *testing.T) {
	w := Load(academicWorkspace(t), seqID())

	_, ok := w.AddEvent(model.CalendarEvent{Title: " ", Date: "2024-01-01"})
	assert.False(t, ok)
	_, ok = w.AddEvent(model.CalendarEvent{Title: "Exam", Date: "someday"})
	assert.False(t, ok)

	e, ok := w.AddEvent(model.CalendarEvent{Title: "Finals", Date: "2024-05-01", Type: model.EventExam})
	require.True(t, ok)
	assert.True(t, w.MarkNotified([]string{e.ID}))
	assert.False(t, w.MarkNotified([]string{e.ID}), "already notified")
	assert.True(t, w.Events()[0].HasNotified)

	assert.True(t, w.RemoveEvent(e.ID))
	assert.Empty(t, w.Events())
}

func TestSessionPersistsAcceptedMutationsOnly(t *testing.T) {
	p := &recordingPersister{}
	s := NewSession(model.UserProfile{ID: "usr1"}, []model.Workspace{academicWorkspace(t)}, p, WithIDs(seqID()))

	assert.True(t, s.ToggleAttendance("2024-01-01", "U1", "PRESENT"))
	assert.Equal(t, 1, p.count)

	_, ok := s.ApplyLeave("2024-01-05", "2024-01-01", "backwards")
	assert.False(t, ok)
	assert.Equal(t, 1, p.count, "no-op does not persist")

	rec, ok := s.ApplyLeave("2024-01-01", "2024-01-07", "trip")
	require.True(t, ok)
	assert.Equal(t, 2, p.count)
	require.Len(t, p.calls, 1)
	assert.Equal(t, []model.LeaveRecord{rec}, p.calls[0].Leaves)
	assert.Equal(t, []model.AttendanceRecord{{Date: "2024-01-01", UnitID: "U1", Status: "LEAVE"}}, p.calls[0].Attendance)
}

func TestSessionIgnoresPersistFailure(t *testing.T) {
	p := &recordingPersister{err: errors.New("disk full")}
	s := NewSession(model.UserProfile{ID: "usr1"}, []model.Workspace{academicWorkspace(t)}, p)

	assert.True(t, s.ToggleAttendance("2024-01-01", "U1", "PRESENT"))
	st, ok := s.Active().Status("2024-01-01", "U1")
	require.True(t, ok, "memory is kept after a failed write")
	assert.Equal(t, "PRESENT", st)
}

func TestSessionScopesToOwner(t *testing.T) {
	mine := academicWorkspace(t)
	theirs := academicWorkspace(t)
	theirs.ID, theirs.OwnerID = "ws2", "usr2"

	s := NewSession(model.UserProfile{ID: "usr1"}, []model.Workspace{mine, theirs}, nil)
	require.Len(t, s.Workspaces(), 1)
	_, err := s.Select("ws2")
	assert.ErrorIs(t, err, ErrWorkspaceNotFound)
}

func TestCreateWorkspace(t *testing.T) {
	p := &recordingPersister{}
	now := func() time.Time { return time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC) }
	s := NewSession(model.UserProfile{ID: "usr1"}, nil, p, WithIDs(seqID()), WithClock(now))
	assert.Nil(t, s.Active())

	_, created, err := s.CreateWorkspace("  ", model.ScheduleAcademic, nil)
	assert.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 0, p.count)

	_, _, err = s.CreateWorkspace("Gym", model.ScheduleCustom, nil)
	assert.ErrorIs(t, err, status.ErrEmptyStatuses)

	w, created, err := s.CreateWorkspace("Gym", model.ScheduleCustom, []status.Custom{{Label: "Done", Weight: 1}})
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, "id1", w.ID())
	assert.Equal(t, DefaultTarget, w.Target())
	assert.Equal(t, "2024-01-01T08:00:00Z", w.Snapshot().CreatedAt)
	assert.Same(t, w, s.Active())
	assert.Equal(t, 1, p.count)

	got, err := s.Select("gym")
	require.NoError(t, err)
	assert.Same(t, w, got)
}

func TestNewSessionWarnsOnInvalidStatuses(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	bad := academicWorkspace(t)
	bad.Config.Statuses = map[string]model.StatusDefinition{"PRESENT": {Weight: 3}}
	bad.Attendance = []model.AttendanceRecord{{Date: "2024-01-01", UnitID: "U1", Status: "PRESENT"}}
	good := academicWorkspace(t)
	good.ID = "ws2"

	s := NewSession(model.UserProfile{ID: "usr1"}, []model.Workspace{bad, good}, nil, WithLogger(logger))

	require.Len(t, s.Workspaces(), 2)
	assert.Equal(t, 1, strings.Count(logs.String(), "stored statuses are invalid"))
	assert.Contains(t, logs.String(), "workspace_id=ws1")
	// The snapshot is still used as stored.
	assert.Equal(t, 300, s.Workspaces()[0].OverallPercentage())
}

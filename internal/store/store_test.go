package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryan-cox/attendly/internal/model"
)

func TestOpenMissingFileIsEmpty(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "none.yml"))
	require.NoError(t, err)
	assert.Empty(t, s.Snapshot().Users)
	assert.Empty(t, s.Snapshot().Workspaces)
}

func TestOpenRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("users: [\n"), 0o644))
	_, err := Open(path)
	assert.ErrorContains(t, err, "could not parse YAML")
}

func TestCreateUserAndAuthenticate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attendly.yml")
	s, err := Open(path)
	require.NoError(t, err)

	user, err := s.CreateUser("Alice", "hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", user.PasswordHash)
	assert.Equal(t, 75, user.Preferences.DefaultTarget)
	assert.Equal(t, 60, user.Preferences.DangerThreshold)

	_, err = s.CreateUser("alice", "other")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = s.CreateUser("", "pw")
	assert.ErrorIs(t, err, ErrEmptyCredentials)

	reopened, err := Open(path)
	require.NoError(t, err)
	got, err := reopened.Authenticate("ALICE", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = reopened.Authenticate("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = reopened.Authenticate("bob", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPersistReplacesOnlyOwnersWorkspaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attendly.yml")
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Persist("usr1", []model.Workspace{{ID: "a", OwnerID: "usr1", Name: "A"}}))
	require.NoError(t, s.Persist("usr2", []model.Workspace{{ID: "b", OwnerID: "usr2", Name: "B"}}))
	require.NoError(t, s.Persist("usr1", []model.Workspace{
		{ID: "a", OwnerID: "usr1", Name: "A2"},
		{ID: "x", OwnerID: "usr2", Name: "smuggled"},
	}))

	reopened, err := Open(path)
	require.NoError(t, err)
	mine := reopened.WorkspacesFor("usr1")
	require.Len(t, mine, 1)
	assert.Equal(t, "A2", mine[0].Name)
	theirs := reopened.WorkspacesFor("usr2")
	require.Len(t, theirs, 1)
	assert.Equal(t, "B", theirs[0].Name)
}

func TestRoundTripKeepsAttendance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attendly.yml")
	s, err := Open(path)
	require.NoError(t, err)

	ws := model.Workspace{
		ID:      "a",
		OwnerID: "usr1",
		Config: model.ScheduleConfig{
			Type:     model.ScheduleSabha,
			UnitName: "Session",
			Statuses: map[string]model.StatusDefinition{"PRESENT": {Label: "Attended", Weight: 1}},
		},
		TargetPercentage: 80,
		Units:            []model.ScheduleUnit{{ID: "U1", Title: "Evening", DayOfWeek: 0, StartTime: "18:00"}},
		Attendance:       []model.AttendanceRecord{{Date: "2024-01-07", UnitID: "U1", Status: "PRESENT"}},
		Leaves:           []model.LeaveRecord{{ID: "l1", StartDate: "2024-02-01", EndDate: "2024-02-03", Reason: "travel"}},
	}
	require.NoError(t, s.Persist("usr1", []model.Workspace{ws}))

	reopened, err := Open(path)
	require.NoError(t, err)
	got := reopened.WorkspacesFor("usr1")
	require.Len(t, got, 1)
	assert.Equal(t, ws, got[0])
}

package workspace

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/bryan-cox/attendly/internal/model"
	"github.com/bryan-cox/attendly/internal/status"
)

// ErrWorkspaceNotFound is returned when a workspace id or name matches nothing.
var ErrWorkspaceNotFound = errors.New("workspace not found")

// DefaultTarget is the target percentage of new workspaces.
const DefaultTarget = 75

// Persister writes a user's workspaces after every accepted change.
type Persister interface {
	Persist(ownerID string, workspaces []model.Workspace) error
}

// Session is a signed-in user with their workspaces. It replaces ambient application
// state: callers pass it explicitly and mutate it only through its methods.
type Session struct {
	user       model.UserProfile
	workspaces []*Workspace
	active     int
	persister  Persister
	newID      func() string
	now        func() time.Time
	logger     *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithIDs sets the id generator.
func WithIDs(newID func() string) Option {
	return func(s *Session) { s.newID = newID }
}

// WithClock sets the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// NewSession opens the user's workspaces. Workspaces owned by anyone else are dropped.
func NewSession(user model.UserProfile, workspaces []model.Workspace, p Persister, opts ...Option) *Session {
	s := &Session{
		user:      user,
		persister: p,
		newID:     NewID,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, ws := range workspaces {
		if ws.OwnerID != user.ID {
			continue
		}
		if err := status.Validate(ws.Config.Statuses); err != nil {
			s.logger.Warn("stored statuses are invalid, percentages may be off", "error", err, "workspace_id", ws.ID)
		}
		s.workspaces = append(s.workspaces, Load(ws, s.newID))
	}
	return s
}

// User is the signed-in user.
func (s *Session) User() model.UserProfile {
	return s.user
}

// Workspaces returns all of the user's workspaces.
func (s *Session) Workspaces() []*Workspace {
	return append([]*Workspace(nil), s.workspaces...)
}

// Active returns the selected workspace, or nil when the user has none.
func (s *Session) Active() *Workspace {
	if len(s.workspaces) == 0 {
		return nil
	}
	return s.workspaces[s.active]
}

// Select makes the workspace with the given id or (case-insensitive) name active.
func (s *Session) Select(ref string) (*Workspace, error) {
	for i, w := range s.workspaces {
		if w.ID() == ref {
			s.active = i
			return w, nil
		}
	}
	for i, w := range s.workspaces {
		if strings.EqualFold(w.Name(), ref) {
			s.active = i
			return w, nil
		}
	}
	return nil, ErrWorkspaceNotFound
}

// CreateWorkspace adds a workspace built from a schedule template and makes it active.
// An empty name is ignored and reported with ok == false.
func (s *Session) CreateWorkspace(name, scheduleType string, custom []status.Custom) (w *Workspace, ok bool, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, nil
	}
	cfg, err := status.Template(scheduleType, custom)
	if err != nil {
		return nil, false, err
	}
	target := s.user.Preferences.DefaultTarget
	if target <= 0 {
		target = DefaultTarget
	}
	w = Load(model.Workspace{
		ID:               s.newID(),
		OwnerID:          s.user.ID,
		CreatedAt:        s.now().UTC().Format(time.RFC3339),
		Name:             name,
		Config:           cfg,
		TargetPercentage: target,
	}, s.newID)
	s.workspaces = append(s.workspaces, w)
	s.active = len(s.workspaces) - 1
	s.save()
	return w, true, nil
}

// Do runs fn against the active workspace and persists when fn reports a change.
func (s *Session) Do(fn func(w *Workspace) bool) bool {
	w := s.Active()
	if w == nil {
		return false
	}
	if !fn(w) {
		return false
	}
	s.save()
	return true
}

// ToggleAttendance toggles a mark on the active workspace.
func (s *Session) ToggleAttendance(date, unitID, statusKey string) bool {
	return s.Do(func(w *Workspace) bool { return w.ToggleAttendance(date, unitID, statusKey) })
}

// ApplyLeave applies a leave range on the active workspace.
func (s *Session) ApplyLeave(startDate, endDate, reason string) (model.LeaveRecord, bool) {
	var rec model.LeaveRecord
	ok := s.Do(func(w *Workspace) bool {
		var applied bool
		rec, applied = w.ApplyLeave(startDate, endDate, reason)
		return applied
	})
	return rec, ok
}

// Snapshots returns the serializable form of every workspace.
func (s *Session) Snapshots() []model.Workspace {
	out := make([]model.Workspace, 0, len(s.workspaces))
	for _, w := range s.workspaces {
		out = append(out, w.Snapshot())
	}
	return out
}

// save writes through to the persister. Failures are logged and otherwise ignored; memory
// is never rolled back.
func (s *Session) save() {
	if s.persister == nil {
		return
	}
	if err := s.persister.Persist(s.user.ID, s.Snapshots()); err != nil {
		s.logger.Warn("failed to persist workspaces", "error", err, "user_id", s.user.ID)
	}
}

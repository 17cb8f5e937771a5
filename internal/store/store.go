// Package store keeps users and workspaces in a single YAML file.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/bryan-cox/attendly/internal/model"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmptyCredentials   = errors.New("username and password are required")
)

// FileStore reads and writes the snapshot at Path. The snapshot is held in memory between
// calls; every write rewrites the whole file.
type FileStore struct {
	Path string
	data model.Snapshot
	now  func() time.Time
}

// Open loads the snapshot at path. A missing file is an empty snapshot.
func Open(path string) (*FileStore, error) {
	s := &FileStore{Path: path, now: time.Now}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read file '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s.data); err != nil {
		safeData, _ := json.Marshal(string(data))
		return nil, fmt.Errorf("could not parse YAML from '%s': %w. Content: %s", path, err, safeData)
	}
	return s, nil
}

// Snapshot returns the data currently held.
func (s *FileStore) Snapshot() model.Snapshot {
	return s.data
}

// Save writes the snapshot to a temp file next to Path and renames it into place.
func (s *FileStore) Save() error {
	out, err := yaml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("could not encode snapshot: %w", err)
	}
	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, ".attendly-*.yml")
	if err != nil {
		return fmt.Errorf("could not create temp file in '%s': %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write '%s': %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close '%s': %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("could not replace '%s': %w", s.Path, err)
	}
	return nil
}

// DefaultPreferences are given to every new user.
func DefaultPreferences() model.UserPreferences {
	return model.UserPreferences{
		NotificationsEnabled: true,
		NotificationSettings: model.NotificationPreferences{
			NotifyExams:     true,
			NotifyDeadlines: true,
			NotifyEvents:    true,
		},
		StartOfWeek:     "MONDAY",
		DefaultTarget:   75,
		DangerThreshold: 60,
	}
}

// CreateUser registers a user. Usernames are unique ignoring case.
func (s *FileStore) CreateUser(username, password string) (model.UserProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.UserProfile{}, ErrEmptyCredentials
	}
	if _, ok := s.findUser(username); ok {
		return model.UserProfile{}, fmt.Errorf("%w: %s", ErrUsernameTaken, username)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.UserProfile{}, fmt.Errorf("could not hash password: %w", err)
	}
	user := model.UserProfile{
		ID:           "usr_" + uuid.New().String(),
		Name:         username,
		Username:     username,
		PasswordHash: string(hash),
		Preferences:  DefaultPreferences(),
		CreatedAt:    s.now().UTC().Format(time.RFC3339),
	}
	s.data.Users = append(s.data.Users, user)
	if err := s.Save(); err != nil {
		return model.UserProfile{}, err
	}
	return user, nil
}

// Authenticate checks a username and password.
func (s *FileStore) Authenticate(username, password string) (model.UserProfile, error) {
	user, ok := s.findUser(strings.TrimSpace(username))
	if !ok {
		return model.UserProfile{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.UserProfile{}, ErrInvalidCredentials
	}
	return user, nil
}

// UpdateUser replaces a stored user with the same id.
func (s *FileStore) UpdateUser(user model.UserProfile) error {
	for i := range s.data.Users {
		if s.data.Users[i].ID == user.ID {
			s.data.Users[i] = user
			return s.Save()
		}
	}
	return fmt.Errorf("user %s not found", user.ID)
}

func (s *FileStore) findUser(username string) (model.UserProfile, bool) {
	for _, u := range s.data.Users {
		if strings.EqualFold(u.Username, username) {
			return u, true
		}
	}
	return model.UserProfile{}, false
}

// WorkspacesFor returns the workspaces owned by ownerID.
func (s *FileStore) WorkspacesFor(ownerID string) []model.Workspace {
	var out []model.Workspace
	for _, w := range s.data.Workspaces {
		if w.OwnerID == ownerID {
			out = append(out, w)
		}
	}
	return out
}

// Persist replaces ownerID's workspaces and writes the file. Workspaces in the argument
// that belong to another owner are dropped.
func (s *FileStore) Persist(ownerID string, workspaces []model.Workspace) error {
	var kept []model.Workspace
	for _, w := range s.data.Workspaces {
		if w.OwnerID != ownerID {
			kept = append(kept, w)
		}
	}
	for _, w := range workspaces {
		if w.OwnerID == ownerID {
			kept = append(kept, w)
		}
	}
	s.data.Workspaces = kept
	return s.Save()
}

// Package model defines the core data structures for Attendly.
package model

// Schedule types.
const (
	ScheduleAcademic = "ACADEMIC"
	ScheduleSabha    = "SABHA"
	ScheduleCustom   = "CUSTOM"
)

// StatusLeave is the status written by leave propagation.
const StatusLeave = "LEAVE"

// Calendar event types.
const (
	EventExam       = "EXAM"
	EventDeadline   = "DEADLINE"
	EventEvent      = "EVENT"
	EventSubmission = "SUBMISSION"
)

// StatusDefinition describes one attendance status in a workspace.
type StatusDefinition struct {
	Key       string  `yaml:"-"`
	Label     string  `yaml:"label"`
	Weight    float64 `yaml:"weight"`
	Color     string  `yaml:"color,omitempty"`
	Countable bool    `yaml:"-"`
}

// ScheduleConfig holds the kind of schedule and its status set.
type ScheduleConfig struct {
	Type     string                      `yaml:"type"`
	UnitName string                      `yaml:"unit_name"`
	Statuses map[string]StatusDefinition `yaml:"statuses"`
}

// ScheduleUnit is a recurring class or session on one weekday.
type ScheduleUnit struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title"`
	DayOfWeek int    `yaml:"day_of_week"`
	StartTime string `yaml:"start_time,omitempty"`
	EndTime   string `yaml:"end_time,omitempty"`
}

// AttendanceRecord is the status of one unit on one date.
type AttendanceRecord struct {
	Date   string `yaml:"date"`
	UnitID string `yaml:"unit_id"`
	Status string `yaml:"status"`
}

// LeaveRecord logs a leave range. It does not drive aggregation.
type LeaveRecord struct {
	ID        string `yaml:"id"`
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
	Reason    string `yaml:"reason"`
}

// CalendarEvent is a dated milestone such as an exam or deadline.
type CalendarEvent struct {
	ID          string `yaml:"id"`
	Date        string `yaml:"date"`
	Title       string `yaml:"title"`
	Type        string `yaml:"type"`
	Description string `yaml:"description,omitempty"`
	HasNotified bool   `yaml:"has_notified,omitempty"`
}

// Workspace is everything one schedule owns.
type Workspace struct {
	ID               string             `yaml:"id"`
	OwnerID          string             `yaml:"owner_id"`
	CreatedAt        string             `yaml:"created_at"`
	Name             string             `yaml:"name"`
	Config           ScheduleConfig     `yaml:"config"`
	TargetPercentage int                `yaml:"target_percentage"`
	Units            []ScheduleUnit     `yaml:"units,omitempty"`
	Attendance       []AttendanceRecord `yaml:"attendance,omitempty"`
	Leaves           []LeaveRecord      `yaml:"leaves,omitempty"`
	Events           []CalendarEvent    `yaml:"events,omitempty"`
}

// NotificationPreferences toggles reminders per event category.
type NotificationPreferences struct {
	NotifyExams     bool `yaml:"notify_exams"`
	NotifyDeadlines bool `yaml:"notify_deadlines"`
	NotifyEvents    bool `yaml:"notify_events"`
}

// UserPreferences are per-user settings shared by all workspaces.
type UserPreferences struct {
	NotificationsEnabled bool                    `yaml:"notifications_enabled"`
	NotificationSettings NotificationPreferences `yaml:"notification_settings"`
	StartOfWeek          string                  `yaml:"start_of_week"`
	DefaultTarget        int                     `yaml:"default_target"`
	DangerThreshold      int                     `yaml:"danger_threshold"`
	FavoriteSubjects     []string                `yaml:"favorite_subjects,omitempty"`
}

// UserProfile is a local account. PasswordHash is a bcrypt hash.
type UserProfile struct {
	ID           string          `yaml:"id"`
	Name         string          `yaml:"name"`
	Username     string          `yaml:"username"`
	PasswordHash string          `yaml:"password_hash"`
	Preferences  UserPreferences `yaml:"preferences"`
	CreatedAt    string          `yaml:"created_at"`
}

// Snapshot is the serialized form of all local data.
type Snapshot struct {
	Users      []UserProfile `yaml:"users,omitempty"`
	Workspaces []Workspace   `yaml:"workspaces,omitempty"`
}

// SubjectStat is the weighted attendance of one subject title.
type SubjectStat struct {
	Title        string
	Percentage   int
	TotalClasses int
}

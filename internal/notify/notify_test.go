package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryan-cox/attendly/internal/calendar"
	"github.com/bryan-cox/attendly/internal/model"
)

func prefsAllOn() model.UserPreferences {
	return model.UserPreferences{
		NotificationsEnabled: true,
		NotificationSettings: model.NotificationPreferences{NotifyExams: true, NotifyDeadlines: true, NotifyEvents: true},
	}
}

func TestDue(t *testing.T) {
	today, _ := calendar.Parse("2024-01-31")
	events := []model.CalendarEvent{
		{ID: "e1", Date: "2024-02-01", Title: "Finals", Type: model.EventExam},
		{ID: "e2", Date: "2024-02-01", Title: "Essay", Type: model.EventDeadline, HasNotified: true},
		{ID: "e3", Date: "2024-02-02", Title: "Fair", Type: model.EventEvent},
		{ID: "e4", Date: "2024-02-01", Title: "Concert", Type: model.EventEvent},
	}

	var ids []string
	for _, e := range Due(events, prefsAllOn(), today) {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"e1", "e4"}, ids)

	prefs := prefsAllOn()
	prefs.NotificationSettings.NotifyEvents = false
	due := Due(events, prefs, today)
	require.Len(t, due, 1)
	assert.Equal(t, "e1", due[0].ID)

	prefs.NotificationsEnabled = false
	assert.Empty(t, Due(events, prefs, today))
}

func TestContent(t *testing.T) {
	assert.Equal(t, "Prep Alert: Finals", Content(model.CalendarEvent{Title: "Finals", Type: model.EventExam}).Title)
	assert.Equal(t, "Submission Due: Essay", Content(model.CalendarEvent{Title: "Essay", Type: model.EventSubmission}).Title)
	assert.Equal(t, "Happening tomorrow.", Content(model.CalendarEvent{Title: "Fair"}).Body)
}

type fakeSender struct {
	fail map[string]bool
	got  []Message
}

func (f *fakeSender) Send(m Message) error {
	if f.fail[m.EventID] {
		return errors.New("boom")
	}
	f.got = append(f.got, m)
	return nil
}

func TestSendAll(t *testing.T) {
	s := &fakeSender{fail: map[string]bool{"b": true}}
	sent, err := SendAll(s, []Message{{EventID: "a"}, {EventID: "b"}, {EventID: "c"}})
	assert.Equal(t, []string{"a", "c"}, sent)
	assert.ErrorContains(t, err, "failed to notify b")
	assert.Len(t, s.got, 2)
}

func TestAppleScriptString(t *testing.T) {
	assert.Equal(t, `Essay \"final\"`, appleScriptString(`Essay "final"`))
	assert.Equal(t, `path C:\\`, appleScriptString(`path C:\`))
	assert.Equal(t, `\\\"`, appleScriptString(`\"`))
}

func TestHereString(t *testing.T) {
	assert.Equal(t, "Finals", hereString("Finals"))
	assert.Equal(t, "line\n \"@ injected", hereString("line\r\n\"@ injected"))
	assert.Equal(t, " \"@", hereString(`"@`))
	assert.Equal(t, "mid \"@ stays", hereString(`mid "@ stays`))
	assert.Equal(t, "cost `$5 `$(calc) ``n", hereString("cost $5 $(calc) `n"))
}

// Package notify picks the calendar events worth a reminder and delivers them to the desktop.
package notify

import (
	"github.com/bryan-cox/attendly/internal/calendar"
	"github.com/bryan-cox/attendly/internal/model"
)

// Message is a ready-to-send reminder.
type Message struct {
	EventID string
	Title   string
	Body    string
}

// Due returns the events happening the day after today that have not been announced and
// whose category is enabled. Class reminders are never produced.
func Due(events []model.CalendarEvent, prefs model.UserPreferences, today calendar.Date) []model.CalendarEvent {
	if !prefs.NotificationsEnabled {
		return nil
	}
	tomorrow := today.Next().String()

	var due []model.CalendarEvent
	for _, e := range events {
		if e.HasNotified || e.Date != tomorrow {
			continue
		}
		if !enabled(e.Type, prefs.NotificationSettings) {
			continue
		}
		due = append(due, e)
	}
	return due
}

func enabled(eventType string, s model.NotificationPreferences) bool {
	switch eventType {
	case model.EventExam:
		return s.NotifyExams
	case model.EventDeadline, model.EventSubmission:
		return s.NotifyDeadlines
	default:
		return s.NotifyEvents
	}
}

// Content builds the reminder text for an event.
func Content(e model.CalendarEvent) Message {
	m := Message{EventID: e.ID}
	switch e.Type {
	case model.EventExam:
		m.Title = "Prep Alert: " + e.Title
		m.Body = "You have an exam tomorrow. Good luck!"
	case model.EventDeadline, model.EventSubmission:
		m.Title = "Submission Due: " + e.Title
		m.Body = "Deadline is tomorrow. Finalize your work."
	default:
		m.Title = "Upcoming: " + e.Title
		m.Body = "Happening tomorrow."
	}
	return m
}

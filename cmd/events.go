package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bryan-cox/attendly/internal/insight"
	"github.com/bryan-cox/attendly/internal/model"
	"github.com/bryan-cox/attendly/internal/notify"
	"github.com/bryan-cox/attendly/internal/report"
	"github.com/bryan-cox/attendly/internal/workspace"
)

var (
	eventID    string
	eventDate  string
	eventTitle string
	eventType  string
	eventDesc  string

	dryRun bool

	eventCmd = &cobra.Command{
		Use:   "event",
		Short: "Manage exams, deadlines and other calendar events.",
	}

	eventAddCmd = &cobra.Command{
		Use:   "add",
		Short: "Add a calendar event.",
		RunE:  runEventAddCommand,
	}

	eventRemoveCmd = &cobra.Command{
		Use:   "rm",
		Short: "Remove a calendar event.",
		RunE:  runEventRemoveCommand,
	}

	eventListCmd = &cobra.Command{
		Use:   "list",
		Short: "List calendar events.",
		RunE:  runEventListCommand,
	}

	// insightsCmd prints advice based on the current numbers
	insightsCmd = &cobra.Command{
		Use:   "insights",
		Short: "Show attendance insights. Uses Gemini when GEMINI_API_KEY is set.",
		RunE:  runInsightsCommand,
	}

	// notifyCmd sends reminders for tomorrow's events
	notifyCmd = &cobra.Command{
		Use:   "notify",
		Short: "Send desktop reminders for events happening tomorrow.",
		RunE:  runNotifyCommand,
	}
)

func init() {
	eventAddCmd.Flags().StringVar(&eventDate, "date", "", "Event date (YYYY-MM-DD).")
	eventAddCmd.Flags().StringVar(&eventTitle, "title", "", "Event title.")
	eventAddCmd.Flags().StringVar(&eventType, "type", model.EventEvent, "EXAM, DEADLINE, SUBMISSION or EVENT.")
	eventAddCmd.Flags().StringVar(&eventDesc, "description", "", "Optional description.")
	eventRemoveCmd.Flags().StringVar(&eventID, "id", "", "Event id.")
	eventCmd.AddCommand(eventAddCmd, eventRemoveCmd, eventListCmd)

	notifyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the reminders instead of sending them.")
}

func runEventAddCommand(cmd *cobra.Command, args []string) error {
	sess, _, err := openWorkspace()
	if err != nil {
		return err
	}
	var added model.CalendarEvent
	ok := sess.Do(func(w *workspace.Workspace) bool {
		var ok bool
		added, ok = w.AddEvent(model.CalendarEvent{
			Date:        eventDate,
			Title:       eventTitle,
			Type:        strings.ToUpper(eventType),
			Description: eventDesc,
		})
		return ok
	})
	if !ok {
		cmd.Println("Nothing added: an event needs a title and a valid date.")
		return nil
	}
	cmd.Printf("Added %s %q on %s [%s]\n", added.Type, added.Title, added.Date, added.ID)
	return nil
}

func runEventRemoveCommand(cmd *cobra.Command, args []string) error {
	sess, _, err := openWorkspace()
	if err != nil {
		return err
	}
	if !sess.Do(func(w *workspace.Workspace) bool { return w.RemoveEvent(eventID) }) {
		return fmt.Errorf("event %q not found", eventID)
	}
	cmd.Printf("Removed event %s\n", eventID)
	return nil
}

func runEventListCommand(cmd *cobra.Command, args []string) error {
	_, w, err := openWorkspace()
	if err != nil {
		return err
	}
	events := w.Events()
	if len(events) == 0 {
		cmd.Println("No events.")
		return nil
	}
	for _, e := range events {
		cmd.Printf("    • %s %s: %s [%s]\n", e.Date, e.Type, e.Title, e.ID)
	}
	return nil
}

func runInsightsCommand(cmd *cobra.Command, args []string) error {
	sess, w, err := openWorkspace()
	if err != nil {
		return err
	}
	in := insight.Input{
		Records:         len(w.Records()),
		Counted:         w.OverallTotals().Total,
		Overall:         w.OverallPercentage(),
		Subjects:        w.SubjectStats(),
		Target:          w.Target(),
		DangerThreshold: sess.User().Preferences.DangerThreshold,
	}

	gen := insight.Generator{APIKey: appConfig.GeminiAPIKey, Model: appConfig.GeminiModel}
	insights := gen.Generate(cmd.Context(), in)

	cmd.Println(strings.TrimPrefix(report.TextHeaderInsights, "\n"))
	for _, i := range insights {
		cmd.Printf("    • [%s] %s: %s\n", i.Type, i.Title, i.Message)
	}
	return nil
}

func runNotifyCommand(cmd *cobra.Command, args []string) error {
	sess, w, err := openWorkspace()
	if err != nil {
		return err
	}
	due := notify.Due(w.Events(), sess.User().Preferences, today())
	if len(due) == 0 {
		cmd.Println("No reminders due.")
		return nil
	}

	msgs := make([]notify.Message, 0, len(due))
	for _, e := range due {
		msgs = append(msgs, notify.Content(e))
	}
	if dryRun {
		for _, m := range msgs {
			cmd.Printf("    • %s: %s\n", m.Title, m.Body)
		}
		return nil
	}

	sent, sendErr := notify.SendAll(sender, msgs)
	if len(sent) > 0 {
		sess.Do(func(w *workspace.Workspace) bool { return w.MarkNotified(sent) })
	}
	cmd.Printf("Sent %d of %d reminders\n", len(sent), len(msgs))
	if sendErr != nil {
		slog.Warn("some reminders were not delivered", "error", sendErr)
	}
	return nil
}

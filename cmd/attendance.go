package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bryan-cox/attendly/internal/calendar"
	"github.com/bryan-cox/attendly/internal/model"
	"github.com/bryan-cox/attendly/internal/report"
	"github.com/bryan-cox/attendly/internal/workspace"
)

var (
	markDate   string
	markUnit   string
	markStatus string

	leaveReason string
	leaveID     string

	// markCmd toggles one unit's status on one date
	markCmd = &cobra.Command{
		Use:   "mark",
		Short: "Mark attendance for one unit on one date.",
		Long:  `Marks a unit. Marking it again with the same status clears the mark; a different status replaces it.`,
		RunE:  runMarkCommand,
	}

	leaveCmd = &cobra.Command{
		Use:   "leave",
		Short: "Apply and list leaves.",
	}

	leaveAddCmd = &cobra.Command{
		Use:   "add",
		Short: "Mark every scheduled unit in a date range as LEAVE.",
		RunE:  runLeaveAddCommand,
	}

	leaveListCmd = &cobra.Command{
		Use:   "list",
		Short: "List logged leaves.",
		RunE:  runLeaveListCommand,
	}

	leaveRemoveCmd = &cobra.Command{
		Use:   "rm",
		Short: "Remove a leave from the log. Attendance marks are kept.",
		RunE:  runLeaveRemoveCommand,
	}

	// statsCmd prints overall and per-subject percentages
	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show weighted attendance overall and per subject.",
		RunE:  runStatsCommand,
	}

	// reportCmd prints the timetable and marks for a date range
	reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Show what was scheduled and how it was marked for a date range (default: the last 7 days).",
		RunE:  runReportCommand,
	}
)

func init() {
	markCmd.Flags().StringVar(&markDate, "date", "", "Date (YYYY-MM-DD, default today).")
	markCmd.Flags().StringVar(&markUnit, "unit", "", "Unit id or title.")
	markCmd.Flags().StringVar(&markStatus, "status", "PRESENT", "Status key.")

	leaveAddCmd.Flags().StringVar(&startDate, "start-date", "", "First day of leave (YYYY-MM-DD).")
	leaveAddCmd.Flags().StringVar(&endDate, "end-date", "", "Last day of leave (YYYY-MM-DD).")
	leaveAddCmd.Flags().StringVar(&leaveReason, "reason", "", "Reason for the leave.")
	leaveRemoveCmd.Flags().StringVar(&leaveID, "id", "", "Leave id.")
	leaveCmd.AddCommand(leaveAddCmd, leaveListCmd, leaveRemoveCmd)

	reportCmd.Flags().StringVar(&startDate, "start-date", "", "Start date (YYYY-MM-DD).")
	reportCmd.Flags().StringVar(&endDate, "end-date", "", "End date (YYYY-MM-DD).")
}

func runMarkCommand(cmd *cobra.Command, args []string) error {
	sess, w, err := openWorkspace()
	if err != nil {
		return err
	}
	date := markDate
	if date == "" {
		date = today().String()
	}
	if _, err := calendar.Parse(date); err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}
	if _, ok := w.Registry().Lookup(markStatus); !ok {
		slog.Warn("status is not defined in this workspace and will not count", "status", markStatus, "workspace", w.Name())
	}

	unit, ok := resolveUnit(w, markUnit)
	if !ok {
		return fmt.Errorf("unit %q not found", markUnit)
	}
	if !sess.ToggleAttendance(date, unit.ID, markStatus) {
		return fmt.Errorf("a unit and a status are required")
	}
	if current, ok := w.Status(date, unit.ID); ok {
		cmd.Printf("%s %s: %s\n", date, unit.Title, current)
	} else {
		cmd.Printf("%s %s: cleared\n", date, unit.Title)
	}
	return nil
}

// resolveUnit finds a unit by id, then by title ignoring case.
func resolveUnit(w *workspace.Workspace, ref string) (model.ScheduleUnit, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.ScheduleUnit{}, false
	}
	units := w.Units()
	for _, u := range units {
		if u.ID == ref {
			return u, true
		}
	}
	for _, u := range units {
		if strings.EqualFold(u.Title, ref) {
			return u, true
		}
	}
	return model.ScheduleUnit{}, false
}

func runLeaveAddCommand(cmd *cobra.Command, args []string) error {
	sess, _, err := openWorkspace()
	if err != nil {
		return err
	}
	rec, ok := sess.ApplyLeave(startDate, endDate, leaveReason)
	if !ok {
		cmd.Println("Nothing applied: a leave needs a valid start and end date in order.")
		return nil
	}
	cmd.Printf("Leave %s to %s applied [%s]\n", rec.StartDate, rec.EndDate, rec.ID)
	return nil
}

func runLeaveListCommand(cmd *cobra.Command, args []string) error {
	_, w, err := openWorkspace()
	if err != nil {
		return err
	}
	leaves := w.Leaves()
	if len(leaves) == 0 {
		cmd.Println("No leaves logged.")
		return nil
	}
	for _, l := range leaves {
		reason := l.Reason
		if reason == "" {
			reason = "no reason given"
		}
		cmd.Printf("    • %s to %s: %s [%s]\n", l.StartDate, l.EndDate, reason, l.ID)
	}
	return nil
}

func runLeaveRemoveCommand(cmd *cobra.Command, args []string) error {
	sess, _, err := openWorkspace()
	if err != nil {
		return err
	}
	if !sess.Do(func(w *workspace.Workspace) bool { return w.RemoveLeave(leaveID) }) {
		return fmt.Errorf("leave %q not found", leaveID)
	}
	cmd.Printf("Removed leave %s\n", leaveID)
	return nil
}

func runStatsCommand(cmd *cobra.Command, args []string) error {
	_, w, err := openWorkspace()
	if err != nil {
		return err
	}
	report.PrintSummary(cmd.OutOrStdout(), w.OverallPercentage(), w.Target(), w.SubjectStats())
	return nil
}

func runReportCommand(cmd *cobra.Command, args []string) error {
	_, w, err := openWorkspace()
	if err != nil {
		return err
	}
	var start, end calendar.Date
	if startDate == "" && endDate == "" {
		end = today()
		start = end.AddDays(-6)
	} else {
		start, end, err = calendar.ParseRange(startDate, endDate)
		if err != nil {
			return fmt.Errorf("failed to process date range %q to %q: %w", startDate, endDate, err)
		}
	}

	cmd.Printf("Attendance Report (%s to %s)\n", start, end)
	report.PrintDaySheets(cmd.OutOrStdout(), w.UnitName(), w.DaySheets(start, end))
	return nil
}

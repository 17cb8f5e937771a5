package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bryan-cox/attendly/internal/model"
	"github.com/bryan-cox/attendly/internal/report"
	"github.com/bryan-cox/attendly/internal/status"
	"github.com/bryan-cox/attendly/internal/workspace"
)

var (
	wsName     string
	wsType     string
	wsStatuses string

	unitID    string
	unitTitle string
	unitDay   string
	unitStart string
	unitEnd   string

	statusKey    string
	statusLabel  string
	statusWeight float64

	workspaceCmd = &cobra.Command{
		Use:   "workspace",
		Short: "Create and list workspaces.",
	}

	workspaceCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a workspace from a schedule template.",
		Long:  `Creates a workspace. --type is ACADEMIC, SABHA or CUSTOM. CUSTOM workspaces need --statuses as "Label:weight,Label:weight".`,
		RunE:  runWorkspaceCreateCommand,
	}

	workspaceListCmd = &cobra.Command{
		Use:   "list",
		Short: "List your workspaces.",
		RunE:  runWorkspaceListCommand,
	}

	unitCmd = &cobra.Command{
		Use:   "unit",
		Short: "Manage the weekly timetable.",
	}

	unitAddCmd = &cobra.Command{
		Use:   "add",
		Short: "Add a recurring unit.",
		RunE:  runUnitAddCommand,
	}

	unitEditCmd = &cobra.Command{
		Use:   "edit",
		Short: "Edit a unit. Unset flags keep their current value.",
		RunE:  runUnitEditCommand,
	}

	unitRemoveCmd = &cobra.Command{
		Use:   "rm",
		Short: "Remove a unit. Its attendance history is kept but no longer counted per subject.",
		RunE:  runUnitRemoveCommand,
	}

	unitListCmd = &cobra.Command{
		Use:   "list",
		Short: "Show the timetable for one weekday (default: today) or the whole week with --day all.",
		RunE:  runUnitListCommand,
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Manage the attendance statuses of a workspace.",
	}

	statusSetCmd = &cobra.Command{
		Use:   "set",
		Short: "Add or replace a status.",
		RunE:  runStatusSetCommand,
	}

	statusRemoveCmd = &cobra.Command{
		Use:   "rm",
		Short: "Remove a status.",
		RunE:  runStatusRemoveCommand,
	}

	statusListCmd = &cobra.Command{
		Use:   "list",
		Short: "List statuses and their weights.",
		RunE:  runStatusListCommand,
	}

	targetCmd = &cobra.Command{
		Use:   "target <percent>",
		Short: "Set the target attendance percentage.",
		Args:  cobra.ExactArgs(1),
		RunE:  runTargetCommand,
	}
)

func init() {
	workspaceCreateCmd.Flags().StringVar(&wsName, "name", "", "Workspace name.")
	workspaceCreateCmd.Flags().StringVar(&wsType, "type", model.ScheduleAcademic, "ACADEMIC, SABHA or CUSTOM.")
	workspaceCreateCmd.Flags().StringVar(&wsStatuses, "statuses", "", `Custom statuses, e.g. "Done:1,Half:0.5,Skip:0".`)
	workspaceCmd.AddCommand(workspaceCreateCmd, workspaceListCmd)

	for _, c := range []*cobra.Command{unitAddCmd, unitEditCmd} {
		c.Flags().StringVar(&unitTitle, "title", "", "Subject title.")
		c.Flags().StringVar(&unitDay, "day", "", "Weekday: 0-6 (Sunday = 0) or a name.")
		c.Flags().StringVar(&unitStart, "start", "", "Start time (HH:MM).")
		c.Flags().StringVar(&unitEnd, "end", "", "End time (HH:MM).")
	}
	unitEditCmd.Flags().StringVar(&unitID, "id", "", "Unit id or title.")
	unitRemoveCmd.Flags().StringVar(&unitID, "id", "", "Unit id.")
	unitListCmd.Flags().StringVar(&unitDay, "day", "", "Weekday: 0-6, a name, or all.")
	unitCmd.AddCommand(unitAddCmd, unitEditCmd, unitRemoveCmd, unitListCmd)

	statusSetCmd.Flags().StringVar(&statusKey, "key", "", "Status key, e.g. PRESENT.")
	statusSetCmd.Flags().StringVar(&statusLabel, "label", "", "Display label.")
	statusSetCmd.Flags().Float64Var(&statusWeight, "weight", 1, "Credit between 0 and 1.")
	statusRemoveCmd.Flags().StringVar(&statusKey, "key", "", "Status key.")
	statusCmd.AddCommand(statusSetCmd, statusRemoveCmd, statusListCmd)
}

func parseCustomStatuses(s string) ([]status.Custom, error) {
	var out []status.Custom
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		label, weightStr, found := strings.Cut(item, ":")
		if !found {
			return nil, fmt.Errorf("status %q must look like Label:weight", item)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(weightStr), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight in %q: %w", item, err)
		}
		out = append(out, status.Custom{Label: strings.TrimSpace(label), Weight: weight})
	}
	return out, nil
}

func runWorkspaceCreateCommand(cmd *cobra.Command, args []string) error {
	_, sess, err := openUser()
	if err != nil {
		return err
	}
	custom, err := parseCustomStatuses(wsStatuses)
	if err != nil {
		return err
	}
	w, ok, err := sess.CreateWorkspace(wsName, strings.ToUpper(wsType), custom)
	if err != nil {
		return err
	}
	if !ok {
		cmd.Println("Nothing created: a workspace needs a name.")
		return nil
	}
	cmd.Printf("Created workspace %q [%s]\n", w.Name(), w.ID())
	return nil
}

func runWorkspaceListCommand(cmd *cobra.Command, args []string) error {
	_, sess, err := openUser()
	if err != nil {
		return err
	}
	for _, w := range sess.Workspaces() {
		cmd.Printf("    • %s [%s] %s, target %d%%, overall %d%%\n", w.Name(), w.ID(), w.Type(), w.Target(), w.OverallPercentage())
	}
	return nil
}

func runUnitAddCommand(cmd *cobra.Command, args []string) error {
	sess, _, err := openWorkspace()
	if err != nil {
		return err
	}
	day, err := parseDay(unitDay)
	if err != nil {
		return err
	}
	var added model.ScheduleUnit
	ok := sess.Do(func(w *workspace.Workspace) bool {
		var ok bool
		added, ok = w.AddUnit(model.ScheduleUnit{Title: unitTitle, DayOfWeek: day, StartTime: unitStart, EndTime: unitEnd})
		return ok
	})
	if !ok {
		cmd.Println("Nothing added: a unit needs a title.")
		return nil
	}
	cmd.Printf("Added %s on %s [%s]\n", added.Title, report.DayName(added.DayOfWeek), added.ID)
	return nil
}

func runUnitEditCommand(cmd *cobra.Command, args []string) error {
	sess, w, err := openWorkspace()
	if err != nil {
		return err
	}
	current, ok := resolveUnit(w, unitID)
	if !ok {
		return fmt.Errorf("unit %q not found", unitID)
	}

	flags := cmd.Flags()
	if flags.Changed("title") {
		current.Title = unitTitle
	}
	if flags.Changed("day") {
		if current.DayOfWeek, err = parseDay(unitDay); err != nil {
			return err
		}
	}
	if flags.Changed("start") {
		current.StartTime = unitStart
	}
	if flags.Changed("end") {
		current.EndTime = unitEnd
	}

	if !sess.Do(func(w *workspace.Workspace) bool { return w.EditUnit(current) }) {
		cmd.Println("Nothing changed: a unit needs a title.")
		return nil
	}
	cmd.Printf("Updated %s [%s]\n", current.Title, current.ID)
	return nil
}

func runUnitRemoveCommand(cmd *cobra.Command, args []string) error {
	sess, _, err := openWorkspace()
	if err != nil {
		return err
	}
	if !sess.Do(func(w *workspace.Workspace) bool { return w.RemoveUnit(unitID) }) {
		return fmt.Errorf("unit %q not found", unitID)
	}
	cmd.Printf("Removed unit %s\n", unitID)
	return nil
}

func runUnitListCommand(cmd *cobra.Command, args []string) error {
	_, w, err := openWorkspace()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch strings.ToLower(unitDay) {
	case "all":
		for day := 0; day < 7; day++ {
			report.PrintUnits(out, day, w.UnitsForDay(day))
		}
		return nil
	case "":
		day := today().Weekday()
		report.PrintUnits(out, day, w.UnitsForDay(day))
		return nil
	}
	day, err := parseDay(unitDay)
	if err != nil {
		return err
	}
	report.PrintUnits(out, day, w.UnitsForDay(day))
	return nil
}

func runStatusSetCommand(cmd *cobra.Command, args []string) error {
	sess, _, err := openWorkspace()
	if err != nil {
		return err
	}
	key := strings.ToUpper(strings.TrimSpace(statusKey))
	label := statusLabel
	if label == "" {
		label = key
	}
	var setErr error
	sess.Do(func(w *workspace.Workspace) bool {
		setErr = w.SetStatus(key, model.StatusDefinition{Label: label, Weight: statusWeight})
		return setErr == nil
	})
	if setErr != nil {
		return setErr
	}
	cmd.Printf("Status %s (%s) weight %.2f\n", key, label, statusWeight)
	return nil
}

func runStatusRemoveCommand(cmd *cobra.Command, args []string) error {
	sess, _, err := openWorkspace()
	if err != nil {
		return err
	}
	key := strings.ToUpper(strings.TrimSpace(statusKey))
	var rmErr error
	removed := sess.Do(func(w *workspace.Workspace) bool {
		var ok bool
		ok, rmErr = w.RemoveStatus(key)
		return ok
	})
	if rmErr != nil {
		return rmErr
	}
	if !removed {
		return fmt.Errorf("status %q not found", key)
	}
	cmd.Printf("Removed status %s\n", key)
	return nil
}

func runStatusListCommand(cmd *cobra.Command, args []string) error {
	_, w, err := openWorkspace()
	if err != nil {
		return err
	}
	reg := w.Registry()
	for _, k := range reg.Keys() {
		def, _ := reg.Lookup(k)
		note := ""
		if !def.Countable {
			note = " (not counted per subject)"
		}
		cmd.Printf("    • %s %s: %.2f%s\n", k, def.Label, def.Weight, note)
	}
	return nil
}

func runTargetCommand(cmd *cobra.Command, args []string) error {
	pct, err := strconv.Atoi(strings.TrimSuffix(args[0], "%"))
	if err != nil || pct < 0 || pct > 100 {
		return fmt.Errorf("target must be a whole percentage between 0 and 100, got %q", args[0])
	}
	sess, _, err := openWorkspace()
	if err != nil {
		return err
	}
	sess.Do(func(w *workspace.Workspace) bool { return w.SetTarget(pct) })
	cmd.Printf("Target set to %d%%\n", pct)
	return nil
}

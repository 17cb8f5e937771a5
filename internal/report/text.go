package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/bryan-cox/attendly/internal/calendar"
	"github.com/bryan-cox/attendly/internal/model"
)

// Section headers for text output.
const (
	TextHeaderOverall  = "Overall Attendance"
	TextHeaderSubjects = "\nSubject-wise Attendance (conducted classes only)"
	TextHeaderInsights = "\nInsights"
)

// Days names weekdays with Sunday = 0.
var Days = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// DayName returns the weekday name, or the number itself when it is out of range.
func DayName(dayOfWeek int) string {
	if dayOfWeek < 0 || dayOfWeek >= len(Days) {
		return fmt.Sprintf("day %d", dayOfWeek)
	}
	return Days[dayOfWeek]
}

func bar(pct int) string {
	n := pct / 5
	if n < 0 {
		n = 0
	}
	if n > 20 {
		n = 20
	}
	return strings.Repeat("#", n) + strings.Repeat(".", 20-n)
}

// PrintSummary prints the overall percentage against the target and every subject.
func PrintSummary(out io.Writer, overall, target int, stats []model.SubjectStat) {
	fmt.Fprintln(out, TextHeaderOverall)
	state := "on track"
	if overall < target {
		state = "below target"
	}
	fmt.Fprintf(out, "    • %d%% (target %d%%, %s)\n", overall, target, state)

	if len(stats) == 0 {
		return
	}
	fmt.Fprintln(out, TextHeaderSubjects)
	width := 0
	for _, s := range stats {
		if len(s.Title) > width {
			width = len(s.Title)
		}
	}
	for _, s := range stats {
		fmt.Fprintf(out, "    • %-*s [%s] %3d%% of %d\n", width, s.Title, bar(s.Percentage), s.Percentage, s.TotalClasses)
	}
}

// DaySheet lists what was scheduled on one date and how each unit was marked.
type DaySheet struct {
	Date  calendar.Date
	Units []model.ScheduleUnit
	Marks map[string]string
}

// PrintDaySheets prints one block per date. Dates without units are skipped.
func PrintDaySheets(out io.Writer, unitName string, sheets []DaySheet) {
	for _, sheet := range sheets {
		if len(sheet.Units) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n%s (%s)\n", sheet.Date, DayName(sheet.Date.Weekday()))
		for _, u := range sheet.Units {
			mark, ok := sheet.Marks[u.ID]
			if !ok {
				mark = "-"
			}
			fmt.Fprintf(out, "    • %s %s: %s\n", timeSpan(u), u.Title, mark)
		}
	}
	if unitName != "" {
		fmt.Fprintf(out, "\n(%d days, one line per %s)\n", len(sheets), strings.ToLower(unitName))
	}
}

func timeSpan(u model.ScheduleUnit) string {
	switch {
	case u.StartTime == "" && u.EndTime == "":
		return "--:--"
	case u.EndTime == "":
		return u.StartTime
	default:
		return u.StartTime + "-" + u.EndTime
	}
}

// PrintUnits prints a weekday's timetable.
func PrintUnits(out io.Writer, dayOfWeek int, units []model.ScheduleUnit) {
	fmt.Fprintf(out, "%s\n", DayName(dayOfWeek))
	if len(units) == 0 {
		fmt.Fprintln(out, "    (nothing scheduled)")
		return
	}
	for _, u := range units {
		fmt.Fprintf(out, "    • %s %s [%s]\n", timeSpan(u), u.Title, u.ID)
	}
}

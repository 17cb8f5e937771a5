// Package insight turns attendance numbers into short advice.
package insight

import (
	"fmt"

	"github.com/bryan-cox/attendly/internal/model"
)

// Insight types, most urgent first.
const (
	TypeCritical = "CRITICAL"
	TypeWarning  = "WARNING"
	TypeStrategy = "STRATEGY"
	TypeHealth   = "HEALTH"
)

// Insight is one piece of advice.
type Insight struct {
	Type           string `json:"type"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	RelatedSubject string `json:"relatedSubject,omitempty"`
}

// Input is everything insight generation may look at. It carries numbers only.
type Input struct {
	Records         int // all records, known status or not
	Counted         int // records with a known status
	Overall         int
	Subjects        []model.SubjectStat
	Target          int
	DangerThreshold int
}

// Local derives insights from fixed rules.
func Local(in Input) []Insight {
	if in.Records == 0 {
		return []Insight{{Type: TypeHealth, Title: "No Attendance Data", Message: "Start marking attendance to get insights."}}
	}
	if in.Counted == 0 {
		return []Insight{{Type: TypeHealth, Title: "No Valid Records", Message: "Attendance records exist but no valid statuses were found."}}
	}

	var out []Insight
	switch {
	case in.Overall < in.DangerThreshold:
		out = append(out, Insight{
			Type:    TypeCritical,
			Title:   "Attendance In Danger",
			Message: fmt.Sprintf("Your attendance is %d%%, below the danger threshold of %d%%. Do not miss any upcoming classes.", in.Overall, in.DangerThreshold),
		})
	case in.Overall < in.Target:
		out = append(out, Insight{
			Type:    TypeWarning,
			Title:   "Attendance Below Target",
			Message: fmt.Sprintf("Your attendance is %d%%, below the target of %d%%. Attend upcoming classes to stay safe.", in.Overall, in.Target),
		})
	default:
		out = append(out, Insight{
			Type:    TypeHealth,
			Title:   "Attendance On Track",
			Message: fmt.Sprintf("Great job! Your attendance is %d%%, which meets your target.", in.Overall),
		})
	}

	for _, s := range in.Subjects {
		if s.Percentage < in.DangerThreshold {
			out = append(out, Insight{
				Type:           TypeCritical,
				Title:          s.Title + " Needs Attention",
				Message:        fmt.Sprintf("%s is at %d%% over %d classes.", s.Title, s.Percentage, s.TotalClasses),
				RelatedSubject: s.Title,
			})
		}
	}
	return out
}

package status

import (
	"fmt"

	"github.com/bryan-cox/attendly/internal/model"
)

// Custom is a user-supplied status for CUSTOM schedules.
type Custom struct {
	Label  string
	Color  string
	Weight float64
}

// Template returns the starting config for a schedule type. CUSTOM schedules take their
// statuses from custom and are keyed CUSTOM_0, CUSTOM_1, ...
func Template(scheduleType string, custom []Custom) (model.ScheduleConfig, error) {
	switch scheduleType {
	case model.ScheduleAcademic:
		return model.ScheduleConfig{
			Type:     scheduleType,
			UnitName: "Lecture",
			Statuses: map[string]model.StatusDefinition{
				"PRESENT":         {Label: "Present", Weight: 1, Color: "emerald"},
				"ABSENT":          {Label: "Absent", Weight: 0, Color: "rose"},
				"BUNK":            {Label: "Bunk", Weight: 0, Color: "amber"},
				model.StatusLeave: {Label: "Leave", Weight: 1, Color: "blue"},
				"CANCELED":        {Label: "Canceled", Weight: 1, Color: "slate"},
				"HOLIDAY":         {Label: "Holiday", Weight: 1, Color: "violet"},
			},
		}, nil
	case model.ScheduleSabha:
		return model.ScheduleConfig{
			Type:     scheduleType,
			UnitName: "Session",
			Statuses: map[string]model.StatusDefinition{
				"PRESENT": {Label: "Attended", Weight: 1, Color: "emerald"},
				"ABSENT":  {Label: "Missed", Weight: 0, Color: "rose"},
			},
		}, nil
	case model.ScheduleCustom:
		statuses := make(map[string]model.StatusDefinition, len(custom))
		for i, c := range custom {
			statuses[fmt.Sprintf("CUSTOM_%d", i)] = model.StatusDefinition{Label: c.Label, Weight: c.Weight, Color: c.Color}
		}
		cfg := model.ScheduleConfig{Type: scheduleType, UnitName: "Activity", Statuses: statuses}
		if err := Validate(statuses); err != nil {
			return model.ScheduleConfig{}, err
		}
		return cfg, nil
	default:
		return model.ScheduleConfig{}, fmt.Errorf("%w: %q", ErrUnknownType, scheduleType)
	}
}

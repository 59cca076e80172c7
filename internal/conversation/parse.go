package conversation

import (
	"strings"
	"time"

	"task-reminder-bot/internal/models"
)

// DeadlineLayout is the exact input format for deadlines, e.g. "31.12.2024 15:00"
const DeadlineLayout = "02.01.2006 15:04"

// PriorityLabels are the presented priority choices. The leading character
// of each label is the integer rank, which is all the parser relies on.
var PriorityLabels = []string{
	"1 - High",
	"2 - Medium",
	"3 - Low",
}

// ParsePriority extracts a priority rank from a keyboard label or free
// text. Any input whose first character is 1, 2 or 3 is accepted, so
// localized label variants parse the same way.
func ParsePriority(input string) (models.Priority, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, models.ErrBadPriority
	}

	switch input[0] {
	case '1':
		return models.PriorityHigh, nil
	case '2':
		return models.PriorityMedium, nil
	case '3':
		return models.PriorityLow, nil
	default:
		return 0, models.ErrBadPriority
	}
}

// ParseDeadline parses a DD.MM.YYYY HH:MM timestamp in the given location
// and normalizes it to minute granularity.
func ParseDeadline(input string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	t, err := time.ParseInLocation(DeadlineLayout, strings.TrimSpace(input), loc)
	if err != nil {
		return time.Time{}, models.ErrBadDeadline
	}

	return models.NormalizeDeadline(t), nil
}

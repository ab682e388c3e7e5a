package shared

import "time"

// ParseDate accepts RFC3339 timestamps (attendance requests carry a time of
// day) or plain YYYY-MM-DD (vacations and payroll periods). An empty value
// parses to the zero time; the caller decides whether that is acceptable.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

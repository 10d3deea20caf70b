package validation

import "time"

const dateLayout = "2006-01-02"

// ParseDate accepts an ISO-8601 calendar date, with or without a time
// component. Dates are stored in UTC.
func ParseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

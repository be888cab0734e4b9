package countdown

import (
	"errors"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var ErrBadDeadline = errors.New("expected YYYY-MM-DD or RFC 3339")

// ParseDeadline accepts RFC 3339 timestamps or plain dates. A plain date
// means the end of that day in UTC, so the deadline falls at the next
// midnight.
func ParseDeadline(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.UTC(), nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, ErrBadDeadline
	}
	return parsed.AddDate(0, 0, 1), nil
}

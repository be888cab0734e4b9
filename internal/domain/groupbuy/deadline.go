package groupbuy

import (
	"strings"
	"time"

	"linkcook-go/internal/domain/countdown"
)

// ParseDeadline reads a deadline as sent by clients. See countdown.ParseDeadline.
func ParseDeadline(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, invalid("deadline is required")
	}
	deadline, err := countdown.ParseDeadline(value)
	if err != nil {
		return time.Time{}, invalid("deadline: %v", err)
	}
	return deadline, nil
}

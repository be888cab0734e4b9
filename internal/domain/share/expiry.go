package share

import (
	"strings"
	"time"

	"linkcook-go/internal/domain/countdown"
)

// ParseExpiry returns nil for an empty value.
func ParseExpiry(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	expiry, err := countdown.ParseDeadline(value)
	if err != nil {
		return nil, invalid("expiry: " + err.Error())
	}
	return &expiry, nil
}

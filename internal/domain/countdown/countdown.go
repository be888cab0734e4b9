// Package countdown decomposes the time left until a deadline for display.
package countdown

import (
	"fmt"
	"time"
)

type Remaining struct {
	Closed  bool
	Days    int
	Hours   int
	Minutes int
}

// Until returns the time left between now and deadline. A deadline at or
// before now yields a closed Remaining; the result is never negative.
func Until(deadline, now time.Time) Remaining {
	diff := deadline.Sub(now)
	if diff <= 0 {
		return Remaining{Closed: true}
	}

	days := int(diff / (24 * time.Hour))
	diff -= time.Duration(days) * 24 * time.Hour
	hours := int(diff / time.Hour)
	diff -= time.Duration(hours) * time.Hour
	minutes := int(diff / time.Minute)

	return Remaining{Days: days, Hours: hours, Minutes: minutes}
}

// Closed is the terminal value for entities closed for reasons other than time.
func Closed() Remaining {
	return Remaining{Closed: true}
}

func (r Remaining) String() string {
	switch {
	case r.Closed:
		return "closed"
	case r.Days > 0:
		return fmt.Sprintf("%dd %dh %dm left", r.Days, r.Hours, r.Minutes)
	case r.Hours > 0:
		return fmt.Sprintf("%dh %dm left", r.Hours, r.Minutes)
	default:
		return fmt.Sprintf("%dm left", r.Minutes)
	}
}

package groupbuy

import (
	"math"
	"time"

	"linkcook-go/internal/domain/countdown"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// The functions below derive display state from persisted fields. Status is
// never stored because it depends on the current time.

func ProgressPercent(g *GroupBuy) int {
	if g.TotalCapacity <= 0 {
		return 100
	}
	ratio := float64(g.ParticipantCount) / float64(g.TotalCapacity)
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}
	return int(math.Round(ratio * 100))
}

func IsDeadlinePassed(g *GroupBuy, now time.Time) bool {
	return !now.Before(g.Deadline)
}

func IsFull(g *GroupBuy) bool {
	return g.ParticipantCount >= g.TotalCapacity
}

func IsClosed(g *GroupBuy, now time.Time) bool {
	return IsDeadlinePassed(g, now) || IsFull(g)
}

func StatusAt(g *GroupBuy, now time.Time) Status {
	if IsClosed(g, now) {
		return StatusClosed
	}
	return StatusOpen
}

func Remaining(g *GroupBuy, now time.Time) countdown.Remaining {
	if IsClosed(g, now) {
		return countdown.Closed()
	}
	return countdown.Until(g.Deadline, now)
}

package groupbuy

import (
	"errors"
	"testing"
	"time"
)

func TestParseDeadline(t *testing.T) {
	got, err := ParseDeadline("2026-07-01")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	if want := time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	got, err = ParseDeadline("2026-07-01T18:30:00+09:00")
	if err != nil {
		t.Fatalf("parse timestamp: %v", err)
	}
	if want := time.Date(2026, 7, 1, 9, 30, 0, 0, time.UTC); !got.Equal(want) || got.Location() != time.UTC {
		t.Fatalf("expected %v in UTC, got %v", want, got)
	}

	for _, value := range []string{"", "  ", "tomorrow", "2026-13-01"} {
		if _, err := ParseDeadline(value); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%q: expected ErrInvalidInput, got %v", value, err)
		}
	}
}

package vacation

import (
	"testing"
	"time"
)

func TestDaysBetween(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	if got := DaysBetween(start, start); got != 1 {
		t.Fatalf("single-day vacation should count 1 day, got %v", got)
	}
	if got := DaysBetween(start, start.AddDate(0, 0, 4)); got != 5 {
		t.Fatalf("expected 5 days inclusive, got %v", got)
	}
}

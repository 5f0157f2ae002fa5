package clock

import (
	"testing"
	"time"
)

func TestSystemClock_UTCAndTruncated(t *testing.T) {
	loc := time.FixedZone("PDT", -7*60*60)
	c := SystemClock{now: func() time.Time {
		return time.Date(2024, 3, 1, 10, 0, 0, 123456789, loc)
	}}

	got := c.Now()
	want := time.Date(2024, 3, 1, 17, 0, 0, 123000000, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Fatalf("Now()=%v want=%v", got, want)
	}
}

func TestSystemClock_ZeroValue(t *testing.T) {
	var c SystemClock
	if got := c.Now(); got.IsZero() || got.Nanosecond()%int(Precision) != 0 {
		t.Fatalf("Now()=%v", got)
	}
}

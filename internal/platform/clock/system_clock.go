package clock

import "time"

// Precision is the resolution of job timestamps. Every store keeps at least millisecond
// precision, so a timestamp read back equals the one written.
const Precision = time.Millisecond

// SystemClock returns the current wall-clock time in UTC, truncated to Precision.
type SystemClock struct {
	now func() time.Time
}

func NewSystemClock() SystemClock { return SystemClock{now: time.Now} }

func (c SystemClock) Now() time.Time {
	now := c.now
	if now == nil {
		now = time.Now
	}
	return now().UTC().Truncate(Precision)
}

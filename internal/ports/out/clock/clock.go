package clock

import "time"

// Clock provides time to the application.
// Job timestamps come from here so tests can pin them.
type Clock interface {
	Now() time.Time
}

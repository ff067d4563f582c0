package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock abstracts time to keep services deterministic in tests.
type Clock interface {
	Now() time.Time
}

// System returns the wall clock. Tests substitute clockwork.NewFakeClockAt.
func System() Clock {
	return clockwork.NewRealClock()
}

package gesture

import "github.com/jonboulle/clockwork"

// Clock schedules the single-click timers and timestamps sessions. Tests
// pass a fake clock; production uses clockwork.NewRealClock.
type Clock = clockwork.Clock

// Timer is a pending single-click callback.
type Timer = clockwork.Timer

package session

import "fmt"

// TickInterval is the countdown period in seconds.
const TickInterval = 1

// Urgency thresholds for the countdown display.
const (
	DangerSeconds  = 60
	WarningSeconds = 300
)

// Urgency classifies the remaining time for display.
type Urgency int

const (
	UrgencyNormal Urgency = iota
	UrgencyWarning
	UrgencyDanger
)

// UrgencyFor returns the urgency level for the remaining seconds.
func UrgencyFor(remaining int) Urgency {
	switch {
	case remaining <= DangerSeconds:
		return UrgencyDanger
	case remaining <= WarningSeconds:
		return UrgencyWarning
	default:
		return UrgencyNormal
	}
}

// FormatClock renders seconds as m:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// TickOutcome is what a timer tick did to the session.
type TickOutcome int

const (
	// TickIgnored means the tick was stale or no countdown is running.
	TickIgnored TickOutcome = iota
	// TickCounted means one second was taken off the clock.
	TickCounted
	// TickExpired means time ran out and answers were auto-submitted.
	TickExpired
)

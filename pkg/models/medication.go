package models

import (
	"fmt"
	"time"
)

// FoodTiming tags a dose relative to meals
type FoodTiming string

const (
	FoodTimingBeforeFood FoodTiming = "before_food"
	FoodTimingAfterFood  FoodTiming = "after_food"
	FoodTimingWithFood   FoodTiming = "with_food"
	FoodTimingAnyTime    FoodTiming = "any_time"
)

// Medication represents one prescribed dose schedule. The alert engine treats
// it as read-only input except for the Completed flag, which the reconciler
// observes (never writes) to decide when an episode ends.
type Medication struct {
	ID            string     `yaml:"id"`
	PatientID     string     `yaml:"patient_id"`
	RoomNumber    string     `yaml:"room_number"`
	MedicineName  string     `yaml:"medicine_name"`
	Dosage        string     `yaml:"dosage"`
	DurationDays  int        `yaml:"duration_days"`
	FoodTiming    FoodTiming `yaml:"food_timing"`
	Time          string     `yaml:"time"`           // primary dose time, 24-hour HH:MM
	SpecificTimes []string   `yaml:"specific_times"` // optional additional times, ascending
	Priority      Priority   `yaml:"priority"`       // optional hint from the prescriber
	Completed     bool       `yaml:"completed"`
}

// DoseTimes returns the primary time followed by any specific times.
func (m *Medication) DoseTimes() []string {
	times := make([]string, 0, 1+len(m.SpecificTimes))
	times = append(times, m.Time)
	times = append(times, m.SpecificTimes...)
	return times
}

// Validate checks the schedule invariants: the primary time is a well-formed
// 24-hour HH:MM string and specific times (if present) are each well-formed
// and sorted ascending.
func (m *Medication) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("medication has no id")
	}
	if _, err := ParseClockTime(m.Time); err != nil {
		return fmt.Errorf("medication %s: %w", m.ID, err)
	}

	prev := -1
	for _, s := range m.SpecificTimes {
		ct, err := ParseClockTime(s)
		if err != nil {
			return fmt.Errorf("medication %s: %w", m.ID, err)
		}
		if ct.MinuteOfDay() <= prev {
			return fmt.Errorf("medication %s: specific times not sorted ascending at %q", m.ID, s)
		}
		prev = ct.MinuteOfDay()
	}

	return nil
}

// ClockTime is a time of day at minute precision.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses a strict 24-hour "HH:MM" string.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("malformed time %q: %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// MinuteOfDay returns the minutes elapsed since midnight.
func (c ClockTime) MinuteOfDay() int {
	return c.Hour*60 + c.Minute
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

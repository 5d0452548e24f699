package models

import "testing"

func TestParseClockTime(t *testing.T) {
	valid := []struct {
		in     string
		hour   int
		minute int
	}{
		{"00:00", 0, 0},
		{"09:05", 9, 5},
		{"12:30", 12, 30},
		{"23:59", 23, 59},
	}
	for _, tt := range valid {
		t.Run(tt.in, func(t *testing.T) {
			ct, err := ParseClockTime(tt.in)
			if err != nil {
				t.Fatalf("ParseClockTime(%q) returned error: %v", tt.in, err)
			}
			if ct.Hour != tt.hour || ct.Minute != tt.minute {
				t.Errorf("ParseClockTime(%q) = %v, want %02d:%02d", tt.in, ct, tt.hour, tt.minute)
			}
		})
	}

	invalid := []string{"", "25:00", "12:60", "noon", "12.30", "12:305"}
	for _, in := range invalid {
		t.Run("invalid_"+in, func(t *testing.T) {
			if _, err := ParseClockTime(in); err == nil {
				t.Errorf("ParseClockTime(%q) succeeded, want error", in)
			}
		})
	}
}

func TestClockTimeMinuteOfDay(t *testing.T) {
	ct := ClockTime{Hour: 9, Minute: 30}
	if got := ct.MinuteOfDay(); got != 570 {
		t.Errorf("MinuteOfDay() = %d, want 570", got)
	}
	if got := ct.String(); got != "09:30" {
		t.Errorf("String() = %q, want %q", got, "09:30")
	}
}

func TestMedicationValidate(t *testing.T) {
	tests := []struct {
		name    string
		med     Medication
		wantErr bool
	}{
		{
			name: "valid primary only",
			med:  Medication{ID: "m1", Time: "09:00"},
		},
		{
			name: "valid with ascending specific times",
			med:  Medication{ID: "m1", Time: "08:00", SpecificTimes: []string{"12:00", "18:00", "22:30"}},
		},
		{
			name:    "missing id",
			med:     Medication{Time: "09:00"},
			wantErr: true,
		},
		{
			name:    "malformed primary time",
			med:     Medication{ID: "m1", Time: "9am"},
			wantErr: true,
		},
		{
			name:    "malformed specific time",
			med:     Medication{ID: "m1", Time: "08:00", SpecificTimes: []string{"12:00", "bad"}},
			wantErr: true,
		},
		{
			name:    "specific times out of order",
			med:     Medication{ID: "m1", Time: "08:00", SpecificTimes: []string{"18:00", "12:00"}},
			wantErr: true,
		},
		{
			name:    "duplicate specific times",
			med:     Medication{ID: "m1", Time: "08:00", SpecificTimes: []string{"12:00", "12:00"}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.med.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDoseTimes(t *testing.T) {
	med := Medication{ID: "m1", Time: "08:00", SpecificTimes: []string{"12:00", "18:00"}}
	got := med.DoseTimes()
	want := []string{"08:00", "12:00", "18:00"}
	if len(got) != len(want) {
		t.Fatalf("DoseTimes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DoseTimes()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDoseStateSeverity(t *testing.T) {
	order := []DoseState{DoseStateNotDue, DoseStateApproaching, DoseStateOverdue, DoseStateDueNow}
	for i := 1; i < len(order); i++ {
		if order[i].Severity() <= order[i-1].Severity() {
			t.Errorf("Severity(%s) = %d not greater than Severity(%s) = %d",
				order[i], order[i].Severity(), order[i-1], order[i-1].Severity())
		}
	}
}

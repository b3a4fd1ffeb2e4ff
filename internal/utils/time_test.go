package utils

import (
	"testing"
	"time"
	_ "time/tzdata"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: ""},
		{name: "Local returns local", timezone: "Local"},
		{name: "valid timezone America/New_York", timezone: "America/New_York"},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestDayBounds(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	ts := time.Date(2024, 3, 5, 14, 30, 0, 0, loc)

	start := StartOfDay(ts)
	if want := time.Date(2024, 3, 5, 0, 0, 0, 0, loc); !start.Equal(want) {
		t.Errorf("StartOfDay() = %v, want %v", start, want)
	}
	end := EndOfDay(ts)
	if want := time.Date(2024, 3, 5, 23, 59, 59, 999000000, loc); !end.Equal(want) {
		t.Errorf("EndOfDay() = %v, want %v", end, want)
	}

	if !SameDay(time.Date(2024, 3, 5, 23, 59, 59, 999000000, loc), ts) {
		t.Error("expected last millisecond to fall on the same day")
	}
	if SameDay(time.Date(2024, 3, 6, 0, 0, 0, 0, loc), ts) {
		t.Error("expected next midnight to fall on a different day")
	}
	// 03:00 UTC on the 6th is 22:00 on the 5th at UTC-5
	if !SameDay(time.Date(2024, 3, 6, 3, 0, 0, 0, time.UTC), ts) {
		t.Error("expected comparison in the reference location")
	}
}

func TestDaysBetween_DST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation() error = %v", err)
	}

	// Spring forward on 2024-03-10 makes that day 23 hours long
	from := time.Date(2024, 3, 9, 9, 0, 0, 0, ny)
	to := time.Date(2024, 3, 11, 8, 0, 0, 0, ny)
	if got := DaysBetween(from, to); got != 2 {
		t.Errorf("DaysBetween() across spring forward = %d, want 2", got)
	}

	// Fall back on 2024-11-03 makes that day 25 hours long
	from = time.Date(2024, 11, 2, 9, 0, 0, 0, ny)
	to = time.Date(2024, 11, 9, 9, 0, 0, 0, ny)
	if got := DaysBetween(from, to); got != 7 {
		t.Errorf("DaysBetween() across fall back = %d, want 7", got)
	}

	if got := DaysBetween(to, from); got != -7 {
		t.Errorf("DaysBetween() backwards = %d, want -7", got)
	}
}

func TestParseDueDate(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{input: "2024-01-01 09:00", want: time.Date(2024, 1, 1, 9, 0, 0, 0, loc)},
		{input: "2024-01-01", want: time.Date(2024, 1, 1, 9, 0, 0, 0, loc)},
		{input: "2024-01-01T07:00:00Z", want: time.Date(2024, 1, 1, 9, 0, 0, 0, loc)},
		{input: "tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDueDate(tt.input, loc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDueDate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseDueDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDueDate_DSTDays(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	for _, day := range []string{"2024-03-10", "2024-11-03"} {
		t.Run(day, func(t *testing.T) {
			got, err := ParseDueDate(day, ny)
			if err != nil {
				t.Fatalf("ParseDueDate() error = %v", err)
			}
			if got.Hour() != 9 || got.Minute() != 0 {
				t.Errorf("ParseDueDate(%q) = %s, want 09:00 wall clock", day, got.Format(time.RFC3339))
			}
		})
	}
}

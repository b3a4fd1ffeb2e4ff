package utils

import (
	"testing"
	"time"

	"github.com/julianstephens/nudge/internal/constants"
	"github.com/julianstephens/nudge/internal/models"
)

func reminderAt(due time.Time, rec *models.Recurrence) models.Reminder {
	r := models.Reminder{ID: "r1", Title: "Test", DueDate: due, CreatedAt: due, Recurrence: rec}
	r.NormalizeCompletion()
	return r
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestIsDueOnDate_SingleShot(t *testing.T) {
	r := reminderAt(time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC), nil)

	due := 0
	for d := day(2024, 2, 1); d.Before(day(2024, 5, 1)); d = d.AddDate(0, 0, 1) {
		if IsDueOnDate(r, d) {
			due++
			if d.Day() != 5 || d.Month() != time.March {
				t.Errorf("unexpected due day %s", d.Format(constants.DateFormat))
			}
		}
	}
	if due != 1 {
		t.Errorf("due on %d days, want exactly 1", due)
	}
}

func TestIsDueOnDate_Weekly(t *testing.T) {
	anchor := time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC)
	r := reminderAt(anchor, &models.Recurrence{Type: constants.RecurrenceWeekly})

	tests := []struct {
		date time.Time
		want bool
	}{
		{day(2023, 12, 27), false},
		{day(2024, 1, 2), false},
		{day(2024, 1, 3), true},
		{day(2024, 1, 4), false},
		{day(2024, 1, 10), true},
		{day(2024, 1, 17), true},
		{day(2024, 1, 18), false},
		{day(2024, 6, 5), true},
	}

	for _, tt := range tests {
		t.Run(tt.date.Format(constants.DateFormat), func(t *testing.T) {
			if got := IsDueOnDate(r, tt.date); got != tt.want {
				t.Errorf("IsDueOnDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsDueOnDate_Daily(t *testing.T) {
	r := reminderAt(time.Date(2024, 1, 3, 23, 0, 0, 0, time.UTC), &models.Recurrence{Type: constants.RecurrenceDaily})

	if IsDueOnDate(r, day(2024, 1, 2)) {
		t.Error("expected not due before the anchor")
	}
	for d := day(2024, 1, 3); d.Before(day(2024, 2, 3)); d = d.AddDate(0, 0, 1) {
		if !IsDueOnDate(r, d) {
			t.Errorf("expected due on %s", d.Format(constants.DateFormat))
		}
	}
}

func TestIsDueOnDate_Monthly(t *testing.T) {
	payRent := reminderAt(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), &models.Recurrence{Type: constants.RecurrenceMonthly})

	if !IsDueOnDate(payRent, day(2024, 2, 1)) {
		t.Error("expected Pay rent due on 2024-02-01")
	}
	if !IsDueOnDate(payRent, day(2024, 3, 1)) {
		t.Error("expected Pay rent due on 2024-03-01")
	}
	if IsDueOnDate(payRent, day(2024, 1, 15)) {
		t.Error("expected Pay rent not due on 2024-01-15")
	}
	if IsDueOnDate(payRent, day(2023, 12, 1)) {
		t.Error("expected Pay rent not due before the anchor")
	}

	t.Run("short months are skipped", func(t *testing.T) {
		r := reminderAt(time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC), &models.Recurrence{Type: constants.RecurrenceMonthly})
		got := DueOccurrences(r, day(2024, 1, 1), day(2024, 6, 30))
		want := []time.Time{
			time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
		}
		if len(got) != len(want) {
			t.Fatalf("DueOccurrences() = %v, want %v", got, want)
		}
		for i := range want {
			if !got[i].Equal(want[i]) {
				t.Errorf("occurrence %d = %v, want %v", i, got[i], want[i])
			}
		}
	})
}

func TestIsDueOnDate_Custom(t *testing.T) {
	anchor := time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		days int
		want []int
	}{
		{name: "every 3 days", days: 3, want: []int{1, 4, 7, 10}},
		{name: "every 5 days", days: 5, want: []int{1, 6}},
		{name: "zero is clamped to daily", days: 0, want: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := reminderAt(anchor, &models.Recurrence{Type: constants.RecurrenceCustom, CustomDays: tt.days})
			var got []int
			for _, d := range DueOccurrences(r, day(2023, 12, 25), day(2024, 1, 10)) {
				got = append(got, d.Day())
			}
			if len(got) != len(tt.want) {
				t.Fatalf("due days = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("due days = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestIsDueOnDate_UnknownType(t *testing.T) {
	r := reminderAt(time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC), &models.Recurrence{Type: "yearly"})
	if IsDueOnDate(r, day(2024, 1, 1)) {
		t.Error("expected unknown recurrence type never to be due")
	}
}

func TestIsDueOnDate_WeeklyAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation() error = %v", err)
	}
	r := reminderAt(time.Date(2024, 3, 4, 0, 30, 0, 0, ny), &models.Recurrence{Type: constants.RecurrenceWeekly})

	if !IsDueOnDate(r, time.Date(2024, 3, 11, 0, 10, 0, 0, ny)) {
		t.Error("expected weekly reminder due one week later across spring forward")
	}
	if IsDueOnDate(r, time.Date(2024, 3, 10, 23, 50, 0, 0, ny)) {
		t.Error("expected weekly reminder not due the day before")
	}
}

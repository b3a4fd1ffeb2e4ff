package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/nudge/internal/constants"
)

func TestReminder_Validate(t *testing.T) {
	due := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		reminder Reminder
		wantErr  bool
	}{
		{
			name:     "valid single-shot reminder",
			reminder: Reminder{ID: "r1", Title: "Call mom", DueDate: due},
			wantErr:  false,
		},
		{
			name: "valid custom reminder",
			reminder: Reminder{
				ID: "r1", Title: "Water plants", DueDate: due,
				Recurrence: &Recurrence{Type: constants.RecurrenceCustom, CustomDays: 3},
			},
			wantErr: false,
		},
		{
			name:     "blank title",
			reminder: Reminder{ID: "r1", Title: "   ", DueDate: due},
			wantErr:  true,
		},
		{
			name:     "missing id",
			reminder: Reminder{Title: "Call mom", DueDate: due},
			wantErr:  true,
		},
		{
			name:     "missing due date",
			reminder: Reminder{ID: "r1", Title: "Call mom"},
			wantErr:  true,
		},
		{
			name: "custom without days",
			reminder: Reminder{
				ID: "r1", Title: "Water plants", DueDate: due,
				Recurrence: &Recurrence{Type: constants.RecurrenceCustom},
			},
			wantErr: true,
		},
		{
			name: "unknown recurrence",
			reminder: Reminder{
				ID: "r1", Title: "Water plants", DueDate: due,
				Recurrence: &Recurrence{Type: "yearly"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reminder.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidReminder) {
				t.Errorf("Validate() error = %v, want it to wrap ErrInvalidReminder", err)
			}
		})
	}
}

func TestReminder_UnmarshalStoredRecord(t *testing.T) {
	t.Run("single-shot", func(t *testing.T) {
		data := `{"id":"a1","title":"Dentist","dueDate":"2024-03-05T14:30:00.000Z","createdAt":"2024-03-01T08:00:00.000Z","completed":true,"completedAt":"2024-03-05T15:00:00.000Z"}`
		var r Reminder
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if r.IsRecurring() {
			t.Fatal("expected single-shot reminder")
		}
		s, ok := r.Completion.(SingleShot)
		if !ok {
			t.Fatalf("Completion = %T, want SingleShot", r.Completion)
		}
		if !s.Completed || s.CompletedAt == nil {
			t.Errorf("completion = %+v, want completed with timestamp", s)
		}
	})

	t.Run("recurring drops single-shot fields", func(t *testing.T) {
		data := `{"id":"b2","title":"Pay rent","dueDate":"2024-01-01T09:00:00.000Z","createdAt":"2024-01-01T08:00:00.000Z","recurrence":{"type":"monthly"},"completed":true,"completedDates":["2024-02-01T10:00:00.000Z"]}`
		var r Reminder
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		rec, ok := r.Completion.(Recurring)
		if !ok {
			t.Fatalf("Completion = %T, want Recurring", r.Completion)
		}
		if len(rec.CompletedDates) != 1 {
			t.Errorf("CompletedDates = %v, want 1 entry", rec.CompletedDates)
		}

		out, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		var raw map[string]any
		if err := json.Unmarshal(out, &raw); err != nil {
			t.Fatalf("Unmarshal(raw) error = %v", err)
		}
		if raw["completed"] != false {
			t.Errorf("completed = %v, want false for recurring reminder", raw["completed"])
		}
		if _, ok := raw["completedAt"]; ok {
			t.Error("completedAt should not be written for recurring reminder")
		}
	})
}

func TestReminder_Clone(t *testing.T) {
	day := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	orig := Reminder{
		ID: "r1", Title: "Stretch", DueDate: day,
		Recurrence: &Recurrence{Type: constants.RecurrenceDaily},
		Completion: Recurring{CompletedDates: []time.Time{day}},
	}

	c := orig.Clone()
	c.Recurrence.Type = constants.RecurrenceWeekly
	c.RecurringState().CompletedDates[0] = day.AddDate(0, 0, 1)

	if orig.Recurrence.Type != constants.RecurrenceDaily {
		t.Errorf("original recurrence changed to %q", orig.Recurrence.Type)
	}
	if !orig.RecurringState().CompletedDates[0].Equal(day) {
		t.Errorf("original completed dates changed to %v", orig.RecurringState().CompletedDates)
	}
}

func TestReminder_NormalizeCompletion(t *testing.T) {
	r := Reminder{
		ID: "r1", Title: "Stretch",
		Recurrence: &Recurrence{Type: constants.RecurrenceDaily},
		Completion: SingleShot{Completed: true},
	}
	r.NormalizeCompletion()
	if _, ok := r.Completion.(Recurring); !ok {
		t.Fatalf("Completion = %T, want Recurring", r.Completion)
	}

	r.Recurrence = nil
	r.NormalizeCompletion()
	if s, ok := r.Completion.(SingleShot); !ok || s.Completed {
		t.Fatalf("Completion = %#v, want zero SingleShot", r.Completion)
	}
}

func TestParseRecurrence(t *testing.T) {
	tests := []struct {
		kind    string
		days    int
		want    *Recurrence
		wantErr bool
	}{
		{kind: "", want: nil},
		{kind: "none", want: nil},
		{kind: "Daily", want: &Recurrence{Type: constants.RecurrenceDaily}},
		{kind: "weekly", days: 4, want: &Recurrence{Type: constants.RecurrenceWeekly}},
		{kind: "custom", days: 3, want: &Recurrence{Type: constants.RecurrenceCustom, CustomDays: 3}},
		{kind: "custom", days: 0, wantErr: true},
		{kind: "hourly", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			got, err := ParseRecurrence(tt.kind, tt.days)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRecurrence() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("ParseRecurrence() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRecurrence_Interval(t *testing.T) {
	if got := (Recurrence{Type: constants.RecurrenceCustom}).Interval(); got != 1 {
		t.Errorf("Interval() = %d, want 1", got)
	}
	if got := (Recurrence{Type: constants.RecurrenceCustom, CustomDays: 5}).Interval(); got != 5 {
		t.Errorf("Interval() = %d, want 5", got)
	}
}

func TestReminder_CheckStored(t *testing.T) {
	due := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		r       Reminder
		wantErr bool
	}{
		{name: "once", r: Reminder{ID: "a", Title: "Dentist", DueDate: due}},
		{name: "custom zero days", r: Reminder{ID: "a", Title: "Stretch", DueDate: due, Recurrence: &Recurrence{Type: constants.RecurrenceCustom}}},
		{name: "custom negative days", r: Reminder{ID: "a", Title: "Stretch", DueDate: due, Recurrence: &Recurrence{Type: constants.RecurrenceCustom, CustomDays: -3}}},
		{name: "unknown type", r: Reminder{ID: "a", Title: "x", DueDate: due, Recurrence: &Recurrence{Type: "hourly"}}, wantErr: true},
		{name: "missing id", r: Reminder{Title: "x", DueDate: due}, wantErr: true},
		{name: "blank title", r: Reminder{ID: "a", Title: " ", DueDate: due}, wantErr: true},
		{name: "missing due", r: Reminder{ID: "a", Title: "x"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.CheckStored()
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckStored() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidReminder) {
				t.Errorf("CheckStored() error = %v, want ErrInvalidReminder", err)
			}
		})
	}
}

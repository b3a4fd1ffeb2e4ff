package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/nudge/internal/logger"
	"github.com/julianstephens/nudge/internal/models"
)

// skippedRecord is a stored record that did not load.
type skippedRecord struct {
	index     int
	id        string
	raw       json.RawMessage
	reason    error
	duplicate bool
}

// DecodeReminders parses a stored collection. Records that do not parse or
// lack an id, title, due date or known recurrence type are skipped, as are
// repeated ids after their first record. Only a blob that is not a JSON array
// at all is an error.
func DecodeReminders(data []byte) ([]models.Reminder, error) {
	reminders, skipped, err := decode(data)
	if err != nil {
		return nil, err
	}
	for _, s := range skipped {
		if s.duplicate {
			logger.Warn("Skipping duplicate reminder record", "index", s.index, "id", s.id)
			continue
		}
		logger.Warn("Skipping unreadable reminder record", "index", s.index, "id", s.id, "error", s.reason)
	}
	return reminders, nil
}

func decode(data []byte) ([]models.Reminder, []skippedRecord, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.Reminder{}, nil, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to parse reminder collection: %w", err)
	}

	reminders := make([]models.Reminder, 0, len(raw))
	var skipped []skippedRecord
	seen := make(map[string]bool, len(raw))
	for i, rec := range raw {
		var r models.Reminder
		err := json.Unmarshal(rec, &r)
		if err == nil {
			err = r.CheckStored()
		}
		if err != nil {
			skipped = append(skipped, skippedRecord{index: i, id: recordID(rec), raw: rec, reason: err})
			continue
		}
		if seen[r.ID] {
			skipped = append(skipped, skippedRecord{index: i, id: r.ID, raw: rec, duplicate: true})
			continue
		}
		seen[r.ID] = true
		reminders = append(reminders, r)
	}
	return reminders, skipped, nil
}

// recordID returns the id of a record that may not otherwise parse.
func recordID(rec json.RawMessage) string {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec, &probe); err != nil {
		return ""
	}
	return probe.ID
}

// EncodeReminders serializes the collection in its stored form. Records of
// the previous blob that did not load are written back verbatim after the
// reminders, unless one of the reminders now carries their id. Repeated ids
// are not carried over. A previous blob that is not a collection at all is
// never overwritten.
func EncodeReminders(reminders []models.Reminder, previous []byte) ([]byte, error) {
	records := make([]json.RawMessage, 0, len(reminders))
	ids := make(map[string]bool, len(reminders))
	for _, r := range reminders {
		rec, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize reminder %s: %w", r.ID, err)
		}
		records = append(records, rec)
		ids[r.ID] = true
	}

	if len(previous) > 0 {
		_, skipped, err := decode(previous)
		if err != nil {
			return nil, fmt.Errorf("refusing to overwrite unreadable reminder collection: %w", err)
		}
		for _, s := range skipped {
			if s.duplicate || (s.id != "" && ids[s.id]) {
				continue
			}
			records = append(records, s.raw)
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize reminders: %w", err)
	}
	return data, nil
}

package scheduler

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/julianstephens/nudge/internal/models"
)

// Memory keeps registered triggers without firing them. It backs short-lived
// processes that only need to compute and report the trigger set.
type Memory struct {
	mu      sync.Mutex
	entries map[Handle]Scheduled
	order   []Handle
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[Handle]Scheduled)}
}

func (m *Memory) Schedule(_ context.Context, spec models.TriggerSpec) (Handle, error) {
	if err := Validate(spec); err != nil {
		return "", err
	}
	h := Handle(uuid.New().String())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[h] = Scheduled{Handle: h, Tag: spec.Tag, Trigger: spec}
	m.order = append(m.order, h)
	return h, nil
}

func (m *Memory) Cancel(_ context.Context, h Handle) error {
	m.remove(h)
	return nil
}

func (m *Memory) ListScheduled(_ context.Context) ([]Scheduled, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Scheduled, 0, len(m.entries))
	for _, h := range m.order {
		if s, ok := m.entries[h]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *Memory) CancelAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[Handle]Scheduled)
	m.order = nil
	return nil
}

// Len returns the number of registered triggers.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) lookup(h Handle) (Scheduled, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.entries[h]
	return s, ok
}

func (m *Memory) remove(h Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[h]; !ok {
		return false
	}
	delete(m.entries, h)
	for i, existing := range m.order {
		if existing == h {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

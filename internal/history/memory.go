package history

import "sync"

type Memory struct {
	mu        sync.RWMutex
	samples   []Sample
	retention int
	closed    bool
}

func NewMemory(retention int, seed ...Sample) *Memory {
	m := &Memory{retention: retention}
	m.samples = trim(append([]Sample(nil), seed...), retention)
	return m
}

func (m *Memory) Append(s Sample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.samples = trim(append(m.samples, s), m.retention)
	return nil
}

func (m *Memory) All() ([]Sample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	out := make([]Sample, len(m.samples))
	copy(out, m.samples)
	return out, nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.samples)
}

func (m *Memory) LastSnapshot() (Sample, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Last(m.samples)
}

func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples = nil
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

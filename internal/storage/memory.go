package storage

import "sync"

// Memory is an in-process backend for tests.
type Memory struct {
	mu        sync.Mutex
	snapshots map[string][]byte
	failSaves bool
}

func NewMemory() *Memory {
	return &Memory{snapshots: make(map[string][]byte)}
}

func (m *Memory) Load(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.snapshots[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, true, nil
}

func (m *Memory) Save(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSaves {
		return errSaveFailed
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.snapshots[key] = cp
	return nil
}

func (m *Memory) Close() error { return nil }

// Seed plants a raw snapshot, bypassing Save failures. Test hook.
func (m *Memory) Seed(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[key] = append([]byte(nil), data...)
}

// FailSaves makes every subsequent Save return an error. Test hook for the
// best-effort persistence contract.
func (m *Memory) FailSaves(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSaves = fail
}

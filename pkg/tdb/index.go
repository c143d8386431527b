package tdb

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

// IndexState is the persisted shape of an IndexManager: a format
// generation, a monotonically increasing ID allocator, and any number
// of named secondary indices (e.g. category -> resource IDs).
type IndexState struct {
	Generation uint64              `json:"generation"`
	NextID     uint64              `json:"next_id"`
	Secondary  map[string][]string `json:"secondary,omitempty"`
}

// IndexManager tracks side-car bookkeeping for a Database that lives
// next to the bbolt file itself rather than inside it, since it is
// rewritten far more often than the data it indexes and benefits from
// a plain atomic file swap instead of a bbolt transaction.
type IndexManager struct {
	path string
	mu   sync.Mutex
	next uint64 // accessed via sync/atomic, authoritative NextID counter
	gen  uint64
	sec  map[string][]string
}

// LoadIndexManager reads the side-car file at path, or starts a fresh
// IndexManager at generation 1 if it does not exist yet.
func LoadIndexManager(path string) (*IndexManager, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &IndexManager{path: path, gen: 1, sec: map[string][]string{}}, nil
	}
	if err != nil {
		return nil, newErr(IO, err)
	}
	var state IndexState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, newErr(Corrupted, err)
	}
	if state.Secondary == nil {
		state.Secondary = map[string][]string{}
	}
	return &IndexManager{
		path: path,
		gen:  state.Generation,
		next: state.NextID,
		sec:  state.Secondary,
	}, nil
}

// NextID atomically allocates and returns the next free integer ID.
func (m *IndexManager) NextID() uint64 {
	return atomic.AddUint64(&m.next, 1)
}

// Generation returns the current format generation.
func (m *IndexManager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen
}

// BumpGeneration increments the format generation, used when a schema
// migration has just run against the underlying database.
func (m *IndexManager) BumpGeneration() {
	m.mu.Lock()
	m.gen++
	m.mu.Unlock()
}

// AddToSecondary appends value to the named secondary index, ignoring
// the call if value is already present.
func (m *IndexManager) AddToSecondary(name, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.sec[name] {
		if v == value {
			return
		}
	}
	m.sec[name] = append(m.sec[name], value)
}

// RemoveFromSecondary removes value from the named secondary index.
func (m *IndexManager) RemoveFromSecondary(name, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := m.sec[name]
	for i, v := range entries {
		if v == value {
			m.sec[name] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// Secondary returns a copy of the named secondary index.
func (m *IndexManager) Secondary(name string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	src := m.sec[name]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Flush persists the current state to the side-car file atomically:
// write to a temp file in the same directory, then rename over the
// target, so a crash mid-write never leaves a truncated file behind.
func (m *IndexManager) Flush() error {
	m.mu.Lock()
	state := IndexState{
		Generation: m.gen,
		NextID:     atomic.LoadUint64(&m.next),
		Secondary:  m.sec,
	}
	m.mu.Unlock()

	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return newErr(IO, err)
	}

	dir := filepath.Dir(m.path)
	tmp, err := os.CreateTemp(dir, ".tdb-index-*")
	if err != nil {
		return newErr(IO, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return newErr(IO, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return newErr(IO, err)
	}
	if err := os.Rename(tmpPath, m.path); err != nil {
		os.Remove(tmpPath)
		return newErr(IO, err)
	}
	return nil
}

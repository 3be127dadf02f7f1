package ledger

import (
	"sync"

	"github.com/ringmask/ringmask/pkg/version"
)

// Memory is a map-backed Ledger. It satisfies the full contract minus
// durability, which makes it the backend of choice for tests and for
// hosts that manage persistence themselves.
type Memory struct {
	mu   sync.RWMutex
	seen map[string][3]int
}

func NewMemory() *Memory {
	return &Memory{seen: make(map[string][3]int)}
}

func (m *Memory) IsNew(key Key) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.seen[key.String()]
	return !ok
}

func (m *Memory) IsNewRelativeTo(key Key, v version.Version) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	last, ok := m.seen[key.String()]
	if !ok {
		return true
	}
	return v.NewerThanParts(last[0], last[1], last[2])
}

func (m *Memory) Register(key Key, v version.Version) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[key.String()] = [3]int{v.Major, v.Minor, v.Patch}
}

func (m *Memory) Unregister(key Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seen, key.String())
}

// Len reports the number of recorded keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.seen)
}

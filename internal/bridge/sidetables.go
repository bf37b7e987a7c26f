package bridge

import (
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// SideTables hold the per-slot data tables scripts attach to players,
// humans, items, vehicles and particles. Tables are created on first use
// and all of them are dropped on reset.
type SideTables struct {
	mu    sync.Mutex
	kinds map[string]map[int]*lua.LTable
}

func NewSideTables() *SideTables {
	return &SideTables{kinds: make(map[string]map[int]*lua.LTable)}
}

// Get returns the table for slot idx of kind, creating it in L if needed.
func (s *SideTables) Get(L *lua.LState, kind string, idx int) *lua.LTable {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.kinds[kind]
	if m == nil {
		m = make(map[int]*lua.LTable)
		s.kinds[kind] = m
	}
	t := m[idx]
	if t == nil {
		t = L.NewTable()
		m[idx] = t
	}
	return t
}

// Drop forgets one slot's table, as when its record is deleted.
func (s *SideTables) Drop(kind string, idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.kinds[kind], idx)
}

// Clear forgets every table of every kind.
func (s *SideTables) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.kinds)
}

// Len counts the live tables of kind.
func (s *SideTables) Len(kind string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.kinds[kind])
}

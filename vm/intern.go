package vm

import "sync"

// ---------------------------------------------------------------------------
// StringTable: Interned strings
// ---------------------------------------------------------------------------

// StringTable deduplicates strings to a single canonical copy. Function
// names and docstrings go through the table so that every wrapper exposing
// the same name shares one backing string, and so that image snapshots can
// record the full set.
type StringTable struct {
	mu    sync.RWMutex
	canon map[string]string
	order []string // insertion order, for deterministic snapshots
}

// NewStringTable creates a new empty string table.
func NewStringTable() *StringTable {
	return &StringTable{
		canon: make(map[string]string),
	}
}

// Intern returns the canonical copy of text, adding it if needed.
func (st *StringTable) Intern(text string) string {
	// Fast path: read-only lookup
	st.mu.RLock()
	if c, ok := st.canon[text]; ok {
		st.mu.RUnlock()
		return c
	}
	st.mu.RUnlock()

	// Slow path: need to add new string
	st.mu.Lock()
	defer st.mu.Unlock()

	// Double-check after acquiring write lock
	if c, ok := st.canon[text]; ok {
		return c
	}

	st.canon[text] = text
	st.order = append(st.order, text)
	return text
}

// Contains reports whether text has been interned.
func (st *StringTable) Contains(text string) bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	_, ok := st.canon[text]
	return ok
}

// Len returns the number of interned strings.
func (st *StringTable) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.order)
}

// All returns every interned string in insertion order.
func (st *StringTable) All() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	result := make([]string, len(st.order))
	copy(result, st.order)
	return result
}

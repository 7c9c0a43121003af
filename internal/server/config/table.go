package config

import (
	"maps"
	"strings"
	"sync"
)

// Table is the runtime configuration table served by CONFIG GET and
// CONFIG SET. Keys are case-insensitive and stored lower-cased.
//
// Table uses its own lock and never touches the key-value store.
type Table struct {
	// notifyMu orders writes together with their notifications, so
	// listeners observe changes in table order.
	notifyMu sync.Mutex

	mu        sync.RWMutex
	values    map[string]string
	listeners []func(key, value string)
}

// NewTable creates a table holding a copy of initial.
func NewTable(initial map[string]string) *Table {
	t := &Table{values: make(map[string]string, len(initial))}
	for k, v := range initial {
		t.values[normalizeKey(k)] = v
	}
	return t
}

// Get returns the value for key, or "" if absent.
func (t *Table) Get(key string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.values[normalizeKey(key)]
}

// Lookup returns the value for key and whether it is present.
func (t *Table) Lookup(key string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.values[normalizeKey(key)]
	return v, ok
}

// Set stores value under key and notifies listeners.
func (t *Table) Set(key, value string) {
	key = normalizeKey(key)

	t.notifyMu.Lock()
	defer t.notifyMu.Unlock()

	t.mu.Lock()
	t.values[key] = value
	listeners := t.listeners
	t.mu.Unlock()

	for _, fn := range listeners {
		fn(key, value)
	}
}

// Merge stores every entry of values. Keys not in values keep their
// current setting. Listeners are notified for entries that changed.
func (t *Table) Merge(values map[string]string) {
	type change struct{ key, value string }
	var changed []change

	t.notifyMu.Lock()
	defer t.notifyMu.Unlock()

	t.mu.Lock()
	for k, v := range values {
		k = normalizeKey(k)
		if old, ok := t.values[k]; ok && old == v {
			continue
		}
		t.values[k] = v
		changed = append(changed, change{k, v})
	}
	listeners := t.listeners
	t.mu.Unlock()

	for _, c := range changed {
		for _, fn := range listeners {
			fn(c.key, c.value)
		}
	}
}

// Snapshot returns a copy of all entries.
func (t *Table) Snapshot() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return maps.Clone(t.values)
}

// Len returns the number of entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.values)
}

// OnChange registers fn to run after every Set or changed Merge entry.
// fn runs without the table lock held and may read the table, but must
// not call Set or Merge.
func (t *Table) OnChange(fn func(key, value string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners[:len(t.listeners):len(t.listeners)], fn)
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

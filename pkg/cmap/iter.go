package cmap

// each calls fn for every entry until fn returns false.
//
// fn runs under the shard's read lock and must not write to the map.
func (m *Map[K, V]) each(fn func(key K, value V) bool) {
	for _, s := range m.shards {
		s.mu.RLock()
		for k, v := range s.items {
			if !fn(k, v) {
				s.mu.RUnlock()
				return
			}
		}
		s.mu.RUnlock()
	}
}

// Values returns a copy of all values in unspecified order. No shard
// lock is held once it returns.
func (m *Map[K, V]) Values() []V {
	values := make([]V, 0, m.Count())
	m.each(func(_ K, v V) bool {
		values = append(values, v)
		return true
	})
	return values
}

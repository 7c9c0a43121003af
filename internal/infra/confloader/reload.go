package confloader

// Sink receives configuration entries that changed on reload.
type Sink interface {
	Merge(values map[string]string)
}

// Reload re-reads every source and passes sink the entries whose loaded
// value differs from the previous load. Entries a source did not change
// are left alone, so values set at runtime survive until a source
// actually changes them. target, if non-nil, receives the full reloaded
// configuration.
func (l *Loader) Reload(sink Sink, target any) (map[string]string, error) {
	prev := l.Values()

	if err := l.Load(target); err != nil {
		return nil, err
	}

	changed := make(map[string]string)
	for k, v := range l.Values() {
		if old, ok := prev[k]; !ok || old != v {
			changed[k] = v
		}
	}
	if len(changed) > 0 && sink != nil {
		sink.Merge(changed)
	}
	return changed, nil
}

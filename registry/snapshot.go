package registry

// Entry the summary of a registration.
type Entry struct {
	ID       ID       `json:"id" yaml:"id"`
	Names    string   `json:"names" yaml:"names"`
	Once     bool     `json:"once" yaml:"once"`
	Elements []string `json:"elements" yaml:"elements"`
}

// Snapshot returns the summaries of the registrations ordered by id.
func (r *Registry) Snapshot() []Entry {
	ids := r.IDs()
	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		event, ok := r.Get(id)
		if !ok {
			continue
		}
		elements := make([]string, len(event.Elements))
		for i, el := range event.Elements {
			elements[i] = el.String()
		}
		entries = append(entries, Entry{
			ID:       id,
			Names:    event.Names,
			Once:     event.Mode == SingleFire,
			Elements: elements,
		})
	}
	return entries
}

// Map returns the entry as a map of plain values.
func (e Entry) Map() map[string]any {
	elements := make([]any, len(e.Elements))
	for i, el := range e.Elements {
		elements[i] = el
	}
	return map[string]any{
		"id":       int64(e.ID),
		"names":    e.Names,
		"once":     e.Once,
		"elements": elements,
	}
}

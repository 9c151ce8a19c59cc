package persona

// Store exposes persona retrieval for the AI service and HTTP handlers.
type Store interface {
	List() []Persona
	FindByID(id string) (Persona, bool)
}

// MemoryStore implements Store over a fixed set loaded at startup.
type MemoryStore struct {
	order []string
	byID  map[string]Persona
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied personas.
// A later entry with a duplicate ID replaces the earlier one in place.
func NewMemoryStore(items []Persona) *MemoryStore {
	s := &MemoryStore{byID: make(map[string]Persona, len(items))}
	for _, item := range items {
		if _, seen := s.byID[item.ID]; !seen {
			s.order = append(s.order, item.ID)
		}
		s.byID[item.ID] = clone(item)
	}
	return s
}

// List returns the personas in load order.
func (s *MemoryStore) List() []Persona {
	out := make([]Persona, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, clone(s.byID[id]))
	}
	return out
}

// FindByID looks up a persona by identifier.
func (s *MemoryStore) FindByID(id string) (Persona, bool) {
	p, ok := s.byID[id]
	if !ok {
		return Persona{}, false
	}
	return clone(p), true
}

func clone(p Persona) Persona {
	p.Traits = append([]string(nil), p.Traits...)
	p.Expertise = append([]string(nil), p.Expertise...)
	return p
}

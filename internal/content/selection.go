package content

import "sync"

// Selection holds the chosen prompt id per field.
// A field with no entry uses the backend's default prompt.
// Ids are not validated here; the backend is authoritative.
type Selection struct {
	mu      sync.RWMutex
	prompts map[Field]string
}

// NewSelection creates an empty selection (every field on its default prompt).
func NewSelection() *Selection {
	return &Selection{prompts: make(map[Field]string)}
}

// Select sets the prompt for a field. An empty promptID reverts the field to
// the default prompt.
func (s *Selection) Select(field Field, promptID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if promptID == "" {
		delete(s.prompts, field)
		return
	}
	s.prompts[field] = promptID
}

// PromptID returns the selected prompt for a field, if any.
func (s *Selection) PromptID(field Field) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.prompts[field]
	return id, ok
}

// Map returns a copy of the explicit selections.
func (s *Selection) Map() map[Field]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[Field]string, len(s.prompts))
	for f, id := range s.prompts {
		out[f] = id
	}
	return out
}

// Clone returns an independent copy.
func (s *Selection) Clone() *Selection {
	return &Selection{prompts: s.Map()}
}

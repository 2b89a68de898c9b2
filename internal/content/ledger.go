package content

import "sync"

// Partial is a set of results for some subset of fields, as returned by a
// batch generation. Absent fields are simply missing from the map.
type Partial map[Field]GenerationResult

// Ledger stores the latest result per field and the aggregate cost and token
// totals over populated slots. Totals are recomputed from the slots on every
// mutation and never adjusted independently.
type Ledger struct {
	mu          sync.RWMutex
	slots       map[Field]GenerationResult
	totalCost   float64
	totalTokens int
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{slots: make(map[Field]GenerationResult)}
}

// Record overwrites the slot for result.Field.
func (l *Ledger) Record(result GenerationResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.slots[result.Field] = result
	l.recompute()
}

// Merge records every present field of p in canonical field order.
// Slots for fields missing from p are left untouched.
func (l *Ledger) Merge(p Partial) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, f := range Fields {
		r, ok := p[f]
		if !ok {
			continue
		}
		r.Field = f
		l.slots[f] = r
	}
	l.recompute()
}

// Get returns the result for a field, if one has been recorded.
func (l *Ledger) Get(field Field) (GenerationResult, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.slots[field]
	return r, ok
}

// IsApplyEligible reports whether at least one field has non-empty content.
func (l *Ledger) IsApplyEligible() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return hasContent(l.slots)
}

// TotalCost returns the summed cost over populated slots.
func (l *Ledger) TotalCost() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalCost
}

// TotalTokens returns the summed token count over populated slots.
func (l *Ledger) TotalTokens() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalTokens
}

// Reset clears all slots and zeroes the totals.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.slots = make(map[Field]GenerationResult)
	l.recompute()
}

// Snapshot returns an immutable copy of the ledger.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s := Snapshot{
		Results:     make(map[Field]GenerationResult, len(l.slots)),
		TotalCost:   l.totalCost,
		TotalTokens: l.totalTokens,
	}
	for f, r := range l.slots {
		s.Results[f] = r
	}
	return s
}

// recompute must be called with mu held.
func (l *Ledger) recompute() {
	var cost float64
	var tokens int
	for _, f := range Fields {
		if r, ok := l.slots[f]; ok {
			cost += r.Cost
			tokens += r.Tokens
		}
	}
	l.totalCost = cost
	l.totalTokens = tokens
}

// Snapshot is a point-in-time copy of a Ledger.
type Snapshot struct {
	Results     map[Field]GenerationResult `json:"results" yaml:"results"`
	TotalCost   float64                    `json:"total_cost" yaml:"total_cost"`
	TotalTokens int                        `json:"total_tokens" yaml:"total_tokens"`
}

// ApplyEligible reports whether the snapshot has at least one result with
// non-empty content.
func (s Snapshot) ApplyEligible() bool {
	return hasContent(s.Results)
}

// Content returns the generated value for a field. Empty content counts as
// not generated.
func (s Snapshot) Content(field Field) (string, bool) {
	r, ok := s.Results[field]
	if !ok || r.Content == "" {
		return "", false
	}
	return r.Content, true
}

func hasContent(slots map[Field]GenerationResult) bool {
	for _, r := range slots {
		if r.Content != "" {
			return true
		}
	}
	return false
}

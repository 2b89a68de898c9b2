package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/wcforge/contentgen/internal/apply"
	"github.com/wcforge/contentgen/internal/content"
)

// EventKind identifies what happened in a session.
type EventKind string

const (
	EventPromptsLoaded EventKind = "prompts_loaded"
	EventGenerated     EventKind = "generated"
	EventApplied       EventKind = "applied"
	EventFailed        EventKind = "failed"
	EventReset         EventKind = "reset"
)

// Event is emitted to subscribers after every operation that completes.
type Event struct {
	Kind   EventKind
	Target string
	// Op names the operation: "load_prompts", "generate", "generate_all", "apply", "reset".
	Op string
	// Field is set for single-field generation; empty for batches and apply.
	Field   content.Field
	Results []content.GenerationResult
	Product apply.Product
	Err     error
	Time    time.Time
}

// DefaultEventBuffer is the channel capacity used when Subscribe gets a
// non-positive size.
const DefaultEventBuffer = 16

type broadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
	logger *slog.Logger
}

func newBroadcaster(logger *slog.Logger) *broadcaster {
	return &broadcaster{subs: make(map[int]chan Event), logger: logger}
}

func (b *broadcaster) subscribe(size int) (<-chan Event, func()) {
	if size <= 0 {
		size = DefaultEventBuffer
	}
	ch := make(chan Event, size)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}
}

// emit never blocks; a subscriber with a full buffer misses the event.
func (b *broadcaster) emit(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.logger.Warn("dropping session event for slow subscriber", "subscriber", id, "kind", ev.Kind)
		}
	}
}

func (b *broadcaster) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// Package session ties prompt selection, generation, the result ledger and
// apply together for one target catalog item.
//
// A Session is the unit of lifecycle: it is created for a target, accumulates
// generated results, and is explicitly Reset between review rounds. Changing
// the target with SetTarget does not reset the ledger.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/wcforge/contentgen/internal/api"
	"github.com/wcforge/contentgen/internal/apply"
	"github.com/wcforge/contentgen/internal/catalog"
	"github.com/wcforge/contentgen/internal/content"
	"github.com/wcforge/contentgen/internal/generate"
)

// Config configures a Session.
type Config struct {
	Client *api.Client

	// Target is the catalog item id. May be empty and set later.
	Target string

	// Defaults are initial prompt selections per field.
	Defaults map[content.Field]string

	Logger *slog.Logger
}

// Session is the generation-and-apply state for one target item.
// Methods are safe for concurrent use. Concurrent generations for the same
// field are not serialized; the response that arrives last wins.
type Session struct {
	logger *slog.Logger

	catalog   *catalog.Catalog
	generator *generate.Client
	applier   *apply.Coordinator
	selection *content.Selection
	ledger    *content.Ledger
	events    *broadcaster

	mu     sync.RWMutex
	id     string
	target string
}

// New creates a session.
func New(cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.New().String()
	logger = logger.With("session", id)

	s := &Session{
		id:        id,
		logger:    logger,
		catalog:   catalog.New(cfg.Client, logger),
		generator: generate.NewClient(cfg.Client, logger),
		applier:   apply.NewCoordinator(cfg.Client, logger),
		selection: content.NewSelection(),
		ledger:    content.NewLedger(),
		events:    newBroadcaster(logger),
		target:    cfg.Target,
	}
	for f, promptID := range cfg.Defaults {
		s.selection.Select(f, promptID)
	}
	return s
}

// ID returns the session's unique id.
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// Target returns the current target item id.
func (s *Session) Target() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.target
}

// SetTarget changes the target item. The ledger is kept; call Reset to clear it.
func (s *Session) SetTarget(id string) {
	s.mu.Lock()
	prev := s.target
	s.target = id
	s.mu.Unlock()
	if prev != id {
		s.logger.Debug("target changed", "from", prev, "to", id)
	}
}

// Catalog returns the session's prompt catalog.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Subscribe returns a channel of session events and a function that
// unsubscribes and closes it. Events are dropped for a subscriber whose
// buffer is full.
func (s *Session) Subscribe(buffer int) (<-chan Event, func()) {
	return s.events.subscribe(buffer)
}

// Close closes every subscriber channel.
func (s *Session) Close() {
	s.events.closeAll()
}

// LoadPrompts loads the prompt catalog. On failure every field falls back to
// its default prompt.
func (s *Session) LoadPrompts(ctx context.Context) error {
	if err := s.catalog.Load(ctx); err != nil {
		s.logger.Warn("prompt catalog unavailable, using default prompts", "error", err)
		s.fail("load_prompts", "", err)
		return err
	}
	s.events.emit(Event{Kind: EventPromptsLoaded, Target: s.Target(), Op: "load_prompts"})
	return nil
}

// Select sets the prompt for a field; empty reverts to the default prompt.
// An existing result for the field is kept until it is regenerated.
func (s *Session) Select(field content.Field, promptID string) error {
	if !field.Valid() {
		return content.ErrInvalidField
	}
	s.selection.Select(field, promptID)
	return nil
}

// Selections returns the explicit prompt selections.
func (s *Session) Selections() map[content.Field]string {
	return s.selection.Map()
}

// Generate generates one field with its selected prompt and records the
// result. The ledger is only touched after a successful response.
func (s *Session) Generate(ctx context.Context, field content.Field) (content.GenerationResult, error) {
	target := s.Target()
	promptID, _ := s.selection.PromptID(field)

	res, err := s.generator.Field(ctx, target, field, promptID)
	if err != nil {
		s.fail("generate", field, err)
		return content.GenerationResult{}, err
	}

	s.ledger.Record(res)
	s.logger.Info("generated content",
		"product_id", target,
		"field", field,
		"cost", content.FormatCost(res.Cost),
		"tokens", res.Tokens)
	s.events.emit(Event{
		Kind:    EventGenerated,
		Target:  target,
		Op:      "generate",
		Field:   field,
		Results: []content.GenerationResult{res},
	})
	return res, nil
}

// GenerateTitle generates the title.
func (s *Session) GenerateTitle(ctx context.Context) (content.GenerationResult, error) {
	return s.Generate(ctx, content.FieldTitle)
}

// GenerateDescription generates the description.
func (s *Session) GenerateDescription(ctx context.Context) (content.GenerationResult, error) {
	return s.Generate(ctx, content.FieldDescription)
}

// GenerateSEO generates the meta title or meta description.
func (s *Session) GenerateSEO(ctx context.Context, field content.Field) (content.GenerationResult, error) {
	if !field.IsSEO() {
		err := content.ErrInvalidField
		s.fail("generate", field, err)
		return content.GenerationResult{}, err
	}
	return s.Generate(ctx, field)
}

// GenerateAll generates every field in one request and merges the fields the
// backend returned. Slots for skipped fields keep their previous results.
func (s *Session) GenerateAll(ctx context.Context) (generate.Batch, error) {
	target := s.Target()

	batch, err := s.generator.All(ctx, target, s.selection.Clone())
	if err != nil {
		s.fail("generate_all", "", err)
		return generate.Batch{}, err
	}

	s.ledger.Merge(batch.Results)

	results := make([]content.GenerationResult, 0, len(batch.Results))
	for _, f := range content.Fields {
		if r, ok := batch.Results[f]; ok {
			results = append(results, r)
		}
	}
	s.logger.Info("generated all content",
		"product_id", target,
		"fields", len(results),
		"cost", content.FormatCost(batch.ReportedCost),
		"tokens", batch.ReportedTokens)
	s.events.emit(Event{Kind: EventGenerated, Target: target, Op: "generate_all", Results: results})
	return batch, nil
}

// Apply commits the ledger's current content to the target. The ledger is
// left as is on success and on failure.
func (s *Session) Apply(ctx context.Context, opts apply.Options) (apply.Product, error) {
	target := s.Target()

	product, err := s.applier.Apply(ctx, target, s.ledger.Snapshot(), opts)
	if err != nil {
		s.fail("apply", "", err)
		return nil, err
	}
	s.events.emit(Event{Kind: EventApplied, Target: target, Op: "apply", Product: product})
	return product, nil
}

// IsApplyEligible reports whether there is anything to apply.
func (s *Session) IsApplyEligible() bool {
	return s.ledger.IsApplyEligible()
}

// Result returns the current result for a field.
func (s *Session) Result(field content.Field) (content.GenerationResult, bool) {
	return s.ledger.Get(field)
}

// Snapshot returns a copy of the ledger.
func (s *Session) Snapshot() content.Snapshot {
	return s.ledger.Snapshot()
}

// Reset clears every generated result and zeroes the totals. Prompt
// selections and the target are kept.
func (s *Session) Reset() {
	s.ledger.Reset()
	s.logger.Debug("session reset")
	s.events.emit(Event{Kind: EventReset, Target: s.Target(), Op: "reset"})
}

func (s *Session) fail(op string, field content.Field, err error) {
	s.logger.Debug("operation failed", "op", op, "field", field, "error", err)
	s.events.emit(Event{Kind: EventFailed, Target: s.Target(), Op: op, Field: field, Err: err})
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/wcforge/contentgen/internal/api"
	"github.com/wcforge/contentgen/internal/content"
)

// PromptsPath is the backend route listing prompts.
const PromptsPath = "/prompts"

// ErrNotLoaded is returned by lookups before a successful Load.
var ErrNotLoaded = errors.New("prompt catalog not loaded")

// ErrPromptNotFound is returned when Resolve finds no matching prompt.
var ErrPromptNotFound = errors.New("prompt not found")

// Catalog holds the prompt list loaded from the backend.
// A nil prompt set means not loaded; every field then runs on its default prompt.
type Catalog struct {
	client *api.Client
	logger *slog.Logger

	mu      sync.RWMutex
	prompts []Prompt
	buckets Buckets
}

// New creates an empty catalog backed by client.
func New(client *api.Client, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{client: client, logger: logger}
}

type promptsResponse struct {
	Prompts []Prompt `json:"prompts"`
	Data    *struct {
		Prompts []Prompt `json:"prompts"`
	} `json:"data,omitempty"`
}

// Load fetches the prompt list. On success the stored set is replaced
// wholesale; on failure it is cleared and the error returned.
func (c *Catalog) Load(ctx context.Context) error {
	var resp promptsResponse
	if err := c.client.Get(ctx, PromptsPath, &resp); err != nil {
		c.set(nil)
		return fmt.Errorf("failed to load prompts: %w", err)
	}

	prompts := resp.Prompts
	if prompts == nil && resp.Data != nil {
		prompts = resp.Data.Prompts
	}
	if prompts == nil {
		c.logger.Warn("prompt list missing from response, using empty catalog")
		prompts = []Prompt{}
	}

	c.set(prompts)
	c.logger.Debug("loaded prompts", "count", len(prompts))
	return nil
}

// Set replaces the stored prompts without a backend call. A nil slice
// puts the catalog back into default-prompt-only mode.
func (c *Catalog) Set(prompts []Prompt) {
	c.set(prompts)
}

func (c *Catalog) set(prompts []Prompt) {
	var stored []Prompt
	if prompts != nil {
		stored = make([]Prompt, len(prompts))
		copy(stored, prompts)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = stored
	c.buckets = Classify(stored)
}

// Loaded reports whether a prompt list is available.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.prompts != nil
}

// Prompts returns the loaded prompts in catalog order and whether the
// catalog is loaded.
func (c *Catalog) Prompts() ([]Prompt, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.prompts == nil {
		return nil, false
	}
	out := make([]Prompt, len(c.prompts))
	copy(out, c.prompts)
	return out, true
}

// Buckets returns the classified prompts.
func (c *Catalog) Buckets() Buckets {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.buckets
}

// Options returns the prompts offered for a field. It is nil while the
// catalog is not loaded, meaning only the default prompt is available.
func (c *Catalog) Options(field content.Field) []Prompt {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.buckets.For(field)
}

// Resolve finds the prompt an operator meant by query for field. It tries,
// in order: exact id, exact name (case-insensitive), then a fuzzy name match
// within the field's bucket and finally across the whole catalog.
func (c *Catalog) Resolve(field content.Field, query string) (Prompt, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.prompts == nil {
		return Prompt{}, ErrNotLoaded
	}
	q := strings.TrimSpace(query)
	if q == "" {
		return Prompt{}, fmt.Errorf("%w: empty query", ErrPromptNotFound)
	}

	for _, p := range c.prompts {
		if string(p.ID) == q {
			return p, nil
		}
	}
	for _, p := range c.prompts {
		if strings.EqualFold(p.Name, q) {
			return p, nil
		}
	}
	if p, ok := bestMatch(q, c.buckets.For(field)); ok {
		return p, nil
	}
	if p, ok := bestMatch(q, c.prompts); ok {
		return p, nil
	}
	return Prompt{}, fmt.Errorf("%w: %q", ErrPromptNotFound, query)
}

func bestMatch(query string, prompts []Prompt) (Prompt, bool) {
	if len(prompts) == 0 {
		return Prompt{}, false
	}
	names := make([]string, len(prompts))
	for i, p := range prompts {
		names[i] = p.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	if len(ranks) == 0 {
		return Prompt{}, false
	}
	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance || (r.Distance == best.Distance && r.OriginalIndex < best.OriginalIndex) {
			best = r
		}
	}
	return prompts[best.OriginalIndex], true
}

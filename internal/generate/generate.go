// Package generate issues generation requests to the backend and normalizes
// the responses into content.GenerationResult values. It never touches a
// ledger; callers record results after a successful return. A response
// without content is an error, so a returned result always has content.
package generate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wcforge/contentgen/internal/api"
	"github.com/wcforge/contentgen/internal/content"
)

// Backend routes, relative to the configured base URL.
const (
	TitlePath       = "/products/generate-title"
	DescriptionPath = "/products/generate-description"
	SEOPath         = "/products/generate-seo"
	AllPath         = "/products/generate-all"
)

// Client calls the generation endpoints.
type Client struct {
	api    *api.Client
	logger *slog.Logger
}

// NewClient creates a generation client.
func NewClient(apiClient *api.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{api: apiClient, logger: logger}
}

type fieldRequest struct {
	ProductID api.ID `json:"product_id"`
	PromptID  api.ID `json:"prompt_id"`
}

type seoRequest struct {
	ProductID api.ID `json:"product_id"`
	Field     string `json:"field"`
	PromptID  api.ID `json:"prompt_id"`
}

// Pointers distinguish an absent field from an explicit zero.
type fieldResponse struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Content     *string  `json:"content"`
	Cost        *float64 `json:"cost"`
	Tokens      *int     `json:"tokens"`
}

// Title generates a product title. An empty promptID uses the backend default.
func (c *Client) Title(ctx context.Context, target, promptID string) (content.GenerationResult, error) {
	if target == "" {
		return content.GenerationResult{}, content.ErrMissingTarget
	}

	var resp fieldResponse
	req := fieldRequest{ProductID: api.ID(target), PromptID: api.ID(promptID)}
	if err := c.api.Post(ctx, TitlePath, req, &resp); err != nil {
		return content.GenerationResult{}, fmt.Errorf("failed to generate title: %w", err)
	}
	return c.normalize(content.FieldTitle, resp.Title, resp.Cost, resp.Tokens)
}

// Description generates a product description.
func (c *Client) Description(ctx context.Context, target, promptID string) (content.GenerationResult, error) {
	if target == "" {
		return content.GenerationResult{}, content.ErrMissingTarget
	}

	var resp fieldResponse
	req := fieldRequest{ProductID: api.ID(target), PromptID: api.ID(promptID)}
	if err := c.api.Post(ctx, DescriptionPath, req, &resp); err != nil {
		return content.GenerationResult{}, fmt.Errorf("failed to generate description: %w", err)
	}
	return c.normalize(content.FieldDescription, resp.Description, resp.Cost, resp.Tokens)
}

// SEO generates a meta title or meta description. The field name is sent to
// the backend, which uses it to pick what to generate.
func (c *Client) SEO(ctx context.Context, target string, field content.Field, promptID string) (content.GenerationResult, error) {
	if target == "" {
		return content.GenerationResult{}, content.ErrMissingTarget
	}
	if !field.IsSEO() {
		return content.GenerationResult{}, fmt.Errorf("%w: %q is not an SEO field", content.ErrInvalidField, field)
	}

	var resp fieldResponse
	req := seoRequest{ProductID: api.ID(target), Field: string(field), PromptID: api.ID(promptID)}
	if err := c.api.Post(ctx, SEOPath, req, &resp); err != nil {
		return content.GenerationResult{}, fmt.Errorf("failed to generate %s: %w", field.Label(), err)
	}
	return c.normalize(field, resp.Content, resp.Cost, resp.Tokens)
}

// Field dispatches to Title, Description or SEO.
func (c *Client) Field(ctx context.Context, target string, field content.Field, promptID string) (content.GenerationResult, error) {
	switch field {
	case content.FieldTitle:
		return c.Title(ctx, target, promptID)
	case content.FieldDescription:
		return c.Description(ctx, target, promptID)
	case content.FieldMetaTitle, content.FieldMetaDescription:
		return c.SEO(ctx, target, field, promptID)
	default:
		return content.GenerationResult{}, fmt.Errorf("%w: %q", content.ErrInvalidField, field)
	}
}

// normalize builds a result, defaulting absent cost and tokens to zero.
// Negative costs or token counts are clamped to zero. Missing or empty
// content is reported as ErrEmptyContent, the same rule collect applies to
// batch responses.
func (c *Client) normalize(field content.Field, text *string, cost *float64, tokens *int) (content.GenerationResult, error) {
	if text == nil || *text == "" {
		c.logger.Warn("generated content missing from response", "field", field)
		return content.GenerationResult{}, fmt.Errorf("failed to generate %s: %w", field.Label(), content.ErrEmptyContent)
	}
	r := content.GenerationResult{Field: field, Content: *text}
	if cost != nil && *cost > 0 {
		r.Cost = *cost
	} else if cost == nil {
		c.logger.Warn("cost missing from response", "field", field)
	}
	if tokens != nil && *tokens > 0 {
		r.Tokens = *tokens
	} else if tokens == nil {
		c.logger.Warn("token count missing from response", "field", field)
	}
	return r, nil
}

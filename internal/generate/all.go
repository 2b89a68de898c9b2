package generate

import (
	"context"
	"fmt"
	"math"

	"github.com/wcforge/contentgen/internal/api"
	"github.com/wcforge/contentgen/internal/content"
)

type allRequest struct {
	ProductID               api.ID `json:"product_id"`
	TitlePromptID           api.ID `json:"title_prompt_id"`
	DescriptionPromptID     api.ID `json:"description_prompt_id"`
	MetaTitlePromptID       api.ID `json:"meta_title_prompt_id"`
	MetaDescriptionPromptID api.ID `json:"meta_description_prompt_id"`
	ApplyImmediately        bool   `json:"apply_immediately"`
}

type allResults struct {
	Title                 *string  `json:"title"`
	TitleCost             *float64 `json:"title_cost"`
	TitleTokens           *int     `json:"title_tokens"`
	Description           *string  `json:"description"`
	DescriptionCost       *float64 `json:"description_cost"`
	DescriptionTokens     *int     `json:"description_tokens"`
	MetaTitle             *string  `json:"meta_title"`
	MetaTitleCost         *float64 `json:"meta_title_cost"`
	MetaTitleTokens       *int     `json:"meta_title_tokens"`
	MetaDescription       *string  `json:"meta_description"`
	MetaDescriptionCost   *float64 `json:"meta_description_cost"`
	MetaDescriptionTokens *int     `json:"meta_description_tokens"`
	TotalCost             float64  `json:"total_cost"`
	TotalTokens           int      `json:"total_tokens"`
}

type allResponse struct {
	Results *allResults `json:"results"`
}

// Batch is the outcome of a generate-all request. Results holds only the
// fields the backend returned; skipped fields are absent.
type Batch struct {
	Results content.Partial `json:"results" yaml:"results"`

	// Totals as reported by the backend. Ledger totals are always recomputed
	// from the slots; these are kept for display and diagnostics.
	ReportedCost   float64 `json:"reported_cost" yaml:"reported_cost"`
	ReportedTokens int     `json:"reported_tokens" yaml:"reported_tokens"`
}

// All generates every field in one request using the given selection.
// Content is never applied by this call; committing is a separate step.
func (c *Client) All(ctx context.Context, target string, sel *content.Selection) (Batch, error) {
	if target == "" {
		return Batch{}, content.ErrMissingTarget
	}
	if sel == nil {
		sel = content.NewSelection()
	}

	prompt := func(f content.Field) api.ID {
		id, _ := sel.PromptID(f)
		return api.ID(id)
	}
	req := allRequest{
		ProductID:               api.ID(target),
		TitlePromptID:           prompt(content.FieldTitle),
		DescriptionPromptID:     prompt(content.FieldDescription),
		MetaTitlePromptID:       prompt(content.FieldMetaTitle),
		MetaDescriptionPromptID: prompt(content.FieldMetaDescription),
		ApplyImmediately:        false,
	}

	var resp allResponse
	if err := c.api.Post(ctx, AllPath, req, &resp); err != nil {
		return Batch{}, fmt.Errorf("failed to generate content: %w", err)
	}
	if resp.Results == nil {
		c.logger.Warn("results missing from generate-all response")
		return Batch{Results: content.Partial{}}, nil
	}

	r := resp.Results
	batch := Batch{
		Results:        content.Partial{},
		ReportedCost:   r.TotalCost,
		ReportedTokens: r.TotalTokens,
	}
	c.collect(batch.Results, content.FieldTitle, r.Title, r.TitleCost, r.TitleTokens)
	c.collect(batch.Results, content.FieldDescription, r.Description, r.DescriptionCost, r.DescriptionTokens)
	c.collect(batch.Results, content.FieldMetaTitle, r.MetaTitle, r.MetaTitleCost, r.MetaTitleTokens)
	c.collect(batch.Results, content.FieldMetaDescription, r.MetaDescription, r.MetaDescriptionCost, r.MetaDescriptionTokens)

	var sumCost float64
	var sumTokens int
	for _, res := range batch.Results {
		sumCost += res.Cost
		sumTokens += res.Tokens
	}
	if math.Abs(sumCost-batch.ReportedCost) > 1e-9 || sumTokens != batch.ReportedTokens {
		c.logger.Debug("backend totals differ from per-field sum",
			"reported_cost", batch.ReportedCost, "sum_cost", sumCost,
			"reported_tokens", batch.ReportedTokens, "sum_tokens", sumTokens)
	}

	return batch, nil
}

// collect adds a field to p when the backend produced non-empty content for it.
func (c *Client) collect(p content.Partial, field content.Field, text *string, cost *float64, tokens *int) {
	if text == nil || *text == "" {
		return
	}
	r, err := c.normalize(field, text, cost, tokens)
	if err != nil {
		return
	}
	p[field] = r
}

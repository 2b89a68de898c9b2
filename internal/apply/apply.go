// Package apply commits reviewed content to the catalog item.
package apply

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wcforge/contentgen/internal/api"
	"github.com/wcforge/contentgen/internal/content"
)

// ContentPath is the backend route that writes content to a product.
const ContentPath = "/products/apply-content"

// Product is the backend's representation of the updated catalog item.
// Its shape is owned by the backend and passed through as-is.
type Product map[string]any

// Options carries optional apply parameters.
type Options struct {
	// FocusKeyword, when set, is written alongside the SEO fields.
	FocusKeyword string
}

// Coordinator sends ledger snapshots to the apply endpoint.
type Coordinator struct {
	api    *api.Client
	logger *slog.Logger
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(apiClient *api.Client, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{api: apiClient, logger: logger}
}

// Unpopulated fields are sent as null: the backend leaves them unchanged.
type applyRequest struct {
	ProductID       api.ID  `json:"product_id"`
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	MetaTitle       *string `json:"meta_title"`
	MetaDescription *string `json:"meta_description"`
	FocusKeyword    string  `json:"focus_keyword,omitempty"`
}

type applyResponse struct {
	Product Product `json:"product"`
}

// Apply writes the snapshot's content to target. It fails without a backend
// call when target is empty or the snapshot has nothing to apply. The ledger
// the snapshot came from is never modified.
func (c *Coordinator) Apply(ctx context.Context, target string, snap content.Snapshot, opts Options) (Product, error) {
	if target == "" {
		return nil, content.ErrMissingTarget
	}
	if !snap.ApplyEligible() {
		return nil, content.ErrNothingToApply
	}

	field := func(f content.Field) *string {
		if v, ok := snap.Content(f); ok {
			return &v
		}
		return nil
	}
	req := applyRequest{
		ProductID:       api.ID(target),
		Title:           field(content.FieldTitle),
		Description:     field(content.FieldDescription),
		MetaTitle:       field(content.FieldMetaTitle),
		MetaDescription: field(content.FieldMetaDescription),
		FocusKeyword:    opts.FocusKeyword,
	}

	var resp applyResponse
	if err := c.api.Post(ctx, ContentPath, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to apply content: %w", err)
	}
	if resp.Product == nil {
		c.logger.Warn("product missing from apply response", "product_id", target)
		resp.Product = Product{}
	}

	c.logger.Info("applied content", "product_id", target, "fields", len(snap.Results))
	return resp.Product, nil
}

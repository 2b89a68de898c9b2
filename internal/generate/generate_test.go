package generate

import (
	"context"
	"errors"
	"math"
	"net/http"
	"testing"

	"github.com/wcforge/contentgen/internal/api"
	"github.com/wcforge/contentgen/internal/content"
	"github.com/wcforge/contentgen/internal/testutil"
)

func newTestClient(t *testing.T) (*Client, *testutil.Backend) {
	t.Helper()
	backend := testutil.NewBackend(t)
	return NewClient(api.NewClient(api.Config{BaseURL: backend.URL()}), nil), backend
}

func TestClient_Title(t *testing.T) {
	t.Run("returns normalized result", func(t *testing.T) {
		client, backend := newTestClient(t)
		backend.Handle(testutil.RouteGenerateTitle, testutil.JSON(http.StatusOK, map[string]any{
			"success": true, "title": "Red Shoes", "cost": 0.002, "tokens": 40, "prompt_id": "p-1",
		}))

		res, err := client.Title(context.Background(), "42", "p-1")
		if err != nil {
			t.Fatalf("Title() error = %v", err)
		}
		if res.Field != content.FieldTitle || res.Content != "Red Shoes" || res.Cost != 0.002 || res.Tokens != 40 {
			t.Errorf("unexpected result: %+v", res)
		}

		body, _ := backend.LastRequest(testutil.RouteGenerateTitle)
		if body["product_id"] != float64(42) {
			t.Errorf("product_id = %#v, want number 42", body["product_id"])
		}
		if body["prompt_id"] != "p-1" {
			t.Errorf("prompt_id = %#v", body["prompt_id"])
		}
	})

	t.Run("default prompt is sent as null", func(t *testing.T) {
		client, backend := newTestClient(t)
		if _, err := client.Title(context.Background(), "42", ""); err != nil {
			t.Fatalf("Title() error = %v", err)
		}
		body, _ := backend.LastRequest(testutil.RouteGenerateTitle)
		v, present := body["prompt_id"]
		if !present || v != nil {
			t.Errorf("prompt_id = %#v (present=%v), want null", v, present)
		}
	})

	t.Run("missing target makes no call", func(t *testing.T) {
		client, backend := newTestClient(t)
		_, err := client.Title(context.Background(), "", "p-1")
		if !errors.Is(err, content.ErrMissingTarget) {
			t.Fatalf("expected ErrMissingTarget, got %v", err)
		}
		if backend.TotalCalls() != 0 {
			t.Errorf("expected no backend calls, got %d", backend.TotalCalls())
		}
	})

	t.Run("rejection carries backend message", func(t *testing.T) {
		client, backend := newTestClient(t)
		backend.Handle(testutil.RouteGenerateTitle, testutil.Reject(http.StatusNotFound, "Product not found"))

		_, err := client.Title(context.Background(), "42", "")
		var rejected *api.RejectedError
		if !errors.As(err, &rejected) {
			t.Fatalf("expected RejectedError, got %v", err)
		}
		if rejected.Message != "Product not found" {
			t.Errorf("Message = %q", rejected.Message)
		}
	})

	t.Run("missing cost and tokens default to zero", func(t *testing.T) {
		client, backend := newTestClient(t)
		backend.Handle(testutil.RouteGenerateTitle, testutil.JSON(http.StatusOK, map[string]any{"success": true, "title": "Red Shoes"}))

		res, err := client.Title(context.Background(), "42", "")
		if err != nil {
			t.Fatalf("Title() error = %v", err)
		}
		if res.Content != "Red Shoes" || res.Cost != 0 || res.Tokens != 0 {
			t.Errorf("unexpected result: %+v", res)
		}
	})

	t.Run("success without content is not a result", func(t *testing.T) {
		for name, body := range map[string]map[string]any{
			"missing": {"success": true, "cost": 0.001, "tokens": 10},
			"empty":   {"success": true, "title": "", "cost": 0.001, "tokens": 10},
		} {
			t.Run(name, func(t *testing.T) {
				client, backend := newTestClient(t)
				backend.Handle(testutil.RouteGenerateTitle, testutil.JSON(http.StatusOK, body))

				res, err := client.Title(context.Background(), "42", "")
				if !errors.Is(err, content.ErrEmptyContent) {
					t.Fatalf("expected ErrEmptyContent, got %v", err)
				}
				if res != (content.GenerationResult{}) {
					t.Errorf("expected zero result, got %+v", res)
				}
			})
		}
	})
}

func TestClient_Description(t *testing.T) {
	client, backend := newTestClient(t)

	res, err := client.Description(context.Background(), "sku-9", "p-2")
	if err != nil {
		t.Fatalf("Description() error = %v", err)
	}
	if res.Field != content.FieldDescription || res.Content != "Generated description." || res.Tokens != 180 {
		t.Errorf("unexpected result: %+v", res)
	}
	body, _ := backend.LastRequest(testutil.RouteGenerateDescription)
	if body["product_id"] != "sku-9" {
		t.Errorf("product_id = %#v, want string", body["product_id"])
	}
}

func TestClient_SEO(t *testing.T) {
	t.Run("sends field discriminator", func(t *testing.T) {
		client, backend := newTestClient(t)

		for _, f := range []content.Field{content.FieldMetaTitle, content.FieldMetaDescription} {
			res, err := client.SEO(context.Background(), "42", f, "")
			if err != nil {
				t.Fatalf("SEO(%s) error = %v", f, err)
			}
			if res.Field != f || res.Content != "Generated "+string(f) {
				t.Errorf("unexpected result: %+v", res)
			}
			body, _ := backend.LastRequest(testutil.RouteGenerateSEO)
			if body["field"] != string(f) {
				t.Errorf("field = %#v, want %s", body["field"], f)
			}
		}
	})

	t.Run("rejects non-SEO fields without a call", func(t *testing.T) {
		client, backend := newTestClient(t)
		_, err := client.SEO(context.Background(), "42", content.FieldTitle, "")
		if !errors.Is(err, content.ErrInvalidField) {
			t.Fatalf("expected ErrInvalidField, got %v", err)
		}
		if backend.TotalCalls() != 0 {
			t.Errorf("expected no backend calls, got %d", backend.TotalCalls())
		}
	})
}

func TestClient_Field(t *testing.T) {
	client, backend := newTestClient(t)
	routes := map[content.Field]string{
		content.FieldTitle:           testutil.RouteGenerateTitle,
		content.FieldDescription:     testutil.RouteGenerateDescription,
		content.FieldMetaTitle:       testutil.RouteGenerateSEO,
		content.FieldMetaDescription: testutil.RouteGenerateSEO,
	}
	for f, route := range routes {
		before := backend.Calls(route)
		if _, err := client.Field(context.Background(), "1", f, ""); err != nil {
			t.Fatalf("Field(%s) error = %v", f, err)
		}
		if backend.Calls(route) != before+1 {
			t.Errorf("Field(%s) did not call %s", f, route)
		}
	}
}

func TestClient_All(t *testing.T) {
	t.Run("title only response", func(t *testing.T) {
		client, backend := newTestClient(t)
		backend.Handle(testutil.RouteGenerateAll, testutil.JSON(http.StatusOK, map[string]any{
			"success": true,
			"results": map[string]any{
				"title": "Red Shoes", "title_cost": 0.002, "title_tokens": 40,
				"total_cost": 0.002, "total_tokens": 40,
			},
		}))

		batch, err := client.All(context.Background(), "42", nil)
		if err != nil {
			t.Fatalf("All() error = %v", err)
		}
		if len(batch.Results) != 1 {
			t.Fatalf("expected 1 result, got %d", len(batch.Results))
		}
		title := batch.Results[content.FieldTitle]
		if title.Content != "Red Shoes" || title.Cost != 0.002 || title.Tokens != 40 {
			t.Errorf("title = %+v", title)
		}

		ledger := content.NewLedger()
		ledger.Merge(batch.Results)
		if math.Abs(ledger.TotalCost()-0.002) > 1e-9 || ledger.TotalTokens() != 40 {
			t.Errorf("ledger totals = %f/%d", ledger.TotalCost(), ledger.TotalTokens())
		}
		for _, f := range []content.Field{content.FieldDescription, content.FieldMetaTitle, content.FieldMetaDescription} {
			if _, ok := ledger.Get(f); ok {
				t.Errorf("%s should be empty", f)
			}
		}
	})

	t.Run("sends all selections and never applies", func(t *testing.T) {
		client, backend := newTestClient(t)
		sel := content.NewSelection()
		sel.Select(content.FieldTitle, "1")
		sel.Select(content.FieldMetaDescription, "uuid-4")

		if _, err := client.All(context.Background(), "42", sel); err != nil {
			t.Fatalf("All() error = %v", err)
		}

		body, _ := backend.LastRequest(testutil.RouteGenerateAll)
		if body["title_prompt_id"] != float64(1) {
			t.Errorf("title_prompt_id = %#v", body["title_prompt_id"])
		}
		if body["meta_description_prompt_id"] != "uuid-4" {
			t.Errorf("meta_description_prompt_id = %#v", body["meta_description_prompt_id"])
		}
		for _, key := range []string{"description_prompt_id", "meta_title_prompt_id"} {
			if v, ok := body[key]; !ok || v != nil {
				t.Errorf("%s = %#v (present=%v), want null", key, v, ok)
			}
		}
		if body["apply_immediately"] != false {
			t.Errorf("apply_immediately = %#v, want false", body["apply_immediately"])
		}
	})

	t.Run("empty content is treated as absent", func(t *testing.T) {
		client, backend := newTestClient(t)
		backend.Handle(testutil.RouteGenerateAll, testutil.JSON(http.StatusOK, map[string]any{
			"success": true,
			"results": map[string]any{
				"title": "", "meta_title": "Buy Red Shoes", "meta_title_cost": 0.001, "meta_title_tokens": 9,
				"total_cost": 0.001, "total_tokens": 9,
			},
		}))

		batch, err := client.All(context.Background(), "42", nil)
		if err != nil {
			t.Fatalf("All() error = %v", err)
		}
		if _, ok := batch.Results[content.FieldTitle]; ok {
			t.Error("empty title should be absent")
		}
		if batch.Results[content.FieldMetaTitle].Content != "Buy Red Shoes" {
			t.Errorf("meta_title = %+v", batch.Results[content.FieldMetaTitle])
		}
	})

	t.Run("missing target makes no call", func(t *testing.T) {
		client, backend := newTestClient(t)
		if _, err := client.All(context.Background(), "", nil); !errors.Is(err, content.ErrMissingTarget) {
			t.Fatalf("expected ErrMissingTarget, got %v", err)
		}
		if backend.TotalCalls() != 0 {
			t.Errorf("expected no backend calls, got %d", backend.TotalCalls())
		}
	})

	t.Run("rejection", func(t *testing.T) {
		client, backend := newTestClient(t)
		backend.Handle(testutil.RouteGenerateAll, testutil.Reject(http.StatusBadRequest, "Product ID is required"))
		_, err := client.All(context.Background(), "42", nil)
		if !api.IsRejected(err) {
			t.Fatalf("expected rejection, got %v", err)
		}
	})
}

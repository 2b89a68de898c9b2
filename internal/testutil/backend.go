// Package testutil provides a fake content backend for tests.
// It serves the same routes as the real backend under /ai and records every
// request so tests can assert on bodies and on calls that must not happen.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// BasePath is the path prefix the fake backend serves under.
const BasePath = "/ai"

// Routes served by the fake backend, relative to BasePath.
const (
	RoutePrompts             = "GET /prompts"
	RouteGenerateTitle       = "POST /products/generate-title"
	RouteGenerateDescription = "POST /products/generate-description"
	RouteGenerateSEO         = "POST /products/generate-seo"
	RouteGenerateAll         = "POST /products/generate-all"
	RouteApplyContent        = "POST /products/apply-content"
)

// Request is a recorded request body, decoded as a JSON object.
type Request struct {
	Route string
	Body  map[string]any
}

// Backend is a fake backend with per-route handlers.
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []Request
}

// NewBackend starts a fake backend whose routes all answer with defaults:
// an empty prompt list, fixed generation results, and an echo on apply.
// The server is closed when the test finishes.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{handlers: make(map[string]http.HandlerFunc)}
	b.Handle(RoutePrompts, JSON(http.StatusOK, map[string]any{"success": true, "prompts": []any{}}))
	b.Handle(RouteGenerateTitle, JSON(http.StatusOK, map[string]any{
		"success": true, "title": "Generated Title", "cost": 0.001, "tokens": 25,
	}))
	b.Handle(RouteGenerateDescription, JSON(http.StatusOK, map[string]any{
		"success": true, "description": "Generated description.", "cost": 0.004, "tokens": 180,
	}))
	b.Handle(RouteGenerateSEO, func(w http.ResponseWriter, r *http.Request) {
		body := DecodeBody(r)
		field, _ := body["field"].(string)
		WriteJSON(w, http.StatusOK, map[string]any{
			"success": true, "content": "Generated " + field, "cost": 0.0005, "tokens": 12, "field": field,
		})
	})
	b.Handle(RouteGenerateAll, JSON(http.StatusOK, map[string]any{
		"success": true,
		"results": map[string]any{
			"title": "Generated Title", "title_cost": 0.001, "title_tokens": 25,
			"total_cost": 0.001, "total_tokens": 25,
		},
	}))
	b.Handle(RouteApplyContent, func(w http.ResponseWriter, r *http.Request) {
		body := DecodeBody(r)
		WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"product": map[string]any{"id": body["product_id"], "name": body["title"]},
		})
	})

	mux := http.NewServeMux()
	for _, route := range []string{
		RoutePrompts, RouteGenerateTitle, RouteGenerateDescription,
		RouteGenerateSEO, RouteGenerateAll, RouteApplyContent,
	} {
		mux.HandleFunc(prefixRoute(route), b.dispatch(route))
	}
	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the base URL clients should be configured with.
func (b *Backend) URL() string {
	return b.Server.URL + BasePath
}

// Handle replaces the handler for a route.
func (b *Backend) Handle(route string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[route] = h
}

// Calls returns how many requests reached route.
func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if r.Route == route {
			n++
		}
	}
	return n
}

// TotalCalls returns how many requests reached the backend.
func (b *Backend) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

// LastRequest returns the most recent request body for route.
func (b *Backend) LastRequest(route string) (map[string]any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.requests) - 1; i >= 0; i-- {
		if b.requests[i].Route == route {
			return b.requests[i].Body, true
		}
	}
	return nil, false
}

func (b *Backend) dispatch(route string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &body)
		}

		b.mu.Lock()
		b.requests = append(b.requests, Request{Route: route, Body: body})
		h := b.handlers[route]
		b.mu.Unlock()

		r.Body = io.NopCloser(bytes.NewReader(raw))
		h(w, r)
	}
}

// JSON returns a handler that always answers with status and v.
func JSON(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, status, v)
	}
}

// Reject returns a handler answering {success:false, message}.
func Reject(status int, message string) http.HandlerFunc {
	return JSON(status, map[string]any{"success": false, "message": message})
}

// WriteJSON writes v as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeBody decodes a JSON object request body, returning nil on failure.
func DecodeBody(r *http.Request) map[string]any {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil
	}
	return body
}

func prefixRoute(route string) string {
	for i := 0; i < len(route); i++ {
		if route[i] == ' ' {
			return route[:i+1] + BasePath + route[i+1:]
		}
	}
	return BasePath + route
}

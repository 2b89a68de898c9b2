package config

import (
	"errors"
	"testing"
)

func TestDefaultEntries(t *testing.T) {
	entries := DefaultEntries()

	if len(entries) == 0 {
		t.Fatal("DefaultEntries() returned empty slice")
	}

	requiredKeys := []string{
		"base_url",
		"product_id",
		"timeout",
		"log_level",
		"output",
		"prompts.title",
		"prompts.description",
		"prompts.meta_title",
		"prompts.meta_description",
	}

	keys := make(map[string]bool)
	for _, e := range entries {
		if e.Description == "" {
			t.Errorf("entry %s has no description", e.Key)
		}
		keys[e.Key] = true
	}

	for _, key := range requiredKeys {
		if !keys[key] {
			t.Errorf("DefaultEntries() missing required key: %s", key)
		}
	}
}

func TestLookupEntry(t *testing.T) {
	t.Run("existing_key", func(t *testing.T) {
		entry, ok := LookupEntry("base_url")
		if !ok {
			t.Fatal("LookupEntry() found nothing for existing key")
		}
		if entry.Value != "http://localhost:5000/ai" {
			t.Errorf("LookupEntry() Value = %v", entry.Value)
		}
	})

	t.Run("non_existent_key", func(t *testing.T) {
		if _, ok := LookupEntry("does.not.exist"); ok {
			t.Error("LookupEntry() found a non-existent key")
		}
	})
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{"base_url", false},
		{"prompts.meta_title", false},
		{"", true},
		{".base_url", true},
		{"prompts.", true},
		{"base url", true},
		{"base_url;rm", true},
		{"prompts.sku", true},
		{"headers", true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidKey) {
				t.Errorf("expected ErrInvalidKey, got %v", err)
			}
		})
	}
}

package config

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrInvalidKey is returned when a config key is malformed or unknown.
var ErrInvalidKey = errors.New("invalid config key")

// Entry describes one scalar configuration key.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description" yaml:"description"`
}

// DefaultEntries returns every settable key with its default value.
// Map-valued keys such as headers are edited in the config file directly.
func DefaultEntries() []Entry {
	d := DefaultConfig()
	return []Entry{
		{
			Key:         "base_url",
			Value:       d.BaseURL,
			Description: "Backend base URL, including the route prefix",
		},
		{
			Key:         "product_id",
			Value:       d.ProductID,
			Description: "Product used when --product is not given",
		},
		{
			Key:         "timeout",
			Value:       d.Timeout,
			Description: "Per-request timeout; generation can take tens of seconds",
		},
		{
			Key:         "log_level",
			Value:       d.LogLevel,
			Description: "Log level: debug, info, warn or error",
		},
		{
			Key:         "output",
			Value:       d.Output,
			Description: "Output format: yaml, json or text",
		},
		{
			Key:         "prompts.title",
			Value:       d.Prompts.Title,
			Description: "Prompt id selected for the title at session start",
		},
		{
			Key:         "prompts.description",
			Value:       d.Prompts.Description,
			Description: "Prompt id selected for the description at session start",
		},
		{
			Key:         "prompts.meta_title",
			Value:       d.Prompts.MetaTitle,
			Description: "Prompt id selected for the meta title at session start",
		},
		{
			Key:         "prompts.meta_description",
			Value:       d.Prompts.MetaDescription,
			Description: "Prompt id selected for the meta description at session start",
		},
	}
}

// LookupEntry returns the entry for key.
func LookupEntry(key string) (Entry, bool) {
	for _, e := range DefaultEntries() {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// ValidateKey checks that key is well formed and settable.
// Valid keys contain letters, digits, dots, underscores and hyphens.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	for i, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' && r != '-' {
			return fmt.Errorf("%w: invalid character %q at position %d", ErrInvalidKey, r, i)
		}
	}
	if key[0] == '.' || key[len(key)-1] == '.' {
		return fmt.Errorf("%w: key cannot start or end with a dot", ErrInvalidKey)
	}
	if _, ok := LookupEntry(key); !ok {
		return fmt.Errorf("%w: unknown key %q", ErrInvalidKey, key)
	}
	return nil
}

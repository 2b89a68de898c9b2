// Package content holds the generation data model: the four catalog fields,
// per-field prompt selection, and the ledger of generated results.
package content

import (
	"fmt"
	"strings"
)

// Field is one of the catalog item fields that can be generated.
type Field string

const (
	FieldTitle           Field = "title"
	FieldDescription     Field = "description"
	FieldMetaTitle       Field = "meta_title"
	FieldMetaDescription Field = "meta_description"
)

// Fields lists every field in canonical order.
// Merges and listings always walk fields in this order.
var Fields = []Field{FieldTitle, FieldDescription, FieldMetaTitle, FieldMetaDescription}

// ParseField parses a field name. Hyphens and spaces are accepted in place of
// underscores, so "meta-title" and "Meta Title" both parse as FieldMetaTitle.
func ParseField(s string) (Field, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	for _, f := range Fields {
		if string(f) == norm {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidField, s)
}

// Valid reports whether f is one of the known fields.
func (f Field) Valid() bool {
	return f.index() >= 0
}

// IsSEO reports whether the field is generated through the SEO endpoint.
func (f Field) IsSEO() bool {
	return f == FieldMetaTitle || f == FieldMetaDescription
}

// Label returns a human-readable name, e.g. "Meta Title".
func (f Field) Label() string {
	switch f {
	case FieldTitle:
		return "Title"
	case FieldDescription:
		return "Description"
	case FieldMetaTitle:
		return "Meta Title"
	case FieldMetaDescription:
		return "Meta Description"
	default:
		return string(f)
	}
}

func (f Field) String() string {
	return string(f)
}

func (f Field) index() int {
	for i, known := range Fields {
		if f == known {
			return i
		}
	}
	return -1
}

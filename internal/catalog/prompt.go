// Package catalog loads the backend's prompt list and sorts prompts into the
// field they generate, based on their display name.
package catalog

import (
	"strings"

	"github.com/wcforge/contentgen/internal/api"
	"github.com/wcforge/contentgen/internal/content"
)

// Prompt is a generation prompt as listed by the backend.
// Only ID and Name drive behavior; the rest is informational.
type Prompt struct {
	ID            api.ID `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
	TargetSection string `json:"target_section,omitempty" yaml:"target_section,omitempty"`
	TargetField   string `json:"target_field,omitempty" yaml:"target_field,omitempty"`
	Model         string `json:"model,omitempty" yaml:"model,omitempty"`
}

// Buckets holds the prompts usable for each field, in catalog order.
type Buckets struct {
	Title           []Prompt `json:"title" yaml:"title"`
	Description     []Prompt `json:"description" yaml:"description"`
	MetaTitle       []Prompt `json:"meta_title" yaml:"meta_title"`
	MetaDescription []Prompt `json:"meta_description" yaml:"meta_description"`
}

// For returns the bucket for a field.
func (b Buckets) For(field content.Field) []Prompt {
	switch field {
	case content.FieldTitle:
		return b.Title
	case content.FieldDescription:
		return b.Description
	case content.FieldMetaTitle:
		return b.MetaTitle
	case content.FieldMetaDescription:
		return b.MetaDescription
	default:
		return nil
	}
}

// Classify sorts prompts into field buckets by case-insensitive substring
// matching on the name. Each bucket is matched independently, so a prompt can
// appear in more than one; prompts matching no rule are dropped.
func Classify(prompts []Prompt) Buckets {
	var b Buckets
	for _, p := range prompts {
		for _, f := range Matches(p.Name) {
			switch f {
			case content.FieldTitle:
				b.Title = append(b.Title, p)
			case content.FieldDescription:
				b.Description = append(b.Description, p)
			case content.FieldMetaTitle:
				b.MetaTitle = append(b.MetaTitle, p)
			case content.FieldMetaDescription:
				b.MetaDescription = append(b.MetaDescription, p)
			}
		}
	}
	return b
}

// Matches returns the fields a prompt name qualifies for, in canonical order.
func Matches(name string) []content.Field {
	n := strings.ToLower(name)
	meta := strings.Contains(n, "meta")
	title := strings.Contains(n, "title")
	desc := strings.Contains(n, "description")

	var fields []content.Field
	if title && !meta {
		fields = append(fields, content.FieldTitle)
	}
	if desc && !meta {
		fields = append(fields, content.FieldDescription)
	}
	if meta && title {
		fields = append(fields, content.FieldMetaTitle)
	}
	if meta && desc {
		fields = append(fields, content.FieldMetaDescription)
	}
	return fields
}

package session

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/wcforge/contentgen/internal/content"
)

// ReviewRow is one field in a Review.
type ReviewRow struct {
	Field    content.Field `json:"field" yaml:"field"`
	PromptID string        `json:"prompt_id,omitempty" yaml:"prompt_id,omitempty"`
	Content  string        `json:"content,omitempty" yaml:"content,omitempty"`
	Cost     string        `json:"cost,omitempty" yaml:"cost,omitempty"`
	Tokens   int           `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	Ready    bool          `json:"ready" yaml:"ready"`
}

// Review is the display form of a session: every field in canonical order
// with its result, if any, and the totals.
type Review struct {
	Session       string      `json:"session" yaml:"session"`
	Target        string      `json:"product_id" yaml:"product_id"`
	Fields        []ReviewRow `json:"fields" yaml:"fields"`
	TotalCost     string      `json:"total_cost" yaml:"total_cost"`
	TotalTokens   int         `json:"total_tokens" yaml:"total_tokens"`
	ApplyEligible bool        `json:"apply_eligible" yaml:"apply_eligible"`
}

// Review builds the review view of the session.
func (s *Session) Review() Review {
	snap := s.ledger.Snapshot()
	sel := s.selection.Map()

	rv := Review{
		Session:       s.ID(),
		Target:        s.Target(),
		Fields:        make([]ReviewRow, 0, len(content.Fields)),
		TotalCost:     content.FormatCost(snap.TotalCost),
		TotalTokens:   snap.TotalTokens,
		ApplyEligible: snap.ApplyEligible(),
	}
	for _, f := range content.Fields {
		row := ReviewRow{Field: f, PromptID: sel[f]}
		if r, ok := snap.Results[f]; ok {
			row.Content = r.Content
			row.Cost = content.FormatCost(r.Cost)
			row.Tokens = r.Tokens
			row.Ready = true
		}
		rv.Fields = append(rv.Fields, row)
	}
	return rv
}

// Text renders the review as a table followed by the generated content.
func (rv Review) Text() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Product: %s\n\n", orDash(rv.Target))

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tPROMPT\tCOST\tTOKENS")
	for _, row := range rv.Fields {
		prompt := row.PromptID
		if prompt == "" {
			prompt = "default"
		}
		cost, tokens := "-", "-"
		if row.Ready {
			cost = row.Cost
			tokens = fmt.Sprint(row.Tokens)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.Field.Label(), prompt, cost, tokens)
	}
	fmt.Fprintf(tw, "Total\t\t%s\t%d\n", rv.TotalCost, rv.TotalTokens)
	tw.Flush()

	for _, row := range rv.Fields {
		if !row.Ready {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n%s\n", row.Field.Label(), row.Content)
	}

	if !rv.ApplyEligible {
		b.WriteString("\nNothing generated yet.\n")
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

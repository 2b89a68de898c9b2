package content

import "fmt"

// GenerationResult is the latest generated value for one field.
type GenerationResult struct {
	Field   Field   `json:"field" yaml:"field"`
	Content string  `json:"content" yaml:"content"`
	Cost    float64 `json:"cost" yaml:"cost"`
	Tokens  int     `json:"tokens" yaml:"tokens"`
}

// FormatCost renders a USD cost with six fractional digits, e.g. "$0.002000".
func FormatCost(cost float64) string {
	return fmt.Sprintf("$%.6f", cost)
}

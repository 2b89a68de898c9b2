package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/wcforge/contentgen/internal/content"
	"github.com/wcforge/contentgen/internal/session"
)

var selectCmd = &cobra.Command{
	Use:   "select <field> <prompt>",
	Short: "Choose the prompt used to generate a field",
	Long: `Choose the prompt used for a field of the target product.

<prompt> is a prompt id, an exact prompt name, or part of a name; partial
names are matched against the field's prompts first. Use "default" to go
back to the backend's default prompt. An existing result for the field is
kept until the field is generated again.

Examples:
  contentgen select title "Catchy Title" --product 42
  contentgen select meta-description 4 --product 42
  contentgen select description default --product 42`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		field, err := content.ParseField(args[0])
		if err != nil {
			return err
		}

		s, store, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		promptID, err := resolvePrompt(cmd, s, field, args[1])
		if err != nil {
			return err
		}
		if err := s.Select(field, promptID); err != nil {
			return err
		}
		if err := saveSession(s, store); err != nil {
			return err
		}
		return app.printer.Print(s.Review())
	},
}

func init() {
	rootCmd.AddCommand(selectCmd)
}

// resolvePrompt turns an operator's prompt reference into a prompt id.
// "default" resolves to empty. When the catalog can't be loaded, the
// reference is used as an id unchanged.
func resolvePrompt(cmd *cobra.Command, s *session.Session, field content.Field, ref string) (string, error) {
	if strings.EqualFold(strings.TrimSpace(ref), "default") {
		return "", nil
	}
	if err := s.LoadPrompts(cmd.Context()); err != nil {
		app.logger.Warn("prompt catalog unavailable, using prompt reference as id", "prompt", ref)
		return strings.TrimSpace(ref), nil
	}

	p, err := s.Catalog().Resolve(field, ref)
	if err != nil {
		return "", err
	}
	app.logger.Info("selected prompt", "field", field, "prompt_id", p.ID.String(), "name", p.Name)
	return p.ID.String(), nil
}

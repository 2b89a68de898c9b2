package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/wcforge/contentgen/internal/content"
)

var generatePrompt string

var generateCmd = &cobra.Command{
	Use:   "generate <field|all>",
	Short: "Generate content for one field or all fields",
	Long: `Generate content for the target product and keep it for review.

A single field uses the field's selected prompt, or --prompt to select a
different one first. "all" generates every field in one request with the
current selections; fields the backend skips keep their previous results.
Nothing is written to the product until 'contentgen apply'.

Examples:
  contentgen generate title --product 42
  contentgen generate meta-title --prompt "SEO Meta" --product 42
  contentgen generate all --product 42 -o text`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		all := strings.EqualFold(args[0], "all")
		var field content.Field
		if !all {
			f, err := content.ParseField(args[0])
			if err != nil {
				return err
			}
			field = f
		}

		s, store, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		if generatePrompt != "" {
			if all {
				return errUsage("--prompt needs a single field, not all")
			}
			promptID, err := resolvePrompt(cmd, s, field, generatePrompt)
			if err != nil {
				return err
			}
			if err := s.Select(field, promptID); err != nil {
				return err
			}
		}

		if all {
			_, err = s.GenerateAll(cmd.Context())
		} else {
			_, err = s.Generate(cmd.Context(), field)
		}
		if err != nil {
			return err
		}

		if err := saveSession(s, store); err != nil {
			return err
		}
		return app.printer.Print(s.Review())
	},
}

func init() {
	generateCmd.Flags().StringVar(&generatePrompt, "prompt", "", "prompt id or name to select before generating")
	rootCmd.AddCommand(generateCmd)
}

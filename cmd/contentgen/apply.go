package main

import (
	"github.com/spf13/cobra"

	"github.com/wcforge/contentgen/internal/apply"
)

var focusKeyword string

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Write the generated content to the product",
	Long: `Write every generated field to the target product in one request.

Fields that were never generated are left unchanged on the product.
Generated results are kept after applying; use 'contentgen session reset'
to clear them.

Examples:
  contentgen apply --product 42
  contentgen apply --product 42 --focus-keyword "running shoes"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		product, err := s.Apply(cmd.Context(), apply.Options{FocusKeyword: focusKeyword})
		if err != nil {
			return err
		}
		return app.printer.Print(product)
	},
}

func init() {
	applyCmd.Flags().StringVar(&focusKeyword, "focus-keyword", "", "SEO focus keyword to set alongside the meta fields")
	rootCmd.AddCommand(applyCmd)
}

package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/wcforge/contentgen/internal/content"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Review and manage generated content for a product",
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show generated content, cost and token usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()
		return app.printer.Print(s.Review())
	},
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard generated content and zero the totals",
	Long: `Discard every generated result for the target product and zero the
cost and token totals. Prompt selections are kept. Nothing is changed on
the product itself.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, store, err := openSession()
		if err != nil {
			return err
		}
		s.Reset()
		if err := saveSession(s, store); err != nil {
			return err
		}
		return app.printer.Print(s.Review())
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the saved session, including prompt selections",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, store, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()
		if err := store.Delete(s.Target()); err != nil {
			return err
		}
		app.logger.Info("session deleted", "product_id", s.Target())
		return nil
	},
}

var sessionCopyCmd = &cobra.Command{
	Use:   "copy <field>",
	Short: "Copy a field's generated content to the clipboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		field, err := content.ParseField(args[0])
		if err != nil {
			return err
		}

		s, _, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		res, ok := s.Result(field)
		if !ok {
			return fmt.Errorf("no %s generated for product %s", field.Label(), s.Target())
		}
		if clipboard.Unsupported {
			return fmt.Errorf("clipboard is not available on this system")
		}
		if err := clipboard.WriteAll(res.Content); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		app.logger.Info("copied to clipboard", "field", field, "chars", len(res.Content))
		return nil
	},
}

func init() {
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionResetCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
	sessionCmd.AddCommand(sessionCopyCmd)
	rootCmd.AddCommand(sessionCmd)
}

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wcforge/contentgen/internal/catalog"
	"github.com/wcforge/contentgen/internal/content"
)

var promptsField string

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Prompt catalog commands",
}

var promptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the prompts available for each field",
	Long: `List the backend's prompts, grouped by the field they generate.

A prompt is offered for a field when its name contains the field's
keyword: "title" (but not "meta title"), "description", "meta title"
or "meta description". A prompt can appear under several fields.

Examples:
  contentgen prompts list
  contentgen prompts list --field meta-title -o text`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat := catalog.New(app.client, app.logger)
		if err := cat.Load(cmd.Context()); err != nil {
			app.logger.Warn("prompt catalog unavailable, only default prompts can be used")
			return err
		}

		if promptsField == "" {
			return app.printer.Print(bucketList(cat.Buckets()))
		}
		field, err := content.ParseField(promptsField)
		if err != nil {
			return err
		}
		return app.printer.Print(promptList(cat.Options(field)))
	},
}

func init() {
	promptsListCmd.Flags().StringVar(&promptsField, "field", "", "only list prompts for this field")
	promptsCmd.AddCommand(promptsListCmd)
	rootCmd.AddCommand(promptsCmd)
}

type promptList []catalog.Prompt

func (l promptList) Text() string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tMODEL")
	for _, p := range l {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Name, p.Model)
	}
	tw.Flush()
	return b.String()
}

type bucketList catalog.Buckets

func (bl bucketList) Text() string {
	var b strings.Builder
	buckets := catalog.Buckets(bl)
	for i, f := range content.Fields {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s:\n", f.Label())
		prompts := buckets.For(f)
		if len(prompts) == 0 {
			b.WriteString("  (default prompt only)\n")
			continue
		}
		for _, p := range prompts {
			fmt.Fprintf(&b, "  %s  %s\n", p.ID, p.Name)
		}
	}
	return b.String()
}

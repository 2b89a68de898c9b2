package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wcforge/contentgen/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configInitCmd = &cobra.Command{
	Use:         "init [path]",
	Short:       "Write a default config file",
	Long:        `Write a default config file to path, or to ~/.contentgen/config.yaml.`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{skipConfig: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := app.home.ConfigPath()
		if len(args) == 1 {
			path = args[0]
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		app.logger.Info("wrote config", "path", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.printer.Print(app.config.Get())
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys with their defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.printer.Print(entryList(config.DefaultEntries()))
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save it",
	Long: `Set a config value and write it to the loaded config file, or to
~/.contentgen/config.yaml when none was loaded.

Examples:
  contentgen config set base_url https://shop.example.com/ai
  contentgen config set prompts.title 7`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.home.EnsureExists(); err != nil {
			return err
		}
		if err := app.config.Set(args[0], args[1], app.home.ConfigPath()); err != nil {
			return err
		}
		app.logger.Info("config updated", "key", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

type entryList []config.Entry

func (l entryList) Text() string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tDEFAULT\tDESCRIPTION")
	for _, e := range l {
		fmt.Fprintf(tw, "%s\t%v\t%s\n", e.Key, e.Value, e.Description)
	}
	tw.Flush()
	return b.String()
}

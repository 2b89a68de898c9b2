package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/wcforge/contentgen/internal/api"
	"github.com/wcforge/contentgen/internal/config"
	"github.com/wcforge/contentgen/internal/content"
	"github.com/wcforge/contentgen/internal/home"
	"github.com/wcforge/contentgen/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	serverURL    string
	productID    string
	logLevel     string
)

// skipConfig marks commands that must run without a loadable config.
const skipConfig = "skip-config"

// app holds what PersistentPreRunE builds for the running command.
var app struct {
	home    *home.Dir
	config  *config.Manager
	client  *api.Client
	printer *api.Printer
	logger  *slog.Logger
}

var rootCmd = &cobra.Command{
	Use:   "contentgen",
	Short: "Generate and apply AI-written product content",
	Long: `contentgen drives a content generation backend for catalog products.

It generates a product's title, description, meta title and meta
description with operator-selected prompts, keeps the results with their
cost and token usage for review, and applies the reviewed content to the
product in one step.

Generated results are kept per product under ~/.contentgen/sessions until
they are reset, so review can span several invocations:

  contentgen prompts list
  contentgen select title "Catchy Title" --product 42
  contentgen generate all --product 42
  contentgen session show --product 42
  contentgen apply --product 42`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.contentgen/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "contentgen home directory (default: ~/.contentgen)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml, json or text",
	)
	rootCmd.PersistentFlags().StringVar(
		&serverURL, "server", "", "backend base URL (default from config: http://localhost:5000/ai)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&productID, "product", "p", "", "target product id (default from config)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info", "log level: debug, info, warn or error",
	)

	rootCmd.AddCommand(versionCmd)
}

// setup loads config and builds the shared client, printer and logger.
func setup(cmd *cobra.Command) error {
	h, err := home.New(homeDir)
	if err != nil {
		return err
	}
	app.home = h

	format, err := api.ParseOutputFormat(outputFormat)
	if err != nil {
		return err
	}
	app.printer = api.NewPrinter(cmd.OutOrStdout(), format)
	app.logger = newLogger(logLevel)

	if cmd.Annotations[skipConfig] == "true" {
		return nil
	}

	path := cfgFile
	if path == "" && h.ConfigExists() {
		path = h.ConfigPath()
	}
	mgr, err := config.NewManager(path, cmd.Flags())
	if err != nil {
		return err
	}
	app.config = mgr
	cfg := mgr.Get()

	if format, err = api.ParseOutputFormat(cfg.Output); err != nil {
		return err
	}
	app.printer = api.NewPrinter(cmd.OutOrStdout(), format)
	app.logger = newLogger(cfg.LogLevel)

	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return err
	}
	app.client = api.NewClient(api.Config{
		BaseURL: cfg.BaseURL,
		Timeout: timeout,
		Headers: cfg.ResolvedHeaders(),
		Logger:  app.logger,
	})
	app.logger.Debug("config loaded", "file", mgr.ConfigFileUsed(), "base_url", cfg.BaseURL)
	return nil
}

func newLogger(level string) *slog.Logger {
	lvl, err := config.ParseLogLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

// target returns the product id from --product or config.
func target() (string, error) {
	id := app.config.Get().ProductID
	if id == "" {
		return "", fmt.Errorf("%w: pass --product or set product_id in config", content.ErrMissingTarget)
	}
	return id, nil
}

// errInvalidUsage marks flag and argument combinations that can't run.
var errInvalidUsage = errors.New("invalid usage")

func errUsage(msg string) error {
	return fmt.Errorf("%w: %s", errInvalidUsage, msg)
}

// exitCode maps failures to process exit codes: 2 for usage and
// precondition errors, 3 for backend rejections, 1 otherwise.
func exitCode(err error) int {
	switch {
	case errors.Is(err, content.ErrMissingTarget),
		errors.Is(err, content.ErrNothingToApply),
		errors.Is(err, content.ErrInvalidField),
		errors.Is(err, config.ErrInvalidKey),
		errors.Is(err, errInvalidUsage):
		return 2
	case api.IsRejected(err):
		return 3
	default:
		return 1
	}
}

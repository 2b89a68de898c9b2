package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/wcforge/contentgen/internal/catalog"
)

var pingWait time.Duration

type pingResult struct {
	BaseURL string `json:"base_url" yaml:"base_url"`
	Ready   bool   `json:"ready" yaml:"ready"`
	Elapsed string `json:"elapsed" yaml:"elapsed"`
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the backend is reachable",
	Long: `Check that the backend answers on its prompt listing route.

With --wait, keep trying once a second until the backend answers or the
duration elapses.

Examples:
  contentgen ping
  contentgen ping --wait 30s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		if err := app.client.WaitReady(cmd.Context(), catalog.PromptsPath, pingWait); err != nil {
			return err
		}
		return app.printer.Print(pingResult{
			BaseURL: app.client.BaseURL(),
			Ready:   true,
			Elapsed: time.Since(start).Round(time.Millisecond).String(),
		})
	},
}

func init() {
	pingCmd.Flags().DurationVar(&pingWait, "wait", 0, "keep retrying for up to this long")
	rootCmd.AddCommand(pingCmd)
}

package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MabelHsu/ig-fb-view-analyzer/internal/analysis"
	"github.com/MabelHsu/ig-fb-view-analyzer/internal/server"
)

var srvAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the report pipeline over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		addr := c.ServerAddr
		if srvAddr != "" {
			addr = srvAddr
		}
		opt := analysis.DefaultOptions()
		opt.Timezone = c.Timezone
		opt.NaiveLocal = c.NaiveLocal()
		opt.PreviewRows = c.PreviewRows
		opt.PreferredViewColumn = c.DefaultViewColumn
		if _, err := analysis.NewClock(opt.Timezone, opt.NaiveLocal); err != nil {
			return fmt.Errorf("invalid timezone in config: %w", err)
		}

		s := server.New(server.Config{
			Addr:           addr,
			MaxUploadBytes: int64(c.MaxUploadMB) << 20,
			Options:        opt,
		}, logger)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Serving on %s (Ctrl+C to stop)\n", addr)
		return s.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&srvAddr, "addr", "", "listen address (overrides config server_addr)")
}

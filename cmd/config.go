package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	cfgpkg "github.com/MabelHsu/ig-fb-view-analyzer/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set reelstats configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "timezone: %s\n", c.Timezone)
		fmt.Fprintf(w, "naive_timestamps: %s\n", c.NaiveTimestamps)
		fmt.Fprintf(w, "preview_rows: %d\n", c.PreviewRows)
		fmt.Fprintf(w, "default_view_column: %s\n", c.DefaultViewColumn)
		fmt.Fprintf(w, "output_format: %s\n", c.OutputFormat)
		fmt.Fprintf(w, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(w, "log_format: %s\n", c.LogFormat)
		fmt.Fprintf(w, "server_addr: %s\n", c.ServerAddr)
		fmt.Fprintf(w, "max_upload_mb: %d\n", c.MaxUploadMB)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := cfg.Set(key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

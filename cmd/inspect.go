package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MabelHsu/ig-fb-view-analyzer/internal/analysis"
	"github.com/MabelHsu/ig-fb-view-analyzer/internal/parser"
	"github.com/MabelHsu/ig-fb-view-analyzer/internal/utils"
)

var (
	insJSON  bool
	insSheet string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show the detected date column, view columns and platform evidence",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := parser.ParseFile(args[0], parser.Options{Sheet: insSheet})
		if err != nil {
			return err
		}
		in := analysis.Inspect(tbl, currentConfig().DefaultViewColumn)
		if insJSON {
			b, err := utils.PrettyJSON(in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), in.Markdown())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVar(&insJSON, "json", false, "print the inspection as JSON")
	inspectCmd.Flags().StringVar(&insSheet, "sheet", "", "XLSX: sheet name (default: first sheet)")
}

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/beartech/tokenscope/internal/report"
)

func analyzeCmd(configPath *string) *cobra.Command {
	var (
		chainKey string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "analyze <token-address>",
		Short: "Analyze a token contract across all data sources",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.stop()

			res, err := a.engine.Analyze(cmd.Context(), args[0], chainKey)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			fmt.Print(report.Render(res))
			return nil
		},
	}
	cmd.Flags().StringVar(&chainKey, "chain", "", "chain key (ethereum|base); empty auto-detects")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the raw result as JSON")
	return cmd
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/selang/internal/config"
	"github.com/papapumpkin/selang/internal/ui"
)

var treeCmd = &cobra.Command{
	Use:   "tree <infile>",
	Short: "Print the inclusion tree of each system",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		builds, err := buildFile(cmd.Context(), args[0], cfg)
		if err != nil {
			return err
		}
		printer := ui.NewWriter(cmd.OutOrStdout(), cfg.Color)
		for _, b := range builds {
			if err := printer.Tree(b.Model); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

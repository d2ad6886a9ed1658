package main

import (
	"github.com/fbkclanna/depcheck/internal/report"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <report-file>",
		Short: "Render a report saved with check --report",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	r, err := report.Load(args[0])
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), r, asJSON)
}

package main

import (
	"encoding/json"

	"github.com/fbkclanna/depcheck/internal/manifest"
	"github.com/fbkclanna/depcheck/internal/ui"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the dependencies declared by every manifest",
		RunE:  runList,
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	cmd.Flags().Int("width", 80, "Maximum column width (0 disables truncation)")
	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	width, _ := cmd.Flags().GetInt("width")

	ws, err := loadWorkspace(cmd, newLogger(cmd), nil)
	if err != nil {
		return err
	}

	sets := make([]*manifest.DependencySet, 0, len(ws.Packages)+1)
	sets = append(sets, ws.Catalog)
	sets = append(sets, ws.Packages...)

	out := cmd.OutOrStdout()

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sets)
	}

	tbl := ui.NewTable(out, "PACKAGE", "SPECIFIC", "GLOBAL")
	tbl.SetMaxWidth(width)
	for _, s := range sets {
		tbl.Row(string(s.Package), names(s.Specific), names(s.Global))
	}
	return tbl.Flush()
}

func names(ns []manifest.Name) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = string(n)
	}
	return out
}

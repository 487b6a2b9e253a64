package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yulinchen03/SAST-energy-monitor/pkg/scanner"
)

// NewToolsCommand defines the 'tools' command, listing the supported
// tool/config-level matrix.
func NewToolsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List supported scanners and configuration levels",
		Run: func(cmd *cobra.Command, args []string) {
			out := setupOutputPipeline(cmd)

			rows := make([][]string, 0, 4)
			for _, entry := range scanner.Catalog() {
				source := fmt.Sprintf("bundled file %s", entry.Reference.Name)
				if entry.Reference.Kind == scanner.RefRegistry {
					source = fmt.Sprintf("registry %s", entry.Reference.Name)
				}
				rows = append(rows, []string{
					string(entry.Tool),
					string(entry.Level),
					source,
				})
			}

			out.Table([]string{"Tool", "Config Level", "Configuration"}, rows)
		},
	}
}

package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yulinchen03/SAST-energy-monitor/pkg/storage"
)

// NewHistoryCommand defines the 'history' command group over archived runs.
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect archived measurement runs",
	}
	cmd.AddCommand(newHistoryListCommand())
	cmd.AddCommand(newHistoryPruneCommand())
	return cmd
}

func newHistoryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived measurement runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := setupOutputPipeline(cmd)

			store, err := openStore(cmd)
			if err != nil {
				out.Error(err)
				return err
			}
			if store == nil {
				out.Warning("Run-history archival is disabled (--no-storage).")
				return nil
			}
			defer func() { _ = store.Close() }()

			runs, err := store.List(cmd.Context())
			if err != nil {
				out.Error(err)
				return err
			}
			if len(runs) == 0 {
				out.Info("No archived measurement runs.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					run.Tool,
					run.ConfigLevel,
					run.Classification,
					energyCell(run),
					run.StartedAt.Local().Format(time.DateTime),
				})
			}
			out.Table([]string{"Run", "Tool", "Level", "Classification", "Energy", "Started"}, rows)
			return nil
		},
	}
}

func newHistoryPruneCommand() *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove archived runs beyond the newest N",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := setupOutputPipeline(cmd)

			store, err := openStore(cmd)
			if err != nil {
				out.Error(err)
				return err
			}
			if store == nil {
				out.Warning("Run-history archival is disabled (--no-storage).")
				return nil
			}
			defer func() { _ = store.Close() }()

			removed, err := store.Prune(cmd.Context(), keep)
			if err != nil {
				out.Error(err)
				return err
			}
			out.Info(fmt.Sprintf("Removed %d archived run(s), kept the newest %d.", removed, keep))
			return nil
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 20, "Number of newest runs to keep")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func energyCell(run *storage.RunMetadata) string {
	if !run.EnergyMeasured {
		return "-"
	}
	return fmt.Sprintf("%.2f J", run.EnergyJoules)
}

package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/luccascomvoce/temporizador/internal/duration"
	"github.com/luccascomvoce/temporizador/internal/model"
)

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Lista as últimas contagens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := openApp(false)
			if err != nil {
				return err
			}
			defer application.Close()

			runs, err := application.DB.ListRuns(limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}
			completed, elapsed, err := application.DB.RunTotals()
			if err != nil {
				return fmt.Errorf("failed to sum runs: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "Nenhuma contagem registrada.")
				return nil
			}
			fmt.Fprintln(out, runsTable(runs))
			fmt.Fprintf(out, "%d concluídas, %s contados no total\n", completed, duration.FromTotalSeconds(elapsed))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "quantidade de linhas (0 lista todas)")
	return cmd
}

func runsTable(runs []model.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.StartedAt.Local().Format(time.DateTime),
			duration.FromTotalSeconds(r.PlannedSeconds).String(),
			duration.FromTotalSeconds(r.ElapsedSeconds()).String(),
			string(r.Outcome),
			strconv.Itoa(int(r.WallTime().Round(time.Second) / time.Second)),
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("início", "planejado", "contado", "resultado", "segundos").
		Rows(rows...).
		String()
}

package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"auxl/internal/history"
)

type recentRow struct {
	Kind      string    `json:"kind"`
	Path      string    `json:"path"`
	Reviewed  int       `json:"reviewed"`
	Total     int       `json:"total"`
	TouchedAt time.Time `json:"touchedAt"`
}

func newRecentCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var kind string
	var clearHistory bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently used sessions, spreadsheets and exports",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if clearHistory {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Cleared %d entries\n", removed)
				return nil
			}

			var kinds []history.Kind
			if kind != "" {
				k := history.Kind(kind)
				if !k.Valid() {
					return fmt.Errorf("unknown kind %q (want session, source or export)", kind)
				}
				kinds = append(kinds, k)
			}
			entries, err := store.Recent(cmd.Context(), limit, kinds...)
			if err != nil {
				return err
			}

			rows := make([]recentRow, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, recentRow{
					Kind:      string(e.Kind),
					Path:      e.Path,
					Reviewed:  e.Reviewed,
					Total:     e.Total,
					TouchedAt: e.TouchedAt,
				})
			}
			if jsonOutput {
				return writeJSON(cmd, rows)
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "No recent files")
				return nil
			}
			table := make([][]string, 0, len(rows))
			for _, r := range rows {
				table = append(table, []string{
					r.TouchedAt.Local().Format("2006-01-02 15:04"),
					r.Kind,
					strconv.Itoa(r.Reviewed) + "/" + strconv.Itoa(r.Total),
					r.Path,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "Kind", "Reviewed", "Path"},
				table,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", history.DefaultLimit, "Maximum entries")
	cmd.Flags().StringVar(&kind, "kind", "", "Only entries of this kind: session, source, export")
	cmd.Flags().BoolVar(&clearHistory, "clear", false, "Forget all entries")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

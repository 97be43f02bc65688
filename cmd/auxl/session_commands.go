package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"auxl/internal/export"
	"auxl/internal/prompt"
	"auxl/internal/research"
	"auxl/internal/review"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import an extraction spreadsheet into a new session file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := resolvePath(optionalArg(args))
			if err != nil {
				return err
			}
			dest, err := resolvePath(outPath)
			if err != nil {
				return err
			}
			p := prompt.Preset{Open: source, Save: dest, Next: ctx.fallbackPrompter(cmd)}
			handle, err := ctx.openWorkspace(p, export.Options{})
			if err != nil {
				return err
			}
			defer handle.Close()

			ws := handle.ws
			imported, err := ws.Import(cmd.Context())
			if err != nil {
				return err
			}
			if !imported {
				return errNothingOpened
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d papers from %s\n", ws.Session().Count(), ws.Session().Source())

			saved, err := ws.SaveAs(cmd.Context())
			if err != nil {
				return err
			}
			if !saved {
				fmt.Fprintln(out, "Session not saved")
				return nil
			}
			fmt.Fprintf(out, "Saved %s\n", ws.Session().Path())
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination .auxl file (defaults to the spreadsheet name)")
	return cmd
}

func newOpenCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "open [session]",
		Short: "Open a session file and summarize it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, optionalArg(args), export.Options{}, func(h *workspaceHandle) error {
				view := buildStatusView(h.ws.Session())
				if jsonOutput {
					return writeJSON(cmd, view)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderStatus(view))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status <session>",
		Short: "Show review progress for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, args[0], export.Options{}, func(h *workspaceHandle) error {
				view := buildStatusView(h.ws.Session())
				if jsonOutput {
					return writeJSON(cmd, view)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderStatus(view))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var position int
	var recordID string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <session>",
		Short: "Show a paper with its extracted values and ratings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, args[0], export.Options{}, func(h *workspaceHandle) error {
				s := h.ws.Session()
				index, err := selectRecord(s, position, recordID)
				if err != nil {
					return err
				}
				view, err := buildRecordView(s, index)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, view)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderRecord(view))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&position, "position", "n", 0, "1-based paper position (defaults to the current paper)")
	cmd.Flags().StringVarP(&recordID, "record", "r", "", "Paper identity (filename)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var filter string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list <session>",
		Short: "List papers with their review state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, args[0], export.Options{}, func(h *workspaceHandle) error {
				rows, err := buildListRows(h.ws.Session(), filter)
				if err != nil {
					return err
				}
				if jsonOutput {
					if rows == nil {
						rows = []listRow{}
					}
					return writeJSON(cmd, rows)
				}
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No papers match")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderList(rows))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "Which papers to list: all, reviewed, unreviewed")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

type searchRow struct {
	Position int      `json:"position"`
	Identity string   `json:"identity"`
	Title    string   `json:"title"`
	Score    float64  `json:"score"`
	Matched  []string `json:"matched"`
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var filters research.Filters
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <session> [query]",
		Short: "Rank papers against a free-text query",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) > 1 {
				query = args[1]
			}
			return ctx.withSession(cmd, args[0], export.Options{}, func(h *workspaceHandle) error {
				results := research.Search(h.ws.Session().Records(), query, filters)
				if limit > 0 && len(results) > limit {
					results = results[:limit]
				}
				rows := make([]searchRow, 0, len(results))
				for _, r := range results {
					rows = append(rows, searchRow{
						Position: r.Index + 1,
						Identity: r.Record.Identity(),
						Title:    r.Record.Title,
						Score:    r.RelevanceScore,
						Matched:  r.MatchedFields,
					})
				}
				if jsonOutput {
					return writeJSON(cmd, rows)
				}
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No papers match")
					return nil
				}
				table := make([][]string, 0, len(rows))
				for _, r := range rows {
					table = append(table, []string{
						strconv.Itoa(r.Position),
						r.Identity,
						truncate(r.Title, 50),
						strconv.FormatFloat(r.Score, 'f', 3, 64),
						strings.Join(r.Matched, ", "),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"#", "Paper", "Title", "Score", "Matched"},
					table,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&filters.Category, "category", "", "Only papers with this category")
	cmd.Flags().StringVar(&filters.SensorType, "sensor-type", "", "Only papers with this sensor type")
	cmd.Flags().StringVar(&filters.Year, "year", "", "Only papers from this year")
	cmd.Flags().StringVar(&filters.Venue, "venue", "", "Only papers from this venue")
	cmd.Flags().StringVar(&filters.DeviceType, "device-type", "", "Only papers with this device type")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum results (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// selectRecord resolves --position / --record flags to a catalog index,
// defaulting to the cursor.
func selectRecord(s *review.Session, position int, recordID string) (int, error) {
	if s.Count() == 0 {
		return 0, errors.New("session has no papers")
	}
	switch {
	case position != 0 && strings.TrimSpace(recordID) != "":
		return 0, errors.New("use either --position or --record, not both")
	case position != 0:
		if position < 1 || position > s.Count() {
			return 0, fmt.Errorf("position %d out of range (1-%d): %w", position, s.Count(), review.ErrOutOfRange)
		}
		return position - 1, nil
	case strings.TrimSpace(recordID) != "":
		index, ok := s.IndexOf(strings.TrimSpace(recordID))
		if !ok {
			return 0, fmt.Errorf("paper %q: %w", recordID, review.ErrUnknownRecord)
		}
		return index, nil
	default:
		return s.Cursor().Index(), nil
	}
}

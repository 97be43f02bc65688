package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"auxl/internal/export"
	"auxl/internal/prompt"
	"auxl/internal/research"
	"auxl/internal/review"
)

func newRateCommand(ctx *commandContext) *cobra.Command {
	var recordID string
	var position int

	cmd := &cobra.Command{
		Use:   "rate <session> <field> <1-5>",
		Short: "Rate one field of a paper and save",
		Long: "Rate one field of the current paper (or the paper named by --record/--position) " +
			"and save the session. Fields accept their key (researchGoal) or label (\"Research Goal\").",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := research.ParseField(args[1])
			if err != nil {
				return err
			}
			value, err := strconv.Atoi(strings.TrimSpace(args[2]))
			if err != nil {
				return fmt.Errorf("rating %q is not a number: %w", args[2], review.ErrInvalidRating)
			}
			return ctx.withSession(cmd, args[0], export.Options{}, func(h *workspaceHandle) error {
				s := h.ws.Session()
				index, err := selectRecord(s, position, recordID)
				if err != nil {
					return err
				}
				record, err := s.Record(index)
				if err != nil {
					return err
				}
				if err := s.Rate(record.Identity(), field, value); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				tally := s.FieldTally(record.Identity())
				fmt.Fprintf(out, "%s: %s = %d (%d/%d rated)\n",
					record.Identity(), field.Label(), value, tally.Rated, research.FieldCount)
				return saveIfChanged(cmd.Context(), out, h.ws)
			})
		},
	}
	cmd.Flags().StringVarP(&recordID, "record", "r", "", "Paper identity (defaults to the current paper)")
	cmd.Flags().IntVarP(&position, "position", "n", 0, "1-based paper position")
	return cmd
}

func newJudgeCommand(ctx *commandContext) *cobra.Command {
	var recordID string
	var position int
	var notes string

	cmd := &cobra.Command{
		Use:   "judge <session> <correct|incorrect|pending>",
		Short: "Record an overall verdict for a paper and save",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			disposition, err := review.ParseDisposition(args[1])
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, args[0], export.Options{}, func(h *workspaceHandle) error {
				s := h.ws.Session()
				index, err := selectRecord(s, position, recordID)
				if err != nil {
					return err
				}
				record, err := s.Record(index)
				if err != nil {
					return err
				}
				text := notes
				if !cmd.Flags().Changed("notes") {
					entry, _ := s.Entry(record.Identity())
					text = entry.Notes
				}
				if err := s.SetDisposition(record.Identity(), disposition, text); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s: %s\n", record.Identity(), disposition)
				return saveIfChanged(cmd.Context(), out, h.ws)
			})
		},
	}
	cmd.Flags().StringVarP(&recordID, "record", "r", "", "Paper identity (defaults to the current paper)")
	cmd.Flags().IntVarP(&position, "position", "n", 0, "1-based paper position")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-text notes (replaces existing notes)")
	return cmd
}

func newGotoCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goto <session> <first|last|next|prev|N|paper>",
		Short: "Move the review cursor and save",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, args[0], export.Options{}, func(h *workspaceHandle) error {
				s := h.ws.Session()
				if err := moveCursor(s, args[1]); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				cursor := s.Cursor()
				current, _ := s.Current()
				fmt.Fprintf(out, "Paper %d of %d: %s\n", cursor.Position(), cursor.Count(), current.Identity())
				return saveIfChanged(cmd.Context(), out, h.ws)
			})
		},
	}
	return cmd
}

// moveCursor applies a goto target. Moves past either end are ignored.
func moveCursor(s *review.Session, target string) error {
	if s.Count() == 0 {
		return fmt.Errorf("session has no papers")
	}
	target = strings.TrimSpace(target)
	switch strings.ToLower(target) {
	case "first":
		s.First()
	case "last":
		s.Last()
	case "next", "n":
		s.Next()
	case "prev", "previous", "p":
		s.Previous()
	default:
		if n, err := strconv.Atoi(target); err == nil {
			if n < 1 || n > s.Count() {
				return fmt.Errorf("position %d out of range (1-%d): %w", n, s.Count(), review.ErrOutOfRange)
			}
			s.MoveTo(n - 1)
			return nil
		}
		if _, ok := s.IndexOf(target); !ok {
			return fmt.Errorf("paper %q: %w", target, review.ErrUnknownRecord)
		}
		s.MoveToIdentity(target)
	}
	return nil
}

func newSaveAsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "save-as <session> <dest>",
		Short: "Write a copy of a session to a new file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			dest, err := resolvePath(args[1])
			if err != nil {
				return err
			}
			handle, err := ctx.openWorkspace(prompt.Preset{Open: source, Save: dest}, export.Options{})
			if err != nil {
				return err
			}
			defer handle.Close()

			ok, err := handle.ws.Open(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				return errNothingOpened
			}
			if _, err := handle.ws.SaveAs(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", handle.ws.Session().Path())
			return nil
		},
	}
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outPath string
	var withDisposition bool

	cmd := &cobra.Command{
		Use:   "export <session>",
		Short: "Export ratings as a CSV spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			dest, err := resolvePath(outPath)
			if err != nil {
				return err
			}
			p := prompt.Preset{Open: source, Save: dest, Next: ctx.fallbackPrompter(cmd)}
			handle, err := ctx.openWorkspace(p, export.Options{IncludeDisposition: withDisposition})
			if err != nil {
				return err
			}
			defer handle.Close()

			ok, err := handle.ws.Open(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				return errNothingOpened
			}
			exported, err := handle.ws.Export(cmd.Context())
			if err != nil {
				return err
			}
			if !exported {
				fmt.Fprintln(cmd.OutOrStdout(), "Export cancelled")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d papers\n", handle.ws.Session().Count())
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination CSV (defaults to <session>-export.csv)")
	cmd.Flags().BoolVar(&withDisposition, "with-disposition", false, "Append disposition and notes columns")
	return cmd
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"auxl/internal/export"
	"auxl/internal/prompt"
	"auxl/internal/research"
	"auxl/internal/review"
	"auxl/internal/workspace"
)

const (
	actionRate     = "rate"
	actionRateAll  = "rate-all"
	actionVerdict  = "verdict"
	actionNext     = "next"
	actionPrevious = "previous"
	actionJump     = "jump"
	actionSave     = "save"
	actionSaveAs   = "save-as"
	actionExport   = "export"
	actionQuit     = "quit"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	var accessible bool

	cmd := &cobra.Command{
		Use:   "review [session|spreadsheet]",
		Short: "Review papers interactively",
		Long: "Step through papers on the terminal, rating fields and recording verdicts. " +
			"A .csv argument starts a new session from that spreadsheet.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !ctx.isInteractive() {
				return errors.New("review needs an interactive terminal; use rate, judge and goto in scripts")
			}
			target, err := resolvePath(optionalArg(args))
			if err != nil {
				return err
			}

			term := ctx.terminal(cmd)
			term.Accessible = accessible
			p := prompt.Preset{Open: target, Next: term}
			handle, err := ctx.openWorkspace(p, export.Options{IncludeDisposition: true})
			if err != nil {
				return err
			}
			defer handle.Close()

			var opened bool
			if prompt.SourceFilter.Matches(target) && target != "" {
				opened, err = handle.ws.Import(cmd.Context())
			} else {
				opened, err = handle.ws.Open(cmd.Context())
			}
			if err != nil {
				return err
			}
			if !opened {
				return errNothingOpened
			}

			loop := &reviewLoop{ws: handle.ws, term: term, out: cmd.OutOrStdout()}
			return loop.run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&accessible, "accessible", false, "Use plain line-based prompts")
	return cmd
}

type reviewLoop struct {
	ws   *workspace.Workspace
	term prompt.Terminal
	out  io.Writer
}

func (l *reviewLoop) session() *review.Session { return l.ws.Session() }

func (l *reviewLoop) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.render()

		action, err := l.chooseAction(ctx)
		if errors.Is(err, prompt.ErrCancelled) {
			action = actionQuit
		} else if err != nil {
			return err
		}

		if action == actionQuit {
			done, err := l.quit(ctx)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
			continue
		}
		if err := l.apply(ctx, action); err != nil {
			if errors.Is(err, prompt.ErrCancelled) {
				continue
			}
			if errors.Is(err, context.Canceled) {
				return err
			}
			fmt.Fprintln(l.out, renderProblem(err))
		}
	}
}

func (l *reviewLoop) render() {
	s := l.session()
	fmt.Fprintln(l.out, renderHeader(buildStatusView(s)))
	view, err := buildRecordView(s, s.Cursor().Index())
	if err != nil {
		fmt.Fprintln(l.out, styles.Muted.Render("No papers in this session"))
		return
	}
	fmt.Fprintln(l.out, renderRecord(view))
}

func (l *reviewLoop) chooseAction(ctx context.Context) (string, error) {
	s := l.session()
	cursor := s.Cursor()

	options := []huh.Option[string]{
		huh.NewOption("Rate a field", actionRate),
		huh.NewOption("Rate all fields", actionRateAll),
		huh.NewOption("Record verdict", actionVerdict),
	}
	if cursor.CanAdvance() {
		options = append(options, huh.NewOption("Next paper", actionNext))
	}
	if cursor.CanRetreat() {
		options = append(options, huh.NewOption("Previous paper", actionPrevious))
	}
	options = append(options,
		huh.NewOption("Jump to paper", actionJump),
		huh.NewOption("Save", actionSave),
		huh.NewOption("Save as", actionSaveAs),
		huh.NewOption("Export ratings", actionExport),
		huh.NewOption("Quit", actionQuit),
	)

	action := actionNext
	if !cursor.CanAdvance() {
		action = actionRate
	}
	err := l.term.Form(ctx, huh.NewGroup(
		huh.NewSelect[string]().Title("Action").Options(options...).Value(&action),
	))
	return action, err
}

func (l *reviewLoop) apply(ctx context.Context, action string) error {
	s := l.session()
	switch action {
	case actionRate:
		return l.rateOne(ctx)
	case actionRateAll:
		return l.rateAll(ctx)
	case actionVerdict:
		return l.verdict(ctx)
	case actionNext:
		s.Next()
	case actionPrevious:
		s.Previous()
	case actionJump:
		return l.jump(ctx)
	case actionSave:
		saved, err := l.ws.Save(ctx)
		if err != nil {
			return err
		}
		if saved {
			fmt.Fprintln(l.out, renderNotice("Saved %s", s.Path()))
		}
	case actionSaveAs:
		saved, err := l.ws.SaveAs(ctx)
		if err != nil {
			return err
		}
		if saved {
			fmt.Fprintln(l.out, renderNotice("Saved %s", s.Path()))
		}
	case actionExport:
		exported, err := l.ws.Export(ctx)
		if err != nil {
			return err
		}
		if exported {
			fmt.Fprintln(l.out, renderNotice("Exported %d papers", s.Count()))
		}
	default:
		return fmt.Errorf("unknown action %q", action)
	}
	return nil
}

func (l *reviewLoop) current() (research.Record, error) {
	record, ok := l.session().Current()
	if !ok {
		return research.Record{}, errors.New("session has no papers")
	}
	return record, nil
}

func ratingOptions(skip string) []huh.Option[int] {
	options := []huh.Option[int]{huh.NewOption(skip, 0)}
	for v := review.MinRating; v <= review.MaxRating; v++ {
		options = append(options, huh.NewOption(strconv.Itoa(v), v))
	}
	return options
}

func (l *reviewLoop) rateOne(ctx context.Context) error {
	record, err := l.current()
	if err != nil {
		return err
	}
	s := l.session()
	id := record.Identity()

	fieldOptions := make([]huh.Option[research.Field], 0, research.FieldCount)
	for _, f := range research.Fields() {
		label := f.Label()
		if value, ok := s.Rating(id, f); ok {
			label = fmt.Sprintf("%s (%d)", label, value)
		}
		fieldOptions = append(fieldOptions, huh.NewOption(label, f))
	}

	var field research.Field
	for _, f := range research.Fields() {
		if _, ok := s.Rating(id, f); !ok {
			field = f
			break
		}
	}
	var value int
	err = l.term.Form(ctx,
		huh.NewGroup(huh.NewSelect[research.Field]().Title("Field").Options(fieldOptions...).Value(&field)),
		huh.NewGroup(huh.NewSelect[int]().Title("Rating").Options(ratingOptions("cancel")...).Value(&value)),
	)
	if err != nil {
		return err
	}
	if value == 0 {
		return nil
	}
	return s.Rate(id, field, value)
}

func (l *reviewLoop) rateAll(ctx context.Context) error {
	record, err := l.current()
	if err != nil {
		return err
	}
	s := l.session()
	id := record.Identity()

	prior := make([]int, research.FieldCount)
	for i, f := range research.Fields() {
		prior[i], _ = s.Rating(id, f)
	}
	values := append([]int(nil), prior...)
	fields := make([]huh.Field, 0, research.FieldCount)
	for i, f := range research.Fields() {
		fields = append(fields, huh.NewSelect[int]().
			Title(f.Label()).
			Description(truncate(record.Value(f), 120)).
			Options(ratingOptions("unrated")...).
			Value(&values[i]))
	}
	if err := l.term.Form(ctx, huh.NewGroup(fields...)); err != nil {
		return err
	}
	_, err = applyRatings(s, id, prior, values)
	return err
}

// applyRatings rates every field whose chosen value differs from prior and
// returns how many changed. Unrated choices never clear an existing rating.
func applyRatings(s *review.Session, id string, prior, values []int) (int, error) {
	changed := 0
	for i, f := range research.Fields() {
		if i >= len(values) || values[i] == 0 || (i < len(prior) && values[i] == prior[i]) {
			continue
		}
		if err := s.Rate(id, f, values[i]); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

func (l *reviewLoop) verdict(ctx context.Context) error {
	record, err := l.current()
	if err != nil {
		return err
	}
	s := l.session()
	entry, _ := s.Entry(record.Identity())

	disposition := entry.Disposition
	notes := entry.Notes
	err = l.term.Form(ctx, huh.NewGroup(
		huh.NewSelect[review.Disposition]().
			Title("Verdict").
			Options(
				huh.NewOption("Pending", review.DispositionPending),
				huh.NewOption("Correct", review.DispositionCorrect),
				huh.NewOption("Incorrect", review.DispositionIncorrect),
			).
			Value(&disposition),
		huh.NewText().Title("Notes").Value(&notes),
	))
	if err != nil {
		return err
	}
	if disposition == entry.Disposition && notes == entry.Notes {
		return nil
	}
	return s.SetDisposition(record.Identity(), disposition, strings.TrimSpace(notes))
}

func (l *reviewLoop) jump(ctx context.Context) error {
	var target string
	err := l.term.Form(ctx, huh.NewGroup(
		huh.NewInput().
			Title("Jump to").
			Description("first, last, a position, or a paper filename").
			Value(&target),
	))
	if err != nil {
		return err
	}
	if strings.TrimSpace(target) == "" {
		return nil
	}
	return moveCursor(l.session(), target)
}

// quit returns true when the loop should end. Unsaved changes are offered
// for saving first; declining the save still quits.
func (l *reviewLoop) quit(ctx context.Context) (bool, error) {
	if !l.session().HasUnsavedChanges() {
		return true, nil
	}
	save, err := l.term.Confirm(ctx, "Save changes before quitting?", "Unsaved ratings are lost otherwise.")
	if errors.Is(err, prompt.ErrCancelled) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !save {
		return true, nil
	}
	saved, err := l.ws.Save(ctx)
	if err != nil {
		fmt.Fprintln(l.out, renderProblem(err))
		return false, nil
	}
	if !saved {
		return false, nil
	}
	fmt.Fprintln(l.out, renderNotice("Saved %s", l.session().Path()))
	return true, nil
}

package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"auxl/internal/export"
	"auxl/internal/fileutil"
	"auxl/internal/history"
	"auxl/internal/ingest"
	"auxl/internal/logging"
	"auxl/internal/notifications"
	"auxl/internal/prompt"
	"auxl/internal/review"
	"auxl/internal/services"
	"auxl/internal/sessionfile"
)

// History is the subset of history.Store used by a workspace.
type History interface {
	Record(ctx context.Context, kind history.Kind, path string, total, reviewed int) error
	LastDir(ctx context.Context, kinds ...history.Kind) (string, error)
}

// Options wires a workspace to its collaborators. Store, Prompter and Parser
// are required; the rest default to inert implementations.
type Options struct {
	Store    fileutil.TextStore
	Prompter prompt.Prompter
	Parser   ingest.Parser
	Notifier notifications.Service
	History  History
	Logger   *slog.Logger

	// Lenient salvages inconsistent session files instead of rejecting them.
	Lenient bool
	// DefaultDir seeds save suggestions when nothing better is known.
	DefaultDir string
	// Policy selects how progress counts reviewed records.
	Policy review.ProgressPolicy
	// Clock stamps ratings. Nil uses time.Now.
	Clock review.Clock
	// Export tunes exported columns.
	Export export.Options
}

// Workspace serializes user actions over a single review session.
type Workspace struct {
	mu      sync.Mutex
	session *review.Session

	store    fileutil.TextStore
	prompter prompt.Prompter
	parser   ingest.Parser
	notifier notifications.Service
	history  History
	logger   *slog.Logger

	lenient    bool
	defaultDir string
	exportOpts export.Options
}

// New builds a workspace with an empty, unbound session.
func New(opts Options) (*Workspace, error) {
	if opts.Store == nil {
		return nil, errors.New("workspace: text store is required")
	}
	if opts.Prompter == nil {
		return nil, errors.New("workspace: prompter is required")
	}
	if opts.Parser == nil {
		return nil, errors.New("workspace: parser is required")
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notifications.NewService(nil)
	}
	policy := opts.Policy
	if policy == "" {
		policy = review.PolicyFields
	}
	sessionOpts := []review.Option{review.WithPolicy(policy)}
	if opts.Clock != nil {
		sessionOpts = append(sessionOpts, review.WithClock(opts.Clock))
	}
	return &Workspace{
		session:    review.New(sessionOpts...),
		store:      opts.Store,
		prompter:   opts.Prompter,
		parser:     opts.Parser,
		notifier:   notifier,
		history:    opts.History,
		logger:     logging.NewComponentLogger(opts.Logger, "workspace"),
		lenient:    opts.Lenient,
		defaultDir: opts.DefaultDir,
		exportOpts: opts.Export,
	}, nil
}

// Session exposes the underlying session for in-memory review actions.
// Callers must not use it concurrently with workspace actions.
func (w *Workspace) Session() *review.Session {
	return w.session
}

// Reset empties the session and forgets its binding.
func (w *Workspace) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.session.Reset()
}

// Open prompts for a session file and replaces the current session with it.
// It returns false when the prompt was declined. On failure the current
// session is left untouched.
func (w *Workspace) Open(ctx context.Context) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ctx = services.WithAction(ctx, "open")
	path, err := w.prompter.OpenPath(ctx, prompt.SessionFilter)
	if done, err := declined(err); done {
		return false, err
	}
	ctx = services.WithSessionPath(ctx, path)
	logger := logging.WithContext(ctx, w.logger)

	text, err := w.store.ReadText(path)
	if err != nil {
		err = fmt.Errorf("%w: read %s: %w", ErrLoad, path, err)
		return false, w.fail(ctx, "open", "session_open_failed", "check the file exists and is readable", err)
	}

	doc, err := sessionfile.Decode([]byte(text), sessionfile.Options{Lenient: w.lenient})
	if err != nil {
		err = fmt.Errorf("open %s: %w", path, err)
		return false, w.fail(ctx, "open", "session_decode_failed",
			"the file is not a valid .auxl session; enable session.lenient_load to salvage it", err)
	}
	if err := w.session.Restore(doc.Snapshot, path); err != nil {
		err = fmt.Errorf("open %s: %w", path, err)
		return false, w.fail(ctx, "open", "session_restore_failed", "the file lists the same paper twice", err)
	}

	for _, warning := range doc.Warnings {
		logging.WarnWithContext(logger, "session file repaired while loading", "session_repaired",
			logging.String("problem", warning),
			logging.String(logging.FieldErrorHint, "save the session to rewrite a consistent file"),
			logging.String(logging.FieldImpact, "some ratings or cursor data were dropped"),
		)
	}

	progress := w.session.Progress()
	logger.Info("session opened",
		logging.String(logging.FieldEventType, "session_opened"),
		logging.Progress(progress.Reviewed, progress.Total, progress.Percentage),
		logging.Int("version", doc.Version),
		logging.Bool("lenient", w.lenient),
		logging.Int("repairs", len(doc.Warnings)),
	)
	w.remember(ctx, history.KindSession, path)
	w.notify(ctx, notifications.EventSessionOpened, notifications.Payload{
		"path":     path,
		"total":    progress.Total,
		"reviewed": progress.Reviewed,
	})
	return true, nil
}

// Import prompts for a spreadsheet and replaces the catalog with its records.
// The session keeps its binding and becomes dirty.
func (w *Workspace) Import(ctx context.Context) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ctx = services.WithAction(ctx, "import")
	path, err := w.prompter.OpenPath(ctx, prompt.SourceFilter)
	if done, err := declined(err); done {
		return false, err
	}
	logger := logging.WithContext(ctx, w.logger).With(logging.String(logging.FieldSourcePath, path))

	started := time.Now()
	result, err := w.parser.Parse(ctx, path)
	if err != nil {
		return false, w.fail(ctx, "import", "import_failed", "check the spreadsheet is a readable CSV export", err)
	}
	if err := w.session.LoadRecords(result.Records, path); err != nil {
		err = fmt.Errorf("import %s: %w", path, err)
		return false, w.fail(ctx, "import", "import_rejected", "remove duplicate filename rows from the spreadsheet", err)
	}

	logger.Info("spreadsheet imported",
		logging.String(logging.FieldEventType, "import_completed"),
		logging.Int("papers", result.TotalCount()),
		logging.Int("short_rows", result.ShortRows),
		logging.Duration("elapsed", time.Since(started)),
		logging.Bool("bound", w.session.Path() != ""),
	)
	w.remember(ctx, history.KindSource, path)
	w.notify(ctx, notifications.EventImportCompleted, notifications.Payload{
		"path":      path,
		"total":     result.TotalCount(),
		"shortRows": result.ShortRows,
	})
	return true, nil
}

// Save writes the session to its bound path. An unbound session behaves as
// SaveAs; a clean bound session performs no write and returns false.
func (w *Workspace) Save(ctx context.Context) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.session.State() {
	case review.StateUnbound:
		return w.saveAs(ctx)
	case review.StateBoundClean:
		return false, nil
	default:
		ctx = services.WithAction(ctx, "save")
		if err := w.write(ctx, w.session.Path()); err != nil {
			return false, err
		}
		return true, nil
	}
}

// SaveAs prompts for a destination and binds the session to it.
func (w *Workspace) SaveAs(ctx context.Context) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.saveAs(ctx)
}

func (w *Workspace) saveAs(ctx context.Context) (bool, error) {
	ctx = services.WithAction(ctx, "save_as")
	path, err := w.prompter.SavePath(ctx, prompt.SessionFilter, w.suggestSessionPath(ctx))
	if done, err := declined(err); done {
		return false, err
	}
	if err := w.write(ctx, path); err != nil {
		return false, err
	}
	return true, nil
}

func (w *Workspace) write(ctx context.Context, path string) error {
	ctx = services.WithSessionPath(ctx, path)
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := sessionfile.Encode(w.session.Snapshot())
	if err != nil {
		return w.fail(ctx, "save", "session_encode_failed", "report this as a bug", fmt.Errorf("%w: %w", ErrSave, err))
	}
	if err := w.store.WriteText(path, string(data)); err != nil {
		err = fmt.Errorf("%w: write %s: %w", ErrSave, path, err)
		return w.fail(ctx, "save", "session_save_failed", "check the destination directory is writable", err)
	}
	w.session.MarkSaved(path)

	progress := w.session.Progress()
	logging.WithContext(ctx, w.logger).Info("session saved",
		logging.String(logging.FieldEventType, "session_saved"),
		logging.Progress(progress.Reviewed, progress.Total, progress.Percentage),
		logging.Bool("complete", progress.Total > 0 && progress.Reviewed == progress.Total),
		logging.Int("bytes", len(data)),
	)
	w.remember(ctx, history.KindSession, path)
	w.notify(ctx, notifications.EventSessionSaved, notifications.Payload{
		"path":     path,
		"total":    progress.Total,
		"reviewed": progress.Reviewed,
	})
	return nil
}

// Export prompts for a destination and writes the ratings spreadsheet. The
// session itself is not modified.
func (w *Workspace) Export(ctx context.Context) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ctx = services.WithAction(ctx, "export")
	if w.session.Count() == 0 {
		return false, w.fail(ctx, "export", "export_empty", "open or import papers first", ErrEmptySession)
	}
	path, err := w.prompter.SavePath(ctx, prompt.ExportFilter, w.suggestExportPath())
	if done, err := declined(err); done {
		return false, err
	}

	content, err := export.Render(w.session.Snapshot(), w.exportOpts)
	if err != nil {
		return false, w.fail(ctx, "export", "export_render_failed", "report this as a bug", fmt.Errorf("%w: %w", ErrSave, err))
	}
	if err := w.store.WriteText(path, content); err != nil {
		err = fmt.Errorf("%w: write %s: %w", ErrSave, path, err)
		return false, w.fail(ctx, "export", "export_failed", "check the destination directory is writable", err)
	}

	logging.WithContext(ctx, w.logger).Info("ratings exported",
		logging.String(logging.FieldEventType, "export_completed"),
		logging.String("export_path", path),
		logging.Int("papers", w.session.Count()),
	)
	w.remember(ctx, history.KindExport, path)
	w.notify(ctx, notifications.EventExportCompleted, notifications.Payload{
		"path":  path,
		"total": w.session.Count(),
	})
	return true, nil
}

// SuggestedSessionPath returns the path SaveAs would offer.
func (w *Workspace) SuggestedSessionPath(ctx context.Context) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.suggestSessionPath(ctx)
}

func (w *Workspace) suggestSessionPath(ctx context.Context) string {
	if path := w.session.Path(); path != "" {
		return path
	}
	if source := w.session.Source(); source != "" {
		return replaceExt(source, "."+sessionfile.Extension)
	}
	name := "untitled." + sessionfile.Extension
	if w.history != nil {
		dir, err := w.history.LastDir(ctx, history.KindSession, history.KindSource)
		if err != nil {
			w.historyFailed(ctx, err)
		} else if dir != "" {
			return filepath.Join(dir, name)
		}
	}
	if w.defaultDir != "" {
		return filepath.Join(w.defaultDir, name)
	}
	return name
}

func (w *Workspace) suggestExportPath() string {
	base := w.session.Path()
	if base == "" {
		base = w.session.Source()
	}
	if base == "" {
		if w.defaultDir != "" {
			return filepath.Join(w.defaultDir, export.DefaultFileName)
		}
		return export.DefaultFileName
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + "-export.csv"
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// declined maps prompt cancellation to a silent no-op.
func declined(err error) (bool, error) {
	if err == nil {
		return false, nil
	}
	if errors.Is(err, prompt.ErrCancelled) {
		return true, nil
	}
	return true, err
}

func (w *Workspace) fail(ctx context.Context, action, eventType, hint string, err error) error {
	logging.ErrorWithContext(logging.WithContext(ctx, w.logger), action+" failed", eventType,
		logging.Error(err),
		logging.String(logging.FieldErrorHint, hint),
		logging.String(logging.FieldImpact, "the current session was not changed"),
	)
	w.notify(ctx, notifications.EventError, notifications.Payload{
		"context": action,
		"error":   err,
	})
	return err
}

func (w *Workspace) notify(ctx context.Context, event notifications.Event, payload notifications.Payload) {
	if err := w.notifier.Publish(ctx, event, payload); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, w.logger), "notification failed", "notification_failed",
			logging.Error(err),
			logging.String("notification", string(event)),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
			logging.String(logging.FieldImpact, "the action succeeded but no notification was delivered"),
		)
	}
}

func (w *Workspace) remember(ctx context.Context, kind history.Kind, path string) {
	if w.history == nil {
		return
	}
	progress := w.session.Progress()
	if err := w.history.Record(ctx, kind, path, progress.Total, progress.Reviewed); err != nil {
		w.historyFailed(ctx, err)
	}
}

func (w *Workspace) historyFailed(ctx context.Context, err error) {
	logging.WarnWithContext(logging.WithContext(ctx, w.logger), "history update failed", "history_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "delete the history database if the problem persists"),
		logging.String(logging.FieldImpact, "recent files and save suggestions may be stale"),
	)
}

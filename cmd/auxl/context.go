package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"auxl/internal/config"
	"auxl/internal/export"
	"auxl/internal/fileutil"
	"auxl/internal/history"
	"auxl/internal/ingest"
	"auxl/internal/logging"
	"auxl/internal/notifications"
	"auxl/internal/prompt"
	"auxl/internal/review"
	"auxl/internal/workspace"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	// interactive overrides terminal detection in tests.
	interactive *bool
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		var extra []string
		if c.verboseFlag != nil && *c.verboseFlag {
			extra = append(extra, "stderr")
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg, extra...)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) isInteractive() bool {
	if c.interactive != nil {
		return *c.interactive
	}
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// fallbackPrompter asks on the terminal when one is attached and otherwise
// accepts save suggestions.
func (c *commandContext) fallbackPrompter(cmd *cobra.Command) prompt.Prompter {
	if c.isInteractive() {
		return c.terminal(cmd)
	}
	return prompt.Suggested{}
}

func (c *commandContext) terminal(cmd *cobra.Command) prompt.Terminal {
	t := prompt.Terminal{Output: cmd.OutOrStdout()}
	if cfg, err := c.ensureConfig(); err == nil {
		t.StartDir = cfg.Session.DefaultDir
	}
	if in := cmd.InOrStdin(); in != os.Stdin {
		t.Input = in
	}
	return t
}

type workspaceHandle struct {
	ws      *workspace.Workspace
	logger  *slog.Logger
	history *history.Store
}

func (h *workspaceHandle) Close() {
	if h.history != nil {
		_ = h.history.Close()
	}
}

// openWorkspace wires a workspace from configuration. History is optional: a
// database that fails to open is logged and skipped.
func (c *commandContext) openWorkspace(p prompt.Prompter, exportOpts export.Options) (*workspaceHandle, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	handle := &workspaceHandle{logger: logger}
	opts := workspace.Options{
		Store:      fileutil.NewDisk(fileutil.DiskOptions{Backup: true}, logger),
		Prompter:   p,
		Parser:     ingest.NewCSVParser(logger),
		Notifier:   notifications.NewService(cfg),
		Logger:     logger,
		Lenient:    cfg.Session.LenientLoad,
		DefaultDir: cfg.Session.DefaultDir,
		Policy:     review.ProgressPolicy(cfg.Review.ProgressPolicy),
		Export:     exportOpts,
	}
	if store, err := history.Open(cfg); err != nil {
		logging.WarnWithContext(logger, "history unavailable", "history_unavailable",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete "+cfg.HistoryPath()+" to reset history"),
			logging.String(logging.FieldImpact, "recent files will not be recorded"),
		)
	} else {
		handle.history = store
		opts.History = store
	}

	ws, err := workspace.New(opts)
	if err != nil {
		handle.Close()
		return nil, err
	}
	handle.ws = ws
	return handle, nil
}

var errNothingOpened = errors.New("no session selected")

// withSession opens the session at path (prompting when empty) and runs fn.
func (c *commandContext) withSession(cmd *cobra.Command, path string, exportOpts export.Options, fn func(*workspaceHandle) error) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return err
	}
	var next prompt.Prompter
	if c.isInteractive() {
		next = c.terminal(cmd)
	}
	handle, err := c.openWorkspace(prompt.Preset{Open: resolved, Save: resolved, Next: next}, exportOpts)
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
	return fn(handle)
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", path, err)
	}
	return expanded, nil
}

// saveIfChanged saves a bound session and reports the outcome on out.
func saveIfChanged(ctx context.Context, out io.Writer, ws *workspace.Workspace) error {
	saved, err := ws.Save(ctx)
	if err != nil {
		return err
	}
	if saved {
		fmt.Fprintf(out, "Saved %s\n", ws.Session().Path())
	}
	return nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

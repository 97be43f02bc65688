package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"

	"auxl/internal/config"
)

// Terminal prompts on the controlling terminal.
type Terminal struct {
	// Accessible switches huh to plain line-based prompts.
	Accessible bool
	// StartDir resolves relative answers. Empty uses the working directory.
	StartDir string
	// Input and Output override the terminal streams.
	Input  io.Reader
	Output io.Writer
}

// OpenPath asks for an existing file matching filter.
func (t Terminal) OpenPath(ctx context.Context, filter Filter) (string, error) {
	var answer string
	input := huh.NewInput().
		Title("Open " + filter.Describe()).
		Placeholder("path/to/file." + firstExtension(filter)).
		Value(&answer).
		Validate(func(value string) error {
			if strings.TrimSpace(value) == "" {
				return nil
			}
			_, err := ValidateOpenPath(t.resolve(value), filter)
			return err
		})
	if err := t.run(ctx, input); err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return "", ErrCancelled
	}
	return t.resolve(answer), nil
}

// SavePath asks for a destination, prefilled with suggested.
func (t Terminal) SavePath(ctx context.Context, filter Filter, suggested string) (string, error) {
	answer := suggested
	input := huh.NewInput().
		Title("Save as " + filter.Describe()).
		Description("Leave empty to cancel.").
		Value(&answer)
	if err := t.run(ctx, input); err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return "", ErrCancelled
	}
	return filter.EnsureExtension(t.resolve(answer)), nil
}

// Confirm asks a yes/no question.
func (t Terminal) Confirm(ctx context.Context, title, description string) (bool, error) {
	var ok bool
	confirm := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok)
	if err := t.run(ctx, confirm); err != nil {
		return false, err
	}
	return ok, nil
}

// Form runs an arbitrary huh form with the terminal settings.
func (t Terminal) Form(ctx context.Context, groups ...*huh.Group) error {
	return t.runForm(ctx, huh.NewForm(groups...))
}

func (t Terminal) run(ctx context.Context, field huh.Field) error {
	return t.runForm(ctx, huh.NewForm(huh.NewGroup(field)))
}

func (t Terminal) runForm(ctx context.Context, form *huh.Form) error {
	form = form.WithAccessible(t.Accessible).WithShowHelp(true)
	if t.Input != nil {
		form = form.WithInput(t.Input)
	}
	if t.Output != nil {
		form = form.WithOutput(t.Output)
	}
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return err
	}
	return nil
}

func (t Terminal) resolve(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if strings.HasPrefix(value, "~") {
		if expanded, err := config.ExpandPath(value); err == nil {
			return expanded
		}
	}
	if !filepath.IsAbs(value) && t.StartDir != "" {
		value = filepath.Join(t.StartDir, value)
	}
	if abs, err := filepath.Abs(value); err == nil {
		return abs
	}
	return value
}

// ValidateOpenPath checks that path names a regular file accepted by filter.
func ValidateOpenPath(path string, filter Filter) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("cannot open %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	if !filter.Matches(path) {
		return "", fmt.Errorf("%s is not a %s file", filepath.Base(path), filter.Describe())
	}
	return path, nil
}

func firstExtension(f Filter) string {
	if len(f.Extensions) == 0 {
		return "txt"
	}
	return f.Extensions[0]
}

// Package prompt asks the user for file paths.
//
// The desktop original used native open/save dialogs; auxl asks on the
// terminal when one is attached and otherwise takes paths from flags. Either
// way a declined prompt is reported as ErrCancelled so callers can treat it as
// "action not performed".
package prompt

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
)

// ErrCancelled reports that the user declined to choose a path.
var ErrCancelled = errors.New("prompt cancelled")

// Filter restricts the files a prompt offers or accepts.
type Filter struct {
	Name       string
	Extensions []string
}

var (
	// SessionFilter selects .auxl session files.
	SessionFilter = Filter{Name: "Auxl", Extensions: []string{"auxl"}}
	// SourceFilter selects extraction spreadsheets.
	SourceFilter = Filter{Name: "Spreadsheet", Extensions: []string{"csv"}}
	// ExportFilter selects rating exports.
	ExportFilter = Filter{Name: "CSV", Extensions: []string{"csv"}}
)

// Matches reports whether path carries one of the filter extensions. A filter
// without extensions matches everything.
func (f Filter) Matches(path string) bool {
	if len(f.Extensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, want := range f.Extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}

// EnsureExtension appends the first filter extension when path has none of
// them.
func (f Filter) EnsureExtension(path string) string {
	if path == "" || f.Matches(path) || len(f.Extensions) == 0 {
		return path
	}
	return path + "." + f.Extensions[0]
}

// Describe renders the filter for prompt titles, e.g. "Auxl (*.auxl)".
func (f Filter) Describe() string {
	if len(f.Extensions) == 0 {
		return f.Name
	}
	patterns := make([]string, len(f.Extensions))
	for i, ext := range f.Extensions {
		patterns[i] = "*." + ext
	}
	return f.Name + " (" + strings.Join(patterns, ", ") + ")"
}

// Prompter supplies file paths for open and save actions.
type Prompter interface {
	OpenPath(ctx context.Context, filter Filter) (string, error)
	SavePath(ctx context.Context, filter Filter, suggested string) (string, error)
}

// Static answers prompts with fixed paths, for scripted use. An empty path
// answers with ErrCancelled.
type Static struct {
	Open string
	Save string
}

// OpenPath returns the configured open path.
func (s Static) OpenPath(ctx context.Context, _ Filter) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(s.Open) == "" {
		return "", ErrCancelled
	}
	return s.Open, nil
}

// SavePath returns the configured save path with the filter extension
// applied. The suggestion is ignored.
func (s Static) SavePath(ctx context.Context, filter Filter, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(s.Save) == "" {
		return "", ErrCancelled
	}
	return filter.EnsureExtension(s.Save), nil
}

// Preset answers from fixed paths and defers to Next when a path is empty.
// A nil Next cancels.
type Preset struct {
	Open string
	Save string
	Next Prompter
}

// OpenPath returns the preset open path or asks Next.
func (p Preset) OpenPath(ctx context.Context, filter Filter) (string, error) {
	if strings.TrimSpace(p.Open) != "" {
		return Static{Open: p.Open}.OpenPath(ctx, filter)
	}
	if p.Next == nil {
		return "", ErrCancelled
	}
	return p.Next.OpenPath(ctx, filter)
}

// SavePath returns the preset save path or asks Next.
func (p Preset) SavePath(ctx context.Context, filter Filter, suggested string) (string, error) {
	if strings.TrimSpace(p.Save) != "" {
		return Static{Save: p.Save}.SavePath(ctx, filter, suggested)
	}
	if p.Next == nil {
		return "", ErrCancelled
	}
	return p.Next.SavePath(ctx, filter, suggested)
}

// Suggested accepts every save suggestion and declines every open prompt.
// It stands in for a terminal when none is attached.
type Suggested struct{}

// OpenPath always cancels.
func (Suggested) OpenPath(ctx context.Context, _ Filter) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "", ErrCancelled
}

// SavePath returns suggested with the filter extension applied.
func (Suggested) SavePath(ctx context.Context, filter Filter, suggested string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(suggested) == "" {
		return "", ErrCancelled
	}
	return filter.EnsureExtension(suggested), nil
}

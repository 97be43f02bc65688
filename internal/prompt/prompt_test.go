package prompt_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"auxl/internal/prompt"
)

func TestFilterMatchesAndEnsuresExtension(t *testing.T) {
	tests := []struct {
		path    string
		matches bool
		ensured string
	}{
		{"review.auxl", true, "review.auxl"},
		{"REVIEW.AUXL", true, "REVIEW.AUXL"},
		{"review", false, "review.auxl"},
		{"review.json", false, "review.json.auxl"},
		{"", false, ""},
	}
	for _, tt := range tests {
		if got := prompt.SessionFilter.Matches(tt.path); got != tt.matches {
			t.Errorf("Matches(%q) = %v, want %v", tt.path, got, tt.matches)
		}
		if got := prompt.SessionFilter.EnsureExtension(tt.path); got != tt.ensured {
			t.Errorf("EnsureExtension(%q) = %q, want %q", tt.path, got, tt.ensured)
		}
	}
	if got := prompt.SessionFilter.Describe(); got != "Auxl (*.auxl)" {
		t.Errorf("Describe = %q", got)
	}
}

func TestStaticPrompter(t *testing.T) {
	ctx := context.Background()

	empty := prompt.Static{}
	if _, err := empty.OpenPath(ctx, prompt.SessionFilter); !errors.Is(err, prompt.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if _, err := empty.SavePath(ctx, prompt.SessionFilter, "x.auxl"); !errors.Is(err, prompt.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}

	s := prompt.Static{Open: "/data/in.auxl", Save: "/data/out"}
	if got, err := s.OpenPath(ctx, prompt.SessionFilter); err != nil || got != "/data/in.auxl" {
		t.Fatalf("OpenPath = %q, %v", got, err)
	}
	if got, err := s.SavePath(ctx, prompt.SessionFilter, ""); err != nil || got != "/data/out.auxl" {
		t.Fatalf("SavePath = %q, %v", got, err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := s.OpenPath(cancelled, prompt.SessionFilter); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestValidateOpenPath(t *testing.T) {
	dir := t.TempDir()
	session := filepath.Join(dir, "r.auxl")
	if err := os.WriteFile(session, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := prompt.ValidateOpenPath(session, prompt.SessionFilter); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := prompt.ValidateOpenPath(dir, prompt.SessionFilter); err == nil {
		t.Fatal("expected error for directory")
	}
	if _, err := prompt.ValidateOpenPath(filepath.Join(dir, "missing.auxl"), prompt.SessionFilter); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := prompt.ValidateOpenPath(session, prompt.SourceFilter); err == nil {
		t.Fatal("expected error for wrong extension")
	}
}

func TestPresetDefersToNext(t *testing.T) {
	ctx := context.Background()

	p := prompt.Preset{Open: "in.auxl", Next: prompt.Suggested{}}
	if got, err := p.OpenPath(ctx, prompt.SessionFilter); err != nil || got != "in.auxl" {
		t.Fatalf("OpenPath = %q, %v", got, err)
	}
	if got, err := p.SavePath(ctx, prompt.SessionFilter, "/tmp/suggested"); err != nil || got != "/tmp/suggested.auxl" {
		t.Fatalf("SavePath = %q, %v", got, err)
	}

	bare := prompt.Preset{}
	if _, err := bare.OpenPath(ctx, prompt.SessionFilter); !errors.Is(err, prompt.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if _, err := (prompt.Preset{Next: prompt.Suggested{}}).OpenPath(ctx, prompt.SessionFilter); !errors.Is(err, prompt.ErrCancelled) {
		t.Fatalf("Suggested.OpenPath should cancel, got %v", err)
	}
	if _, err := (prompt.Suggested{}).SavePath(ctx, prompt.SessionFilter, " "); !errors.Is(err, prompt.ErrCancelled) {
		t.Fatalf("blank suggestion should cancel, got %v", err)
	}
}

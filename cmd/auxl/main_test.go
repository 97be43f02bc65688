package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"auxl/internal/research"
	"auxl/internal/review"
	"auxl/internal/sessionfile"
	"auxl/internal/testsupport"
)

func TestImportWritesSession(t *testing.T) {
	env := setupCLITestEnv(t)
	source := filepath.Join(env.baseDir, "extraction.csv")
	testsupport.WriteSpreadsheet(t, source, testsupport.Records(3))

	out := mustRunCLI(t, env, "import", source)
	requireContains(t, out, "Imported 3 papers")

	want := filepath.Join(env.baseDir, "extraction.auxl")
	requireContains(t, out, "Saved "+want)
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected session at %s: %v", want, err)
	}
}

func TestImportWithoutSourceFailsNonInteractive(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, env, "import")
	if !errors.Is(err, errNothingOpened) {
		t.Fatalf("expected errNothingOpened, got %v", err)
	}
}

func TestStatusAndRateScenario(t *testing.T) {
	env := setupCLITestEnv(t)
	session := importSample(t, env, 3)

	var status statusView
	decodeJSON(t, mustRunCLI(t, env, "status", session, "--json"), &status)
	if status.Papers != 3 || status.Reviewed != 0 || status.State != "saved" || status.Position != 1 {
		t.Fatalf("unexpected initial status: %+v", status)
	}

	for _, f := range research.Fields() {
		mustRunCLI(t, env, "rate", session, f.Key(), "4")
	}
	decodeJSON(t, mustRunCLI(t, env, "status", session, "--json"), &status)
	if status.Reviewed != 1 || status.Complete != 1 || status.Incomplete != 2 {
		t.Fatalf("unexpected status after rating: %+v", status)
	}
	if status.Percentage < 33.33 || status.Percentage > 33.34 {
		t.Fatalf("percentage = %v, want 33.33", status.Percentage)
	}

	text := mustRunCLI(t, env, "status", session)
	requireContains(t, text, "1/3 reviewed (33.33%)")
}

func TestRateRejectsInvalidValueWithoutWriting(t *testing.T) {
	env := setupCLITestEnv(t)
	session := importSample(t, env, 2)
	before := testsupport.ReadFile(t, session)

	_, _, err := runCLI(t, env, "rate", session, "method", "7")
	if !errors.Is(err, review.ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}
	_, _, err = runCLI(t, env, "rate", session, "colour", "3")
	if !errors.Is(err, research.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if after := testsupport.ReadFile(t, session); after != before {
		t.Fatal("session file changed after rejected rating")
	}
}

func TestGotoMovesCursorAndSaves(t *testing.T) {
	env := setupCLITestEnv(t)
	session := importSample(t, env, 3)

	out := mustRunCLI(t, env, "goto", session, "next")
	requireContains(t, out, "Paper 2 of 3: Paper-2.pdf")
	requireContains(t, out, "Saved")

	out = mustRunCLI(t, env, "goto", session, "last")
	requireContains(t, out, "Paper 3 of 3")

	out = mustRunCLI(t, env, "goto", session, "next")
	if strings.Contains(out, "Saved") {
		t.Fatalf("move past the end should not save: %q", out)
	}

	if _, _, err := runCLI(t, env, "goto", session, "9"); !errors.Is(err, review.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if _, _, err := runCLI(t, env, "goto", session, "missing.pdf"); !errors.Is(err, review.ErrUnknownRecord) {
		t.Fatalf("expected ErrUnknownRecord, got %v", err)
	}

	mustRunCLI(t, env, "goto", session, "Paper-1.pdf")
	var status statusView
	decodeJSON(t, mustRunCLI(t, env, "status", session, "--json"), &status)
	if status.Position != 1 || status.Current != "Paper-1.pdf" {
		t.Fatalf("unexpected cursor: %+v", status)
	}
}

func TestJudgeAndShow(t *testing.T) {
	env := setupCLITestEnv(t)
	session := importSample(t, env, 2)

	mustRunCLI(t, env, "judge", session, "incorrect", "--record", "Paper-2.pdf", "--notes", "wrong sensor")
	mustRunCLI(t, env, "rate", session, "Research Goal", "2", "--record", "Paper-2.pdf")

	var view recordView
	decodeJSON(t, mustRunCLI(t, env, "show", session, "--record", "Paper-2.pdf", "--json"), &view)
	if view.Disposition != "incorrect" || view.Notes != "wrong sensor" {
		t.Fatalf("unexpected verdict: %+v", view)
	}
	if view.Rated != 1 || view.Fields[0].Rating != 2 || view.Fields[0].RatedAt == "" {
		t.Fatalf("unexpected ratings: %+v", view.Fields[0])
	}

	text := mustRunCLI(t, env, "show", session, "--position", "2")
	requireContains(t, text, "Paper-2.pdf")
	requireContains(t, text, "Research Goal")

	if _, _, err := runCLI(t, env, "judge", session, "maybe"); !errors.Is(err, review.ErrInvalidDisposition) {
		t.Fatalf("expected ErrInvalidDisposition, got %v", err)
	}
}

func TestListFilters(t *testing.T) {
	env := setupCLITestEnv(t)
	session := importSample(t, env, 3)
	for _, f := range research.Fields() {
		mustRunCLI(t, env, "rate", session, f.Key(), "5", "--position", "2")
	}

	var rows []listRow
	decodeJSON(t, mustRunCLI(t, env, "list", session, "--filter", "reviewed", "--json"), &rows)
	if len(rows) != 1 || rows[0].Identity != "Paper-2.pdf" || !rows[0].Complete {
		t.Fatalf("unexpected reviewed rows: %+v", rows)
	}
	decodeJSON(t, mustRunCLI(t, env, "list", session, "--filter", "unreviewed", "--json"), &rows)
	if len(rows) != 2 {
		t.Fatalf("expected 2 unreviewed rows, got %+v", rows)
	}
	if _, _, err := runCLI(t, env, "list", session, "--filter", "bogus"); err == nil {
		t.Fatal("expected error for unknown filter")
	}
}

func TestSearch(t *testing.T) {
	env := setupCLITestEnv(t)
	records := testsupport.Records(3)
	records[1].SetValue(research.FieldResearchGoal, "wearable lactate sensor")
	session := importRecords(t, env, records)

	var rows []searchRow
	decodeJSON(t, mustRunCLI(t, env, "search", session, "lactate", "--json"), &rows)
	if len(rows) != 1 || rows[0].Identity != "Paper-2.pdf" || rows[0].Score <= 0 {
		t.Fatalf("unexpected search results: %+v", rows)
	}
}

func TestExportAndSaveAs(t *testing.T) {
	env := setupCLITestEnv(t)
	session := importSample(t, env, 2)
	mustRunCLI(t, env, "rate", session, "researchGoal", "3")

	out := filepath.Join(env.baseDir, "ratings.csv")
	mustRunCLI(t, env, "export", session, "--out", out, "--with-disposition")
	content := testsupport.ReadFile(t, out)
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "filename,Research Goal") || !strings.HasSuffix(lines[0], "Disposition,Notes") {
		t.Fatalf("unexpected export:\n%s", content)
	}
	if !strings.HasPrefix(lines[1], "Paper-1.pdf,3,") {
		t.Fatalf("unexpected first row %q", lines[1])
	}

	copyPath := filepath.Join(env.baseDir, "copy.auxl")
	mustRunCLI(t, env, "save-as", session, copyPath)
	if testsupport.ReadFile(t, copyPath) != testsupport.ReadFile(t, session) {
		t.Fatal("save-as copy differs from the original")
	}
}

func TestOpenRejectsCorruptSession(t *testing.T) {
	env := setupCLITestEnv(t)
	bad := filepath.Join(env.baseDir, "bad.auxl")
	testsupport.WriteFile(t, bad, `{"papers": [], "ratings": {}, "totalPapers": 4}`)

	_, _, err := runCLI(t, env, "open", bad)
	if !errors.Is(err, sessionfile.ErrCorruptSessionFile) {
		t.Fatalf("expected ErrCorruptSessionFile, got %v", err)
	}
}

func TestRecentListsSessions(t *testing.T) {
	env := setupCLITestEnv(t)
	session := importSample(t, env, 2)

	var rows []recentRow
	decodeJSON(t, mustRunCLI(t, env, "recent", "--json", "--kind", "session"), &rows)
	if len(rows) != 1 || rows[0].Path != session || rows[0].Total != 2 {
		t.Fatalf("unexpected recent rows: %+v", rows)
	}

	out := mustRunCLI(t, env, "recent", "--clear")
	requireContains(t, out, "Cleared")
	out = mustRunCLI(t, env, "recent")
	requireContains(t, out, "No recent files")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out := mustRunCLI(t, env, "config", "validate")
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out = mustRunCLI(t, env, "config", "init", "--path", target)
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, env, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config exists without --overwrite")
	}
}

func TestTestNotifyDisabled(t *testing.T) {
	env := setupCLITestEnv(t)
	out := mustRunCLI(t, env, "test-notify")
	requireContains(t, out, "Notifications disabled")
}

func TestReviewRequiresTerminal(t *testing.T) {
	env := setupCLITestEnv(t)
	session := importSample(t, env, 1)
	if _, _, err := runCLI(t, env, "review", session); err == nil {
		t.Fatal("expected review to refuse a non-interactive terminal")
	}
}

func TestLogsShowsFilteredTail(t *testing.T) {
	env := setupCLITestEnv(t)
	logPath := filepath.Join(env.baseDir, "logs", "auxl.log")
	testsupport.WriteFile(t, logPath, "INFO session opened\nWARN history unavailable\nINFO session saved\n")

	out := mustRunCLI(t, env, "logs", "--lines", "1")
	if strings.TrimSpace(out) != "INFO session saved" {
		t.Fatalf("unexpected tail output %q", out)
	}

	out = mustRunCLI(t, env, "logs", "--grep", "history")
	if strings.TrimSpace(out) != "WARN history unavailable" {
		t.Fatalf("unexpected filtered output %q", out)
	}
}

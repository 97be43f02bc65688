package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"auxl/internal/research"
	"auxl/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	stateDir   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("AUXL_NTFY_TOPIC", "")
	t.Setenv("AUXL_LOG_LEVEL", "")

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "config.toml"),
		stateDir:   filepath.Join(base, "state"),
	}
	content := fmt.Sprintf(
		"[paths]\nstate_dir = %q\nlog_dir = %q\n\n[session]\ndefault_dir = %q\n",
		env.stateDir,
		filepath.Join(base, "logs"),
		base,
	)
	testsupport.WriteFile(t, env.configPath, content)
	return env
}

func nonInteractive() contextOption {
	return func(c *commandContext) {
		interactive := false
		c.interactive = &interactive
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand(nonInteractive())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mustRunCLI(t *testing.T, env *cliTestEnv, args ...string) string {
	t.Helper()
	out, stderr, err := runCLI(t, env, args...)
	if err != nil {
		t.Fatalf("auxl %s: %v\nstdout: %s\nstderr: %s", strings.Join(args, " "), err, out, stderr)
	}
	return out
}

// importSample writes a spreadsheet with n papers and imports it into a
// session file, returning the session path.
func importSample(t *testing.T, env *cliTestEnv, n int) string {
	t.Helper()
	return importRecords(t, env, testsupport.Records(n))
}

func importRecords(t *testing.T, env *cliTestEnv, records []research.Record) string {
	t.Helper()
	source := filepath.Join(env.baseDir, "extraction.csv")
	testsupport.WriteSpreadsheet(t, source, records)
	session := filepath.Join(env.baseDir, "review.auxl")
	mustRunCLI(t, env, "import", source, "--out", session)
	return session
}

func decodeJSON(t *testing.T, data string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(data), v); err != nil {
		t.Fatalf("decode JSON %q: %v", data, err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

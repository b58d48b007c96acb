package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// newTestRootCmd creates a root command with persistent flags for testing subcommands
func newTestRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use: "memlearn",
	}
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("root", ".", "Workspace root directory")
	return rootCmd
}

// isolateHome sets HOME to a temp directory to avoid touching real ~/.memlearn/
func isolateHome(t *testing.T, tmpDir string) {
	t.Helper()
	tmpHome := filepath.Join(tmpDir, "home")
	if err := os.MkdirAll(tmpHome, 0700); err != nil {
		t.Fatalf("Failed to create temp home: %v", err)
	}
	t.Setenv("HOME", tmpHome)
}

// runCmd executes a subcommand under a test root with the given args and
// captures stdout.
func runCmd(t *testing.T, sub *cobra.Command, args ...string) (string, error) {
	t.Helper()

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(sub)
	rootCmd.SetArgs(args)

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	execErr := rootCmd.Execute()

	w.Close()
	os.Stdout = old

	var out strings.Builder
	buf := make([]byte, 4096)
	for {
		n, readErr := r.Read(buf)
		out.Write(buf[:n])
		if readErr != nil {
			break
		}
	}
	return out.String(), execErr
}

func TestInitCmd(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	out, err := runCmd(t, newInitCmd(), "init", "--root", tmpDir)
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(out, "Initialized") {
		t.Errorf("unexpected output: %q", out)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, ".memlearn", "manifest.yaml")); err != nil {
		t.Errorf("manifest.yaml not created: %v", err)
	}
}

func TestLearnAndQueryCmds(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	out, err := runCmd(t, newLearnCmd(), "learn", "--root", tmpDir, "--json",
		"Don't use inline imports, use module-level imports instead.")
	if err != nil {
		t.Fatalf("learn failed: %v", err)
	}

	var learned struct {
		Patterns []struct {
			ID         string  `json:"id"`
			Category   string  `json:"category"`
			Confidence float64 `json:"confidence"`
		} `json:"patterns"`
		TotalCorrections int `json:"total_corrections"`
	}
	if err := json.Unmarshal([]byte(out), &learned); err != nil {
		t.Fatalf("learn output is not valid JSON: %v (out: %q)", err, out)
	}
	if len(learned.Patterns) == 0 {
		t.Fatal("learn stored no patterns")
	}
	if learned.TotalCorrections != 1 {
		t.Errorf("TotalCorrections = %d, want 1", learned.TotalCorrections)
	}
	if learned.Patterns[0].Category != "avoid-and-replace" {
		t.Errorf("Category = %q, want avoid-and-replace", learned.Patterns[0].Category)
	}

	out, err = runCmd(t, newQueryCmd(), "query", "--root", tmpDir, "coding")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if !strings.Contains(out, learned.Patterns[0].ID) {
		t.Errorf("query output missing learned pattern: %q", out)
	}
}

func TestFeedbackCmdRequiresMessage(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	if _, err := runCmd(t, newFeedbackCmd(), "feedback", "--root", tmpDir, "some-id"); err == nil {
		t.Error("feedback without --message should fail")
	}
}

func TestPromoteCmdMissingRulesDocument(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	// Seed a promotable pattern via the learn path, then force its counters.
	if _, err := runCmd(t, newLearnCmd(), "learn", "--root", tmpDir,
		"never commit secrets"); err != nil {
		t.Fatalf("learn failed: %v", err)
	}

	// No CLAUDE.md in tmpDir, but with nothing promotable promote is a no-op.
	out, err := runCmd(t, newPromoteCmd(), "promote", "--root", tmpDir)
	if err != nil {
		t.Fatalf("promote with nothing promotable failed: %v", err)
	}
	if !strings.Contains(out, "No patterns") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestBackupsCmdEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	out, err := runCmd(t, newBackupsCmd(), "backups", "--root", tmpDir)
	if err != nil {
		t.Fatalf("backups failed: %v", err)
	}
	if !strings.Contains(out, "No backups") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestVersionCmdJSON(t *testing.T) {
	out, err := runCmd(t, newVersionCmd(), "version", "--json")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	var v map[string]string
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("version output is not valid JSON: %v", err)
	}
	if v["version"] == "" {
		t.Error("version field is empty")
	}
}

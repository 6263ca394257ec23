// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

//nolint:errcheck
package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	log "github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/randlab/randlab/internal/db"
	"github.com/randlab/randlab/internal/i18n"
)

// setupTestCLI initializes an in-memory SQLite database for isolated
// testing and pins config discovery to a temp directory so no real user
// config is read or written.
func setupTestCLI(t *testing.T) {
	t.Helper()

	// Ensure tests are isolated from any previously loaded configuration.
	viper.Reset()
	cfgFile = ""
	verbose = false

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// Use a unique in-memory SQLite database per test. The file: URI with
	// mode=memory and cache=shared lets multiple connections share the
	// same in-memory DB.
	uniq := fmt.Sprintf("climem_%d", time.Now().UnixNano())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uniq)

	t.Setenv("RANDLAB_DATABASE_TYPE", "sqlite")
	t.Setenv("RANDLAB_DATABASE_DSN", dsn)
	t.Setenv("RANDLAB_LANGUAGE", "en")

	i18n.Init("en")
	if err := db.InitDB("sqlite", dsn); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
}

// executeCommand runs a cobra command with the given arguments and captures
// its output. It can optionally take an `io.Reader` to mock stdin for
// interactive commands.
func executeCommand(t *testing.T, stdin io.Reader, args ...string) string {
	t.Helper()

	// Redirect stdout and stderr to a buffer so we capture log output.
	oldOut := os.Stdout
	oldErr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stdout = w
	os.Stderr = w
	log.SetOutput(w)
	defer log.SetOutput(os.Stderr)
	defer func() {
		os.Stdout = oldOut
		os.Stderr = oldErr
	}()

	// Redirect stdin if a reader is provided
	if stdin != nil {
		oldIn := os.Stdin
		os.Stdin = stdin.(*os.File)
		defer func() {
			os.Stdin = oldIn
		}()
	}

	// Create a new root command for each test to ensure isolation
	root := NewRootCmd()
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		t.Fatalf("command execution failed: %v", err)
	}

	w.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read command output: %v", err)
	}

	return buf.String()
}

func TestTrialsCmd(t *testing.T) {
	setupTestCLI(t)

	output := executeCommand(t, nil, "trials", "--source", "pcg", "--seed", "42", "--trials", "3", "--bits", "400")

	t.Run("should print the scorecard table", func(t *testing.T) {
		if !strings.Contains(output, "METRIC") {
			t.Errorf("Expected output to contain the table header, but it didn't. Output:\n%s", output)
		}
		for _, metric := range []string{"entropy", "chi-square", "frequency", "runs", "block-frequency", "approx-entropy"} {
			if !strings.Contains(output, metric) {
				t.Errorf("Expected output to contain metric %q, but it didn't. Output:\n%s", metric, output)
			}
		}
	})

	t.Run("should name the batch", func(t *testing.T) {
		if !strings.Contains(output, "pcg/raw 3x400") {
			t.Errorf("Expected output to contain the batch label, but it didn't. Output:\n%s", output)
		}
	})

	t.Run("should persist the batch", func(t *testing.T) {
		if !strings.Contains(output, "Saved as trial batch #") {
			t.Errorf("Expected output to contain the saved message, but it didn't. Output:\n%s", output)
		}
		rows, err := db.GetAllTrialResults()
		if err != nil {
			t.Fatalf("Failed to list trial results: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("Expected 1 stored trial batch, found %d", len(rows))
		}
		if rows[0].Trials != 3 || rows[0].BitLength != 400 {
			t.Errorf("Stored batch has wrong shape: %+v", rows[0])
		}
	})
}

func TestGenCmdDeterministic(t *testing.T) {
	setupTestCLI(t)

	first := strings.TrimSpace(executeCommand(t, nil, "gen", "int32", "--source", "pcg", "--seed", "7"))
	second := strings.TrimSpace(executeCommand(t, nil, "gen", "int32", "--source", "pcg", "--seed", "7"))

	if first != second {
		t.Fatalf("Expected deterministic output for a seeded source, got %q and %q", first, second)
	}
	if !regexp.MustCompile(`^\d+$`).MatchString(first) {
		t.Fatalf("Expected an unsigned decimal, got %q", first)
	}
}

func TestExtractCmdHex(t *testing.T) {
	setupTestCLI(t)

	output := strings.TrimSpace(executeCommand(t, nil, "extract", "64", "--hex", "--source", "pcg", "--seed", "5"))

	if !regexp.MustCompile(`^[0-9a-f]{16}$`).MatchString(output) {
		t.Fatalf("Expected 16 hex chars for 64 packed bits, got %q", output)
	}

	rows, err := db.GetAllExtractionRuns()
	if err != nil {
		t.Fatalf("Failed to list extraction runs: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 stored extraction run, found %d", len(rows))
	}
	if rows[0].BitsRequested != 64 {
		t.Errorf("Expected 64 requested bits, got %d", rows[0].BitsRequested)
	}
}

func TestExtractCmdOutFile(t *testing.T) {
	setupTestCLI(t)

	outPath := filepath.Join(t.TempDir(), "bits.txt")
	output := executeCommand(t, nil, "extract", "--bits", "32", "--out", outPath, "--source", "pcg", "--seed", "9")

	if !strings.Contains(output, "Wrote 32 bits to") {
		t.Errorf("Expected output to mention the written file, got:\n%s", output)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	content := strings.TrimSpace(string(data))
	if !regexp.MustCompile(`^[01]{32}$`).MatchString(content) {
		t.Fatalf("Expected a 32-char bit string in the file, got %q", content)
	}
}

func TestKeygenCmd(t *testing.T) {
	setupTestCLI(t)

	output := executeCommand(t, nil, "keygen", "--source", "pcg", "--seed", "11")

	keyLine := regexp.MustCompile(`(?m)^[0-9a-f]{64}$`)
	if !keyLine.MatchString(output) {
		t.Fatalf("Expected a 64-char hex key line, got:\n%s", output)
	}

	// keygen does not persist anything
	counts, err := db.CountResults()
	if err != nil {
		t.Fatalf("Failed to count results: %v", err)
	}
	if counts.Total() != 0 {
		t.Errorf("Expected no stored results after keygen, found %d", counts.Total())
	}
}

func TestChannelCmd(t *testing.T) {
	setupTestCLI(t)

	output := executeCommand(t, nil, "channel", "--source", "pcg", "--seed", "3")

	if !strings.Contains(output, "Round trip OK") {
		t.Errorf("Expected a successful round trip, got:\n%s", output)
	}
}

func TestResultsAndPurgeFlow(t *testing.T) {
	setupTestCLI(t)

	executeCommand(t, nil, "trials", "--source", "pcg", "--seed", "1", "--trials", "2", "--bits", "200")

	t.Run("results should count the stored batch", func(t *testing.T) {
		output := executeCommand(t, nil, "results")
		if !strings.Contains(output, "Stored results: 1") {
			t.Errorf("Expected one stored result in the counts line, got:\n%s", output)
		}
	})

	t.Run("results trials should list the batch", func(t *testing.T) {
		output := executeCommand(t, nil, "results", "trials")
		if !strings.Contains(output, "pcg/raw 2x200") {
			t.Errorf("Expected the batch label in the listing, got:\n%s", output)
		}
	})

	t.Run("purge should wipe everything after confirmation", func(t *testing.T) {
		inputReader, inputWriter, _ := os.Pipe()
		go func() {
			defer func() { _ = inputWriter.Close() }()
			fmt.Fprintln(inputWriter, "yes")
		}()

		output := executeCommand(t, inputReader, "purge")
		if !strings.Contains(output, "Deleted") {
			t.Errorf("Expected a deletion message, got:\n%s", output)
		}

		counts, err := db.CountResults()
		if err != nil {
			t.Fatalf("Failed to count results: %v", err)
		}
		if counts.Total() != 0 {
			t.Errorf("Expected an empty store after purge, found %d rows", counts.Total())
		}
	})

	t.Run("listing an empty store should say so", func(t *testing.T) {
		output := executeCommand(t, nil, "results", "trials")
		if !strings.Contains(output, "No results stored yet.") {
			t.Errorf("Expected the empty-store message, got:\n%s", output)
		}
	})
}

func TestBackupRestoreCmd(t *testing.T) {
	setupTestCLI(t)

	executeCommand(t, nil, "trials", "--source", "pcg", "--seed", "2", "--trials", "2", "--bits", "200")

	backupPath := filepath.Join(t.TempDir(), "lab-backup.json")

	t.Run("backup should write a zst file", func(t *testing.T) {
		output := executeCommand(t, nil, "backup", backupPath)
		if !strings.Contains(output, "Backup complete") {
			t.Errorf("Expected a backup success message, got:\n%s", output)
		}
		if _, err := os.Stat(backupPath + ".zst"); err != nil {
			t.Fatalf("Expected backup file with .zst suffix appended: %v", err)
		}
	})

	t.Run("merge restore should re-import without wiping", func(t *testing.T) {
		output := executeCommand(t, nil, "restore", "--merge", backupPath+".zst")
		if !strings.Contains(output, "Restore complete.") {
			t.Errorf("Expected a restore success message, got:\n%s", output)
		}
		// The backup holds the same row IDs, so a merge changes nothing.
		counts, err := db.CountResults()
		if err != nil {
			t.Fatalf("Failed to count results: %v", err)
		}
		if counts.TrialResults != 1 {
			t.Errorf("Expected 1 trial batch after merge restore, found %d", counts.TrialResults)
		}
	})
}

func TestLangCmdListsLocales(t *testing.T) {
	setupTestCLI(t)

	output := executeCommand(t, nil, "lang")
	if !strings.Contains(output, "English") {
		t.Errorf("Expected the locale listing to contain English, got:\n%s", output)
	}
}

func TestVersionCmd(t *testing.T) {
	setupTestCLI(t)

	output := executeCommand(t, nil, "version")
	if !strings.Contains(output, "version:") || !strings.Contains(output, "commit:") {
		t.Errorf("Expected version and commit lines, got:\n%s", output)
	}
}

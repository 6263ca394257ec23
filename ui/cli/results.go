// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/randlab/randlab/internal/db"
	"github.com/randlab/randlab/internal/i18n"
	"github.com/randlab/randlab/internal/model"
)

// resultsCmd is the root command for browsing persisted results.
var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Browse persisted experiment results",
	Long: `The 'results' command group lists what the lab has stored so far:
  - trial batches with their aggregated scorecards
  - generated keys with their avalanche analyses
  - extraction runs with their yield accounting

Without a subcommand it prints the result counts.`,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		counts, err := db.CountResults()
		if err != nil {
			log.Fatalf("%s", i18n.T("results.cli_error", err))
		}
		fmt.Println(i18n.T("results.cli_counts", counts.TrialResults, counts.CryptoResults, counts.ExtractionRuns))
	},
}

// resultsTrialsCmd lists persisted trial batches.
var resultsTrialsCmd = &cobra.Command{
	Use:     "trials",
	Short:   "List stored trial batches",
	Args:    cobra.NoArgs,
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := db.GetAllTrialResults()
		if err != nil {
			return fmt.Errorf("failed to list trial results: %w", err)
		}
		rows = limitRows(cmd, rows)
		if len(rows) == 0 {
			fmt.Println(i18n.T("results.cli_none"))
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tRUN\tENTROPY\tCHI2\tFREQ\tRUNS\tBLOCK\tAPEN")
		for _, r := range rows {
			fmt.Fprintf(w, "%d\t%s\t%s\t%.4f\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Label(),
				r.Entropy.Mean,
				passFrac(r.ChiSquare, r.Trials),
				passFrac(r.Frequency, r.Trials),
				passFrac(r.Runs, r.Trials),
				passFrac(r.BlockFrequency, r.Trials),
				passFrac(r.ApproxEntropy, r.Trials))
		}
		w.Flush()
		return nil
	},
}

// resultsCryptoCmd lists persisted keys with their avalanche analyses.
var resultsCryptoCmd = &cobra.Command{
	Use:     "crypto",
	Short:   "List stored keys and avalanche analyses",
	Args:    cobra.NoArgs,
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := db.GetAllCryptoResults()
		if err != nil {
			return fmt.Errorf("failed to list crypto results: %w", err)
		}
		rows = limitRows(cmd, rows)
		if len(rows) == 0 {
			fmt.Println(i18n.T("results.cli_none"))
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tSOURCE\tMODE\tKEY\tENTROPY\tEFF%\tAVALANCHE")
		for _, r := range rows {
			mode := "direct"
			if r.Extracted {
				mode = "extracted"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.4f\t%.1f\t%.2f%% ± %.2f%% (%d)\n",
				r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Source, mode,
				truncateString(r.KeyHex, 16), r.KeyEntropy, r.Efficiency*100,
				r.AvalancheMean, r.AvalancheStdDev, r.AvalancheTrials)
		}
		w.Flush()
		return nil
	},
}

// resultsRunsCmd lists persisted extraction runs.
var resultsRunsCmd = &cobra.Command{
	Use:     "runs",
	Short:   "List stored extraction runs",
	Args:    cobra.NoArgs,
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := db.GetAllExtractionRuns()
		if err != nil {
			return fmt.Errorf("failed to list extraction runs: %w", err)
		}
		rows = limitRows(cmd, rows)
		if len(rows) == 0 {
			fmt.Println(i18n.T("results.cli_none"))
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tSOURCE\tBITS\tRAW USED\tEFF%\tENTROPY")
		for _, r := range rows {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%.1f\t%.4f\n",
				r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Source,
				r.BitsRequested, r.RawBitsUsed, r.Efficiency*100, r.Entropy)
		}
		w.Flush()
		return nil
	},
}

// resultsShowCmd displays one trial batch in full.
var resultsShowCmd = &cobra.Command{
	Use:     "show <id>",
	Short:   "Show one trial batch in full",
	Args:    cobra.ExactArgs(1),
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		r, err := db.GetTrialResultByID(id)
		if err != nil {
			return fmt.Errorf("failed to load trial result: %w", err)
		}
		if r == nil {
			return fmt.Errorf("trial result not found: %d", id)
		}

		fmt.Printf("ID:        %d\n", r.ID)
		fmt.Printf("Created:   %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Run:       %s\n", r.Label())
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "METRIC\tMEAN ± CI95\tPASSED")
		fmt.Fprintf(w, "entropy\t%s\t%d/%d\n", r.Entropy, r.Entropy.Passed, r.Trials)
		fmt.Fprintf(w, "chi-square\t%s\t%d/%d\n", r.ChiSquare, r.ChiSquare.Passed, r.Trials)
		fmt.Fprintf(w, "frequency\t%s\t%d/%d\n", r.Frequency, r.Frequency.Passed, r.Trials)
		fmt.Fprintf(w, "runs\t%s\t%d/%d\n", r.Runs, r.Runs.Passed, r.Trials)
		fmt.Fprintf(w, "block-frequency\t%s\t%d/%d\n", r.BlockFrequency, r.BlockFrequency.Passed, r.Trials)
		fmt.Fprintf(w, "approx-entropy\t%s\t%d/%d\n", r.ApproxEntropy, r.ApproxEntropy.Passed, r.Trials)
		w.Flush()
		return nil
	},
}

// resultsDeleteCmd deletes a single stored result.
var resultsDeleteCmd = &cobra.Command{
	Use:   "delete <trials|crypto|runs> <id>",
	Short: "Delete one stored result",
	Long:  `Deletes a single result row of the given kind by its ID.`,
	Args:  cobra.ExactArgs(2),
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		switch args[0] {
		case "trials":
			err = db.DeleteTrialResult(id)
		case "crypto":
			err = db.DeleteCryptoResult(id)
		case "runs":
			err = db.DeleteExtractionRun(id)
		default:
			return fmt.Errorf("unknown result kind: %s (use trials, crypto or runs)", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to delete result: %w", err)
		}
		fmt.Println(i18n.T("results.cli_deleted", args[0], id))
		return nil
	},
}

// purgeCmd wipes every stored result after confirmation.
var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete all stored results",
	Long: `Deletes every trial batch, crypto result and extraction run from the
database. This cannot be undone; create a backup first if in doubt.`,
	Args:    cobra.NoArgs,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		counts, err := db.CountResults()
		if err != nil {
			log.Fatalf("%s", i18n.T("results.cli_error", err))
		}
		if counts.Total() == 0 {
			fmt.Println(i18n.T("results.cli_none"))
			return
		}
		ans := promptForConfirmation(i18n.T("purge.cli_confirm", counts.Total()))
		if ans != "yes" && ans != "y" {
			fmt.Println(i18n.T("purge.cli_cancelled"))
			return
		}
		if err := db.PurgeResults(); err != nil {
			log.Fatalf("%s", i18n.T("purge.cli_error", err))
		}
		fmt.Println(i18n.T("purge.cli_success", counts.Total()))
	},
}

// limitRows applies the --limit flag to a freshly listed slice. Lists
// come back newest first, so keeping the head keeps the newest rows.
func limitRows[T any](cmd *cobra.Command, rows []T) []T {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

func passFrac(m model.MetricSummary, trials int) string {
	return fmt.Sprintf("%d/%d", m.Passed, trials)
}

func parseID(s string) (int, error) {
	var id int
	if _, err := fmt.Sscanf(s, "%d", &id); err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID: %s", s)
	}
	return id, nil
}

// truncateString truncates a string to maxLen characters, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func init() {
	resultsCmd.AddCommand(resultsTrialsCmd)
	resultsCmd.AddCommand(resultsCryptoCmd)
	resultsCmd.AddCommand(resultsRunsCmd)
	resultsCmd.AddCommand(resultsShowCmd)
	resultsCmd.AddCommand(resultsDeleteCmd)

	// The --limit flag applies to all listing subcommands.
	for _, c := range []*cobra.Command{resultsTrialsCmd, resultsCryptoCmd, resultsRunsCmd} {
		if c.Flags().Lookup("limit") == nil {
			c.Flags().IntP("limit", "n", 0, "Limit the listing to the newest N rows (0 lists all)")
		}
	}
}

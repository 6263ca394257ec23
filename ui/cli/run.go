// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/randlab/randlab/internal/core"
	"github.com/randlab/randlab/internal/i18n"
	"github.com/randlab/randlab/internal/keygen"
	"github.com/randlab/randlab/internal/model"
	"github.com/randlab/randlab/internal/source"
)

// trialsCmd represents the 'trials' command.
// It runs a batch of independent bitstring trials against a source and
// persists the aggregated scorecard.
var trialsCmd = &cobra.Command{
	Use:   "trials",
	Short: "Run a batch of statistical trials against a bit source",
	Long: `Draws a number of independent bitstrings from the selected source, scores
each one with the statistical suite (entropy, chi-square, NIST frequency,
runs, block frequency, approximate entropy) and aggregates the per-trial
results into means with 95% confidence intervals and pass counts.

With --extracted every draw is routed through the Von Neumann extractor
first, so the batch measures the debiased stream instead of the raw one.

The aggregate is persisted; use 'randlab results trials' to revisit it.`,
	Args:    cobra.NoArgs,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		name, seed, bias := sourceArgs(cmd)
		trialCount, _ := cmd.Flags().GetInt("trials")
		if trialCount == 0 {
			trialCount = appConfig.Trials.Count
		}
		if trialCount == 0 {
			trialCount = 10
		}
		bitLength, _ := cmd.Flags().GetInt("bits")
		if bitLength == 0 {
			bitLength = appConfig.Trials.BitLength
		}
		if bitLength == 0 {
			bitLength = 10000
		}
		extracted, _ := cmd.Flags().GetBool("extracted")

		res, err := core.RunTrialBatch(cmd.Context(), core.TrialOptions{
			Source:    name,
			Seed:      seed,
			Bias:      bias,
			Extracted: extracted,
			Trials:    trialCount,
			BitLength: bitLength,
		}, &cliReporter{})
		if err != nil {
			log.Fatalf("%s", i18n.T("trials.cli_error", err))
		}

		fmt.Println(i18n.T("trials.cli_header", res.Label()))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "METRIC\tMEAN\tCI95\tPASSED")
		for _, row := range []struct {
			name    string
			summary model.MetricSummary
		}{
			{"entropy", res.Entropy},
			{"chi-square", res.ChiSquare},
			{"frequency", res.Frequency},
			{"runs", res.Runs},
			{"block-frequency", res.BlockFrequency},
			{"approx-entropy", res.ApproxEntropy},
		} {
			fmt.Fprintf(w, "%s\t%.4f\t±%.4f\t%d/%d\n", row.name, row.summary.Mean, row.summary.CI, row.summary.Passed, res.Trials)
		}
		w.Flush()
		fmt.Println(i18n.T("trials.cli_saved", res.ID))
	},
}

// avalancheCmd represents the 'avalanche' command.
// It generates a key and measures its avalanche behavior under AES-256.
var avalancheCmd = &cobra.Command{
	Use:   "avalanche",
	Short: "Generate a key and measure its AES avalanche effect",
	Long: `Generates a 256-bit key from the selected source (debiased by default,
raw with --direct), encrypts a probe plaintext under AES-256-CBC, then
flips single key bits and measures how many ciphertext bits change.
A well-behaved cipher flips about half of them.

The key, its entropy accounting and the avalanche summary are persisted;
use 'randlab results crypto' to revisit them.`,
	Args:    cobra.NoArgs,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		name, seed, bias := sourceArgs(cmd)
		trialCount, _ := cmd.Flags().GetInt("trials")
		if trialCount == 0 {
			trialCount = appConfig.Avalanche.Trials
		}
		plaintext, _ := cmd.Flags().GetString("plaintext")
		if plaintext == "" {
			plaintext = appConfig.Avalanche.Plaintext
		}
		direct, _ := cmd.Flags().GetBool("direct")

		out, err := core.RunCryptoTrial(cmd.Context(), core.CryptoOptions{
			Source:          name,
			Seed:            seed,
			Bias:            bias,
			Direct:          direct,
			AvalancheTrials: trialCount,
			Plaintext:       plaintext,
		}, &cliReporter{})
		if err != nil {
			log.Fatalf("%s", i18n.T("avalanche.cli_error", err))
		}

		r := out.Result
		fmt.Println(i18n.T("avalanche.cli_key", r.KeyHex))
		fmt.Println(i18n.T("avalanche.cli_key_stats", r.KeyEntropy, r.RawBitsUsed, r.Efficiency*100))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "BIT FLIPPED\tCIPHERTEXT CHANGE")
		for _, s := range out.Samples {
			fmt.Fprintf(w, "%d\t%.2f%%\n", s.BitIndex, s.Percent)
		}
		w.Flush()
		fmt.Println(i18n.T("avalanche.cli_summary", r.AvalancheMean, r.AvalancheStdDev, r.AvalancheTrials))
		fmt.Println(i18n.T("avalanche.cli_saved", r.ID))
	},
}

// analyzeCmd represents the 'analyze' command.
// It compares a source before and after Von Neumann debiasing.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare a source before and after Von Neumann debiasing",
	Long: `Draws a raw sample from the selected source, then an extracted sample of
the same length, and prints bias, entropy and NIST p-values side by side.
The extraction yield is persisted as a run record.

Pick a skewed source to watch the extractor work, e.g.:
  randlab analyze --source biased --bias 0.8 --seed 7`,
	Args:    cobra.NoArgs,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		name, seed, bias := sourceArgs(cmd)
		bits, _ := cmd.Flags().GetInt("bits")

		a, err := core.AnalyzeSource(cmd.Context(), core.AnalyzeOptions{
			Source: name,
			Seed:   seed,
			Bias:   bias,
			Bits:   bits,
		}, &cliReporter{})
		if err != nil {
			log.Fatalf("%s", i18n.T("analyze.cli_error", err))
		}

		fmt.Println(i18n.T("analyze.cli_header", a.Source, bits))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "METRIC\tRAW\tEXTRACTED")
		fmt.Fprintf(w, "ones\t%d\t%d\n", a.Raw.Ones, a.Extracted.Ones)
		fmt.Fprintf(w, "zeros\t%d\t%d\n", a.Raw.Zeros, a.Extracted.Zeros)
		fmt.Fprintf(w, "p(1)\t%.4f\t%.4f\n", a.Raw.P1, a.Extracted.P1)
		fmt.Fprintf(w, "bias\t%.4f\t%.4f\n", a.Raw.Bias, a.Extracted.Bias)
		fmt.Fprintf(w, "entropy\t%.4f\t%.4f\n", a.Raw.Entropy, a.Extracted.Entropy)
		fmt.Fprintf(w, "frequency p\t%.4f\t%.4f\n", a.Raw.FrequencyP, a.Extracted.FrequencyP)
		fmt.Fprintf(w, "runs p\t%.4f\t%.4f\n", a.Raw.RunsP, a.Extracted.RunsP)
		w.Flush()
		fmt.Println(i18n.T("analyze.cli_yield", a.RawBitsUsed, a.Efficiency*100))
		fmt.Println(i18n.T("analyze.cli_saved", a.RunID))
	},
}

// extractCmd represents the 'extract' command.
// It produces a fixed-length debiased bitstring.
var extractCmd = &cobra.Command{
	Use:   "extract [bits]",
	Short: "Produce debiased bits from a source",
	Long: `Runs the Von Neumann extractor against the selected source until the
requested number of debiased bits is available and prints them as a bit
string (or packed hex with --hex). With --out the bits go to a file
instead of stdout.

The yield accounting (raw bits consumed, efficiency, output entropy) is
persisted as a run record; use 'randlab results runs' to inspect it.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		name, seed, bias := sourceArgs(cmd)
		bits, _ := cmd.Flags().GetInt("bits")
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				log.Fatalf("%s", i18n.T("extract.cli_invalid_count", args[0]))
			}
			bits = n
		}
		asHex, _ := cmd.Flags().GetBool("hex")
		outFile, _ := cmd.Flags().GetString("out")

		// nil Reporter keeps stdout clean for piping.
		out, err := core.RunExtraction(cmd.Context(), core.ExtractOptions{
			Source: name,
			Seed:   seed,
			Bias:   bias,
			Bits:   bits,
		}, nil)
		if err != nil {
			log.Fatalf("%s", i18n.T("extract.cli_error", err))
		}

		rendered := out.Bits.String()
		if asHex {
			packed, perr := out.Bits.Pack()
			if perr != nil {
				log.Fatalf("%s", i18n.T("extract.cli_error_hex", perr))
			}
			rendered = hex.EncodeToString(packed)
		}
		if outFile != "" {
			if err := os.WriteFile(outFile, []byte(rendered+"\n"), 0o644); err != nil {
				log.Fatalf("%s", i18n.T("extract.cli_error_write", err))
			}
			fmt.Println(i18n.T("extract.cli_saved_file", len(out.Bits), outFile))
			fmt.Println(i18n.T("extract.cli_yield", out.Run.RawBitsUsed, out.Run.Efficiency*100, out.Run.Entropy))
			return
		}
		// Keep stdout clean so the bits can be piped onwards.
		fmt.Println(rendered)
	},
}

// genCmd represents the 'gen' command.
// It converts extracted bits into a number.
var genCmd = &cobra.Command{
	Use:   "gen <int32|int64|float|double>",
	Short: "Generate a random number from extracted bits",
	Long: `Draws debiased bits from the selected source and converts them into a
number. Integer kinds print as unsigned decimals; float kinds fill the
mantissa and map into [min, max) ([0, 1) by default).

With --raw the conversion uses raw source bits without debiasing.

Examples:
  randlab gen int32
  randlab gen double --min 10 --max 20 --source pcg --seed 7`,
	Args:    cobra.ExactArgs(1),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		name, seed, bias := sourceArgs(cmd)
		min, _ := cmd.Flags().GetFloat64("min")
		max, _ := cmd.Flags().GetFloat64("max")
		raw, _ := cmd.Flags().GetBool("raw")

		n, err := core.GenerateNumber(cmd.Context(), core.GenerateOptions{
			Source: name,
			Seed:   seed,
			Bias:   bias,
			Kind:   args[0],
			Min:    min,
			Max:    max,
			Raw:    raw,
		})
		if err != nil {
			log.Fatalf("%s", i18n.T("gen.cli_error", err))
		}
		// Value only, pipe-friendly.
		fmt.Println(n.String())
	},
}

// keygenCmd represents the 'keygen' command.
// It generates a 256-bit key without running the avalanche probe.
var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a 256-bit key with SHA-256 privacy amplification",
	Long: `Collects 256 bits from the selected source (debiased by default, raw
with --direct), hashes them once with SHA-256 and prints the resulting
key with its entropy and yield accounting. Nothing is persisted; use
'randlab avalanche' for a stored key with an avalanche analysis.`,
	Args:    cobra.NoArgs,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		name, seed, bias := sourceArgs(cmd)
		direct, _ := cmd.Flags().GetBool("direct")

		src, err := source.ForName(name, seed, bias)
		if err != nil {
			log.Fatalf("%s", i18n.T("keygen.cli_error", err))
		}
		var key keygen.Key
		if direct {
			key, err = keygen.Direct(cmd.Context(), src)
		} else {
			key, err = keygen.Extracted(cmd.Context(), src)
		}
		if err != nil {
			log.Fatalf("%s", i18n.T("keygen.cli_error", err))
		}

		fmt.Println(key.Hex())
		fmt.Println(i18n.T("keygen.cli_stats", key.Source, key.BitEntropy, key.RawBitsUsed, key.Efficiency*100))
	},
}

// channelCmd represents the 'channel' command.
// It runs the encrypted-channel self-test.
var channelCmd = &cobra.Command{
	Use:   "channel",
	Short: "Round-trip a message over an AES-CBC/HMAC channel",
	Long: `Derives an encryption and an authentication key from a freshly generated
master secret via HKDF, seals a message with AES-256-CBC plus an
HMAC-SHA256 tag and opens it again.

With --noise the sealed frame is additionally corrupted bit-by-bit at
the given flip probability; the command reports the measured flip rates
(0→1 and 1→0), the readout error estimate and whether the tag caught
the tampering.`,
	Args:    cobra.NoArgs,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		name, seed, bias := sourceArgs(cmd)
		message, _ := cmd.Flags().GetString("message")
		noise, _ := cmd.Flags().GetFloat64("noise")
		direct, _ := cmd.Flags().GetBool("direct")

		rep, err := core.RunChannelDemo(cmd.Context(), core.ChannelOptions{
			Source:  name,
			Seed:    seed,
			Bias:    bias,
			Direct:  direct,
			Message: message,
			Noise:   noise,
		}, &cliReporter{})
		if err != nil {
			log.Fatalf("%s", i18n.T("channel.cli_error", err))
		}

		fmt.Println(i18n.T("channel.cli_key", rep.Key.Source, rep.Key.BitEntropy))
		fmt.Println(i18n.T("channel.cli_sealed", len(rep.Message), rep.SealedBytes))
		if rep.RoundTrip {
			fmt.Println(i18n.T("channel.cli_roundtrip_ok"))
		} else {
			fmt.Println(i18n.T("channel.cli_roundtrip_fail"))
		}
		if rep.Noise > 0 {
			fmt.Println(i18n.T("channel.cli_noise", rep.Noise, rep.P01, rep.P10, rep.ReadoutError))
			if rep.TamperDetected {
				fmt.Println(i18n.T("channel.cli_tamper_detected"))
			} else {
				fmt.Println(i18n.T("channel.cli_tamper_missed"))
			}
		}
	},
}

// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface (CLI) for Randlab using the
// Cobra library. It defines the root command, subcommands (like trials,
// avalanche, extract), flags, and the main entry point for execution.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"runtime/debug"

	log "github.com/charmbracelet/log"
	_ "github.com/go-sql-driver/mysql" // Blank import for migrate command
	_ "github.com/jackc/pgx/v5/stdlib" // Blank import for migrate command
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/randlab/randlab/internal/config"
	"github.com/randlab/randlab/internal/db"
	"github.com/randlab/randlab/internal/i18n"
	"github.com/randlab/randlab/internal/logging"
	"github.com/randlab/randlab/internal/tui"
)

var version = "dev"   // this will be set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)
var cfgFile string
var verbose bool
var showVersionFlag bool

var appConfig config.Config

func setupDefaultServices(cmd *cobra.Command, args []string) error {
	// Load optional config file argument from cli
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	defaults := map[string]any{
		"database.type": "sqlite",
		"database.dsn":  "./randlab.db",
		"language":      "en",
		"log.level":     "warn",
	}

	// The migrate target flags share their names with the database config
	// keys. Bind config loading to the root command for that one case so
	// the target never masquerades as the current database.
	cfgCmd := cmd
	if cmd.Name() == "migrate" {
		cfgCmd = cmd.Root()
	}

	appConfig, err = config.LoadConfig[config.Config](cfgCmd, defaults, optionalConfigPath)
	// A "file not found" error is expected on first run, so we handle it
	// specifically and write a default file.
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			log.Warnf("could not write default config file: %v", writeErr)
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// If no config file was used, persist one so subsequent runs have a
	// file to inspect and edit.
	if viper.ConfigFileUsed() == "" {
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			log.Warnf("could not write default config file: %v", writeErr)
		}
	}

	// Backfill critical values a user config may have blanked out.
	if appConfig.Database.Type == "" {
		appConfig.Database.Type = defaults["database.type"].(string)
	}
	if appConfig.Database.Dsn == "" {
		appConfig.Database.Dsn = defaults["database.dsn"].(string)
	}
	if appConfig.Language == "" {
		appConfig.Language = defaults["language"].(string)
	}
	if appConfig.Log.Level == "" {
		appConfig.Log.Level = defaults["log.level"].(string)
	}

	// Mirror the effective configuration into the global viper so code
	// outside this package (the TUI in particular) can read settings and
	// persist changes back through config.WriteConfigFile.
	viper.Set("database.type", appConfig.Database.Type)
	viper.Set("database.dsn", appConfig.Database.Dsn)
	viper.Set("language", appConfig.Language)
	viper.Set("log.level", appConfig.Log.Level)
	viper.Set("source.name", appConfig.Source.Name)
	viper.Set("source.seed", appConfig.Source.Seed)
	viper.Set("source.bias", appConfig.Source.Bias)
	viper.Set("trials.count", appConfig.Trials.Count)
	viper.Set("trials.bitlength", appConfig.Trials.BitLength)
	viper.Set("avalanche.trials", appConfig.Avalanche.Trials)
	viper.Set("avalanche.plaintext", appConfig.Avalanche.Plaintext)

	logging.Init(appConfig.Log.Level)
	if verbose {
		logging.SetDebug(true)
		db.SetDebug(true)
	}

	i18n.Init(appConfig.Language)

	// Initialize the database if not already initialized by tests or
	// earlier setup.
	if !db.IsInitialized() {
		if _, err := db.New(appConfig.Database.Type, appConfig.Database.Dsn); err != nil {
			return errors.New(i18n.T("config.error_init_db", err))
		}
	}

	return nil
}

// Execute runs the CLI entrypoint. The root main package should call this
// function and handle process exit.
func Execute() error {
	rootCmd := NewRootCmd()
	return rootCmd.Execute()
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	// Only proceed if the user has explicitly set the --config flag.
	if cmd.Flags().Changed("config") {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			return nil, fmt.Errorf("could not read --config flag: %w", err)
		}
		if path == "" {
			return nil, nil
		}
		// Make sure the user-provided file exists to avoid unwanted behavior.
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
		}
		return &path, nil
	}
	return nil, nil
}

// NewRootCmd creates and configures a new root cobra command. This
// function is used to create the main application command as well as
// fresh instances for isolated testing.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "randlab",
		Short: "Randlab is a randomness extraction and validation lab.",
		Long: `Randlab turns raw bit sources into debiased randomness and measures
both sides. It runs Von Neumann extraction with adaptive yield control,
scores bitstreams with a statistical suite (entropy, chi-square, NIST
frequency/runs/block-frequency/approximate-entropy), generates keys with
SHA-256 privacy amplification and probes them with AES avalanche
analysis. Results persist to a database for later comparison.

Running without a subcommand will launch the interactive TUI.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if showVersionFlag {
				fmt.Printf("%s\n", compositeVersion())
				os.Exit(0)
			}
			return setupDefaultServices(cmd, args)
		},
		Run: func(cmd *cobra.Command, args []string) {
			// Config, i18n and the database are ready after
			// PersistentPreRunE. Only start the TUI on a terminal.
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				_ = cmd.Help()
				return
			}
			tui.Run()
		},
	}

	cmd.Version = compositeVersion()

	// Define flags
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (debug logs, DB statements)")
	cmd.PersistentFlags().BoolVarP(&showVersionFlag, "version", "V", false, "Print version and exit")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("language", "en", `UI language ("en", "de")`)
	applyDefaultFlags(cmd)

	// Add subcommand flags (guarded against redefinition, see applyDefaultFlags)
	applySourceFlags(trialsCmd)
	if trialsCmd.Flags().Lookup("trials") == nil {
		trialsCmd.Flags().IntP("trials", "t", 0, "Number of independent trials (default from config, else 10)")
		trialsCmd.Flags().IntP("bits", "b", 0, "Bits per trial (default from config, else 10000)")
		trialsCmd.Flags().Bool("extracted", false, "Debias every draw with the Von Neumann extractor")
	}

	applySourceFlags(avalancheCmd)
	if avalancheCmd.Flags().Lookup("trials") == nil {
		avalancheCmd.Flags().IntP("trials", "t", 0, "Number of key bit flips (default from config, else 5)")
		avalancheCmd.Flags().String("plaintext", "", "Probe plaintext (default from config)")
		avalancheCmd.Flags().Bool("direct", false, "Hash raw source bits into the key instead of debiased ones")
	}

	applySourceFlags(analyzeCmd)
	if analyzeCmd.Flags().Lookup("bits") == nil {
		analyzeCmd.Flags().IntP("bits", "b", 4096, "Sample length for the raw-versus-extracted comparison")
	}

	applySourceFlags(extractCmd)
	if extractCmd.Flags().Lookup("bits") == nil {
		extractCmd.Flags().IntP("bits", "b", 256, "Number of debiased bits to produce")
		extractCmd.Flags().String("out", "", "Write the extracted bits to a file instead of stdout")
		extractCmd.Flags().Bool("hex", false, "Render packed bytes as hex instead of a bit string")
	}

	applySourceFlags(genCmd)
	if genCmd.Flags().Lookup("min") == nil {
		genCmd.Flags().Float64("min", 0, "Lower bound for float kinds")
		genCmd.Flags().Float64("max", 0, "Upper bound for float kinds (0,0 means [0,1))")
		genCmd.Flags().Bool("raw", false, "Convert raw source bits without debiasing")
	}

	applySourceFlags(keygenCmd)
	if keygenCmd.Flags().Lookup("direct") == nil {
		keygenCmd.Flags().Bool("direct", false, "Hash raw source bits into the key instead of debiased ones")
	}

	applySourceFlags(channelCmd)
	if channelCmd.Flags().Lookup("message") == nil {
		channelCmd.Flags().String("message", "", "Payload for the channel self-test")
		channelCmd.Flags().Float64("noise", 0, "Per-bit flip probability for the corruption probe")
		channelCmd.Flags().Bool("direct", false, "Hash raw source bits into the master secret")
	}

	if restoreCmd.Flags().Lookup("merge") == nil {
		restoreCmd.Flags().Bool("merge", false, "Integrate backup rows instead of wiping existing data first")
	}

	applyDefaultFlags(migrateCmd)

	// Add a lightweight `version` subcommand so users and CI can run
	// `randlab version`.
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			resolvedVersion, resolvedCommit, resolvedDate := resolveBuildVersion(nil)
			fmt.Printf("version: %s\n", resolvedVersion)
			fmt.Printf("commit: %s\n", resolvedCommit)
			if resolvedDate != "" {
				fmt.Printf("built: %s\n", resolvedDate)
			}
		},
	}

	cmd.AddCommand(
		trialsCmd,
		avalancheCmd,
		analyzeCmd,
		extractCmd,
		genCmd,
		keygenCmd,
		channelCmd,
		resultsCmd,
		purgeCmd,
		backupCmd,
		restoreCmd,
		migrateCmd,
		dbMaintainCmd,
		langCmd,
		versionCmd,
	)

	return cmd
}

func applyDefaultFlags(cmd *cobra.Command) {
	// Avoid redefining flags if they already exist (NewRootCmd may be
	// called multiple times in tests which creates a new root but reuses
	// package-level subcommands). pflag panics on duplicate definitions.
	if cmd.Flags().Lookup("database.type") == nil {
		cmd.Flags().String("database.type", "sqlite", "Database type (e.g., sqlite, postgres, mysql)")
	}
	if cmd.Flags().Lookup("database.dsn") == nil {
		cmd.Flags().String("database.dsn", "./randlab.db", "Database connection string (DSN)")
	}
}

// applySourceFlags attaches the shared bit-source selection flags.
func applySourceFlags(cmd *cobra.Command) {
	if cmd.Flags().Lookup("source") == nil {
		cmd.Flags().StringP("source", "s", "", "Bit source: csprng, pcg, aesctr or biased (default from config)")
	}
	if cmd.Flags().Lookup("seed") == nil {
		cmd.Flags().Uint64("seed", 0, "Seed for the deterministic sources")
	}
	if cmd.Flags().Lookup("bias") == nil {
		cmd.Flags().Float64("bias", 0, "P(1) for the biased source")
	}
}

// sourceArgs resolves the source selection for a command: a changed flag
// wins, otherwise the configured default applies.
func sourceArgs(cmd *cobra.Command) (name string, seed uint64, bias float64) {
	name = appConfig.Source.Name
	seed = appConfig.Source.Seed
	bias = appConfig.Source.Bias
	if cmd.Flags().Changed("source") {
		name, _ = cmd.Flags().GetString("source")
	}
	if cmd.Flags().Changed("seed") {
		seed, _ = cmd.Flags().GetUint64("seed")
	}
	if cmd.Flags().Changed("bias") {
		bias, _ = cmd.Flags().GetFloat64("bias")
	}
	return name, seed, bias
}

func compositeVersion() string {
	v, c, d := resolveBuildVersion(nil)
	composite := v
	if c != "" && c != "dev" {
		composite = composite + " (" + c + ")"
	}
	if d != "" {
		composite = composite + " built: " + d
	}
	return composite
}

// promptForConfirmation displays a prompt and reads a line from stdin.
func promptForConfirmation(prompt string) string {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	return strings.TrimSpace(strings.ToLower(answer))
}

// resolveBuildVersion computes the best-available version, commit and
// build date for the running binary. If `info` is nil, it reads build
// info from the runtime. Separated to make unit testing straightforward.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := version
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	var ok bool
	if info == nil {
		if infoLocal, found := debug.ReadBuildInfo(); found {
			info = infoLocal
			ok = true
		}
	} else {
		ok = true
	}

	if ok && info != nil {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		// If Main doesn't carry the version (some build paths), look for
		// our module among the dependencies.
		if (resolvedVersion == "dev" || resolvedVersion == "(devel)") && info.Deps != nil {
			for _, dep := range info.Deps {
				if dep.Path == "github.com/randlab/randlab" && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}

		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	// As a last resort, show an ldflags-provided commit so support can
	// identify the build.
	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}

	return resolvedVersion, resolvedCommit, resolvedDate
}

// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/randlab/randlab/internal/core"
	"github.com/randlab/randlab/internal/db"
	"github.com/randlab/randlab/internal/i18n"
)

// backupCmd represents the 'backup' command.
// It dumps all stored results into a single compressed JSON file.
var backupCmd = &cobra.Command{
	Use:   "backup [output-file]",
	Short: "Create a compressed (zstd) JSON backup of the database",
	Long: `Dumps the entire contents of the Randlab database (trial batches, crypto
results, extraction runs) into a single, Zstandard-compressed JSON file.

If an output file is specified, '.zst' will be appended to the name if it's
not already present. If no output file is specified, a default filename
'randlab-backup-YYYY-MM-DD.json.zst' is used.

This file can be used for disaster recovery or for migrating to a
different database backend.

Examples:
  # Backup to a default file (e.g., randlab-backup-2026-08-23.json.zst)
  randlab backup

  # Backup to a specific file
  randlab backup my-backup.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		var outputFile string
		if len(args) == 0 {
			outputFile = fmt.Sprintf("randlab-backup-%s.json.zst", time.Now().Format("2006-01-02"))
		} else {
			outputFile = args[0]
			if !strings.HasSuffix(outputFile, ".zst") {
				outputFile += ".zst"
			}
		}
		fmt.Println(i18n.T("backup.cli_starting"))
		data, err := core.Backup()
		if err != nil {
			log.Fatalf("%s", i18n.T("backup.cli_error_export", err))
		}
		outf, err := os.Create(outputFile)
		if err != nil {
			log.Fatalf("%s", i18n.T("backup.cli_error_write", err))
		}
		defer func() { _ = outf.Close() }()
		if err := core.WriteBackup(data, outf); err != nil {
			log.Fatalf("%s", i18n.T("backup.cli_error_write", err))
		}
		fmt.Println(i18n.T("backup.cli_success", outputFile))
	},
}

// restoreCmd represents the 'restore' command.
// It restores the database from a compressed JSON backup file.
var restoreCmd = &cobra.Command{
	Use:   "restore <backup-file.zst>",
	Short: "Restore the database from a compressed JSON backup",
	Long: `Restores the Randlab database from a Zstandard-compressed JSON backup file.

By default this command performs a full, destructive restore: all existing
results are wiped before the backup is imported, and row IDs are preserved.
With --merge the backup is integrated instead, only adding rows whose IDs
do not already exist.

Example (Full Restore):
  randlab restore ./randlab-backup-2026-08-23.json.zst

Example (Merge):
  randlab restore --merge ./randlab-backup-2026-08-23.json.zst`,
	Args:    cobra.ExactArgs(1),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		inputFile := args[0]
		merge, _ := cmd.Flags().GetBool("merge")

		if !merge {
			ans := promptForConfirmation(i18n.T("restore.cli_confirm"))
			if ans != "yes" && ans != "y" {
				fmt.Println(i18n.T("restore.cli_cancelled"))
				return
			}
		}

		fmt.Println(i18n.T("restore.cli_starting", inputFile))
		f, err := os.Open(inputFile)
		if err != nil {
			log.Fatalf("%s", i18n.T("restore.cli_error_read", err))
		}
		defer func() { _ = f.Close() }()
		if err := core.Restore(f, core.RestoreOptions{Merge: merge}); err != nil {
			log.Fatalf("%s", i18n.T("restore.cli_error_import", err))
		}
		fmt.Println(i18n.T("restore.cli_success"))
	},
}

// migrateCmd represents the 'migrate' command.
var migrateCmd = &cobra.Command{
	Use:   "migrate --database.type <db-type> --database.dsn <target-dsn>",
	Short: "Migrate data from the current database to a new one",
	Long: `Performs a database migration by exporting all results from the current
database (configured in .randlab.yaml) and importing them into a new
target database.

This command automates the following steps:
1. Exports data from the source database in-memory.
2. Connects to the target database specified by --database.type and --database.dsn.
3. Applies all necessary database schema migrations to the target.
4. Performs a full, destructive restore into the target database.

Example:
  randlab migrate --database.type postgres --database.dsn "host=localhost user=randlab dbname=randlab"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Both flags name the migration target; the current database comes
		// from the loaded config.
		targetType, _ := cmd.Flags().GetString("database.type")
		targetDsn, _ := cmd.Flags().GetString("database.dsn")
		if !cmd.Flags().Changed("database.type") || !cmd.Flags().Changed("database.dsn") {
			log.Fatalf("%s", i18n.T("migrate.cli_error_flags"))
		}
		fmt.Println(i18n.T("migrate.cli_starting_backup"))
		if err := core.Migrate(targetType, targetDsn); err != nil {
			log.Fatalf("%s", i18n.T("migrate.cli_error_backup", err))
		}
		fmt.Println(i18n.T("migrate.cli_success"))
		fmt.Println(i18n.T("migrate.cli_next_steps"))
		return nil
	},
}

// dbMaintainCmd runs database maintenance tasks for the configured database.
var dbMaintainCmd = &cobra.Command{
	Use:     "db-maintain",
	Short:   "Run database maintenance (VACUUM/OPTIMIZE) for the configured DB",
	Long:    `Runs engine-specific maintenance tasks (VACUUM, OPTIMIZE TABLE, PRAGMA optimize).`,
	Args:    cobra.NoArgs,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		timeoutSec, _ := cmd.Flags().GetInt("timeout")
		dsn := appConfig.Database.Dsn
		dbType := appConfig.Database.Type
		if timeoutSec > 0 {
			done := make(chan error, 1)
			go func() {
				done <- db.RunDBMaintenance(dbType, dsn)
			}()
			select {
			case err := <-done:
				if err != nil {
					fmt.Printf("Maintenance failed: %v\n", err)
					os.Exit(1)
				}
				fmt.Println("Maintenance completed successfully")
			case <-time.After(time.Duration(timeoutSec) * time.Second):
				fmt.Println("Maintenance timed out")
				os.Exit(2)
			}
			return
		}
		if err := db.RunDBMaintenance(dbType, dsn); err != nil {
			fmt.Printf("Maintenance failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Maintenance completed successfully")
	},
}

func init() {
	if dbMaintainCmd.Flags().Lookup("timeout") == nil {
		dbMaintainCmd.Flags().Int("timeout", 0, "Timeout in seconds for maintenance (0 means no timeout)")
	}
}

package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/database"
	"github.com/musicjoeyoung/MCP-ElevenLabs/pkg/config"
)

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Manage the database schema for the Podgen API.

The schema is derived from the models and applied with gorm AutoMigrate,
so "up" is always safe to re-run.

Available subcommands:
  up      - Create or update every table
  down    - Drop every table
  status  - Show which tables exist`,
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Create or update every table",
		Long: `Apply the current schema to the configured database.

Missing tables, columns and indexes are created. Existing data is kept.`,
		RunE: runMigrateUp,
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Drop every table",
		Long: `Drop every table managed by the Podgen API.

All episodes and generation requests are deleted. Stored audio files
are left in place.`,
		RunE: runMigrateDown,
	}
	downCmd.Flags().Bool("force", false, "skip the confirmation prompt")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show which tables exist",
		Long:  `Display the current status of every table managed by the Podgen API.`,
		RunE:  runMigrateStatus,
	}

	migrateCmd.AddCommand(upCmd, downCmd, statusCmd)
	return migrateCmd
}

func openDatabase() (*database.DB, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}
	return database.Open(cfg.Database.Path, database.Options{
		Verbose:   cfg.Database.Verbose,
		EnableWAL: cfg.Database.EnableWAL,
	})
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	db, err := database.InitializeWithMigrations(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Migrations applied to %s\n", cfg.Database.Path)
	return printMigrationStatus(cmd, db)
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	// Confirmation prompt for destructive action
	if !force {
		fmt.Fprint(cmd.OutOrStdout(), "WARNING: This will drop every table and delete all episodes. Continue? (y/N): ")
		response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		response = strings.TrimSpace(response)
		if response != "y" && response != "Y" {
			fmt.Fprintln(cmd.OutOrStdout(), "Migration rollback cancelled")
			return nil
		}
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DropAll(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "All tables dropped")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	return printMigrationStatus(cmd, db)
}

func printMigrationStatus(cmd *cobra.Command, db *database.DB) error {
	statuses, err := db.MigrationStatus()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Database Migration Status")
	fmt.Fprintln(out, repeatString("=", 50))

	pending := 0
	for _, s := range statuses {
		state := "applied"
		if !s.Exists {
			state = "pending"
			pending++
		}
		fmt.Fprintf(out, "  %-30s %s\n", s.Table, state)
	}
	fmt.Fprintln(out, repeatString("=", 50))
	fmt.Fprintf(out, "%d table(s), %d pending\n", len(statuses), pending)
	return nil
}

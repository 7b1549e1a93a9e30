package cli

import (
	"github.com/spf13/cobra"

	"github.com/spetersoncode/buzz/internal/config"
	"github.com/spetersoncode/buzz/internal/db"
	berrors "github.com/spetersoncode/buzz/internal/errors"
)

var (
	initForce  bool
	initConfig bool
)

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing database")
	initCmd.Flags().BoolVar(&initConfig, "config", false, "Also write a sample config file if none exists")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize buzz for first-time use",
	Long: `Initialize buzz by creating the ~/.buzz/ directory and database.

This command:
- Creates ~/.buzz/ directory if it doesn't exist
- Creates buzz.db with the database schema
- Runs any pending migrations

Use --force to overwrite an existing database.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

type initResult struct {
	Database string `json:"database"`
	Created  bool   `json:"created"`
	Schema   int64  `json:"schema_version"`
	Config   string `json:"config,omitempty"`
}

func runInit(cmd *cobra.Command, args []string) error {
	dbPath := GetDBPath()
	displayPath := db.ResolvePath(dbPath)

	if db.Exists(dbPath) && !initForce {
		if IsJSON() {
			return outputJSON(initResult{Database: displayPath, Created: false})
		}
		return berrors.General("database already exists at %s", displayPath).
			WithSuggestion("Use --force to overwrite it.")
	}

	if initForce && db.Exists(dbPath) {
		VerboseOutput("Removing existing database...\n")
		if err := db.Delete(dbPath); err != nil {
			return berrors.WrapInternal(err, "failed to remove existing database")
		}
	}

	VerboseOutput("Creating database...\n")
	database, err := db.Open(dbPath)
	if err != nil {
		return berrors.WrapInternal(err, "failed to create database")
	}
	defer database.Close()

	VerboseOutput("Running migrations...\n")
	if err := database.Migrate(); err != nil {
		return berrors.WrapInternal(err, "failed to run migrations")
	}

	version, err := database.MigrationStatus()
	if err != nil {
		return berrors.WrapInternal(err, "failed to get migration status")
	}

	result := initResult{Database: database.Path(), Created: true, Schema: version}
	if initConfig {
		path, err := writeSampleConfig(false)
		if err != nil {
			return err
		}
		result.Config = path
	}

	if IsJSON() {
		return outputJSON(result)
	}

	OutputLine("Initialized buzz database at %s", result.Database)
	OutputLine("Schema version: %d", version)
	if result.Config != "" {
		OutputLine("Wrote sample config to %s", result.Config)
	}
	return nil
}

// writeSampleConfig writes the sample config to the default location. An
// existing file is left alone unless force is set; the returned path is empty
// in that case.
func writeSampleConfig(force bool) (string, error) {
	path := config.DefaultConfigPath()
	if path == "" {
		return "", berrors.Internal("cannot determine home directory")
	}
	if config.Exists(path) && !force {
		return "", nil
	}
	if err := config.WriteConfigFile(path); err != nil {
		return "", berrors.WrapInternal(err, "failed to write config file")
	}
	return path, nil
}

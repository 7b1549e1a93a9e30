package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spetersoncode/buzz/internal/backup"
	"github.com/spetersoncode/buzz/internal/config"
	"github.com/spetersoncode/buzz/internal/db"
	berrors "github.com/spetersoncode/buzz/internal/errors"
	"github.com/spetersoncode/buzz/internal/logging"
	"github.com/spetersoncode/buzz/internal/timeago"
)

// Version information (set at build time via ldflags)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global flags
var (
	dbPath  string
	jsonOut bool
	quiet   bool
	verbose bool
	noColor bool
	nowFlag string
)

var (
	globalConfig *config.Config
	logger       = zap.NewNop()
	stdout       io.Writer = os.Stdout
)

// skipBackupCommands never touch an existing database.
var skipBackupCommands = map[string]bool{
	"help":    true,
	"version": true,
	"init":    true,
	"ago":     true,
	"config":  true,
}

var rootCmd = &cobra.Command{
	Use:   "buzz",
	Short: "Posts, issues and relative timestamps for the Buzz network",
	Long: `Buzz keeps a local cache of posts and issues from the Buzz developer
network and shows how long ago each one happened.

Use "buzz init" to create the local database.
Use "buzz ago <timestamp>" to format any timestamp as "N units ago".`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		stdout = cmd.OutOrStdout()

		var err error
		logger, err = logging.New(verbose)
		if err != nil {
			return err
		}
		if _, err := referenceTime(); err != nil {
			return err
		}
		return runAutoBackup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	var err error
	globalConfig, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config file: %v\n", err)
		globalConfig = config.DefaultConfig()
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to database file (default ~/.buzz/buzz.db)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&nowFlag, "now", "", "Reference time for relative labels (RFC 3339, default current time)")

	rootCmd.SetVersionTemplate(fmt.Sprintf("buzz %s (%s, %s)\n", Version, shortCommit(), shortDate()))
}

func shortCommit() string {
	if len(GitCommit) >= 7 {
		return GitCommit[:7]
	}
	return GitCommit
}

func shortDate() string {
	if len(BuildDate) >= 10 {
		return BuildDate[:10]
	}
	return BuildDate
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runAutoBackup(cmd *cobra.Command) error {
	if skipBackupCommands[cmd.Name()] || (cmd.Parent() != nil && skipBackupCommands[cmd.Parent().Name()]) {
		return nil
	}
	cfg := GetConfig()
	if !cfg.Backup.Enabled {
		return nil
	}

	path := db.ResolvePath(GetDBPath())
	if !db.Exists(path) {
		return nil
	}

	backupPath, err := backup.NewManager(path, cfg.Backup).BackupIfNeeded()
	if err != nil {
		logger.Warn("automatic backup failed", zap.Error(err))
		return nil
	}
	if backupPath != "" {
		logger.Debug("created backup", zap.String("path", backupPath))
	}
	return nil
}

// referenceTime parses --now. The zero time means "use the real clock".
func referenceTime() (time.Time, error) {
	if nowFlag == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, nowFlag)
	if err != nil {
		return time.Time{}, berrors.InvalidArgs("invalid --now value %q", nowFlag).
			WithSuggestion("Use an RFC 3339 time such as 2024-06-15T12:00:00Z.")
	}
	return t, nil
}

// newFormatter returns a formatter built from config, honoring --now.
func newFormatter() *timeago.Formatter {
	f := GetConfig().Formatter()
	if t, err := referenceTime(); err == nil && !t.IsZero() {
		f.Clock = clockwork.NewFakeClockAt(t)
	}
	return f
}

// openDB opens the configured database, failing with a hint when it has not
// been initialized.
func openDB() (*db.DB, error) {
	path := GetDBPath()
	if !db.Exists(path) {
		return nil, berrors.NotFound("no database at %s", db.ResolvePath(path)).
			WithSuggestion(SuggestRunInit)
	}
	database, err := db.Open(path)
	if err != nil {
		return nil, berrors.WrapInternal(err, "failed to open database").WithSuggestion(SuggestRunInit)
	}
	logger.Debug("opened database", zap.String("path", database.Path()))
	return database, nil
}

// GetDBPath returns the database path. Priority: flag > env > config file > default.
func GetDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return GetConfig().DB
}

// GetConfig returns the global configuration.
func GetConfig() *config.Config {
	if globalConfig != nil {
		return globalConfig
	}
	return config.DefaultConfig()
}

// IsJSON returns whether JSON output is requested.
func IsJSON() bool {
	return jsonOut
}

// IsNoColor returns whether colored output should be disabled.
func IsNoColor() bool {
	return noColor || GetConfig().NoColor
}

// Output prints to stdout unless quiet mode is enabled.
func Output(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(stdout, format, args...)
	}
}

// OutputLine prints a line to stdout unless quiet mode is enabled.
func OutputLine(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(stdout, format+"\n", args...)
	}
}

// VerboseOutput prints to stdout only in verbose mode.
func VerboseOutput(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(stdout, format, args...)
	}
}

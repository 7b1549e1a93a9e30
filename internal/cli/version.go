package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/buzz/internal/db"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display the version of buzz, build date, Go version, and database information.`,
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

type versionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Database  string `json:"database,omitempty"`
	Schema    int64  `json:"schema_version,omitempty"`
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := versionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}

	dbPath := GetDBPath()
	if db.Exists(dbPath) {
		info.Database = db.ResolvePath(dbPath)

		database, err := db.Open(dbPath)
		if err == nil {
			defer database.Close()
			if version, err := database.MigrationStatus(); err == nil {
				info.Schema = version
			}
		}
	}

	if IsJSON() {
		return outputJSON(info)
	}

	fmt.Fprintf(stdout, "buzz %s (%s, %s)\n", info.Version, shortCommit(), shortDate())
	fmt.Fprintf(stdout, "Go: %s\n", info.GoVersion)
	fmt.Fprintf(stdout, "Platform: %s\n", info.Platform)

	if info.Database != "" {
		fmt.Fprintf(stdout, "Database: %s (schema v%d)\n", info.Database, info.Schema)
	} else {
		fmt.Fprintln(stdout, "Database: not initialized (run 'buzz init')")
	}

	return nil
}

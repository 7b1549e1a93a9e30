package cli

import (
	"github.com/spf13/cobra"

	"github.com/spetersoncode/buzz/internal/config"
	"github.com/spetersoncode/buzz/internal/db"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after applying the config file, BUZZ_* environment
variables and command-line flags.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample config file to ~/.buzz/config.toml",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

type configView struct {
	ConfigFile  string              `json:"config_file"`
	DB          string              `json:"db"`
	NoColor     bool                `json:"no_color"`
	Username    string              `json:"username"`
	EpochUnit   string              `json:"epoch_unit"`
	ClampFuture bool                `json:"clamp_future"`
	Backup      config.BackupConfig `json:"backup"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	view := configView{
		ConfigFile:  config.DefaultConfigPath(),
		DB:          db.ResolvePath(GetDBPath()),
		NoColor:     IsNoColor(),
		Username:    cfg.Username,
		EpochUnit:   cfg.EpochUnit,
		ClampFuture: cfg.ClampFuture,
		Backup:      cfg.Backup,
	}

	if IsJSON() {
		return outputJSON(view)
	}

	fileNote := "(not found)"
	if config.Exists(view.ConfigFile) {
		fileNote = ""
	}
	OutputLine("config file:    %s %s", view.ConfigFile, fileNote)
	OutputLine("db:             %s", view.DB)
	OutputLine("username:       %s", view.Username)
	OutputLine("epoch_unit:     %s", view.EpochUnit)
	OutputLine("clamp_future:   %t", view.ClampFuture)
	OutputLine("no_color:       %t", view.NoColor)
	OutputLine("backup.enabled: %t (every %dh, keep %d)", view.Backup.Enabled, view.Backup.IntervalHours, view.Backup.MaxCount)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := writeSampleConfig(configInitForce)
	if err != nil {
		return err
	}

	if IsJSON() {
		return outputJSON(map[string]interface{}{
			"config_file": config.DefaultConfigPath(),
			"written":     path != "",
		})
	}
	if path == "" {
		OutputLine("Config file already exists at %s (use --force to overwrite)", config.DefaultConfigPath())
		return nil
	}
	OutputLine("Wrote sample config to %s", path)
	return nil
}

// Root command for the gridview CLI.
package main

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/gridview/internal/paths"
	"github.com/mesh-intelligence/gridview/pkg/gridview"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagTable     string
	flagJSON      bool
	flagVerbose   bool
)

// Values loaded from config.yaml by PersistentPreRunE so all subcommands can
// use them.
var (
	configDataDir  string
	configTable    string
	configPageSize int
)

// logger is the process-wide logger, built in PersistentPreRunE.
var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:     "gridview",
	Short:   "Gridview is a tabular data explorer for moderation back offices",
	Version: gridview.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		configDataDir = cfg.GetString(cfgKeyDataDir)
		configTable = cfg.GetString(cfgKeyTable)
		configPageSize = cfg.GetInt(cfgKeyPageSize)

		if flagVerbose {
			log, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			logger = log
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.gridview-db)")
	rootCmd.PersistentFlags().StringVar(&flagTable, "table", "", "table to explore (default: partners)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "verbose diagnostic logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(facetsCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(rejectCmd)
}

// resolveDataDir returns the data directory following the precedence
// flag > config.yaml data_dir > GRIDVIEW_DATA_DIR env > default.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, configDataDir)
}

// resolveConfigDir returns the configuration directory following the
// precedence flag > GRIDVIEW_CONFIG_DIR env > platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// resolveTable returns the table name following flag > config.yaml > default.
func resolveTable() string {
	if flagTable != "" {
		return flagTable
	}
	if configTable != "" {
		return configTable
	}
	return defaultTable
}

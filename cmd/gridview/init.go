// Init command: seed a demo database so the CLI is usable out of the box.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/gridview/internal/source"
	"github.com/spf13/cobra"
)

// databaseFileName is the SQLite file created inside the data directory.
const databaseFileName = "gridview.db"

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the data directory and seed a demo partners table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, err := resolveDataDir()
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}

		dbPath := filepath.Join(dataDir, databaseFileName)
		n, err := source.SeedDemo(cmd.Context(), dbPath)
		if err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}

		fmt.Printf("Seeded %d partner(s) into %s\n", n, dbPath)
		return nil
	},
}

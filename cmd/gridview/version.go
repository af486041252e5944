// Version command for the gridview CLI.
package main

import (
	"fmt"

	"github.com/mesh-intelligence/gridview/pkg/gridview"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the gridview version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("gridview", gridview.Version)
	},
}

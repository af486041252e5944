// Package main provides the gridview CLI: a tabular data explorer over
// SQLite tables and JSONL exports, with moderation-style bulk actions.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}

// Facets command: per-value occurrence counts for one column.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/gridview/internal/source"
	"github.com/spf13/cobra"
)

var (
	facetFilters []string
	facetQuery   string
	facetJSONL   string
)

var facetsCmd = &cobra.Command{
	Use:   "facets <column>",
	Short: "Show occurrence counts for each value of a column",
	Long: `Facets tallies the distinct values of one column. Filters on *other*
columns and the global query narrow the tally; a filter on the faceted
column itself is ignored, so counts cover values outside the current
selection.

Example:
  gridview facets status
  gridview facets city --filter status=pending`,
	Args: cobra.ExactArgs(1),
	RunE: runFacets,
}

func init() {
	facetsCmd.Flags().StringArrayVar(&facetFilters, "filter", nil, "column filter as column=value (repeatable)")
	facetsCmd.Flags().StringVar(&facetQuery, "query", "", "global substring search across all columns")
	facetsCmd.Flags().StringVar(&facetJSONL, "jsonl", "", "facet a JSONL export instead of the database")
}

func runFacets(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	column := args[0]

	var (
		rows    []source.Row
		columns []string
	)
	if facetJSONL != "" {
		var err error
		rows, err = source.ReadJSONL(facetJSONL)
		if err != nil {
			return fmt.Errorf("read jsonl: %w", err)
		}
		columns = jsonlColumns(rows)
	} else {
		src, err := openTable()
		if err != nil {
			fmt.Fprintln(os.Stderr, "facets:", err)
			os.Exit(exitSysError)
		}
		defer src.Close()

		columns, err = src.Columns(ctx)
		if err != nil {
			return fmt.Errorf("read columns: %w", err)
		}
		// Facets are computed over the whole table, so pull every window.
		rows, err = fetchAll(ctx, src)
		if err != nil {
			return fmt.Errorf("fetch rows: %w", err)
		}
	}

	eng, err := buildEngine(columns)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	state := eng.InitialState()
	if facetQuery != "" {
		state = state.WithQuery(facetQuery)
	}
	filters, err := parseFilterFlags(facetFilters)
	if err != nil {
		return err
	}
	for col, value := range filters {
		state = state.WithFilter(col, value)
	}

	counts, err := eng.FacetedCounts(rows, state, column)
	if err != nil {
		return fmt.Errorf("facets for %s: %w", column, err)
	}

	if flagJSON {
		output, err := json.MarshalIndent(counts, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal counts: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	printFacetTable(column, counts)
	return nil
}

// printFacetTable prints value counts sorted by value.
func printFacetTable(column string, counts map[string]int) {
	if len(counts) == 0 {
		fmt.Println("No values found.")
		return
	}

	values := make([]string, 0, len(counts))
	for value := range counts {
		values = append(values, value)
	}
	sort.Strings(values)

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tCOUNT\n", strings.ToUpper(column))
	for _, value := range values {
		fmt.Fprintf(w, "%s\t%d\n", value, counts[value])
	}
	w.Flush()

	for _, line := range strings.Split(sb.String(), "\n") {
		fmt.Println(strings.TrimRight(line, " "))
	}
}

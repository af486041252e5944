// List command: the paginated, filterable table view.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/gridview/internal/source"
	"github.com/mesh-intelligence/gridview/pkg/engine"
	"github.com/spf13/cobra"
)

var (
	listQuery    string
	listFilters  []string
	listSorts    []string
	listPage     int
	listPageSize int
	listJSONL    string
)

// windowPages controls how many pages of rows the initial fetch window
// covers before the incremental loader takes over.
const windowPages = 5

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List rows of the configured table",
	Long: `List renders one page of the table with filtering, sorting, and global
search applied. Rows are fetched from the database in windows; approaching
the end of the locally loaded window pulls the next one automatically.

Example:
  gridview list
  gridview list --filter status=pending --sort commission:desc
  gridview list --query madrid --page 2 --page-size 10
  gridview list --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listQuery, "query", "", "global substring search across all columns")
	listCmd.Flags().StringArrayVar(&listFilters, "filter", nil, "column filter as column=value (repeatable)")
	listCmd.Flags().StringArrayVar(&listSorts, "sort", nil, "sort key as column[:asc|desc] (repeatable)")
	listCmd.Flags().IntVar(&listPage, "page", 0, "0-based page index")
	listCmd.Flags().IntVar(&listPageSize, "page-size", 0, "rows per page")
	listCmd.Flags().StringVar(&listJSONL, "jsonl", "", "explore a JSONL export instead of the database")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if listJSONL != "" {
		return runListJSONL()
	}

	src, err := openTable()
	if err != nil {
		fmt.Fprintln(os.Stderr, "list:", err)
		os.Exit(exitSysError)
	}
	defer src.Close()

	columns, err := src.Columns(ctx)
	if err != nil {
		return fmt.Errorf("read columns: %w", err)
	}

	eng, err := buildEngine(columns)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	state, err := listState(eng)
	if err != nil {
		return err
	}

	rows, loader, err := openWindow(ctx, src, state.Page.Size)
	if err != nil {
		return fmt.Errorf("fetch rows: %w", err)
	}

	view, err := renderWithLoader(ctx, eng, loader, &rows, state)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if flagJSON {
		return printListJSON(columns, view)
	}
	printListTable(columns, view)
	return nil
}

// runListJSONL renders over a JSONL export. The file is read whole, so no
// incremental loader is involved.
func runListJSONL() error {
	rows, err := source.ReadJSONL(listJSONL)
	if err != nil {
		return fmt.Errorf("read jsonl: %w", err)
	}
	columns := jsonlColumns(rows)

	eng, err := buildEngine(columns)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	state, err := listState(eng)
	if err != nil {
		return err
	}
	view, err := eng.Render(rows, state)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if flagJSON {
		return printListJSON(columns, view)
	}
	printListTable(columns, view)
	return nil
}

// listState builds the engine state from the list flags.
func listState(eng *engine.Engine[source.Row]) (engine.State, error) {
	state := eng.InitialState()
	if listQuery != "" {
		state = state.WithQuery(listQuery)
	}
	filters, err := parseFilterFlags(listFilters)
	if err != nil {
		return engine.State{}, err
	}
	for column, value := range filters {
		state = state.WithFilter(column, value)
	}
	keys, err := parseSortFlags(listSorts)
	if err != nil {
		return engine.State{}, err
	}
	if len(keys) > 0 {
		state = state.WithSort(keys...)
	}
	if listPageSize > 0 {
		state = state.WithPageSize(listPageSize)
	}
	state = state.WithPage(listPage)
	return state, nil
}

// openWindow fetches the initial row window and wires an incremental loader
// that appends subsequent windows to *rows.
func openWindow(ctx context.Context, src *source.SQLite, pageSize int) ([]source.Row, *engine.Loader, error) {
	window := pageSize * windowPages
	rows, hasMore, err := src.Fetch(ctx, 0, window)
	if err != nil {
		return nil, nil, err
	}

	holder := &rows
	var loader *engine.Loader
	loader = engine.NewLoader(func(ctx context.Context) error {
		next, more, err := src.Fetch(ctx, len(*holder), window)
		if err != nil {
			return err
		}
		*holder = append(*holder, next...)
		loader.SetHasMore(more)
		return nil
	}, hasMore, logger)

	return rows, loader, nil
}

// renderWithLoader renders the view, pulling further windows while the
// requested page is near the end of the locally loaded rows. The page index
// is preserved across merges; only the page count grows.
func renderWithLoader(ctx context.Context, eng *engine.Engine[source.Row], loader *engine.Loader, rows *[]source.Row, state engine.State) (engine.View[source.Row], error) {
	for {
		view, err := eng.Render(*rows, state)
		if err != nil {
			return engine.View[source.Row]{}, err
		}
		fetched, err := loader.Observe(ctx, view.PageIndex, view.PageCount)
		if err != nil {
			// Loaded rows are still valid; render what we have.
			fmt.Fprintln(os.Stderr, "warning:", err)
			return view, nil
		}
		if !fetched {
			return view, nil
		}
	}
}

// printListTable prints one page in a human-readable table with a
// pagination footer.
func printListTable(columns []string, view engine.View[source.Row]) {
	if view.FilteredCount == 0 {
		fmt.Println("No rows match.")
		return
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	headers := make([]string, len(columns))
	for i, name := range columns {
		headers[i] = strings.ToUpper(name)
	}
	fmt.Fprintln(w, strings.Join(headers, "\t"))

	for _, row := range view.Rows {
		cells := make([]string, len(columns))
		for i, name := range columns {
			if name == "id" {
				cells[i] = shortID(cellText(row[name]))
				continue
			}
			cells[i] = cellText(row[name])
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()

	for _, line := range strings.Split(sb.String(), "\n") {
		fmt.Println(strings.TrimRight(line, " "))
	}

	fmt.Printf("Page %d of %d · %d of %d row(s)",
		view.PageIndex+1, view.PageCount, view.FilteredCount, view.TotalCount)
	if view.ActiveFilters > 0 {
		fmt.Printf(" · %d filter(s) active", view.ActiveFilters)
	}
	fmt.Println()
}

// printListJSON prints the page rows and pagination metadata as JSON.
func printListJSON(columns []string, view engine.View[source.Row]) error {
	payload := struct {
		Columns   []string     `json:"columns"`
		Rows      []source.Row `json:"rows"`
		Page      int          `json:"page"`
		PageCount int          `json:"page_count"`
		Filtered  int          `json:"filtered_count"`
		Total     int          `json:"total_count"`
	}{
		Columns:   columns,
		Rows:      view.Rows,
		Page:      view.PageIndex,
		PageCount: view.PageCount,
		Filtered:  view.FilteredCount,
		Total:     view.TotalCount,
	}
	output, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal rows: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

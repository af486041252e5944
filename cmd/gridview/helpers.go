// Shared helpers for gridview CLI commands.
package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mesh-intelligence/gridview/internal/source"
	"github.com/mesh-intelligence/gridview/pkg/engine"
)

// fetchAllWindow is the window size used when a command needs every row.
const fetchAllWindow = 500

// autoSelectColumns lists column names that get a discovered-options filter;
// these are the low-cardinality enum-ish fields of a moderation table.
var autoSelectColumns = map[string]bool{
	"status":   true,
	"state":    true,
	"city":     true,
	"category": true,
	"kind":     true,
}

// openTable resolves the data directory and opens the configured table of
// the gridview database. The caller must Close the returned source.
func openTable() (*source.SQLite, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	dbPath := filepath.Join(dataDir, databaseFileName)
	src, err := source.OpenSQLite(dbPath, resolveTable(), logger)
	if err != nil {
		return nil, fmt.Errorf("open table (run 'gridview init' first?): %w", err)
	}
	return src, nil
}

// fetchAll pulls every row of the table in fixed-size windows.
func fetchAll(ctx context.Context, src *source.SQLite) ([]source.Row, error) {
	var rows []source.Row
	for {
		next, more, err := src.Fetch(ctx, len(rows), fetchAllWindow)
		if err != nil {
			return nil, err
		}
		rows = append(rows, next...)
		if !more {
			return rows, nil
		}
	}
}

// jsonlColumns derives a stable column order from JSONL rows: id first, the
// remaining distinct keys sorted by name.
func jsonlColumns(rows []source.Row) []string {
	seen := make(map[string]bool)
	var names []string
	for _, row := range rows {
		for name := range row {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	for i, name := range names {
		if name == "id" && i > 0 {
			copy(names[1:i+1], names[:i])
			names[0] = "id"
			break
		}
	}
	return names
}

// buildEngine constructs a table engine over generic rows for the given
// column names. Every column is sortable; enum-ish columns filter by
// discovered options, the rest by substring.
func buildEngine(columns []string) (*engine.Engine[source.Row], error) {
	descriptors := make([]engine.ColumnDescriptor[source.Row], len(columns))
	for i, name := range columns {
		col := engine.ColumnDescriptor[source.Row]{
			ID:       name,
			Accessor: rowAccessor(name),
			Sortable: true,
		}
		if autoSelectColumns[name] {
			col.Filter = engine.AutoSelectFilter()
		} else {
			col.Filter = engine.TextFilter("filter " + name)
		}
		descriptors[i] = col
	}
	return engine.New(engine.Config[source.Row]{
		Columns:         descriptors,
		DefaultPageSize: resolvePageSize(),
		EnableSelection: true,
		Logger:          logger,
	})
}

// rowAccessor reads one key out of a generic row. A missing key is an
// absent value, not an error.
func rowAccessor(name string) engine.Accessor[source.Row] {
	return func(r source.Row) (any, error) {
		return r[name], nil
	}
}

// resolvePageSize returns the page size following flag > config.yaml > default.
func resolvePageSize() int {
	if listPageSize > 0 {
		return listPageSize
	}
	if configPageSize > 0 {
		return configPageSize
	}
	return defaultPageSize
}

// parseFilterFlags turns repeated --filter column=value flags into filter
// state entries.
func parseFilterFlags(pairs []string) (map[string]string, error) {
	filters := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		column, value, ok := strings.Cut(pair, "=")
		if !ok || column == "" {
			return nil, fmt.Errorf("invalid --filter %q, expected column=value", pair)
		}
		filters[column] = value
	}
	return filters, nil
}

// parseSortFlags turns repeated --sort column[:desc] flags into a sort key
// chain.
func parseSortFlags(specs []string) ([]engine.SortKey, error) {
	keys := make([]engine.SortKey, 0, len(specs))
	for _, spec := range specs {
		column, dir, hasDir := strings.Cut(spec, ":")
		if column == "" {
			return nil, fmt.Errorf("invalid --sort %q, expected column[:asc|desc]", spec)
		}
		key := engine.SortKey{Column: column}
		if hasDir {
			switch dir {
			case "asc":
			case "desc":
				key.Desc = true
			default:
				return nil, fmt.Errorf("invalid --sort direction %q", dir)
			}
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// cellText renders one cell for tabular output, truncated for readability.
func cellText(v any) string {
	s := fmt.Sprintf("%v", v)
	if v == nil {
		s = ""
	}
	if len(s) > 40 {
		s = s[:37] + "..."
	}
	return s
}

// shortID truncates a UUID-ish identifier to its first 8 characters.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

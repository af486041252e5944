// SQLite-backed row source.
package source

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// identPattern restricts table names to plain identifiers; table names are
// interpolated into SQL and cannot be bound as parameters.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLite reads windowed row sets out of one table of a SQLite database and
// applies bulk status updates. Rows are returned as generic maps keyed by
// column name; the id column carries row identity.
type SQLite struct {
	db    *sql.DB
	table string
	log   *zap.Logger
}

// OpenSQLite opens the database at path and binds the source to one table.
// The caller must Close the returned source.
func OpenSQLite(path, table string, log *zap.Logger) (*SQLite, error) {
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrBadTableName, table)
	}
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// Fail now if the table is missing rather than on the first Fetch.
	var one int
	if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s LIMIT 1", table)).Scan(&one); err != nil {
		db.Close()
		return nil, fmt.Errorf("checking table %s: %w", table, err)
	}
	s := &SQLite{db: db, table: table, log: log}
	// Fetch ordering and bulk updates both key on the id column.
	cols, err := s.Columns(context.Background())
	if err != nil {
		db.Close()
		return nil, err
	}
	hasID := false
	for _, name := range cols {
		if name == "id" {
			hasID = true
			break
		}
	}
	if !hasID {
		db.Close()
		return nil, fmt.Errorf("%w: %s", ErrNoIDColumn, table)
	}
	return s, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Columns returns the table's column names in schema order.
func (s *SQLite) Columns(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", s.table))
	if err != nil {
		return nil, fmt.Errorf("reading schema of %s: %w", s.table, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var (
			cid     int
			name    string
			colType string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scanning schema row: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Count returns the total number of rows in the table.
func (s *SQLite) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", s.table, err)
	}
	return n, nil
}

// Fetch returns one window of rows ordered by id, plus whether more rows
// exist beyond it. It reads limit+1 rows and trims, so hasMore needs no
// second query.
func (s *SQLite) Fetch(ctx context.Context, offset, limit int) ([]Row, bool, error) {
	if limit <= 0 {
		return nil, false, fmt.Errorf("fetch limit must be positive, got %d", limit)
	}
	query := fmt.Sprintf("SELECT * FROM %s ORDER BY id LIMIT ? OFFSET ?", s.table)
	rows, err := s.db.QueryContext(ctx, query, limit+1, offset)
	if err != nil {
		return nil, false, fmt.Errorf("fetching %s: %w", s.table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, false, fmt.Errorf("reading columns of %s: %w", s.table, err)
	}

	var out []Row
	for rows.Next() {
		cells := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, false, fmt.Errorf("scanning row: %w", err)
		}
		row := make(Row, len(cols))
		for i, name := range cols {
			row[name] = normalizeCell(cells[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterating %s: %w", s.table, err)
	}

	hasMore := len(out) > limit
	if hasMore {
		out = out[:limit]
	}
	return out, hasMore, nil
}

// SetStatus applies one moderation status to every given row id and stamps
// updated_at. This is the bulk-action collaborator behind approve/reject.
// Returns the number of rows updated.
func (s *SQLite) SetStatus(ctx context.Context, ids []string, status string) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrNoIDs
	}
	if !validStatuses[status] {
		return 0, fmt.Errorf("%w: %q", ErrBadStatus, status)
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	query := fmt.Sprintf(
		"UPDATE %s SET status = ?, updated_at = ? WHERE id IN (%s)",
		s.table, placeholders)

	args := make([]any, 0, len(ids)+2)
	args = append(args, status, time.Now().UTC().Format(time.RFC3339))
	for _, id := range ids {
		args = append(args, id)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("updating status on %s: %w", s.table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading affected rows: %w", err)
	}
	s.log.Debug("bulk status applied",
		zap.String("table", s.table),
		zap.String("status", status),
		zap.Int64("rows", n))
	return n, nil
}

// normalizeCell converts driver-level values into the shapes the engine's
// value coercion understands. BLOB/text scans arrive as []byte.
func normalizeCell(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

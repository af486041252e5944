// Demo database seeding.
package source

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DemoTable is the table created by SeedDemo.
const DemoTable = "partners"

const demoSchema = `
CREATE TABLE IF NOT EXISTS partners (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    city       TEXT NOT NULL,
    status     TEXT NOT NULL DEFAULT 'pending',
    commission REAL NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

// demoPartners is the sample data inserted by SeedDemo.
var demoPartners = []struct {
	name       string
	city       string
	status     string
	commission float64
}{
	{"Acme Registry", "Madrid", StatusPending, 5.0},
	{"Bolt Gifts", "Madrid", StatusPending, 12.5},
	{"Crux Decor", "Lisbon", StatusApproved, 8.0},
	{"Dyno Kitchen", "Berlin", StatusPending, 30.0},
	{"Ember Home", "Madrid", StatusRejected, 7.5},
	{"Flux Tableware", "Berlin", StatusPending, 15.0},
	{"Grove Linens", "Lisbon", StatusApproved, 9.0},
	{"Halo Lighting", "Porto", StatusPending, 11.0},
}

// SeedDemo creates the demo partners table at path and fills it with sample
// rows so the CLI is usable out of the box. Seeding an already-seeded
// database adds another batch of rows.
func SeedDemo(ctx context.Context, path string) (int, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, demoSchema); err != nil {
		return 0, fmt.Errorf("creating demo schema: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning seed transaction: %w", err)
	}
	for _, p := range demoPartners {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO partners (id, name, city, status, commission, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			newRowID(), p.name, p.city, p.status, p.commission, now, now)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("inserting %s: %w", p.name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing seed: %w", err)
	}
	return len(demoPartners), nil
}

// newRowID generates a UUID v7 row id, falling back to v4 if v7 generation
// fails.
func newRowID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// CLI integration tests for gridview: init, list, facets, and bulk actions
// exercised through the built binary.
package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain builds the gridview binary once before running tests.
func TestMain(m *testing.M) {
	projectRoot, err := FindProjectRoot()
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}

	tmpDir, err := os.MkdirTemp("", "gridview-test-*")
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}
	binPath := filepath.Join(tmpDir, "gridview")
	SetGridviewBin(binPath)

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/gridview")
	cmd.Dir = projectRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		SetBuildErr(&BuildError{
			Err:    err,
			Output: string(output),
		})
		os.Exit(1)
	}

	code := m.Run()

	os.RemoveAll(tmpDir)

	os.Exit(code)
}

func TestInitSeedsDemoTable(t *testing.T) {
	env := NewTestEnv(t)

	result := env.MustRunGridview("init")
	assert.Contains(t, result.Stdout, "Seeded 8 partner(s)")

	_, err := os.Stat(filepath.Join(env.DataDir, "gridview.db"))
	require.NoError(t, err, "database file should exist")
}

func TestListDefaultPage(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunGridview("init")

	result := env.MustRunGridview("list", "--json")
	payload := ParseJSON[ListPayload](t, result.Stdout)

	assert.Equal(t, 8, payload.Total)
	assert.Equal(t, 8, payload.Filtered)
	assert.Equal(t, 0, payload.Page)
	assert.Equal(t, 1, payload.PageCount)
	assert.Len(t, payload.Rows, 8)
	assert.Contains(t, payload.Columns, "name")
	assert.Contains(t, payload.Columns, "status")
}

func TestListFilterAndSort(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunGridview("init")

	result := env.MustRunGridview("list", "--json",
		"--filter", "status=pending",
		"--sort", "commission:desc")
	payload := ParseJSON[ListPayload](t, result.Stdout)

	require.Equal(t, 5, payload.Filtered)
	require.Len(t, payload.Rows, 5)

	// Highest pending commission first.
	assert.Equal(t, "Dyno Kitchen", payload.Rows[0]["name"])
	assert.Equal(t, "Acme Registry", payload.Rows[4]["name"])
	for _, row := range payload.Rows {
		assert.Equal(t, "pending", row["status"])
	}
}

func TestListGlobalQuery(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunGridview("init")

	result := env.MustRunGridview("list", "--json", "--query", "madrid")
	payload := ParseJSON[ListPayload](t, result.Stdout)

	assert.Equal(t, 3, payload.Filtered)
	assert.Equal(t, 8, payload.Total)
	for _, row := range payload.Rows {
		assert.Equal(t, "Madrid", row["city"])
	}
}

func TestListPaginationAndClamp(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunGridview("init")

	result := env.MustRunGridview("list", "--json", "--page-size", "3", "--page", "1")
	payload := ParseJSON[ListPayload](t, result.Stdout)
	assert.Equal(t, 1, payload.Page)
	assert.Equal(t, 3, payload.PageCount)
	assert.Len(t, payload.Rows, 3)

	// Out-of-range page index clamps to the last page instead of failing.
	result = env.MustRunGridview("list", "--json", "--page-size", "3", "--page", "99")
	payload = ParseJSON[ListPayload](t, result.Stdout)
	assert.Equal(t, 2, payload.Page)
	assert.Len(t, payload.Rows, 2)
}

func TestListUnknownFilterColumnFails(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunGridview("init")

	result := env.RunGridview("list", "--filter", "nonsense=1")
	assert.NotEqual(t, 0, result.ExitCode)
	assert.Contains(t, result.Stderr, "unknown column")
}

func TestListTableOutputHasFooter(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunGridview("init")

	result := env.MustRunGridview("list", "--filter", "city=Lisbon")
	assert.Contains(t, result.Stdout, "NAME")
	assert.Contains(t, result.Stdout, "Crux Decor")
	assert.Contains(t, result.Stdout, "2 of 8 row(s)")
	assert.Contains(t, result.Stdout, "1 filter(s) active")
}

func TestFacetsStatusCounts(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunGridview("init")

	result := env.MustRunGridview("facets", "status", "--json")
	counts := ParseJSON[map[string]int](t, result.Stdout)

	assert.Equal(t, 5, counts["pending"])
	assert.Equal(t, 2, counts["approved"])
	assert.Equal(t, 1, counts["rejected"])
}

func TestFacetsIgnoreOwnFilter(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunGridview("init")

	// A filter on the faceted column itself must not narrow the counts;
	// a filter on another column must.
	result := env.MustRunGridview("facets", "status", "--json",
		"--filter", "status=pending",
		"--filter", "city=Lisbon")
	counts := ParseJSON[map[string]int](t, result.Stdout)

	assert.Equal(t, 2, counts["approved"])
	assert.Zero(t, counts["pending"])
	assert.Zero(t, counts["rejected"])
}

func TestApproveRejectLifecycle(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunGridview("init")

	list := env.MustRunGridview("list", "--json", "--filter", "status=pending")
	payload := ParseJSON[ListPayload](t, list.Stdout)
	require.Equal(t, 5, payload.Filtered)

	id1, _ := payload.Rows[0]["id"].(string)
	id2, _ := payload.Rows[1]["id"].(string)
	require.NotEmpty(t, id1)
	require.NotEmpty(t, id2)

	approve := env.MustRunGridview("approve", "--json", id1, id2)
	bulk := ParseJSON[BulkPayload](t, approve.Stdout)
	assert.Equal(t, "approve", bulk.Action)
	assert.Equal(t, int64(2), bulk.Affected)
	assert.NotEmpty(t, bulk.RequestID)

	id3, _ := payload.Rows[2]["id"].(string)
	reject := env.MustRunGridview("reject", id3)
	assert.Contains(t, reject.Stdout, "Marked 1 row(s) rejected")

	// The status facet reflects both actions.
	facets := env.MustRunGridview("facets", "status", "--json")
	counts := ParseJSON[map[string]int](t, facets.Stdout)
	assert.Equal(t, 2, counts["pending"])
	assert.Equal(t, 4, counts["approved"])
	assert.Equal(t, 2, counts["rejected"])
}

func TestApproveUnknownIDAffectsNothing(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunGridview("init")

	result := env.MustRunGridview("approve", "--json", "no-such-id")
	bulk := ParseJSON[BulkPayload](t, result.Stdout)
	assert.Equal(t, int64(0), bulk.Affected)
}

func TestListJSONLExport(t *testing.T) {
	env := NewTestEnv(t)
	path := filepath.Join(env.TempDir, "export.jsonl")
	content := `{"id":"r1","name":"Acme","status":"pending"}
{"id":"r2","name":"Bolt","status":"approved"}
not json
{"id":"r3","name":"Crux","status":"pending"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	result := env.MustRunGridview("list", "--json", "--jsonl", path, "--filter", "status=pending")
	payload := ParseJSON[ListPayload](t, result.Stdout)

	assert.Equal(t, 3, payload.Total, "malformed line is skipped")
	assert.Equal(t, 2, payload.Filtered)
	assert.Equal(t, []string{"id", "name", "status"}, payload.Columns)
}

func TestVersionCommand(t *testing.T) {
	env := NewTestEnv(t)

	result := env.MustRunGridview("version")
	assert.True(t, strings.HasPrefix(result.Stdout, "gridview "))
}

package engine

import (
	"errors"
	"testing"
	"time"
)

func TestStableSort(t *testing.T) {
	type item struct {
		ID string
		V  string
	}
	e, err := New(Config[item]{
		Columns: []ColumnDescriptor[item]{
			{ID: "v", Accessor: func(i item) (any, error) { return i.V, nil }, Sortable: true},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	rows := []item{
		{ID: "1", V: "a"},
		{ID: "2", V: "a"},
		{ID: "3", V: "b"},
	}
	v, err := e.Render(rows, e.InitialState().WithSort(SortKey{Column: "v"}))
	if err != nil {
		t.Fatal(err)
	}
	got := []string{v.Rows[0].ID, v.Rows[1].ID, v.Rows[2].ID}
	want := []string{"1", "2", "3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tie order not preserved: got %v, want %v", got, want)
		}
	}
}

func TestSortNumericAndTime(t *testing.T) {
	e := newTestEngine(t)
	rows := samplePartners()

	t.Run("numeric descending", func(t *testing.T) {
		v, err := e.Render(rows, e.InitialState().WithSort(SortKey{Column: "commission", Desc: true}))
		if err != nil {
			t.Fatal(err)
		}
		if v.Rows[0].Name != "Dyno" || v.Rows[3].Name != "Acme" {
			t.Fatalf("unexpected numeric order: %+v", v.Rows)
		}
	})

	t.Run("time ascending", func(t *testing.T) {
		v, err := e.Render(rows, e.InitialState().WithSort(SortKey{Column: "created"}))
		if err != nil {
			t.Fatal(err)
		}
		var prev time.Time
		for _, r := range v.Rows {
			if r.CreatedAt.Before(prev) {
				t.Fatalf("rows out of time order: %+v", v.Rows)
			}
			prev = r.CreatedAt
		}
	})
}

func TestSortMultiKeyChain(t *testing.T) {
	e := newTestEngine(t)
	rows := samplePartners()
	// City ascending, then commission descending inside each city.
	v, err := e.Render(rows, e.InitialState().WithSort(
		SortKey{Column: "city"},
		SortKey{Column: "commission", Desc: true},
	))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Dyno", "Crux", "Bolt", "Acme"}
	for i, name := range want {
		if v.Rows[i].Name != name {
			t.Fatalf("multi-key order wrong at %d: got %s, want %s", i, v.Rows[i].Name, name)
		}
	}
}

func TestSortStringCollation(t *testing.T) {
	type item struct{ Name string }
	e, err := New(Config[item]{
		Columns: []ColumnDescriptor[item]{
			{ID: "name", Accessor: func(i item) (any, error) { return i.Name, nil }, Sortable: true},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	rows := []item{{Name: "banana"}, {Name: "Apple"}, {Name: "cherry"}}
	v, err := e.Render(rows, e.InitialState().WithSort(SortKey{Column: "name"}))
	if err != nil {
		t.Fatal(err)
	}
	// Case-folding collation orders Apple before banana, unlike byte order.
	want := []string{"Apple", "banana", "cherry"}
	for i, name := range want {
		if v.Rows[i].Name != name {
			t.Fatalf("collation order wrong at %d: got %s, want %s", i, v.Rows[i].Name, name)
		}
	}
}

func TestSortOnNonSortableColumn(t *testing.T) {
	cols := partnerColumns()
	cols[0].Sortable = false
	e, err := New(Config[partner]{Columns: cols})
	if err != nil {
		t.Fatal(err)
	}
	_, err = e.Render(samplePartners(), e.InitialState().WithSort(SortKey{Column: "name"}))
	if !errors.Is(err, ErrNotSortable) {
		t.Fatalf("expected ErrNotSortable, got %v", err)
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	e := newTestEngine(t)
	rows := samplePartners()
	first := rows[0].Name
	if _, err := e.Render(rows, e.InitialState().WithSort(SortKey{Column: "commission", Desc: true})); err != nil {
		t.Fatal(err)
	}
	if rows[0].Name != first {
		t.Fatal("Render reordered the caller's slice")
	}
}

package engine

import (
	"errors"
	"fmt"
	"testing"
)

func TestGlobalSearchORSemantics(t *testing.T) {
	e := newTestEngine(t)
	rows := []partner{
		{ID: "p1", Name: "Acme", City: "Madrid", Status: "active"},
	}

	cases := []struct {
		query string
		want  int
	}{
		{"mad", 1},  // matches via city
		{"acme", 1}, // matches via name, case-insensitively
		{"xyz", 0},  // matches no column
		{"", 1},     // empty query matches everything
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("query %q", tc.query), func(t *testing.T) {
			v, err := e.Render(rows, e.InitialState().WithQuery(tc.query))
			if err != nil {
				t.Fatal(err)
			}
			if v.FilteredCount != tc.want {
				t.Fatalf("query %q: expected %d rows, got %d", tc.query, tc.want, v.FilteredCount)
			}
		})
	}
}

func TestSelectFilterTolerantEquality(t *testing.T) {
	type flagged struct {
		ID     string
		Hidden any
	}
	e, err := New(Config[flagged]{
		Columns: []ColumnDescriptor[flagged]{
			{
				ID:       "hidden",
				Accessor: func(f flagged) (any, error) { return f.Hidden, nil },
				Filter: SelectFilter(
					Option{Label: "Hidden", Value: true},
					Option{Label: "Visible", Value: false},
				),
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	rows := []flagged{
		{ID: "a", Hidden: true},
		{ID: "b", Hidden: false},
	}

	t.Run("string form matches boolean", func(t *testing.T) {
		// Filter state that round-tripped through a query string arrives as
		// the string "true"; it must still match the boolean cell.
		v, err := e.Render(rows, e.InitialState().WithFilter("hidden", "true"))
		if err != nil {
			t.Fatal(err)
		}
		if v.FilteredCount != 1 {
			t.Fatalf("expected 1 row, got %d", v.FilteredCount)
		}
	})

	t.Run("boolean matches boolean", func(t *testing.T) {
		v, err := e.Render(rows, e.InitialState().WithFilter("hidden", false))
		if err != nil {
			t.Fatal(err)
		}
		if v.FilteredCount != 1 {
			t.Fatalf("expected 1 row, got %d", v.FilteredCount)
		}
	})
}

func TestMultiSelectFilter(t *testing.T) {
	cols := partnerColumns()
	cols[1].Filter = MultiSelectFilter(
		Option{Label: "Madrid", Value: "Madrid"},
		Option{Label: "Lisbon", Value: "Lisbon"},
		Option{Label: "Berlin", Value: "Berlin"},
	)
	e, err := New(Config[partner]{Columns: cols})
	if err != nil {
		t.Fatal(err)
	}
	rows := samplePartners()

	t.Run("membership", func(t *testing.T) {
		s := e.InitialState().WithFilter("city", []string{"Madrid", "Lisbon"})
		v, err := e.Render(rows, s)
		if err != nil {
			t.Fatal(err)
		}
		if v.FilteredCount != 3 {
			t.Fatalf("expected 3 rows, got %d", v.FilteredCount)
		}
	})

	t.Run("wrong value shape", func(t *testing.T) {
		_, err := e.Render(rows, e.InitialState().WithFilter("city", 42))
		if !errors.Is(err, ErrFilterValue) {
			t.Fatalf("expected ErrFilterValue, got %v", err)
		}
	})
}

func TestTextFilter(t *testing.T) {
	e := newTestEngine(t)
	rows := samplePartners()
	v, err := e.Render(rows, e.InitialState().WithFilter("name", "oL"))
	if err != nil {
		t.Fatal(err)
	}
	if v.FilteredCount != 1 || v.Rows[0].Name != "Bolt" {
		t.Fatalf("expected only Bolt, got %+v", v.Rows)
	}
}

func TestRangeFilter(t *testing.T) {
	e := newTestEngine(t)
	rows := samplePartners()

	t.Run("inclusive bounds", func(t *testing.T) {
		s := e.InitialState().WithFilter("commission", Range{Lo: 5, Hi: 12})
		v, err := e.Render(rows, s)
		if err != nil {
			t.Fatal(err)
		}
		if v.FilteredCount != 3 {
			t.Fatalf("expected 3 rows in [5,12], got %d", v.FilteredCount)
		}
	})

	t.Run("slice shape accepted", func(t *testing.T) {
		s := e.InitialState().WithFilter("commission", []float64{20, 40})
		v, err := e.Render(rows, s)
		if err != nil {
			t.Fatal(err)
		}
		if v.FilteredCount != 1 || v.Rows[0].Name != "Dyno" {
			t.Fatalf("expected only Dyno, got %+v", v.Rows)
		}
	})
}

func TestAccessorErrorTreatedAsAbsent(t *testing.T) {
	boom := errors.New("boom")
	e, err := New(Config[partner]{
		Columns: []ColumnDescriptor[partner]{
			{
				ID: "name",
				Accessor: func(p partner) (any, error) {
					if p.Name == "Crux" {
						return nil, boom
					}
					return p.Name, nil
				},
				Sortable: true,
				Filter:   TextFilter(""),
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	rows := samplePartners()

	t.Run("global search skips failing rows", func(t *testing.T) {
		v, err := e.Render(rows, e.InitialState().WithQuery("crux"))
		if err != nil {
			t.Fatal(err)
		}
		if v.FilteredCount != 0 {
			t.Fatalf("row with failing accessor must not match, got %d", v.FilteredCount)
		}
	})

	t.Run("column filter excludes failing rows", func(t *testing.T) {
		v, err := e.Render(rows, e.InitialState().WithFilter("name", "c"))
		if err != nil {
			t.Fatal(err)
		}
		for _, r := range v.Rows {
			if r.Name == "Crux" {
				t.Fatal("Crux should be excluded when its accessor fails")
			}
		}
	})

	t.Run("sort places failing rows last", func(t *testing.T) {
		v, err := e.Render(rows, e.InitialState().WithSort(SortKey{Column: "name"}))
		if err != nil {
			t.Fatal(err)
		}
		if v.Rows[len(v.Rows)-1].Name != "Crux" {
			t.Fatalf("expected Crux last, got %+v", v.Rows)
		}
	})
}

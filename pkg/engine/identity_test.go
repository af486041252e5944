package engine

import (
	"errors"
	"testing"
)

func TestIdentityFromStructField(t *testing.T) {
	e := newTestEngine(t)
	id, err := e.Identity(partner{ID: "p9"})
	if err != nil {
		t.Fatal(err)
	}
	if id != "p9" {
		t.Fatalf("expected p9, got %s", id)
	}
}

func TestIdentityFromMapKey(t *testing.T) {
	e, err := New(Config[map[string]any]{
		Columns: []ColumnDescriptor[map[string]any]{
			{ID: "name", Accessor: func(r map[string]any) (any, error) { return r["name"], nil }},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	id, err := e.Identity(map[string]any{"id": "r1", "name": "x"})
	if err != nil {
		t.Fatal(err)
	}
	if id != "r1" {
		t.Fatalf("expected r1, got %s", id)
	}
}

func TestIdentityDottedPath(t *testing.T) {
	type meta struct{ Key string }
	type row struct{ Meta meta }
	e, err := New(Config[row]{
		Columns: []ColumnDescriptor[row]{
			{ID: "key", Accessor: func(r row) (any, error) { return r.Meta.Key, nil }},
		},
		IdentityPath: "meta.key",
	})
	if err != nil {
		t.Fatal(err)
	}
	id, err := e.Identity(row{Meta: meta{Key: "nested-7"}})
	if err != nil {
		t.Fatal(err)
	}
	if id != "nested-7" {
		t.Fatalf("expected nested-7, got %s", id)
	}
}

func TestIdentityUnresolved(t *testing.T) {
	// There is deliberately no positional fallback: a row whose identity
	// cannot be resolved is an error, never "row number N".
	e, err := New(Config[map[string]any]{
		Columns: []ColumnDescriptor[map[string]any]{
			{ID: "name", Accessor: func(r map[string]any) (any, error) { return r["name"], nil }},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("missing key", func(t *testing.T) {
		_, err := e.Identity(map[string]any{"name": "x"})
		if !errors.Is(err, ErrIdentityUnresolved) {
			t.Fatalf("expected ErrIdentityUnresolved, got %v", err)
		}
	})

	t.Run("empty value", func(t *testing.T) {
		_, err := e.Identity(map[string]any{"id": "", "name": "x"})
		if !errors.Is(err, ErrIdentityUnresolved) {
			t.Fatalf("expected ErrIdentityUnresolved, got %v", err)
		}
	})
}

func TestIdentityCustomFunc(t *testing.T) {
	e, err := New(Config[partner]{
		Columns: partnerColumns(),
		Identity: func(p partner) (string, error) {
			return p.Name + "/" + p.City, nil
		},
		EnableSelection: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	id, err := e.Identity(partner{Name: "Acme", City: "Madrid"})
	if err != nil {
		t.Fatal(err)
	}
	if id != "Acme/Madrid" {
		t.Fatalf("expected Acme/Madrid, got %s", id)
	}
}

func TestIdentityPointerRow(t *testing.T) {
	e, err := New(Config[*partner]{
		Columns: []ColumnDescriptor[*partner]{
			{ID: "name", Accessor: func(p *partner) (any, error) { return p.Name, nil }},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	id, err := e.Identity(&partner{ID: "p5"})
	if err != nil {
		t.Fatal(err)
	}
	if id != "p5" {
		t.Fatalf("expected p5, got %s", id)
	}
}

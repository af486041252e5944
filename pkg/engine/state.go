// Immutable engine state and selection sets.
package engine

import "sort"

// Selection is a set of row identities. Selection is identity-based, not
// index-based: membership survives re-sorts and re-filters, and a row hidden
// by a filter stays selected in the underlying set.
//
// Selection values are treated as immutable; the With/Without methods return
// modified copies.
type Selection map[string]struct{}

// NewSelection builds a selection from explicit ids.
func NewSelection(ids ...string) Selection {
	s := make(Selection, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is selected.
func (s Selection) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of selected identities.
func (s Selection) Len() int { return len(s) }

// IDs returns the selected identities in sorted order.
func (s Selection) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// With returns a copy of the selection with id added.
func (s Selection) With(id string) Selection {
	out := make(Selection, len(s)+1)
	for k := range s {
		out[k] = struct{}{}
	}
	out[id] = struct{}{}
	return out
}

// Without returns a copy of the selection with id removed.
func (s Selection) Without(id string) Selection {
	out := make(Selection, len(s))
	for k := range s {
		if k != id {
			out[k] = struct{}{}
		}
	}
	return out
}

// State is the whole explorer state as one immutable value: global query,
// per-column filter values, sort chain, page position, and selection. Every
// transition is a pure (state, event) -> state function on copies, so states
// can be kept, compared, and replayed deterministically.
//
// Filter value shapes by filter kind: a scalar for select and autoselect, a
// slice for multiselect, a string for text, and a Range for range.
type State struct {
	Query     string
	Filters   map[string]any
	Sort      []SortKey
	Page      Pagination
	Selection Selection
}

// WithQuery returns the state with a new global query, back on the first
// page.
func (s State) WithQuery(query string) State {
	out := s.clone()
	out.Query = query
	out.Page.Index = 0
	return out
}

// WithFilter returns the state with an active filter value for a column,
// back on the first page.
func (s State) WithFilter(columnID string, value any) State {
	out := s.clone()
	out.Filters[columnID] = value
	out.Page.Index = 0
	return out
}

// WithoutFilter returns the state with a column's filter cleared.
func (s State) WithoutFilter(columnID string) State {
	out := s.clone()
	delete(out.Filters, columnID)
	return out
}

// WithSort returns the state ordered by the given key chain.
func (s State) WithSort(keys ...SortKey) State {
	out := s.clone()
	out.Sort = make([]SortKey, len(keys))
	copy(out.Sort, keys)
	return out
}

// WithPage returns the state on the given 0-based page index. The index is
// clamped at render time.
func (s State) WithPage(index int) State {
	out := s.clone()
	out.Page.Index = index
	return out
}

// WithPageSize returns the state with a new page size, keeping the page
// index; render-time clamping repositions it if it now points past the end.
func (s State) WithPageSize(size int) State {
	out := s.clone()
	out.Page.Size = size
	return out
}

// WithSelection returns the state with the given selection set.
func (s State) WithSelection(sel Selection) State {
	out := s.clone()
	out.Selection = make(Selection, len(sel))
	for id := range sel {
		out.Selection[id] = struct{}{}
	}
	return out
}

// ActiveFilterCount returns the number of active per-column filters. The
// global query is reported separately via State.Query.
func (s State) ActiveFilterCount() int { return len(s.Filters) }

// clone deep-copies the state so With* transitions never alias maps or
// slices with their source.
func (s State) clone() State {
	out := State{
		Query:     s.Query,
		Page:      s.Page,
		Filters:   make(map[string]any, len(s.Filters)),
		Sort:      make([]SortKey, len(s.Sort)),
		Selection: make(Selection, len(s.Selection)),
	}
	for k, v := range s.Filters {
		out.Filters[k] = v
	}
	copy(out.Sort, s.Sort)
	for id := range s.Selection {
		out.Selection[id] = struct{}{}
	}
	return out
}

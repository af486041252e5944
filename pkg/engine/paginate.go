// Pagination with mandatory index clamping.
package engine

// Pagination is the current page position. Index is 0-based.
type Pagination struct {
	Index int
	Size  int
}

// pageCount returns the number of pages for rowCount rows, at least 1 even
// when the row set is empty.
func pageCount(rowCount, pageSize int) int {
	n := (rowCount + pageSize - 1) / pageSize
	if n < 1 {
		return 1
	}
	return n
}

// clampIndex clamps a page index into [0, pages-1]. A stale index left over
// from before a filter shrank the result set must never make the table
// report "no results".
func clampIndex(index, pages int) int {
	if index < 0 {
		return 0
	}
	if index > pages-1 {
		return pages - 1
	}
	return index
}

// paginate slices rows into the requested page. Returns the page rows, the
// total page count, and the effective (clamped) page index.
func paginate[T any](rows []T, p Pagination) ([]T, int, int, error) {
	if p.Size <= 0 {
		return nil, 0, 0, ErrInvalidPageSize
	}
	pages := pageCount(len(rows), p.Size)
	index := clampIndex(p.Index, pages)

	lo := index * p.Size
	if lo >= len(rows) {
		return []T{}, pages, index, nil
	}
	hi := lo + p.Size
	if hi > len(rows) {
		hi = len(rows)
	}
	return rows[lo:hi], pages, index, nil
}

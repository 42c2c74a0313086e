// Package tableview derives a paged, filtered, sorted view over an
// in-memory snapshot of records. The derivation is a pure function of
// the view state: same snapshot and same state always produce the
// same rows, so re-rendering after every transition is safe and
// needs no memoization.
package tableview

import (
	"slices"
	"strings"
)

// Order is the sort direction.
type Order string

const (
	Ascending  Order = "asc"
	Descending Order = "desc"
)

// DefaultPageSize matches the original table widget.
const DefaultPageSize = 10

// Column describes one table column over rows of type T.
//
// Value produces the stringified cell used for searching, sorting and
// default display. Render, when set, overrides the displayed cell
// only; search and sort always go through Value.
type Column[T any] struct {
	Key      string
	Label    string
	Sortable bool
	Value    func(T) string
	Render   func(T) string
}

// Options configures a view at construction time.
type Options[T any] struct {
	// SearchKey names the column the search term filters against.
	// Empty disables searching.
	SearchKey string

	// PageSize is the number of rows per page; DefaultPageSize when
	// zero or negative.
	PageSize int

	// RowID extracts the identifier used by Lookup. Row actions
	// resolve records through it against the unfiltered snapshot, so
	// re-sorting can never act on the wrong record.
	RowID func(T) string
}

// View holds one snapshot plus the transient UI state. The snapshot
// is borrowed: the view never writes it back anywhere, and it only
// changes when the caller replaces it with SetData after a store
// write.
type View[T any] struct {
	data    []T
	columns []Column[T]
	byKey   map[string]Column[T]

	searchKey  string
	rowID      func(T) string
	pageSize   int
	searchTerm string
	sortKey    string
	sortOrder  Order
	page       int // 1-indexed
}

// New creates a view over data with the given columns.
func New[T any](data []T, columns []Column[T], opts Options[T]) *View[T] {
	size := opts.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	byKey := make(map[string]Column[T], len(columns))
	for _, c := range columns {
		byKey[c.Key] = c
	}
	return &View[T]{
		data:      data,
		columns:   columns,
		byKey:     byKey,
		searchKey: opts.SearchKey,
		rowID:     opts.RowID,
		pageSize:  size,
		sortOrder: Ascending,
		page:      1,
	}
}

// SetData replaces the snapshot after a caller-initiated refresh.
// View state (search, sort, page) is untouched.
func (v *View[T]) SetData(data []T) { v.data = data }

// Data returns the unfiltered snapshot.
func (v *View[T]) Data() []T { return v.data }

// Page returns the current 1-indexed page.
func (v *View[T]) Page() int { return v.page }

// SearchTerm returns the active search term.
func (v *View[T]) SearchTerm() string { return v.searchTerm }

// Sort returns the active sort key (empty when unsorted) and order.
func (v *View[T]) Sort() (string, Order) { return v.sortKey, v.sortOrder }

// SetSearch sets the search term and resets to page 1: changing the
// filter invalidates any prior paging position.
func (v *View[T]) SetSearch(term string) {
	v.searchTerm = term
	v.page = 1
}

// SetSort sorts by key, flipping the direction when the key is
// already active. The page is deliberately not reset.
//
// Comparison is lexicographic over the stringified value, so "10"
// orders before "9". Keys without a matching column leave the order
// untouched.
func (v *View[T]) SetSort(key string) {
	if v.sortKey == key {
		if v.sortOrder == Ascending {
			v.sortOrder = Descending
		} else {
			v.sortOrder = Ascending
		}
		return
	}
	v.sortKey = key
	v.sortOrder = Ascending
}

// NextPage advances one page, clamped to the last page.
func (v *View[T]) NextPage() {
	if v.page < v.TotalPages() {
		v.page++
	}
}

// PrevPage goes back one page, clamped to page 1.
func (v *View[T]) PrevPage() {
	if v.page > 1 {
		v.page--
	}
}

// Filtered derives the filtered, sorted row set (all pages).
func (v *View[T]) Filtered() []T {
	out := make([]T, len(v.data))
	copy(out, v.data)

	if v.searchTerm != "" && v.searchKey != "" {
		col, ok := v.byKey[v.searchKey]
		if ok {
			term := strings.ToLower(v.searchTerm)
			kept := out[:0]
			for _, row := range out {
				if strings.Contains(strings.ToLower(col.Value(row)), term) {
					kept = append(kept, row)
				}
			}
			out = kept
		}
	}

	if col, ok := v.byKey[v.sortKey]; v.sortKey != "" && ok {
		desc := v.sortOrder == Descending
		// Stable: ties keep their prior relative order.
		slices.SortStableFunc(out, func(a, b T) int {
			c := strings.Compare(col.Value(a), col.Value(b))
			if desc {
				return -c
			}
			return c
		})
	}

	return out
}

// Rows derives the rows of the current page.
func (v *View[T]) Rows() []T {
	filtered := v.Filtered()
	start := (v.page - 1) * v.pageSize
	if start >= len(filtered) {
		return nil
	}
	end := start + v.pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

// TotalPages is ceil(filtered/pageSize); 0 when the filtered set is
// empty.
func (v *View[T]) TotalPages() int {
	n := len(v.Filtered())
	return (n + v.pageSize - 1) / v.pageSize
}

// Lookup resolves a row id against the unfiltered snapshot. Row
// actions go through here rather than through a positional index into
// the paginated slice.
func (v *View[T]) Lookup(id string) (T, bool) {
	var zero T
	if v.rowID == nil {
		return zero, false
	}
	for _, row := range v.data {
		if v.rowID(row) == id {
			return row, true
		}
	}
	return zero, false
}

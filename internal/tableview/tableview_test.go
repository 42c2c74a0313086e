package tableview

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rec struct {
	ID   string
	Name string
	Age  int
}

func recColumns() []Column[rec] {
	return []Column[rec]{
		{Key: "name", Label: "Nome", Sortable: true, Value: func(r rec) string { return r.Name }},
		{Key: "age", Label: "Idade", Sortable: true, Value: func(r rec) string { return strconv.Itoa(r.Age) }},
	}
}

func newRecView(data []rec, pageSize int) *View[rec] {
	return New(data, recColumns(), Options[rec]{
		SearchKey: "name",
		PageSize:  pageSize,
		RowID:     func(r rec) string { return r.ID },
	})
}

func names(rows []rec) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Name)
	}
	return out
}

func TestView_PagingWithPageSizeOne(t *testing.T) {
	v := newRecView([]rec{{ID: "1", Name: "Ana"}, {ID: "2", Name: "Zeca"}}, 1)

	assert.Equal(t, 2, v.TotalPages())
	assert.Equal(t, []string{"Ana"}, names(v.Rows()))

	v.NextPage()
	assert.Equal(t, 2, v.Page())
	assert.Equal(t, []string{"Zeca"}, names(v.Rows()))

	// Clamped at the last page.
	v.NextPage()
	assert.Equal(t, 2, v.Page())

	v.PrevPage()
	assert.Equal(t, []string{"Ana"}, names(v.Rows()))
	v.PrevPage()
	assert.Equal(t, 1, v.Page())
}

func TestView_SearchFiltersAndClearingRestores(t *testing.T) {
	data := []rec{{ID: "1", Name: "Ana"}, {ID: "2", Name: "Zeca"}, {ID: "3", Name: "Mariana"}}
	v := newRecView(data, 10)

	v.SetSearch("ana")
	assert.Equal(t, []string{"Ana", "Mariana"}, names(v.Rows()), "match is case-folded substring")

	v.SetSearch("")
	assert.Equal(t, []string{"Ana", "Zeca", "Mariana"}, names(v.Rows()), "empty term restores the full set in snapshot order")
}

func TestView_SearchResetsPage(t *testing.T) {
	v := newRecView([]rec{{ID: "1", Name: "Ana"}, {ID: "2", Name: "Zeca"}}, 1)
	v.NextPage()
	require.Equal(t, 2, v.Page())

	v.SetSearch("zeca")
	assert.Equal(t, 1, v.Page())
	assert.Equal(t, []string{"Zeca"}, names(v.Rows()))
}

func TestView_NoMatchesMeansZeroPages(t *testing.T) {
	v := newRecView([]rec{{ID: "1", Name: "Ana"}}, 10)
	v.SetSearch("xyz")
	assert.Empty(t, v.Rows())
	assert.Equal(t, 0, v.TotalPages())
}

func TestView_SortToggles(t *testing.T) {
	data := []rec{{ID: "1", Name: "Zeca"}, {ID: "2", Name: "Ana"}, {ID: "3", Name: "Bia"}}
	v := newRecView(data, 10)

	v.SetSort("name")
	key, order := v.Sort()
	assert.Equal(t, "name", key)
	assert.Equal(t, Ascending, order)
	assert.Equal(t, []string{"Ana", "Bia", "Zeca"}, names(v.Rows()))

	v.SetSort("name")
	_, order = v.Sort()
	assert.Equal(t, Descending, order)
	assert.Equal(t, []string{"Zeca", "Bia", "Ana"}, names(v.Rows()))

	// Switching columns resets the direction to ascending.
	v.SetSort("age")
	key, order = v.Sort()
	assert.Equal(t, "age", key)
	assert.Equal(t, Ascending, order)
}

func TestView_SortIsLexicographicOverStrings(t *testing.T) {
	data := []rec{
		{ID: "1", Name: "A", Age: 9},
		{ID: "2", Name: "B", Age: 10},
	}
	v := newRecView(data, 10)
	v.SetSort("age")

	// "10" < "9" byte-wise, so the ten-year-old sorts first.
	assert.Equal(t, []string{"B", "A"}, names(v.Rows()))
}

func TestView_SortIsStable(t *testing.T) {
	data := []rec{
		{ID: "1", Name: "Ana", Age: 30},
		{ID: "2", Name: "Bia", Age: 30},
		{ID: "3", Name: "Clara", Age: 30},
	}
	v := newRecView(data, 10)
	v.SetSort("age")
	assert.Equal(t, []string{"Ana", "Bia", "Clara"}, names(v.Rows()), "ties keep snapshot order")

	v.SetSort("age")
	assert.Equal(t, []string{"Ana", "Bia", "Clara"}, names(v.Rows()), "descending over all-ties keeps snapshot order too")
}

func TestView_SortUnknownKeyIsInert(t *testing.T) {
	data := []rec{{ID: "1", Name: "Zeca"}, {ID: "2", Name: "Ana"}}
	v := newRecView(data, 10)
	v.SetSort("missing")
	assert.Equal(t, []string{"Zeca", "Ana"}, names(v.Rows()))
}

func TestView_SortComposesWithSearch(t *testing.T) {
	data := []rec{
		{ID: "1", Name: "Mariana"},
		{ID: "2", Name: "Ana"},
		{ID: "3", Name: "Zeca"},
	}
	v := newRecView(data, 10)
	v.SetSearch("ana")
	v.SetSort("name")
	assert.Equal(t, []string{"Ana", "Mariana"}, names(v.Rows()))
}

func TestView_LookupIgnoresFilterAndSort(t *testing.T) {
	data := []rec{{ID: "1", Name: "Ana"}, {ID: "2", Name: "Zeca"}}
	v := newRecView(data, 10)
	v.SetSearch("ana") // Zeca is filtered out of the visible rows
	v.SetSort("name")

	got, ok := v.Lookup("2")
	require.True(t, ok, "row actions resolve against the unfiltered snapshot")
	assert.Equal(t, "Zeca", got.Name)

	_, ok = v.Lookup("nope")
	assert.False(t, ok)
}

func TestView_SetDataKeepsState(t *testing.T) {
	v := newRecView([]rec{{ID: "1", Name: "Ana"}}, 10)
	v.SetSearch("an")
	v.SetSort("name")

	v.SetData([]rec{{ID: "1", Name: "Ana"}, {ID: "2", Name: "Anita"}})
	assert.Equal(t, []string{"Ana", "Anita"}, names(v.Rows()))
	assert.Equal(t, "an", v.SearchTerm())
}

func TestView_DerivationDoesNotMutateSnapshot(t *testing.T) {
	data := []rec{{ID: "1", Name: "Zeca"}, {ID: "2", Name: "Ana"}}
	v := newRecView(data, 10)
	v.SetSort("name")
	_ = v.Rows()

	assert.Equal(t, "Zeca", data[0].Name, "sorting works on a copy")
	assert.Equal(t, []string{"Zeca", "Ana"}, names(v.Data()))
}

func TestView_DefaultPageSize(t *testing.T) {
	data := make([]rec, 25)
	for i := range data {
		data[i] = rec{ID: strconv.Itoa(i), Name: "p" + strconv.Itoa(i)}
	}
	v := newRecView(data, 0)
	assert.Len(t, v.Rows(), DefaultPageSize)
	assert.Equal(t, 3, v.TotalPages())
}

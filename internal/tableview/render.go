package tableview

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Header describes one rendered column header, including whether the
// active sort applies to it.
type Header struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Sortable bool   `json:"sortable"`
	Sorted   bool   `json:"sorted"`
	Order    Order  `json:"order,omitempty"`
}

// Snapshot is the fully derived display structure for the current
// state: headers with sort markers, the stringified cells of the
// current page, and the paging summary. It is what a front end would
// paint, and what the golden tests pin down.
type Snapshot struct {
	Headers    []Header   `json:"headers"`
	Cells      [][]string `json:"cells"`
	RowIDs     []string   `json:"rowIds,omitempty"`
	Page       int        `json:"page"`
	TotalPages int        `json:"totalPages"`
	Total      int        `json:"total"`
	SearchTerm string     `json:"searchTerm,omitempty"`
}

// Render derives the display structure for the current page.
func (v *View[T]) Render() Snapshot {
	s := Snapshot{
		Headers:    make([]Header, 0, len(v.columns)),
		Page:       v.page,
		TotalPages: v.TotalPages(),
		Total:      len(v.Filtered()),
		SearchTerm: v.searchTerm,
	}
	for _, c := range v.columns {
		h := Header{Key: c.Key, Label: c.Label, Sortable: c.Sortable}
		if c.Key == v.sortKey {
			h.Sorted = true
			h.Order = v.sortOrder
		}
		s.Headers = append(s.Headers, h)
	}
	for _, row := range v.Rows() {
		cells := make([]string, 0, len(v.columns))
		for _, c := range v.columns {
			if c.Render != nil {
				cells = append(cells, c.Render(row))
			} else {
				cells = append(cells, c.Value(row))
			}
		}
		s.Cells = append(s.Cells, cells)
		if v.rowID != nil {
			s.RowIDs = append(s.RowIDs, v.rowID(row))
		}
	}
	return s
}

// RenderText writes the snapshot as an aligned text table. Sorted
// headers carry a direction marker; an empty page renders a single
// placeholder line so the output never silently vanishes.
func (v *View[T]) RenderText(w io.Writer) error {
	s := v.Render()
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)

	labels := make([]string, 0, len(s.Headers))
	for _, h := range s.Headers {
		label := strings.ToUpper(h.Label)
		if h.Sorted {
			if h.Order == Descending {
				label += " ▼"
			} else {
				label += " ▲"
			}
		}
		labels = append(labels, label)
	}
	fmt.Fprintln(tw, strings.Join(labels, "\t"))

	if len(s.Cells) == 0 {
		fmt.Fprintln(tw, "(no records)")
	}
	for _, row := range s.Cells {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	pages := s.TotalPages
	if pages == 0 {
		pages = 1
	}
	_, err := fmt.Fprintf(w, "page %d/%d (%d records)\n", s.Page, pages, s.Total)
	return err
}

package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/orthoprice/orthoprice/internal/clinic"
	"github.com/orthoprice/orthoprice/internal/pricing"
	"github.com/orthoprice/orthoprice/internal/tableview"
)

func yesNo(b bool) string {
	if b {
		return "sim"
	}
	return "não"
}

func patientColumns() []tableview.Column[clinic.Patient] {
	return []tableview.Column[clinic.Patient]{
		{Key: "id", Label: "ID", Value: func(p clinic.Patient) string { return p.ID }},
		{Key: "name", Label: "Nome", Sortable: true, Value: func(p clinic.Patient) string { return p.Name }},
		{Key: "age", Label: "Idade", Sortable: true, Value: func(p clinic.Patient) string { return strconv.Itoa(p.Age) }},
		{Key: "loyalty", Label: "Fidelidade", Sortable: true, Value: func(p clinic.Patient) string { return strconv.Itoa(p.Loyalty) }},
	}
}

func materialColumns() []tableview.Column[clinic.Material] {
	return []tableview.Column[clinic.Material]{
		{Key: "id", Label: "ID", Value: func(m clinic.Material) string { return m.ID }},
		{Key: "name", Label: "Nome", Sortable: true, Value: func(m clinic.Material) string { return m.Name }},
		{Key: "quantity", Label: "Estoque", Sortable: true, Value: func(m clinic.Material) string { return strconv.Itoa(m.Quantity) }},
		{
			Key: "value", Label: "Valor", Sortable: true,
			Value:  func(m clinic.Material) string { return strconv.FormatFloat(m.Value, 'f', 2, 64) },
			Render: func(m clinic.Material) string { return pricing.BRL(m.Value) },
		},
		{Key: "reusable", Label: "Reutilizável", Value: func(m clinic.Material) string { return yesNo(m.Reusable) }},
	}
}

func procedureColumns() []tableview.Column[clinic.EnrichedProcedure] {
	return []tableview.Column[clinic.EnrichedProcedure]{
		{Key: "id", Label: "ID", Value: func(e clinic.EnrichedProcedure) string { return e.ID }},
		{Key: "name", Label: "Nome", Sortable: true, Value: func(e clinic.EnrichedProcedure) string { return e.Name }},
		{
			Key: "duration", Label: "Duração", Sortable: true,
			Value:  func(e clinic.EnrichedProcedure) string { return strconv.Itoa(e.Duration) },
			Render: func(e clinic.EnrichedProcedure) string { return strconv.Itoa(e.Duration) + " min" },
		},
		{Key: "assistant", Label: "Assistente", Value: func(e clinic.EnrichedProcedure) string { return yesNo(e.Assistant) }},
		{Key: "patient", Label: "Paciente", Sortable: true, Value: func(e clinic.EnrichedProcedure) string { return e.PatientID }},
		{Key: "materials", Label: "Materiais", Value: func(e clinic.EnrichedProcedure) string { return strconv.Itoa(len(e.Resolved)) }},
		{
			Key: "price", Label: "Valor", Sortable: true,
			Value:  func(e clinic.EnrichedProcedure) string { return strconv.FormatFloat(e.Price, 'f', 2, 64) },
			Render: func(e clinic.EnrichedProcedure) string { return pricing.BRL(e.Price) },
		},
	}
}

// listOptions are the shared flags of every list subcommand.
type listOptions struct {
	search string
	page   int
	sort   string
	desc   bool
}

func addListFlags(cmd *cobra.Command, opts *listOptions) {
	cmd.Flags().StringVar(&opts.search, "search", "", "filter rows by name")
	cmd.Flags().IntVar(&opts.page, "page", 1, "page to show (1-indexed)")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "column key to sort by")
	cmd.Flags().BoolVar(&opts.desc, "desc", false, "sort descending")
}

// renderList drives a view through the requested transitions and
// prints it. Paging past the end clamps to the last page.
func renderList[T any](f *OutputFormatter, view *tableview.View[T], opts listOptions) error {
	if opts.sort != "" {
		view.SetSort(opts.sort)
		if opts.desc {
			view.SetSort(opts.sort)
		}
	}
	if opts.search != "" {
		view.SetSearch(opts.search)
	}
	for i := 1; i < opts.page; i++ {
		view.NextPage()
	}

	if f.Format == "json" {
		return f.Success(view.Render())
	}
	return view.RenderText(f.Writer)
}

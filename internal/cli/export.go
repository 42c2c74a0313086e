package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/orthoprice/orthoprice/internal/clinic"
	"github.com/orthoprice/orthoprice/internal/store"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:           "export <patients|materials|procedures>",
		Short:         "Export a collection to an xlsx workbook",
		Args:          cobra.ExactArgs(1),
		ValidArgs:     []string{"patients", "materials", "procedures"},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, args[0], out, cmd)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output file (required)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func runExport(rootOpts *RootOptions, kind, out string, cmd *cobra.Command) error {
	f := rootOpts.formatter(cmd)
	st, done, err := rootOpts.openStore()
	if err != nil {
		return err
	}
	defer done()

	wb := excelize.NewFile()
	defer wb.Close()
	sheet := wb.GetSheetName(0)

	var rows int
	switch kind {
	case "patients":
		rows, err = exportPatients(cmd, st, wb, sheet)
	case "materials":
		rows, err = exportMaterials(cmd, st, wb, sheet)
	case "procedures":
		rows, err = exportProcedures(cmd, st, wb, sheet)
	default:
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown collection %q: want patients, materials or procedures", kind))
	}
	if err != nil {
		return f.fail(err)
	}

	if err := wb.SaveAs(out); err != nil {
		return WrapExitError(ExitCommandError, "write workbook", err)
	}
	f.VerboseLog("wrote %d row(s) to %s", rows, out)
	rootOpts.notifier(cmd).Success("%d registro(s) exportados para %s", rows, out)
	return f.Success(fmt.Sprintf("exported %d row(s) to %s", rows, out))
}

func setRow(wb *excelize.File, sheet string, row int, cells ...any) error {
	for i, v := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := wb.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func exportPatients(cmd *cobra.Command, st store.Store, wb *excelize.File, sheet string) (int, error) {
	patients, err := st.Patients().List(cmd.Context())
	if err != nil {
		return 0, err
	}
	if err := setRow(wb, sheet, 1, "ID", "Nome", "Idade", "Fidelidade"); err != nil {
		return 0, err
	}
	for i, p := range patients {
		if err := setRow(wb, sheet, i+2, p.ID, p.Name, p.Age, p.Loyalty); err != nil {
			return 0, err
		}
	}
	return len(patients), nil
}

func exportMaterials(cmd *cobra.Command, st store.Store, wb *excelize.File, sheet string) (int, error) {
	materials, err := st.Materials().List(cmd.Context())
	if err != nil {
		return 0, err
	}
	if err := setRow(wb, sheet, 1, "ID", "Nome", "Estoque", "Valor", "Reutilizável"); err != nil {
		return 0, err
	}
	for i, m := range materials {
		if err := setRow(wb, sheet, i+2, m.ID, m.Name, m.Quantity, m.Value, yesNo(m.Reusable)); err != nil {
			return 0, err
		}
	}
	return len(materials), nil
}

func exportProcedures(cmd *cobra.Command, st store.Store, wb *excelize.File, sheet string) (int, error) {
	procedures, err := st.Procedures().List(cmd.Context())
	if err != nil {
		return 0, err
	}
	if err := setRow(wb, sheet, 1, "ID", "Nome", "Assistente", "Duração (min)", "Paciente", "Materiais", "Valor"); err != nil {
		return 0, err
	}
	for i, e := range procedures {
		if err := setRow(wb, sheet, i+2,
			e.ID, e.Name, yesNo(e.Assistant), e.Duration, e.PatientID, describeUsages(e.Resolved), e.Price,
		); err != nil {
			return 0, err
		}
	}
	return len(procedures), nil
}

// describeUsages summarizes resolved usages for one workbook cell.
func describeUsages(resolved []clinic.ResolvedUsage) string {
	out := ""
	for i, u := range resolved {
		if i > 0 {
			out += ", "
		}
		name := u.MaterialID
		if u.Material != nil {
			name = u.Material.Name
		}
		out += fmt.Sprintf("%s x%d", name, u.Quantity)
	}
	return out
}

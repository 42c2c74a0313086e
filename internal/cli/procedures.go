package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orthoprice/orthoprice/internal/clinic"
	"github.com/orthoprice/orthoprice/internal/tableview"
)

// NewProceduresCommand creates the procedures command group.
func NewProceduresCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "procedures",
		Short: "Manage the procedure collection",
	}
	cmd.AddCommand(newProceduresListCommand(rootOpts))
	cmd.AddCommand(newProceduresGetCommand(rootOpts))
	cmd.AddCommand(newProceduresCreateCommand(rootOpts))
	cmd.AddCommand(newProceduresUpdateCommand(rootOpts))
	cmd.AddCommand(newProceduresDeleteCommand(rootOpts))
	return cmd
}

func newProcedureView(procedures []clinic.EnrichedProcedure, pageSize int) *tableview.View[clinic.EnrichedProcedure] {
	return tableview.New(procedures, procedureColumns(), tableview.Options[clinic.EnrichedProcedure]{
		SearchKey: "name",
		PageSize:  pageSize,
		RowID:     func(e clinic.EnrichedProcedure) string { return e.ID },
	})
}

func newProceduresListCommand(rootOpts *RootOptions) *cobra.Command {
	var opts listOptions
	var patientID string
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List procedures with their resolved materials",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			st, done, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer done()

			var procedures []clinic.EnrichedProcedure
			if patientID != "" {
				procedures, err = st.Procedures().ListByPatient(cmd.Context(), patientID)
			} else {
				procedures, err = st.Procedures().List(cmd.Context())
			}
			if err != nil {
				return f.fail(err)
			}
			return renderList(f, newProcedureView(procedures, rootOpts.pageSize()), opts)
		},
	}
	addListFlags(cmd, &opts)
	cmd.Flags().StringVar(&patientID, "patient", "", "only procedures of this patient")
	return cmd
}

func newProceduresGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "get <id>",
		Short:         "Show one procedure with its resolved materials",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			st, done, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer done()

			e, err := st.Procedures().Get(cmd.Context(), args[0])
			if err != nil {
				return f.fail(err)
			}
			if e == nil {
				return f.fail(&clinic.NotFoundError{Kind: clinic.KindProcedure, ID: args[0]})
			}
			return f.Success(*e)
		},
	}
}

// parseUsages parses repeated --material specs of the form "id:qty";
// a bare "id" means quantity 1.
func parseUsages(specs []string) ([]clinic.MaterialUsage, error) {
	out := make([]clinic.MaterialUsage, 0, len(specs))
	for _, spec := range specs {
		id, qtyStr, found := strings.Cut(spec, ":")
		if id == "" {
			return nil, fmt.Errorf("invalid material spec %q: want id:qty", spec)
		}
		qty := 1
		if found {
			n, err := strconv.Atoi(qtyStr)
			if err != nil {
				return nil, fmt.Errorf("invalid material spec %q: %w", spec, err)
			}
			qty = n
		}
		out = append(out, clinic.MaterialUsage{MaterialID: id, Quantity: qty})
	}
	return out, nil
}

type procedureFlags struct {
	name      string
	duration  int
	assistant bool
	patientID string
	price     float64
	materials []string
}

func (pf *procedureFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&pf.name, "name", "", "procedure name")
	cmd.Flags().IntVar(&pf.duration, "duration", 0, "duration in minutes")
	cmd.Flags().BoolVar(&pf.assistant, "assistant", false, "an assistant is present")
	cmd.Flags().StringVar(&pf.patientID, "patient", "", "patient id")
	cmd.Flags().Float64Var(&pf.price, "price", 0, "final price in BRL")
	cmd.Flags().StringArrayVar(&pf.materials, "material", nil, "material usage as id:qty (repeatable)")
}

func (pf *procedureFlags) fields(cmd *cobra.Command) (clinic.Fields, error) {
	f := clinic.Fields{}
	if cmd.Flags().Changed("name") {
		f["name"] = pf.name
	}
	if cmd.Flags().Changed("duration") {
		f["duration"] = pf.duration
	}
	if cmd.Flags().Changed("assistant") {
		f["assistant"] = pf.assistant
	}
	if cmd.Flags().Changed("patient") {
		f["patient_id"] = pf.patientID
	}
	if cmd.Flags().Changed("price") {
		f["price"] = pf.price
	}
	if cmd.Flags().Changed("material") {
		usages, err := parseUsages(pf.materials)
		if err != nil {
			return nil, NewExitError(ExitCommandError, err.Error())
		}
		f["materials"] = usages
	}
	return f, nil
}

func newProceduresCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var pf procedureFlags
	cmd := &cobra.Command{
		Use:           "create",
		Short:         "Create a procedure",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			fields, err := pf.fields(cmd)
			if err != nil {
				return err
			}
			st, done, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer done()

			p, err := st.Procedures().Create(cmd.Context(), fields)
			if err != nil {
				return f.fail(err)
			}
			rootOpts.notifier(cmd).Success("procedimento %q criado (id %s)", p.Name, p.ID)
			return f.Success(*p)
		},
	}
	pf.register(cmd)
	return cmd
}

func newProceduresUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var pf procedureFlags
	cmd := &cobra.Command{
		Use:           "update <id>",
		Short:         "Replace a procedure record",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			fields, err := pf.fields(cmd)
			if err != nil {
				return err
			}
			st, done, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer done()

			p, err := st.Procedures().Update(cmd.Context(), args[0], fields)
			if err != nil {
				return f.fail(err)
			}
			rootOpts.notifier(cmd).Success("procedimento %q atualizado", p.Name)
			return f.Success(*p)
		},
	}
	pf.register(cmd)
	return cmd
}

func newProceduresDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a procedure",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			st, done, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer done()

			if err := st.Procedures().Delete(cmd.Context(), args[0]); err != nil {
				return f.fail(err)
			}
			rootOpts.notifier(cmd).Success("procedimento %s removido", args[0])
			return f.Success("deleted " + args[0])
		},
	}
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/orthoprice/orthoprice/internal/clinic"
	"github.com/orthoprice/orthoprice/internal/tableview"
)

// NewPatientsCommand creates the patients command group.
func NewPatientsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patients",
		Short: "Manage the patient collection",
	}
	cmd.AddCommand(newPatientsListCommand(rootOpts))
	cmd.AddCommand(newPatientsGetCommand(rootOpts))
	cmd.AddCommand(newPatientsCreateCommand(rootOpts))
	cmd.AddCommand(newPatientsUpdateCommand(rootOpts))
	cmd.AddCommand(newPatientsDeleteCommand(rootOpts))
	return cmd
}

func newPatientView(patients []clinic.Patient, pageSize int) *tableview.View[clinic.Patient] {
	return tableview.New(patients, patientColumns(), tableview.Options[clinic.Patient]{
		SearchKey: "name",
		PageSize:  pageSize,
		RowID:     func(p clinic.Patient) string { return p.ID },
	})
}

func newPatientsListCommand(rootOpts *RootOptions) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List patients",
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

			patients, err := st.Patients().List(cmd.Context())
			if err != nil {
				return f.fail(err)
			}
			return renderList(f, newPatientView(patients, rootOpts.pageSize()), opts)
		},
	}
	addListFlags(cmd, &opts)
	return cmd
}

func newPatientsGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "get <id>",
		Short:         "Show one patient",
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

			p, err := st.Patients().Get(cmd.Context(), args[0])
			if err != nil {
				return f.fail(err)
			}
			if p == nil {
				return f.fail(&clinic.NotFoundError{Kind: clinic.KindPatient, ID: args[0]})
			}
			return f.Success(*p)
		},
	}
}

// patientFlags collects the writable patient fields. Only flags the
// user actually set make it into the field set, so normalization
// defaults still apply.
type patientFlags struct {
	name    string
	age     int
	loyalty int
}

func (pf *patientFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&pf.name, "name", "", "patient name")
	cmd.Flags().IntVar(&pf.age, "age", 0, "patient age in years")
	cmd.Flags().IntVar(&pf.loyalty, "loyalty", 0, "loyalty points")
}

func (pf *patientFlags) fields(cmd *cobra.Command) clinic.Fields {
	f := clinic.Fields{}
	if cmd.Flags().Changed("name") {
		f["name"] = pf.name
	}
	if cmd.Flags().Changed("age") {
		f["age"] = pf.age
	}
	if cmd.Flags().Changed("loyalty") {
		f["loyalty"] = pf.loyalty
	}
	return f
}

func newPatientsCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var pf patientFlags
	cmd := &cobra.Command{
		Use:           "create",
		Short:         "Create a patient",
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

			p, err := st.Patients().Create(cmd.Context(), pf.fields(cmd))
			if err != nil {
				return f.fail(err)
			}
			rootOpts.notifier(cmd).Success("paciente %q criado (id %s)", p.Name, p.ID)
			return f.Success(*p)
		},
	}
	pf.register(cmd)
	return cmd
}

func newPatientsUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var pf patientFlags
	cmd := &cobra.Command{
		Use:           "update <id>",
		Short:         "Replace a patient record",
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

			p, err := st.Patients().Update(cmd.Context(), args[0], pf.fields(cmd))
			if err != nil {
				return f.fail(err)
			}
			rootOpts.notifier(cmd).Success("paciente %q atualizado", p.Name)
			return f.Success(*p)
		},
	}
	pf.register(cmd)
	return cmd
}

func newPatientsDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a patient",
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

			if err := st.Patients().Delete(cmd.Context(), args[0]); err != nil {
				return f.fail(err)
			}
			rootOpts.notifier(cmd).Success("paciente %s removido", args[0])
			return f.Success("deleted " + args[0])
		},
	}
}

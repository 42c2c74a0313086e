package cli

import (
	"github.com/spf13/cobra"

	"github.com/orthoprice/orthoprice/internal/clinic"
	"github.com/orthoprice/orthoprice/internal/tableview"
)

// NewMaterialsCommand creates the materials command group.
func NewMaterialsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "materials",
		Short: "Manage the material collection",
	}
	cmd.AddCommand(newMaterialsListCommand(rootOpts))
	cmd.AddCommand(newMaterialsGetCommand(rootOpts))
	cmd.AddCommand(newMaterialsCreateCommand(rootOpts))
	cmd.AddCommand(newMaterialsUpdateCommand(rootOpts))
	cmd.AddCommand(newMaterialsDeleteCommand(rootOpts))
	return cmd
}

func newMaterialView(materials []clinic.Material, pageSize int) *tableview.View[clinic.Material] {
	return tableview.New(materials, materialColumns(), tableview.Options[clinic.Material]{
		SearchKey: "name",
		PageSize:  pageSize,
		RowID:     func(m clinic.Material) string { return m.ID },
	})
}

func newMaterialsListCommand(rootOpts *RootOptions) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List materials",
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

			materials, err := st.Materials().List(cmd.Context())
			if err != nil {
				return f.fail(err)
			}
			return renderList(f, newMaterialView(materials, rootOpts.pageSize()), opts)
		},
	}
	addListFlags(cmd, &opts)
	return cmd
}

func newMaterialsGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "get <id>",
		Short:         "Show one material",
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

			m, err := st.Materials().Get(cmd.Context(), args[0])
			if err != nil {
				return f.fail(err)
			}
			if m == nil {
				return f.fail(&clinic.NotFoundError{Kind: clinic.KindMaterial, ID: args[0]})
			}
			return f.Success(*m)
		},
	}
}

type materialFlags struct {
	name     string
	quantity int
	value    float64
	reusable bool
}

func (mf *materialFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&mf.name, "name", "", "material name")
	cmd.Flags().IntVar(&mf.quantity, "quantity", 0, "units on hand")
	cmd.Flags().Float64Var(&mf.value, "value", 0, "unit value in BRL")
	cmd.Flags().BoolVar(&mf.reusable, "reusable", false, "material survives the procedure")
}

func (mf *materialFlags) fields(cmd *cobra.Command) clinic.Fields {
	f := clinic.Fields{}
	if cmd.Flags().Changed("name") {
		f["name"] = mf.name
	}
	if cmd.Flags().Changed("quantity") {
		f["quantity"] = mf.quantity
	}
	if cmd.Flags().Changed("value") {
		f["value"] = mf.value
	}
	if cmd.Flags().Changed("reusable") {
		f["reusable"] = mf.reusable
	}
	return f
}

func newMaterialsCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var mf materialFlags
	cmd := &cobra.Command{
		Use:           "create",
		Short:         "Create a material",
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

			m, err := st.Materials().Create(cmd.Context(), mf.fields(cmd))
			if err != nil {
				return f.fail(err)
			}
			rootOpts.notifier(cmd).Success("material %q criado (id %s)", m.Name, m.ID)
			return f.Success(*m)
		},
	}
	mf.register(cmd)
	return cmd
}

func newMaterialsUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var mf materialFlags
	cmd := &cobra.Command{
		Use:           "update <id>",
		Short:         "Replace a material record",
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

			m, err := st.Materials().Update(cmd.Context(), args[0], mf.fields(cmd))
			if err != nil {
				return f.fail(err)
			}
			rootOpts.notifier(cmd).Success("material %q atualizado", m.Name)
			return f.Success(*m)
		},
	}
	mf.register(cmd)
	return cmd
}

func newMaterialsDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a material",
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

			if err := st.Materials().Delete(cmd.Context(), args[0]); err != nil {
				return f.fail(err)
			}
			rootOpts.notifier(cmd).Success("material %s removido", args[0])
			return f.Success("deleted " + args[0])
		},
	}
}

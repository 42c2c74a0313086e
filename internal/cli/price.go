package cli

import (
	"github.com/spf13/cobra"

	"github.com/orthoprice/orthoprice/internal/clinic"
	"github.com/orthoprice/orthoprice/internal/pricing"
)

// NewPriceCommand creates the price command.
func NewPriceCommand(rootOpts *RootOptions) *cobra.Command {
	rates := pricing.DefaultRates()
	cmd := &cobra.Command{
		Use:   "price <procedure-id>",
		Short: "Quote the price of a procedure",
		Long: `Quote the price of a procedure from its resolved materials, its
duration, and the assigned patient's discount profile.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrice(rootOpts, rates, args[0], cmd)
		},
	}
	cmd.Flags().Float64Var(&rates.Hourly, "hourly-rate", rates.Hourly, "labor rate in BRL per hour")
	cmd.Flags().Float64Var(&rates.AssistantFee, "assistant-fee", rates.AssistantFee, "flat assistant surcharge in BRL")
	return cmd
}

func runPrice(rootOpts *RootOptions, rates pricing.Rates, id string, cmd *cobra.Command) error {
	f := rootOpts.formatter(cmd)
	st, done, err := rootOpts.openStore()
	if err != nil {
		return err
	}
	defer done()

	ctx := cmd.Context()
	e, err := st.Procedures().Get(ctx, id)
	if err != nil {
		return f.fail(err)
	}
	if e == nil {
		return f.fail(&clinic.NotFoundError{Kind: clinic.KindProcedure, ID: id})
	}

	var patient *clinic.Patient
	if e.PatientID != "" {
		patient, err = st.Patients().Get(ctx, e.PatientID)
		if err != nil {
			return f.fail(err)
		}
		if patient == nil {
			f.VerboseLog("patient %s not found, quoting without discount", e.PatientID)
		}
	}

	q := pricing.ForProcedure(*e, patient, rates)
	if f.Format == "json" {
		return f.Success(struct {
			pricing.Quote
			Details string `json:"detalhamento"`
		}{Quote: q, Details: q.Describe()})
	}
	return f.Success(q.Describe())
}

// Package cli implements the orthoprice command tree. Commands talk
// to the clinic collections through the configured store strategy and
// render tabular output through the table view.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orthoprice/orthoprice/internal/config"
	"github.com/orthoprice/orthoprice/internal/notify"
	"github.com/orthoprice/orthoprice/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Strategy flags override the loaded configuration when set.
	Strategy string
	BaseURL  string
	DBPath   string
	PageSize int

	// Store bypasses configuration entirely; tests inject one here.
	Store store.Store
	// Notifier receives mutation outcomes; defaults to a prefixed
	// line writer on stderr.
	Notifier notify.Notifier
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the orthoprice CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "orthoprice",
		Short: "Dental clinic administration",
		Long:  "Manage the clinic's patients, materials and procedures, and quote procedure prices.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.Strategy, "strategy", "", "data strategy (remote|local), overrides config")
	cmd.PersistentFlags().StringVar(&opts.BaseURL, "base-url", "", "remote API base URL, overrides config")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "local database path, overrides config")
	cmd.PersistentFlags().IntVar(&opts.PageSize, "page-size", 0, "table page size, overrides config")

	cmd.AddCommand(NewPatientsCommand(opts))
	cmd.AddCommand(NewMaterialsCommand(opts))
	cmd.AddCommand(NewProceduresCommand(opts))
	cmd.AddCommand(NewPriceCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// loadConfig resolves configuration with flag overrides applied.
func (o *RootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	if o.Strategy != "" {
		cfg.Strategy = o.Strategy
	}
	if o.BaseURL != "" {
		cfg.BaseURL = o.BaseURL
	}
	if o.DBPath != "" {
		cfg.DBPath = o.DBPath
	}
	if o.PageSize > 0 {
		cfg.PageSize = o.PageSize
	}
	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid config", err)
	}
	return cfg, nil
}

// openStore returns the injected store or opens one from config. The
// returned func closes only stores opened here.
func (o *RootOptions) openStore() (store.Store, func(), error) {
	if o.Store != nil {
		return o.Store, func() {}, nil
	}
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg.StoreOptions())
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "open store", err)
	}
	return st, func() { _ = st.Close() }, nil
}

// pageSize resolves the effective table page size.
func (o *RootOptions) pageSize() int {
	if o.PageSize > 0 {
		return o.PageSize
	}
	if cfg, err := o.loadConfig(); err == nil {
		return cfg.PageSize
	}
	return 10
}

// formatter builds the output formatter for a command invocation.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// notifier resolves the mutation notifier for a command invocation.
func (o *RootOptions) notifier(cmd *cobra.Command) notify.Notifier {
	if o.Notifier != nil {
		return o.Notifier
	}
	return notify.NewWriter(cmd.ErrOrStderr())
}

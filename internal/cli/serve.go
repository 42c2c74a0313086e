package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/orthoprice/orthoprice/internal/pricing"
	"github.com/orthoprice/orthoprice/internal/server"
	"github.com/orthoprice/orthoprice/internal/store"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host the collection API over the local database",
		Long: `Host the collection API over the local database. A client
configured with the remote strategy can point its base URL here.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(rootOpts, addr, cmd)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :PORT from config)")
	return cmd
}

func runServe(rootOpts *RootOptions, addr string, cmd *cobra.Command) error {
	cfg, err := rootOpts.loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = ":" + cfg.Port
	}

	// The server is the backend; it always sits on the local database,
	// whatever strategy the CLI commands themselves use.
	st, err := store.OpenLocal(cfg.DBPath, 0)
	if err != nil {
		return WrapExitError(ExitCommandError, "open database", err)
	}
	defer st.Close()

	level := slog.LevelInfo
	if rootOpts.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	srv := server.New(st, pricing.DefaultRates(), log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Start(addr)
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return WrapExitError(ExitCommandError, "serve", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return WrapExitError(ExitCommandError, "shutdown", err)
	}
	return nil
}

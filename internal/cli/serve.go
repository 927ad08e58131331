package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/worm-world/worm-world-sub000/internal/api"
)

// shutdownTimeout bounds how long in-flight requests may run after a signal.
const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve filtered queries over HTTP",
		Long: `Serve the query API until interrupted.

  POST /api/v1/<entity>/query   filter document in, {"rows": [...]} out
  POST /api/v1/<entity>/count   filter document in, {"count": n} out
  GET  /metrics                 Prometheus metrics

Example:
  wormdb serve --db ./worms.db --addr 127.0.0.1:8080`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(rootOpts, cmd)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")

	return cmd
}

func runServe(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	s, err := opts.open(f)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeGeneric, err.Error(), map[string]string{"addr": s.cfg.Addr})
	}

	srv := api.Server(s.cfg.Addr, api.Router(s.store, s.registry, s.logger))
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	s.logger.Info("serving", zap.String("addr", ln.Addr().String()), zap.String("db", s.cfg.DB))
	fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s. Press Ctrl-C to stop.\n", ln.Addr())

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return WrapExitError(ExitFailure, "server error", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return WrapExitError(ExitFailure, "shutdown", err)
	}
	s.logger.Info("server stopped gracefully")
	return nil
}

package cli

import (
	"errors"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/worm-world/worm-world-sub000/internal/config"
	"github.com/worm-world/worm-world-sub000/internal/filter"
	"github.com/worm-world/worm-world-sub000/internal/logging"
	"github.com/worm-world/worm-world-sub000/internal/metrics"
	"github.com/worm-world/worm-world-sub000/internal/store"
)

// session is the config, logger and open store shared by one command run.
type session struct {
	cfg      config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	store    *store.Store
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// open loads the config and opens the store. Failures are reported through
// f and returned as an ExitError.
func (o *RootOptions) open(f *OutputFormatter) (*session, error) {
	cfg, err := config.Load(o.viper, o.ConfigFile)
	if err != nil {
		return nil, f.fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}
	if o.Verbose {
		cfg.LogLevel = "debug"
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, f.fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	f.VerboseLog("Opening %s (driver %s, bind limit %d)", cfg.DB, cfg.Driver, cfg.BindLimit)
	st, err := store.Open(cfg.DB,
		store.WithDriver(cfg.Driver),
		store.WithMaxOpenConns(cfg.MaxOpenConns),
		store.WithBusyTimeout(cfg.BusyTimeout),
		store.WithBindLimit(cfg.BindLimit),
		store.WithLogger(logger),
		store.WithMetrics(metrics.New(reg)),
	)
	if err != nil {
		_ = logger.Sync()
		return nil, f.fail(ExitCommandError, ErrCodeOpen, err.Error(), map[string]string{"db": cfg.DB})
	}

	return &session{cfg: cfg, logger: logger, registry: reg, store: st}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing database", zap.Error(err))
	}
	_ = s.logger.Sync()
}

// entity resolves name, reporting unknown names with the accepted list.
func (s *session) entity(f *OutputFormatter, name string) (store.Entity, error) {
	e, err := s.store.Entity(name)
	if err != nil {
		return store.Entity{}, f.fail(ExitCommandError, ErrCodeUnknownEntity, err.Error(),
			map[string]any{"entities": store.EntityNames()})
	}
	return e, nil
}

// readFilter reads a filter document from path ("-" for stdin). An empty
// path yields the empty document.
func readFilter(f *OutputFormatter, cmd *cobra.Command, path string) (filter.Document, error) {
	if path == "" {
		return filter.Document{}, nil
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return filter.Document{}, f.fail(ExitCommandError, ErrCodeNotFound, "filter file not found: "+path, nil)
		}
		return filter.Document{}, f.fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	doc, err := filter.ParseDocument(data)
	if err != nil {
		return filter.Document{}, filterFailed(f, err)
	}
	return doc, nil
}

func filterFailed(f *OutputFormatter, err error) error {
	var derr *filter.DecodeError
	if errors.As(err, &derr) {
		return f.fail(ExitCommandError, ErrCodeFilter, "invalid filter document", derr.Problems)
	}
	return f.fail(ExitCommandError, ErrCodeFilter, err.Error(), nil)
}

// Command server exposes the grammaticus inflection engine as a JSON API.
//
// Endpoints:
//
//	GET /api/classes
//	GET /api/inflect?stem=<stem>&class=<class>&slot=<code>
//	GET /api/paradigm?stem=<stem>&class=<class>
//	GET /api/analyze?form=<form>&class=<class>[&number=singular|plural]
//	GET /api/stem?form=<form>&class=<class>
//	GET /api/identify?form=<form>
//	GET /healthz
//	GET /metrics
package main

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

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cours-de-latin/grammaticus"
	"github.com/cours-de-latin/grammaticus/internal/config"
	"github.com/cours-de-latin/grammaticus/sqlsource"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	flags := config.Flags("grammaticus")
	if err := flags.Parse(args); err != nil {
		return err
	}
	cfg, err := config.Load("", flags)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("loading inflection data",
		zap.String("exceptions", cfg.Exceptions.Source),
		zap.String("alt_stem_match", cfg.AltStemMatch))
	engine, err := newEngine(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to load data: %w", err)
	}
	logger.Info("data loaded",
		zap.Int("classes", len(engine.Classes())),
		zap.Int("exceptions", engine.Exceptions().Len()))

	return serve(ctx, cfg.Addr, cfg.ShutdownTimeout, newRouter(engine, logger, cfg.CORS.Origins), logger)
}

// newLogger builds a production logger at the configured level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}

// newEngine builds the engine over the configured exception source.
func newEngine(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*grammaticus.Engine, error) {
	match, err := grammaticus.ParseAltStemMatch(cfg.AltStemMatch)
	if err != nil {
		return nil, err
	}
	opts := []grammaticus.Option{
		grammaticus.WithLogger(logger.Named("engine")),
		grammaticus.WithAltStemMatch(match),
	}

	switch cfg.Exceptions.Source {
	case config.SourceCSV:
		opts = append(opts, grammaticus.WithExceptions(grammaticus.CSVFile(cfg.Exceptions.Path)))
	case config.SourceSQLite:
		src, err := sqlsource.Open(cfg.Exceptions.Path, cfg.Exceptions.Table)
		if err != nil {
			return nil, err
		}
		// Records are read by New; the database is not needed afterwards.
		defer func() { _ = src.Close() }()
		opts = append(opts, grammaticus.WithExceptions(src))
	case config.SourceNone:
		opts = append(opts, grammaticus.WithExceptions(nil))
	}
	return grammaticus.New(ctx, opts...)
}

// serve runs the HTTP server until ctx is done, then shuts it down.
func serve(ctx context.Context, addr string, shutdownTimeout time.Duration, h http.Handler, logger *zap.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	eg, egctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Handler: h,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		logger.Info("listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

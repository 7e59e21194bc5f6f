package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-go/reactor/pkg/host"
	"github.com/vango-go/reactor/pkg/inspect"
	"github.com/vango-go/reactor/pkg/reactor"
)

const shutdownTimeout = 5 * time.Second

type serveOptions struct {
	addr string
}

func serveCmd(flags *globalFlags) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve <lesson>",
		Short: "Mount a lesson behind the HTTP inspector",
		Long: `Mount a lesson on a running root and serve the inspector.

The inspector exposes the committed tree, runtime stats, the instance
snapshot and Prometheus metrics, accepts events over POST and streams
every commit to WebSocket clients.`,
		Example: `  reactor serve clock
  reactor serve user --addr :8080`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), flags, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (default from config)")
	return cmd
}

func serve(ctx context.Context, flags *globalFlags, name string, opts *serveOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr, cfg.Log)
	if err != nil {
		return err
	}
	lesson, err := lookupLesson(name)
	if err != nil {
		return err
	}
	addr := opts.addr
	if addr == "" {
		addr = cfg.Inspector.Addr
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := reactor.NewMetrics(reactor.WithRegistry(registry))

	inspector := inspect.New(inspect.WithLogger(logger), inspect.WithGatherer(registry))
	defer inspector.Close()

	rootID := uuid.NewString()
	remotes, err := remoteHosts(ctx, cfg, rootID, logger)
	if err != nil {
		return err
	}
	root := reactor.NewRoot(host.Multi(append([]reactor.Host{inspector}, remotes...)...),
		reactor.WithID(rootID),
		reactor.WithConfig(cfg.ReactorConfig()),
		reactor.WithLogger(logger),
		reactor.WithMetrics(metrics),
	)
	defer root.Close()
	inspector.Attach(root)

	if err := root.Mount(lesson.New()); err != nil {
		return fmt.Errorf("mount %s: %w", name, err)
	}

	prefix := strings.TrimSuffix(cfg.Inspector.PathPrefix, "/")
	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Use(middleware.RequestID)
	if prefix == "" {
		router.Mount("/", inspector.Handler())
	} else {
		router.Mount(prefix, inspector.Handler())
		router.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, prefix+"/tree", http.StatusFound)
		})
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("inspector server: %w", err)
		}
	}()
	go func() {
		if err := root.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("root halted: %w", err)
		}
	}()

	logger.Info("serving lesson",
		"lesson", name,
		"root_id", rootID,
		"url", fmt.Sprintf("http://%s%s/tree", displayAddr(addr), prefix),
	)

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-errCh:
		logger.Error("stopping", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", "error", err)
	}
	return runErr
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

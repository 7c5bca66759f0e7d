package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cuemby/rcanvas/pkg/config"
	"github.com/cuemby/rcanvas/pkg/events"
	"github.com/cuemby/rcanvas/pkg/filestore"
	"github.com/cuemby/rcanvas/pkg/log"
	"github.com/cuemby/rcanvas/pkg/metrics"
	"github.com/cuemby/rcanvas/pkg/orchestrator"
	"github.com/cuemby/rcanvas/pkg/transport"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the canvas server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringP("config", "c", "", "Path to a YAML config file (optional, defaults applied otherwise)")
	serveCmd.Flags().String("bind-addr", "", "Override the client-facing bind address")
	serveCmd.Flags().String("data-dir", "", "Override the document storage directory")
	serveCmd.Flags().String("metrics-addr", "127.0.0.1:9090", "Bind address for /metrics, /health, /ready, /live")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if v, _ := cmd.Flags().GetString("bind-addr"); v != "" {
		cfg.BindAddr = v
	}
	if v, _ := cmd.Flags().GetString("data-dir"); v != "" {
		cfg.DataDir = v
	}
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

	log.Init(log.Config{Level: cfg.Log.ResolvedLevel(), JSONOutput: cfg.Log.JSONOutput})
	metrics.SetVersion(Version)

	fileStore, err := filestore.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open file store: %w", err)
	}
	defer fileStore.Close()
	metrics.RegisterComponent("filestore", true, "open")

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	orch := orchestrator.New(fileStore).
		WithActivityBroker(broker).
		WithDefaultBehavior(cfg.Session.SessionBehavior())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go orch.Run(ctx)
	metrics.RegisterComponent("orchestrator", true, "running")

	collector := metrics.NewCollector(fileStore)
	collector.Start()
	defer collector.Stop()

	canvasSrv := transport.New(orch, fileStore)
	metrics.RegisterComponent("transport", true, "ready")

	httpSrv := &http.Server{Addr: cfg.BindAddr, Handler: canvasSrv.Handler()}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metrics.Handler())
	metricsMux.Handle("/health", metrics.HealthHandler())
	metricsMux.Handle("/ready", metrics.ReadyHandler())
	metricsMux.Handle("/live", metrics.LivenessHandler())
	metricsSrv := &http.Server{Addr: metricsAddr, Handler: metricsMux}

	errCh := make(chan error, 2)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("canvas server: %w", err)
		}
	}()
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	fmt.Printf("rcanvasd listening on %s (metrics on %s)\n", cfg.BindAddr, metricsAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		fmt.Println("shutting down...")
	case err := <-errCh:
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = httpSrv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)

	return nil
}

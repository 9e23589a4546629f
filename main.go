package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"sentiment-dashboard/api"
	"sentiment-dashboard/config"
	"sentiment-dashboard/models"
	"sentiment-dashboard/report"
	"sentiment-dashboard/services"
	"sentiment-dashboard/storage"
	"sentiment-dashboard/utils"
)

const usage = `usage: sentiment-dashboard [command]

commands:
  report   print corpus volumes and classifier metrics (default)
  serve    run the HTTP data API
  export   write metrics CSV, HTML and PDF reports to EXPORT_DIR
  ingest   copy the CSV corpora into PostgreSQL
`

func main() {
	cfg := config.Load()
	logger := utils.NewLogger(utils.ParseLevel(cfg.LogLevel))

	cmd := "report"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	registry, err := loadRegistry(cfg)
	if err != nil {
		logger.Error("Failed to load corpus registry: %v", err)
		os.Exit(1)
	}

	switch cmd {
	case "report":
		err = runReport(cfg, registry, logger)
	case "serve":
		err = runServe(cfg, registry, logger)
	case "export":
		err = runExport(cfg, registry, logger)
	case "ingest":
		err = runIngest(cfg, registry, logger)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		logger.Error("%s failed: %v", cmd, err)
		os.Exit(1)
	}
}

func loadRegistry(cfg *config.Config) (*config.Registry, error) {
	if cfg.RegistryPath == "" {
		return config.DefaultRegistry(cfg.DataPath), nil
	}
	return config.LoadRegistry(cfg.RegistryPath, cfg.DataPath)
}

// newDashboard wires the configured corpus backend. The returned cleanup
// closes the database connection when one was opened.
func newDashboard(cfg *config.Config, registry *config.Registry, logger *utils.Logger) (*services.Dashboard, func(), error) {
	var (
		source  storage.DatasetSource
		cleanup = func() {}
	)

	switch cfg.CorpusBackend {
	case config.BackendCSV:
		source = storage.NewCSVSource(registry, logger)
	case config.BackendPostgres:
		store, err := storage.NewPostgresStore(cfg.DSN(), utils.NewRetryConfig(cfg.MaxRetries, time.Second, logger))
		if err != nil {
			return nil, nil, err
		}
		source = store
		cleanup = func() { _ = store.Close() }
	default:
		return nil, nil, fmt.Errorf("unknown CORPUS_BACKEND %q", cfg.CorpusBackend)
	}

	logger.Info("Corpus backend: %s | topics: %d | datasets: %d",
		cfg.CorpusBackend, len(registry.Topics()), len(registry.Datasets()))

	loader := storage.NewLoader(registry, source, logger)
	return services.NewDashboard(loader, logger, cfg.MaxConcurrency, cfg.LoadRateLimitMs), cleanup, nil
}

func runReport(cfg *config.Config, registry *config.Registry, logger *utils.Logger) error {
	dash, cleanup, err := newDashboard(cfg, registry, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	dash.Warm()

	printer := services.NewPrinter(os.Stdout)
	printer.PrintOverview(dash.Overview())
	printer.PrintEvaluations(dash.EvaluateAll())
	return nil
}

func runServe(cfg *config.Config, registry *config.Registry, logger *utils.Logger) error {
	dash, cleanup, err := newDashboard(cfg, registry, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	go dash.Warm()

	if cfg.RefreshSchedule != "" {
		refresher, err := services.NewRefresher(cfg.RefreshSchedule, dash, logger)
		if err != nil {
			return err
		}
		refresher.Start()
		defer func() { <-refresher.Stop().Done() }()
	}

	router := api.NewRouter(dash, logger)
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-quit:
	}

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

func runExport(cfg *config.Config, registry *config.Registry, logger *utils.Logger) error {
	dash, cleanup, err := newDashboard(cfg, registry, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	dash.Warm()
	data := report.Collect(dash)
	records := data.Evaluations.Records()

	if err := writeCSV(filepath.Join(cfg.ExportDir, "metrics.csv"), func(w *storage.CSVWriter) error {
		return w.WriteMetricRecords(records)
	}); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(cfg.ExportDir, "metrics_long.csv"), func(w *storage.CSVWriter) error {
		return w.WriteMetricScores(services.MetricLong(records))
	}); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(cfg.ExportDir, "volumes.csv"), func(w *storage.CSVWriter) error {
		return w.WriteVolumes(data.Overview.Volumes)
	}); err != nil {
		return err
	}
	for _, ev := range data.Evaluations.Evaluations {
		ev := ev
		name := fmt.Sprintf("confusion_%s_%s.csv", slug(ev.Topic), ev.Source)
		if err := writeCSV(filepath.Join(cfg.ExportDir, name), func(w *storage.CSVWriter) error {
			return w.WriteConfusionCells(services.ConfusionCells(ev.Confusion))
		}); err != nil {
			return err
		}
	}
	logger.Info("Metric tables saved to %s", cfg.ExportDir)

	var html bytes.Buffer
	if err := report.RenderHTML(&html, data); err != nil {
		return err
	}
	htmlPath := filepath.Join(cfg.ExportDir, "report.html")
	if err := os.WriteFile(htmlPath, html.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %q: %w", htmlPath, err)
	}
	logger.Info("HTML report saved to %s", htmlPath)

	exporter := report.NewPDFExporter(cfg.ChromeBin, cfg.MaxRetries, logger)
	pdfPath := filepath.Join(cfg.ExportDir, "report.pdf")
	if err := exporter.Export(context.Background(), html.Bytes(), pdfPath); err != nil {
		logger.Warn("PDF export skipped: %v", err)
		logger.Warn("Set CHROME_BIN to a Chrome/Chromium binary to enable it")
	}
	return nil
}

func writeCSV(path string, write func(w *storage.CSVWriter) error) error {
	w, err := storage.NewCSVWriter(path)
	if err != nil {
		return err
	}
	if err := write(w); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// slug turns a topic name into an ASCII file name fragment.
func slug(t models.Topic) string {
	return strings.Join(strings.Fields(storage.FoldAccents(string(t))), "_")
}

func runIngest(cfg *config.Config, registry *config.Registry, logger *utils.Logger) error {
	store, err := storage.NewPostgresStore(cfg.DSN(), utils.NewRetryConfig(cfg.MaxRetries, time.Second, logger))
	if err != nil {
		logger.Error("Make sure PostgreSQL is running: docker compose up -d")
		return err
	}
	defer store.Close()

	var writer storage.DatasetWriter = store
	source := storage.NewCSVSource(registry, logger)

	var ingested, failed int
	for _, id := range registry.Datasets() {
		ds, err := source.Fetch(id)
		if err != nil {
			logger.Warn("[ingest] %s: %v", id, err)
			failed++
			continue
		}
		if err := writer.Write(ds); err != nil {
			logger.Warn("[ingest] %s: %v", id, err)
			failed++
			continue
		}
		logger.Info("[ingest] %s: %d rows stored", id, ds.Len())
		ingested++
	}

	logger.Info("Ingest done: %d datasets stored, %d failed", ingested, failed)
	if ingested == 0 {
		return fmt.Errorf("no dataset could be ingested")
	}
	return nil
}

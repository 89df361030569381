package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"digitalthread/internal/config"
	"digitalthread/internal/handler"
	"digitalthread/internal/hub"
	"digitalthread/internal/loader"
	"digitalthread/internal/service"
	"digitalthread/internal/watcher"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Command line flags
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	configPath := flag.String("config", "", "Config file path (default: search "+config.EnvConfigPath+", ./"+config.ConfigFileName+", XDG)")
	data := flag.String("data", "", "Comma-separated dataset files or globs (overrides config)")
	watch := flag.Bool("watch", false, "Reload when dataset files change (overrides config)")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting digital thread server...")

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *data != "" {
		cfg.Dataset.Paths = splitPatterns(*data)
	}
	if *watch {
		cfg.Dataset.Watch = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}
	log.Printf("Configuration:\n%s", cfg.Summary())

	// Initialize event bus
	eventBus := service.NewEventBus()

	// Initialize SSE hub
	sseHub := hub.New(cfg.Server.CORSOrigin)

	source := loader.NewFileSource(cfg.Dataset.Paths...)
	threadSvc := service.NewThreadService(source, eventBus,
		service.WithKindOrder(cfg.KindOrder()),
		service.WithTimelineDefaults(cfg.DefaultWindow(), cfg.Views.IncludeChanges),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startup := service.WithReloadTrigger(ctx, service.ReloadTrigger{Cause: service.CauseStartup})
	if err := threadSvc.Reload(startup); err != nil {
		if !cfg.Dataset.Watch {
			log.Fatalf("Failed to load dataset: %v", err)
		}
		// A watched dataset can be fixed in place; serve an empty thread until then
		log.Printf("Initial load failed, waiting for changes: %v", err)
	} else if files, err := source.Paths(); err == nil {
		log.Printf("Dataset files: %s", strings.Join(files, ", "))
	}

	mux := http.NewServeMux()
	handler.NewThreadHandler(threadSvc).WithClients(sseHub).RegisterRoutes(mux)
	mux.Handle("GET /events", sseHub)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Apply middleware
	finalHandler := handler.Chain(mux,
		handler.Recover,
		handler.CORSWithOrigin(cfg.Server.CORSOrigin),
		handler.Logger,
		handler.Gzip,
	)

	// No WriteTimeout: /events responses stay open
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           finalHandler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sseHub.Run(gctx)
		return nil
	})

	// Connect event bus to SSE hub
	eventChan := make(chan service.Event, 100)
	unsubscribe := eventBus.Subscribe(eventChan)
	g.Go(func() error {
		defer unsubscribe()
		for {
			select {
			case event := <-eventChan:
				sseHub.Broadcast(string(event.Type), event.Payload)
			case <-gctx.Done():
				return nil
			}
		}
	})

	if cfg.Dataset.Watch {
		watchCtx := service.WithReloadTrigger(gctx, service.ReloadTrigger{Cause: service.CauseWatch})
		w := watcher.New(cfg.Dataset.Paths, func() {
			if err := threadSvc.Reload(watchCtx); err != nil {
				log.Printf("Reload after change failed, keeping previous snapshot: %v", err)
			}
		}).WithDebounce(cfg.Dataset.Debounce.Duration())
		g.Go(func() error {
			if err := w.Watch(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		log.Printf("Server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("Server error: %v", err)
		os.Exit(1)
	}
	log.Println("Server stopped")
}

// loadConfig reads an explicit config file or searches the default locations.
// Relative dataset paths in a file are resolved against the file's directory.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, path, err = config.LoadFromPath(path)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if path != "" {
		log.Printf("Config loaded from %s", path)
		cfg.ResolveDatasetPaths(path)
	}
	return cfg, nil
}

func splitPatterns(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

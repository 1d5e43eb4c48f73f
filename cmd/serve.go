package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mvolkova/plateful/pkg/config"
	"github.com/mvolkova/plateful/pkg/realtime"
	"github.com/mvolkova/plateful/pkg/storage"
	"github.com/urfave/cli/v3"
)

// ServeCommand creates the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web server with both API endpoints and HTML interface",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "port",
				Usage: "Port to listen on (overrides config)",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to (overrides config)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, c.String("config"), c.String("host"), c.String("port"))
		},
	}
}

// swappableHandler lets the serve loop replace the HTTP handler when the
// configuration is reloaded, without restarting the listener.
type swappableHandler struct {
	mu      sync.RWMutex
	current http.Handler
}

func (h *swappableHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	handler := h.current
	h.mu.RUnlock()
	handler.ServeHTTP(w, r)
}

func (h *swappableHandler) Swap(handler http.Handler) {
	h.mu.Lock()
	h.current = handler
	h.mu.Unlock()
}

// serve starts the web server and blocks until an interrupt signal arrives.
// SIGHUP or a change to the config file reloads the tag catalog and rebuilds
// the handler in place.
func serve(ctx context.Context, configPath, host, port string) error {
	cfg, store, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer closeStore(store)

	if host == "" {
		host = cfg.Server.Host
	}
	if port == "" {
		port = fmt.Sprintf("%d", cfg.Server.Port)
	}

	hub := realtime.NewHub(0)

	handler, err := buildHandler(cfg, store, hub)
	if err != nil {
		return fmt.Errorf("building handler: %w", err)
	}
	swappable := &swappableHandler{current: handler}

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", host, port),
		Handler: swappable,
	}

	// Periodic database maintenance
	maintainCtx, maintainCancel := context.WithCancel(ctx)
	defer maintainCancel()
	go store.Maintain(maintainCtx, time.Hour)

	go func() {
		log.Printf("Starting web server on http://%s:%s", host, port)
		log.Printf("Available endpoints:")
		log.Printf("  Web UI:")
		log.Printf("    GET / - Browse recipes with filters and search")
		log.Printf("    GET /recipes/{id} - Recipe detail page")
		log.Printf("  API:")
		log.Printf("    GET /api/search - Search recipes, returns rendered cards")
		log.Printf("    GET /api/tags - Tag catalog with counts")
		log.Printf("    GET /api/ingredients - Ingredient suggestions")
		log.Printf("    POST /api/recipes - Create a recipe")
		log.Printf("    GET /api/recipes/{id} - Fetch a recipe")
		log.Printf("    DELETE /api/recipes/{id} - Delete a recipe")
		log.Printf("    GET /api/firehose/ws - Realtime recipe events (websocket)")
		log.Printf("    GET /health - Health check")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Signal handling - includes SIGHUP for reload
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	// Set up filesystem watcher for config file
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("Warning: failed to create config file watcher: %v", err)
	} else {
		defer func() {
			if err := watcher.Close(); err != nil {
				log.Printf("Warning: failed to close config file watcher: %v", err)
			}
		}()

		if err := watcher.Add(configPath); err != nil {
			log.Printf("Warning: failed to watch config file %s: %v", configPath, err)
		} else {
			log.Printf("Watching config file for changes: %s", configPath)
		}
	}

	var events chan fsnotify.Event
	var watchErrors chan error
	if watcher != nil {
		events = watcher.Events
		watchErrors = watcher.Errors
	}

	for {
		select {
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				log.Println("Received SIGHUP, reloading configuration...")
				if err := reloadConfiguration(configPath, store, hub, swappable); err != nil {
					log.Printf("Failed to reload configuration: %v", err)
				} else {
					log.Println("Configuration reloaded successfully")
				}
			case syscall.SIGINT, syscall.SIGTERM:
				fmt.Println("\nShutting down web server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			}
		case event, ok := <-events:
			if !ok {
				continue
			}
			// React to write, create, rename, and remove events (editors often use atomic writes)
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				log.Printf("Config file changed: %s (event: %s), reloading configuration...", event.Name, event.Op.String())

				// For rename/remove events, we need to re-add the file to the watcher since it was replaced
				if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
					// Small delay to ensure the new file is fully written
					time.Sleep(200 * time.Millisecond)

					// Check if file was actually replaced (atomic write) or just removed
					if _, err := os.Stat(configPath); os.IsNotExist(err) {
						log.Printf("Config file was removed and not replaced, skipping reload")
						continue
					}

					if err := watcher.Add(configPath); err != nil {
						log.Printf("Warning: failed to re-add config file to watcher after rename/remove: %v", err)
					}
				} else {
					// Add a small delay to ensure file write is complete
					time.Sleep(100 * time.Millisecond)
				}

				if err := reloadConfiguration(configPath, store, hub, swappable); err != nil {
					log.Printf("Failed to reload configuration after file change: %v", err)
				} else {
					log.Println("Configuration reloaded successfully after file change")
				}
			}
		case err, ok := <-watchErrors:
			if !ok {
				continue
			}
			log.Printf("Config file watcher error: %v", err)
		}
	}
}

// reloadConfiguration rebuilds the HTTP handler from a freshly loaded config.
// The store and firehose hub survive the reload; only the catalog, templates
// and search settings are replaced.
func reloadConfiguration(configPath string, store *storage.Store, hub *realtime.Hub, swappable *swappableHandler) error {
	newCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading new config: %w", err)
	}

	handler, err := buildHandler(newCfg, store, hub)
	if err != nil {
		return fmt.Errorf("building handler: %w", err)
	}

	swappable.Swap(handler)
	log.Printf("Tag catalog now has %d quick and %d extra tags",
		len(newCfg.Tags.Quick), len(newCfg.Tags.Extra))
	return nil
}

// Command stride-report runs the gait analysis server: an HTTP API over a
// sqlite database of pose sessions, with Prometheus metrics and admin
// debugging routes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gaitworks/stride.report/internal/api"
	"github.com/gaitworks/stride.report/internal/config"
	"github.com/gaitworks/stride.report/internal/db"
	"github.com/gaitworks/stride.report/internal/events"
	"github.com/gaitworks/stride.report/internal/service"
	"github.com/gaitworks/stride.report/internal/version"
)

var (
	listen      = flag.String("listen", ":8080", "Listen address")
	dbFile      = flag.String("db", "gait_data.db", "Path to the sqlite database")
	tuningFile  = flag.String("tuning", "", "Path to a tuning config JSON (empty for defaults)")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("stride-report %s (%s) built %s\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}
	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	database, err := db.Open(*dbFile)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	// the migrate subcommand runs against the configured database and exits
	if args := flag.Args(); len(args) > 0 && args[0] == "migrate" {
		if err := runMigrate(database, args[1:]); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		return
	}

	if err := database.MigrateUp(); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	tuning := config.EmptyTuningConfig()
	if *tuningFile != "" {
		tuning, err = config.LoadTuningConfig(*tuningFile)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
		log.Printf("loaded tuning config from %s", *tuningFile)
	}

	bus := events.NewBus()
	svc := &service.MetricsService{
		DB:                 database,
		Publisher:          bus,
		Params:             tuning.Params(),
		MinFrameConfidence: tuning.GetMinFrameConfidence(),
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// log every session lifecycle event that passes through the bus
	wg.Add(1)
	go func() {
		defer wg.Done()
		id, c, unsubscribe := bus.Subscribe(64)
		defer unsubscribe()
		log.Printf("event logger subscribed (%s)", id)
		for {
			select {
			case ev, ok := <-c:
				if !ok {
					return
				}
				log.Printf("event %s: session=%s", ev.Type, ev.SessionID)
			case <-ctx.Done():
				return
			}
		}
	}()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := http.NewServeMux()

		// admin debugging routes (tailsql console, database backup)
		database.AttachAdminRoutes(mux)

		mux.Handle("/metrics", promhttp.Handler())

		apiServer := api.NewServer(database, svc, bus)
		mux.Handle("/", api.LoggingMiddleware(apiServer.ServeMux()))

		server := &http.Server{
			Addr:    *listen,
			Handler: mux,
		}

		go func() {
			log.Printf("listening on %s", *listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}()

	wg.Wait()
	log.Println("server stopped")
}

// runMigrate handles `stride-report migrate [up|down|version|force N]`.
func runMigrate(database *db.DB, args []string) error {
	cmd := "up"
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "up":
		return database.MigrateUp()
	case "down":
		return database.MigrateDown()
	case "version":
		v, dirty, err := database.MigrateVersion()
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%v\n", v, dirty)
		return nil
	case "force":
		if len(args) < 2 {
			return fmt.Errorf("force requires a version argument")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		return database.MigrateForce(v)
	default:
		fmt.Fprintf(os.Stderr, "unknown migrate command %q (want up, down, version, or force)\n", cmd)
		return fmt.Errorf("unknown migrate command %q", cmd)
	}
}

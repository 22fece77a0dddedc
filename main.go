package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ridebooking/pkg/api"
	"ridebooking/pkg/config"
	"ridebooking/pkg/rides"

	log "github.com/sirupsen/logrus"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose logging")
	configFile := flag.String("config", "config.toml", "Path to the TOML config file")

	flag.Parse()
	if *verbose {
		// Set the log level to debug
		log.SetLevel(log.DebugLevel)
	}
	// Set the log format to include a leading timestamp in ISO8601 format
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	cfg, err := config.New(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	reconciler, err := rides.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open ride store: %v", err)
	}
	gate, err := api.NewAdminGate(cfg.Store.Admin.PasswordHash)
	if err != nil {
		log.Fatalf("Failed to set up admin access: %v", err)
	}

	server := &http.Server{
		Addr:              cfg.Store.Server.ListenAddress,
		Handler:           api.GetRouter(api.NewHandler(reconciler, gate)),
		ReadHeaderTimeout: 2 * time.Second,
	}
	go startServer(server)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	<-signalChan
	log.Info("Signalled, shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Shutdown: %v", err)
	}
}

func startServer(server *http.Server) {
	log.Infof("listening for HTTP on: %s", server.Addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("ListenAndServe: %v", err)
	}
}

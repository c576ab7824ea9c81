package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwise1/placemark/config"
	deps "github.com/bwise1/placemark/internal/debs"
	api "github.com/bwise1/placemark/internal/http/rest"
	"github.com/bwise1/placemark/internal/session"
)

const (
	allowConnectionsAfterShutdown = 1 * time.Second
	sweepsPerTTL                  = 4
)

func main() {
	cfg := config.New()
	deps := deps.New(cfg)

	a := &api.API{
		Config:   cfg,
		Deps:     deps,
		Sessions: session.NewManager(deps.SessionDependencies()),
	}
	go deps.WebSocket.Run()

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go a.Sessions.RunSweeper(sweepCtx, cfg.SessionIdleTTL, cfg.SessionIdleTTL/sweepsPerTTL)
	go func() {
		log.Printf("Server running on port %v ...", cfg.Port)
		if err := a.Serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-stopChan

	log.Println("Request to shutdown server. Doing nothing for ", allowConnectionsAfterShutdown)
	waitTimer := time.NewTimer(allowConnectionsAfterShutdown)
	<-waitTimer.C

	log.Println("Shutting down server...")
	stopSweep()
	if err := a.Shutdown(); err != nil {
		log.Println("server shutdown:", err)
	}

	deps.Close()
	log.Println("Connections closed.")
}

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

	"snatch/config"
	"snatch/game"
	"snatch/network"
	"snatch/room"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	r := room.New(room.Options{
		TickHz:      cfg.TickHz,
		BroadcastHz: cfg.BroadcastHz,
		Mode:        cfg.Mode,
		Arena:       game.DefaultArena(),
	})
	go r.Run()
	defer r.Stop()

	addr := ":" + cfg.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           network.NewServer(r, cfg).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on http://localhost%s (ws endpoint: /ws, %s mode, %d Hz)", addr, cfg.Mode, cfg.TickHz)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

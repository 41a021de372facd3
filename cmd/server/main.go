package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mentorly/config"
	"mentorly/internal/auth"
	"mentorly/internal/middleware"
	"mentorly/internal/router"
	"mentorly/internal/signaling"
)

func main() {
	cfg := config.Load()

	iceServers, err := cfg.ICE.ICEServers()
	if err != nil {
		log.Fatalf("ice config: %v", err)
	}

	registry := signaling.NewRoomRegistry(iceServers)
	tracker := signaling.NewParticipantTracker()
	history := signaling.NewChatHistory()
	chatLimiter := middleware.NewInMemoryRateLimiter(cfg.Rooms.ChatRateLimit, cfg.Rooms.ChatRateWindow)
	dispatcher := signaling.NewDispatcher(registry, tracker, history, chatLimiter)
	janitor := signaling.NewJanitor(dispatcher, registry, cfg.Rooms.Retention, cfg.Rooms.SweepInterval)

	engine := router.Setup(cfg, router.Deps{
		Verifier:   auth.NewHTTPVerifier(&cfg.Siwe),
		Nonces:     auth.NewNonceStore(cfg.Siwe.NonceTTL),
		Registry:   registry,
		Tracker:    tracker,
		History:    history,
		Dispatcher: dispatcher,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go janitor.Run(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	fmt.Println("server stopped")
}

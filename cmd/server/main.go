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

	"whatsapp-autoreply/internal/api"
	"whatsapp-autoreply/internal/automation"
	"whatsapp-autoreply/internal/config"
	"whatsapp-autoreply/internal/database"
	"whatsapp-autoreply/internal/store"
	"whatsapp-autoreply/internal/webhook"
	"whatsapp-autoreply/internal/whatsapp"
	"whatsapp-autoreply/internal/ws"
	"whatsapp-autoreply/pkg/models"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()
	ctx := context.Background()

	initial := models.DefaultAgentConfig()
	if cfg.AgentFile != "" {
		fileCfg, err := config.LoadAgentFile(cfg.AgentFile)
		if err != nil {
			log.Fatalf("Failed to load agent file: %v", err)
		}
		initial = fileCfg
	}

	agentStore, err := openStore(ctx, cfg, initial)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()
	defer hub.Stop()

	configHandler := api.NewConfigHandler(agentStore, hub)

	if cfg.AgentFile != "" {
		// The file wins over whatever a previous run persisted
		if _, err := agentStore.UpdateConfig(ctx, store.Replace(initial)); err != nil {
			log.Fatalf("Failed to apply agent file: %v", err)
		}
		stop, err := config.WatchAgentFile(cfg.AgentFile, func(next models.AgentConfig) {
			if _, err := configHandler.Apply(context.Background(), next); err != nil {
				log.Printf("Error applying agent file change: %v", err)
				return
			}
			log.Printf("Agent file reloaded: %d rules", len(next.Rules))
		})
		if err != nil {
			log.Printf("Warning: not watching agent file: %v", err)
		} else {
			defer stop()
		}
	}

	whatsappClient := whatsapp.NewClient(cfg)
	recorder := automation.NewRecorder(agentStore, hub)
	automationEngine := automation.NewEngine(agentStore, recorder, whatsappClient, automation.Options{
		LogOutgoing: cfg.LogOutgoing,
		Concurrency: cfg.DeliveryConcurrency,
	})

	r := api.NewRouter(gin.Default(), api.Handlers{
		Webhook:   webhook.NewHandler(cfg, automationEngine),
		Dashboard: api.NewDashboardHandler(cfg, agentStore, whatsappClient, recorder),
		Config:    configHandler,
		Hub:       hub,
	})

	status := cfg.Status()
	if !status.TokenConfigured || !status.PhoneConfigured || !status.VerifyConfigured {
		log.Printf("Warning: missing credentials (token=%v phone=%v verify=%v)",
			status.TokenConfigured, status.PhoneConfigured, status.VerifyConfigured)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config, initial models.AgentConfig) (store.Store, error) {
	if cfg.StoreDriver == "memory" {
		log.Println("Using in-memory store; configuration and activity are lost on restart")
		return store.NewMemory(initial, cfg.LogWindow), nil
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	return database.NewStore(ctx, db, initial, cfg.LogWindow)
}

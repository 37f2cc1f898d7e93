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

	"github.com/datamining-co/minai/internal/adapter/audit"
	"github.com/datamining-co/minai/internal/adapter/llm"
	"github.com/datamining-co/minai/internal/config"
	"github.com/datamining-co/minai/internal/history"
	"github.com/datamining-co/minai/internal/prompt"
	"github.com/datamining-co/minai/internal/repository"
	"github.com/datamining-co/minai/internal/service"
	handler "github.com/datamining-co/minai/internal/transport/http"
	"github.com/datamining-co/minai/policy"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting chat router...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Backend: %s (model %s)", cfg.LLMBaseURL, cfg.LLMModel)
	log.Printf("History bounds: max=%d keep=%d", cfg.MaxTotalMessages, cfg.KeepLast)
	log.Printf("Turn log: %s", cfg.DatabaseURL)

	// Initialize turn log
	turnLog, err := repository.NewTurnLog(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize turn log: %v", err)
	}
	defer turnLog.Close()

	// Initialize backend client
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout)

	// Initialize prompt registry
	prompts := prompt.NewRegistry()
	if cfg.PromptsFile != "" {
		if err := prompts.LoadFile(cfg.PromptsFile); err != nil {
			log.Fatalf("Failed to load prompts file: %v", err)
		}
		log.Printf("Loaded prompt overrides from %s", cfg.PromptsFile)
	}

	// Initialize guardrail policy engine
	ctx := context.Background()
	guard, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize audit webhook
	auditClient := audit.NewClient(cfg.AuditWebhookURL)
	if auditClient.Enabled() {
		log.Printf("Audit webhook enabled")
	}

	// Initialize service
	svc := service.New(cfg, history.NewStore(), llmClient, prompts, guard, turnLog, auditClient)

	// Create HTTP server
	server := handler.NewServer(svc)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Chat API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down chat router...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Chat router stopped")
}

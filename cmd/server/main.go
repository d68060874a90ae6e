// Package main provides the chatbot backend server entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vmrninja/chatbot/internal/config"
	"github.com/vmrninja/chatbot/internal/llm"
	"github.com/vmrninja/chatbot/internal/registry"
	"github.com/vmrninja/chatbot/internal/web"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "chatbot-server",
	Short: "Security assessment chatbot backend",
	Long:  "Backend for uploading security documents and chatting about them with a hosted model API",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the upload and chat API.

Environment variables:
  OPENAI_API_KEY   API credential for the model API (required)
  PORT             Listen port (overrides config file)
  UPLOAD_DIR       Upload directory (overrides config file)
  CHAT_MODEL       Chat model name (overrides config file)
  ALLOWED_ORIGINS  Comma-separated CORS allow-list`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	// Load .env file if present (local development), ignore if missing
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	// A missing credential is a startup error, not a runtime one.
	client, err := llm.NewClient()
	if err != nil {
		return err
	}

	relay := llm.NewRelay(client.Client(), llm.RelayConfig{
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
	})

	server := web.NewServer(web.Config{
		Store:           registry.NewStore(),
		Relay:           relay,
		UploadDir:       cfg.Upload.Dir,
		MaxFileSize:     cfg.Upload.MaxFileSize,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		StreamByDefault: cfg.LLM.Streaming,
	})

	printBanner(cfg)

	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: server.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", cfg.Addr())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Println("Shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

func printBanner(cfg *config.Config) {
	uploadDir, err := filepath.Abs(cfg.Upload.Dir)
	if err != nil {
		uploadDir = cfg.Upload.Dir
	}
	model := cfg.LLM.Model
	if model == "" {
		model = string(llm.DefaultModel)
	}

	color.Cyan("Security Assessment Chatbot Backend")
	color.Green("✓ Upload folder: %s", uploadDir)
	color.Green("✓ Model: %s", model)
	color.Green("✓ API key found")
	fmt.Printf("\nOpen http://localhost:%d in your browser to use the chatbot\n\n", cfg.Server.Port)
}

package web

import (
	"context"
	"net/http"

	"github.com/vmrninja/chatbot/internal/llm"
	"github.com/vmrninja/chatbot/internal/prompt"
	"github.com/vmrninja/chatbot/internal/registry"
)

// Relay is the chat relay dependency. The llm package implements it;
// tests substitute a fake.
type Relay interface {
	Complete(ctx context.Context, msgs []prompt.Message) (string, error)
	Stream(ctx context.Context, msgs []prompt.Message) <-chan llm.Fragment
}

// Config holds server dependencies and settings.
type Config struct {
	Store           *registry.Store
	Relay           Relay
	UploadDir       string
	MaxFileSize     int64
	AllowedOrigins  []string
	StreamByDefault bool
}

// Server handles the HTTP surface: upload, chat, lifecycle, health and
// the embedded frontend.
type Server struct {
	store           *registry.Store
	relay           Relay
	uploadDir       string
	maxFileSize     int64
	allowedOrigins  []string
	streamByDefault bool
}

// NewServer creates a server from the given config.
func NewServer(cfg Config) *Server {
	return &Server{
		store:           cfg.Store,
		relay:           cfg.Relay,
		uploadDir:       cfg.UploadDir,
		maxFileSize:     cfg.MaxFileSize,
		allowedOrigins:  cfg.AllowedOrigins,
		streamByDefault: cfg.StreamByDefault,
	}
}

// Handler returns the full route table wrapped in CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleLanding)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /documents", s.handleListDocuments)
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("DELETE /delete/{file_id}", s.handleDelete)
	mux.HandleFunc("POST /clear", s.handleClear)

	return corsMiddleware(s.allowedOrigins, mux)
}

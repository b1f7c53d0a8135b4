package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cephlog-mcp/internal/models"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

// HTTPServer wraps the MCP server for HTTP transport
type HTTPServer struct {
	server *mcp.Server
	cfg    models.Config
	log    zerolog.Logger
}

// NewHTTPServer creates a new HTTP-based MCP server
func NewHTTPServer(server *mcp.Server, cfg models.Config, log zerolog.Logger) *HTTPServer {
	return &HTTPServer{
		server: server,
		cfg:    cfg,
		log:    log,
	}
}

// Start runs the HTTP server with streamable HTTP support until a
// SIGINT/SIGTERM arrives, then shuts down gracefully.
func (h *HTTPServer) Start() error {
	mux := http.NewServeMux()

	// Stateless MCP handler for maximum client compatibility: direct tool
	// calls work without session management.
	httpHandler := mcp.NewStreamableHTTPHandler(func(req *http.Request) *mcp.Server {
		return h.server
	}, nil)

	// Register handlers on both root and /mcp paths for client flexibility
	mux.Handle("/", httpHandler)
	mux.Handle("/mcp", httpHandler)
	mux.HandleFunc("/health", h.handleHealth)

	httpServer := &http.Server{
		Addr:         h.cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	h.log.Info().Str("addr", h.cfg.HTTPAddr).Msg("mcp server listening")

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case sig := <-signalChan:
		h.log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		h.log.Error().Err(err).Msg("server error")
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		h.log.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	h.log.Info().Msg("shutdown complete")
	return nil
}

func (h *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"server":  "cephlog-mcp",
		"version": Version,
	})
}

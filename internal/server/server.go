package server

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Server wraps the HTTP listener lifecycle. Signal handling belongs to the
// caller; Start blocks until the listener closes.
type Server struct {
	http *http.Server
}

// New creates a server serving the given handler
func New(handler *gin.Engine, host, port string) *Server {
	return &Server{
		http: &http.Server{
			Addr:              net.JoinHostPort(host, port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start begins serving requests
func (s *Server) Start() error {
	log.Printf("Starting server on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop drains in-flight requests and closes the listener
func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

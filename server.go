package transitlive

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
)

// Server exposes the engine's query interface over HTTP.
type Server struct {
	httpServer *http.Server
}

func NewServer(svc *Service, port int) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", handleHealth(svc))
	mux.HandleFunc("/api/vehicles.json", handleVehicles(svc))
	mux.HandleFunc("/api/geofence/check.json", handleGeofenceCheck(svc))

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

func (s *Server) Start() {
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Infof("server listening on %s", s.httpServer.Addr)
}

// HandleGracefulShutdown blocks until SIGINT/SIGTERM, then drains the
// server with a bounded deadline.
func (s *Server) HandleGracefulShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Errorf("server shutdown error: %v", err)
	} else {
		log.Info("server shut down successfully")
	}
}

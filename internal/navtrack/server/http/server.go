package http

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sfiharvest/navtrack/internal/navtrack/core/model"
	"github.com/sfiharvest/navtrack/internal/navtrack/core/service"
	"github.com/sfiharvest/navtrack/internal/pkg/metrics"
	"github.com/sfiharvest/navtrack/pkg/log"
	"github.com/sfiharvest/navtrack/pkg/options"
)

// ReadinessFunc reports whether the service can do its job.
type ReadinessFunc func() bool

type Server struct {
	server  *http.Server
	options *options.HttpOptions
	svc     *service.Service
	ready   ReadinessFunc
}

func NewServer(opts *options.HttpOptions, svc *service.Service, ready ReadinessFunc) *Server {
	s := &Server{
		options: opts,
		svc:     svc,
		ready:   ready,
	}

	s.server = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: opts.Timeout,
		WriteTimeout:      opts.Timeout,
	}
	return s
}

// Handler returns the router serving every endpoint.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	// Basic Liveness Probe
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	// Readiness Probe: ready once the broker connection is up
	r.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if s.ready != nil && !s.ready() {
			http.Error(w, "not connected", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/vehicles", s.listVehicles).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}/track", s.getTrack).Methods(http.MethodGet)

	return r
}

func (s *Server) listVehicles(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.svc.Vehicles()); err != nil {
		log.Error(err, "Failed to encode vehicle list")
	}
}

func (s *Server) getTrack(w http.ResponseWriter, r *http.Request) {
	id := model.VehicleID(mux.Vars(r)["id"])

	doc, err := s.svc.TrackDocument(id)
	switch {
	case errors.Is(err, service.ErrNotTracked):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		log.Error(err, "Failed to render track", "vehicle", id)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(doc)
}

func (s *Server) Start(ctx context.Context) error {
	log.Info("Starting HTTP Server", "addr", s.server.Addr)

	ln, err := net.Listen(s.options.Network, s.server.Addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

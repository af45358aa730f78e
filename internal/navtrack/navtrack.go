package navtrack

import (
	"context"
	"fmt"

	"github.com/sfiharvest/navtrack/internal/navtrack/core/model"
	"github.com/sfiharvest/navtrack/internal/navtrack/core/service"
	"github.com/sfiharvest/navtrack/internal/navtrack/rotation"
	"github.com/sfiharvest/navtrack/internal/navtrack/scheduler"
	"github.com/sfiharvest/navtrack/internal/navtrack/server"
	"github.com/sfiharvest/navtrack/internal/navtrack/storage"
	"github.com/sfiharvest/navtrack/pkg/log"
)

// Server is a fully wired navtrack process.
type Server struct {
	manager   *server.Manager
	service   *service.Service
	rotator   *rotation.Rotator
	scheduler *scheduler.Scheduler
	bucket    *storage.MinIO
}

// Run blocks until ctx is cancelled or a component fails. On cancellation
// buffered archive rows and the display documents are flushed one last
// time.
func (s *Server) Run(ctx context.Context) error {
	defer func() { _ = log.Sync() }()

	if s.bucket != nil {
		if err := s.bucket.CheckBucket(ctx); err != nil {
			return fmt.Errorf("failed to check archive bucket: %w", err)
		}
	}

	log.Info("Starting navtrack",
		"tracked", s.service.Tracked(),
		"archive", s.rotator.Target().Path,
		"tasks", s.scheduler.Tasks())

	return s.manager.Start(ctx)
}

// SetAliases swaps the display-name table while running.
func (s *Server) SetAliases(raw map[string]string) {
	s.service.SetAliases(model.NewAliases(raw))
	log.Info("Reloaded vehicle aliases", "count", len(raw))
}

// Service exposes the core service, mainly for tests.
func (s *Server) Service() *service.Service {
	return s.service
}

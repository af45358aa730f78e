package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sfiharvest/navtrack/internal/navtrack/core/model"
	"github.com/sfiharvest/navtrack/internal/navtrack/core/track"
	"github.com/sfiharvest/navtrack/internal/pkg/metrics"
)

// RefreshDisplay rewrites the live document of every tracked vehicle. A
// vehicle with no observations yet gets an empty collection. A failure is
// logged and reported but does not stop the other vehicles.
func (s *Service) RefreshDisplay(_ context.Context) error {
	defer metrics.ObserveFlush("display", time.Now())

	var errs []error
	for _, id := range s.Tracked() {
		obs := s.display.Snapshot(id)
		err := s.displayOut.Write(id, s.DisplayName(id), obs)
		metrics.FlushesTotal.WithLabelValues("display", metrics.Result(err)).Inc()
		if err != nil {
			s.logger.Error(err, "Failed to write display document", "vehicle", id)
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
		}
	}
	s.recordBuffered()
	return errors.Join(errs...)
}

// SnapshotHistory stores a timestamped copy of the full track of every
// vehicle seen so far.
func (s *Service) SnapshotHistory(_ context.Context) error {
	if s.historyOut == nil {
		return nil
	}
	defer metrics.ObserveFlush("history", time.Now())

	now := s.clock.Now()
	var errs []error
	for _, id := range s.display.Identities() {
		obs := s.display.Snapshot(id)
		if len(obs) == 0 {
			continue
		}
		err := s.historyOut.Write(id, obs, now)
		metrics.FlushesTotal.WithLabelValues("history", metrics.Result(err)).Inc()
		if err != nil {
			s.logger.Error(err, "Failed to write history document", "vehicle", id)
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// Heartbeat tells every tracked vehicle that this process is listening.
func (s *Service) Heartbeat(ctx context.Context) error {
	if s.notifier == nil {
		return nil
	}

	hb := &model.Heartbeat{
		Src:       s.self.Src,
		SysName:   s.self.SysName,
		Timestamp: s.clock.Now().Unix(),
	}
	var errs []error
	for _, id := range s.Tracked() {
		err := s.notifier.Notify(ctx, id, hb)
		metrics.HeartbeatsTotal.WithLabelValues(metrics.Result(err)).Inc()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Service) recordBuffered() {
	for _, b := range []*track.Buffer{s.display, s.archive} {
		total := 0
		for _, id := range b.Identities() {
			total += b.Len(id)
		}
		metrics.BufferedObservations.WithLabelValues(b.Name()).Set(float64(total))
	}
}

package service

import (
	"context"

	"github.com/sfiharvest/navtrack/internal/navtrack/core/filter"
	"github.com/sfiharvest/navtrack/internal/navtrack/core/model"
	"github.com/sfiharvest/navtrack/internal/pkg/metrics"
)

// HandleAnnounce records which vehicle sits behind a bus address.
func (s *Service) HandleAnnounce(_ context.Context, msg *model.Announce) error {
	if s.directory.Announce(msg.Src, model.VehicleID(msg.SysName)) {
		metrics.AnnouncesTotal.Inc()
		s.logger.Info("Node announced", "src", msg.Src, "vehicle", msg.SysName)
	}
	return nil
}

// HandleEstimatedState ingests one state report. Reports from unknown or
// untracked vehicles and reports with invalid positions are dropped; none of
// these is an error for the caller.
func (s *Service) HandleEstimatedState(_ context.Context, msg *model.EstimatedState) error {
	id, outcome := s.filter.Accept(msg.Src)
	switch outcome {
	case filter.UnknownNode:
		metrics.MessagesTotal.WithLabelValues(metrics.ResultUnknownNode).Inc()
		return nil
	case filter.NotTracked:
		metrics.MessagesTotal.WithLabelValues(metrics.ResultFiltered).Inc()
		return nil
	}

	obs, err := model.NewObservation(s.transformer, msg.Fix(), s.clock.Now())
	if err != nil {
		metrics.MessagesTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		s.logger.Warn("Dropping report with invalid position", "vehicle", id, "error", err.Error())
		return nil
	}

	s.display.Append(id, obs)
	s.archive.Append(id, obs)
	metrics.MessagesTotal.WithLabelValues(metrics.ResultAccepted).Inc()
	return nil
}

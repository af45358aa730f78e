package mqtt

import (
	"context"
	"fmt"
	"time"

	"github.com/sfiharvest/navtrack/internal/navtrack/core/model"
	"github.com/sfiharvest/navtrack/internal/navtrack/core/service"
	"github.com/sfiharvest/navtrack/internal/pkg/mqtt/paths"
	"github.com/sfiharvest/navtrack/pkg/log"
	pkgmqtt "github.com/sfiharvest/navtrack/pkg/mqtt"
	"github.com/sfiharvest/navtrack/pkg/mqtt/topic"
)

// Server implements the MQTT ingress layer.
type Server struct {
	client pkgmqtt.Client
	topics *topic.Builder
	group  string
	qos    int
	svc    *service.Service
	logger log.Logger
}

// NewServer creates the ingress. client is started by Start and
// disconnected when Start returns.
func NewServer(client pkgmqtt.Client, builder *topic.Builder, group string, qos int, svc *service.Service) *Server {
	return &Server{
		client: client,
		topics: builder,
		group:  group,
		qos:    qos,
		svc:    svc,
		logger: log.WithName("mqtt"),
	}
}

// Start connects to the broker and subscribes to topics.
func (s *Server) Start(ctx context.Context) error {
	// 1. Start the connection manager (Non-blocking)
	if err := s.client.Start(ctx); err != nil {
		return err
	}

	// Ensure MQTT disconnects when Run exits (LIFO order)
	defer func() {
		s.logger.Info("Disconnecting MQTT client...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.client.Disconnect(shutdownCtx)
	}()

	// 2. Wait for the initial connection; the client re-subscribes by
	// itself after later reconnects.
	s.logger.Info("Waiting for MQTT connection...")
	if err := s.client.AwaitConnection(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	s.logger.Info("MQTT Connected")

	if err := s.initSubscriptions(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	return nil
}

// Ready reports whether the broker connection is up.
func (s *Server) Ready() bool {
	return s.client.IsConnected()
}

func (s *Server) initSubscriptions(ctx context.Context) error {
	subscriptions := []struct {
		segment string
		handler HandlerFunc
	}{
		// announces first, so that state reports of nodes announced in the
		// same burst resolve
		{paths.Announce, JSONAdapter(model.DecodeAnnounce, s.svc.HandleAnnounce)},
		{paths.EstimatedState, JSONAdapter(model.DecodeEstimatedState, s.svc.HandleEstimatedState)},
	}

	for _, sub := range subscriptions {
		fullTopic := s.topics.Shared(s.group).BuildWildcard(sub.segment)
		handler := sub.handler
		if err := s.client.Subscribe(ctx, fullTopic, s.qos, func(c context.Context, t string, p []byte) {
			if handleErr := handler(c, p); handleErr != nil {
				s.logger.Warn("Dropping message", "topic", t, "error", handleErr.Error())
			}
		}); err != nil {
			return fmt.Errorf("failed to subscribe to topic: %s, err: %w", fullTopic, err)
		}
	}

	return nil
}

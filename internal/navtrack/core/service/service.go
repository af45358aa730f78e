package service

import (
	"errors"
	"sync/atomic"

	"k8s.io/utils/clock"

	"github.com/sfiharvest/navtrack/internal/navtrack/core"
	"github.com/sfiharvest/navtrack/internal/navtrack/core/filter"
	"github.com/sfiharvest/navtrack/internal/navtrack/core/model"
	"github.com/sfiharvest/navtrack/internal/navtrack/core/track"
	"github.com/sfiharvest/navtrack/pkg/geo"
	"github.com/sfiharvest/navtrack/pkg/log"
)

// Self identifies this process on the bus.
type Self struct {
	Src     uint16
	SysName string
}

// Deps are the collaborators injected into the Service.
type Deps struct {
	Directory   *filter.NodeDirectory
	Filter      *filter.Filter
	Transformer geo.Transformer
	// Display feeds the live display and history writers; it must retain.
	Display *track.Buffer
	// Archive feeds the archive writer; it must drain.
	Archive       *track.Buffer
	DisplayWriter core.DisplayWriter
	// HistoryWriter and Notifier are optional.
	HistoryWriter core.HistoryWriter
	Notifier      core.HeartbeatNotifier
	Aliases       model.Aliases
	Self          Self
	Clock         clock.PassiveClock
}

// Service implements the navtrack use cases: ingesting vehicle reports and
// producing the documents derived from the buffered tracks.
type Service struct {
	directory   *filter.NodeDirectory
	filter      *filter.Filter
	transformer geo.Transformer
	display     *track.Buffer
	archive     *track.Buffer
	displayOut  core.DisplayWriter
	historyOut  core.HistoryWriter
	notifier    core.HeartbeatNotifier
	self        Self
	clock       clock.PassiveClock
	logger      log.Logger

	aliases atomic.Pointer[model.Aliases]
}

// New wires a Service. Display and Archive must use the retain and drain
// modes respectively.
func New(d Deps) (*Service, error) {
	switch {
	case d.Directory == nil || d.Filter == nil:
		return nil, errors.New("service: node directory and filter are required")
	case d.Transformer == nil:
		return nil, errors.New("service: transformer is required")
	case d.Display == nil || d.Display.Mode() != track.Retain:
		return nil, errors.New("service: display buffer must retain")
	case d.Archive == nil || d.Archive.Mode() != track.Drain:
		return nil, errors.New("service: archive buffer must drain")
	case d.DisplayWriter == nil:
		return nil, errors.New("service: display writer is required")
	}
	if d.Clock == nil {
		d.Clock = clock.RealClock{}
	}

	s := &Service{
		directory:   d.Directory,
		filter:      d.Filter,
		transformer: d.Transformer,
		display:     d.Display,
		archive:     d.Archive,
		displayOut:  d.DisplayWriter,
		historyOut:  d.HistoryWriter,
		notifier:    d.Notifier,
		self:        d.Self,
		clock:       d.Clock,
		logger:      log.WithName("service"),
	}
	s.SetAliases(d.Aliases)
	return s, nil
}

// SetAliases replaces the display-name table. The next display refresh
// uses the new names.
func (s *Service) SetAliases(a model.Aliases) {
	if a == nil {
		a = model.Aliases{}
	}
	s.aliases.Store(&a)
}

// DisplayName returns the name id is shown under on the map.
func (s *Service) DisplayName(id model.VehicleID) string {
	return (*s.aliases.Load()).DisplayName(id)
}

// Tracked returns the allow-listed identities, sorted.
func (s *Service) Tracked() []model.VehicleID {
	return s.filter.Tracked().IDs()
}

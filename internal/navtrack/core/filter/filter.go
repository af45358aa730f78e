package filter

import (
	"github.com/sfiharvest/navtrack/internal/navtrack/core"
	"github.com/sfiharvest/navtrack/internal/navtrack/core/model"
	"github.com/sfiharvest/navtrack/pkg/log"
)

// Outcome explains why a message was accepted or dropped.
type Outcome string

const (
	Accepted    Outcome = "accepted"
	UnknownNode Outcome = "unknown_node"
	NotTracked  Outcome = "not_tracked"
)

// Filter admits messages from allow-listed vehicles only.
type Filter struct {
	resolver core.Resolver
	allowed  model.AllowList
	logger   log.Logger
}

// New returns a Filter resolving nodes with resolver.
func New(resolver core.Resolver, allowed model.AllowList) *Filter {
	return &Filter{
		resolver: resolver,
		allowed:  allowed,
		logger:   log.WithName("filter"),
	}
}

// Accept resolves the originating node of a message. Dropping a message is
// an expected outcome, not an error.
func (f *Filter) Accept(src uint16) (model.VehicleID, Outcome) {
	id, err := f.resolver.Resolve(src)
	if err != nil {
		f.logger.Debug("Dropping message from unresolved node", "src", src, "reason", err)
		return "", UnknownNode
	}
	if !f.allowed.Contains(id) {
		f.logger.Debug("Dropping message from untracked vehicle", "src", src, "vehicle", id)
		return "", NotTracked
	}
	return id, Accepted
}

// Tracked returns the allow-list.
func (f *Filter) Tracked() model.AllowList {
	return f.allowed
}

package filter

import (
	"fmt"
	"sync"

	"github.com/sfiharvest/navtrack/internal/navtrack/core"
	"github.com/sfiharvest/navtrack/internal/navtrack/core/model"
)

// NodeDirectory remembers which system name announced each bus address.
// It is updated from announce messages and read for every state report.
type NodeDirectory struct {
	mu    sync.RWMutex
	nodes map[uint16]model.VehicleID
}

var _ core.Resolver = (*NodeDirectory)(nil)

// NewNodeDirectory returns an empty directory.
func NewNodeDirectory() *NodeDirectory {
	return &NodeDirectory{nodes: make(map[uint16]model.VehicleID)}
}

// Announce records that src belongs to name. A later announce for the same
// address replaces the earlier one. It reports whether anything changed.
func (d *NodeDirectory) Announce(src uint16, name model.VehicleID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.nodes[src] == name {
		return false
	}
	d.nodes[src] = name
	return true
}

// Resolve returns the identity announced for src.
func (d *NodeDirectory) Resolve(src uint16) (model.VehicleID, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	name, ok := d.nodes[src]
	if !ok {
		return "", fmt.Errorf("%w: address %d", core.ErrUnknownNode, src)
	}
	return name, nil
}

// Len returns the number of known nodes.
func (d *NodeDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.nodes)
}

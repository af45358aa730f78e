package model

import (
	"sort"
	"strings"
	"unicode"
)

// VehicleID is the system name a vehicle announces on the bus (e.g. "lauv-thor").
// It is stable for the vehicle's session and partitions every track buffer.
type VehicleID string

func (id VehicleID) String() string {
	return string(id)
}

// Title returns the identity with the first letter of every word upper-cased,
// where words are separated by anything that is not a letter.
// "lauv-thor" becomes "Lauv-Thor".
func (id VehicleID) Title() string {
	var b strings.Builder
	b.Grow(len(id))

	startOfWord := true
	for _, r := range string(id) {
		if unicode.IsLetter(r) {
			if startOfWord {
				b.WriteRune(unicode.ToUpper(r))
			} else {
				b.WriteRune(unicode.ToLower(r))
			}
			startOfWord = false
			continue
		}
		b.WriteRune(r)
		startOfWord = true
	}
	return b.String()
}

// AllowList is the fixed set of vehicles whose reports are tracked.
// It is built once from configuration and never mutated.
type AllowList struct {
	members map[VehicleID]struct{}
}

// NewAllowList builds an AllowList. Blank entries are ignored.
func NewAllowList(ids ...string) AllowList {
	members := make(map[VehicleID]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		members[VehicleID(id)] = struct{}{}
	}
	return AllowList{members: members}
}

// Contains reports whether id is tracked.
func (a AllowList) Contains(id VehicleID) bool {
	_, ok := a.members[id]
	return ok
}

// Len returns the number of tracked vehicles.
func (a AllowList) Len() int {
	return len(a.members)
}

// IDs returns the members in lexical order.
func (a AllowList) IDs() []VehicleID {
	ids := make([]VehicleID, 0, len(a.members))
	for id := range a.members {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Aliases maps identities to the display names operators know vehicles by.
// Keys are matched without regard to case, since config loaders such as
// viper lower-case map keys.
type Aliases map[VehicleID]string

// NewAliases converts a raw name table, dropping blank keys and values.
// Keys are stored lower-cased.
func NewAliases(raw map[string]string) Aliases {
	a := make(Aliases, len(raw))
	for k, v := range raw {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		a[VehicleID(strings.ToLower(k))] = v
	}
	return a
}

// DisplayName returns the alias of id, or its title-cased identity.
func (a Aliases) DisplayName(id VehicleID) string {
	if name, ok := a[VehicleID(strings.ToLower(string(id)))]; ok {
		return name
	}
	return id.Title()
}

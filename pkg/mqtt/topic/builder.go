package topic

import (
	"strings"
)

// Builder constructs topic strings of the form {root}/{segment}/{id}.
type Builder struct {
	// root is the base namespace for all topics (e.g. "imc/v1").
	root string

	// group, when set, turns built filters into shared subscriptions.
	group string
}

// NewBuilder creates a Builder for the given root namespace.
// Leading and trailing slashes are trimmed.
func NewBuilder(root string) *Builder {
	return &Builder{root: strings.Trim(root, "/")}
}

// Root returns the namespace the builder was created with.
func (b *Builder) Root() string {
	return b.root
}

// Shared returns a copy of the builder whose filters are prefixed with
// $share/{group}/ so that several consumers can split one stream.
// An empty group returns the builder unchanged.
func (b *Builder) Shared(group string) *Builder {
	if group == "" {
		return b
	}
	return &Builder{root: b.root, group: group}
}

// Build returns the concrete topic for one node.
func (b *Builder) Build(segment, id string) string {
	return b.join(segment, id)
}

// BuildWildcard returns a filter matching the segment for every node.
// Result: [$share/{group}/]{root}/{segment}/+
func (b *Builder) BuildWildcard(segment string) string {
	return b.join(segment, Wildcard)
}

// ID extracts the trailing node identifier from a concrete topic built for
// segment. ok is false if the topic does not belong to segment.
func (b *Builder) ID(segment, topic string) (id string, ok bool) {
	prefix := b.root + "/" + segment + "/"
	if b.root == "" {
		prefix = segment + "/"
	}
	if !strings.HasPrefix(topic, prefix) {
		return "", false
	}
	id = strings.TrimPrefix(topic, prefix)
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

func (b *Builder) join(segment, id string) string {
	parts := make([]string, 0, 5)
	if b.group != "" {
		parts = append(parts, "$share", b.group)
	}
	if b.root != "" {
		parts = append(parts, b.root)
	}
	parts = append(parts, segment, id)
	return strings.Join(parts, "/")
}

package types

import (
	"errors"
	"time"
)

// Link type constants.
const (
	LinkTypeRequires = "requires" // node → prerequisite node
)

// ErrDuplicateLink is returned when a link with the same type and
// endpoints already exists.
var ErrDuplicateLink = errors.New("link already exists")

// ValidLinkType reports whether t is a known link type.
func ValidLinkType(t string) bool {
	return t == LinkTypeRequires
}

// Link represents a directed edge between two nodes. Links mirror the
// Prerequisite lists of stored entities so that dependents can be found
// without scanning every node.
type Link struct {
	// LinkID is a UUID v7, generated on creation.
	LinkID string

	// LinkType is the relationship type.
	LinkType string

	// FromID is the node that depends on ToID.
	FromID string

	// ToID is the prerequisite node.
	ToID string

	// CreatedAt is the timestamp of creation.
	CreatedAt time.Time
}

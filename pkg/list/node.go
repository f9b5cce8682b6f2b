package list

import (
	"errors"

	"github.com/cespare/xxhash/v2"
)

// ErrMissingValue is returned when a node is created or rewritten with no
// payload. The payload is a required field; the empty string is how an
// omitted payload manifests in Go.
var ErrMissingValue = errors.New("node requires a non-empty value")

// Node is a single element of a List: one text payload and links to its
// neighbors. Nodes are created and owned by a List; holding a *Node across a
// mutating call is not safe, since removal unlinks it immediately.
type Node struct {
	value string
	hash  uint64 // xxhash of value, kept in sync by setValue.
	prev  *Node
	next  *Node
}

// NewNode creates an unlinked node carrying the given payload.
func NewNode(value string) (*Node, error) {
	if value == "" {
		return nil, ErrMissingValue
	}
	return &Node{value: value, hash: xxhash.Sum64String(value)}, nil
}

// Value returns the node's payload.
func (n *Node) Value() string {
	return n.value
}

// Prev returns the node before this one, or nil at the head.
func (n *Node) Prev() *Node {
	return n.prev
}

// Next returns the node after this one, or nil at the tail.
func (n *Node) Next() *Node {
	return n.next
}

// setValue rewrites the payload and its cached digest.
func (n *Node) setValue(value string) {
	n.value = value
	n.hash = xxhash.Sum64String(value)
}

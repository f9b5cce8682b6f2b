// Package list implements a cursor-based doubly linked list of text payloads.
//
// The container keeps an explicit cursor, the node most recently touched.
// Positional operations first move the cursor to the requested 0-based index
// by walking forward from the head, then act relative to it; relative inserts
// splice the new node on either side of the cursor. Lookups by value are
// accelerated by a bloom filter over the payloads (definite misses skip the
// scan entirely) and by comparing cached xxhash digests before full strings.
//
// Properties
// - Seek/Insert/Modify/Remove/FindByIndex: O(index)
// - FindByValue: O(n), O(1) on a filter miss
// - StepForward/StepBack: O(1)
//
// The list is not safe for concurrent use; callers with multiple goroutines
// must serialize access themselves.
package list

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/cespare/xxhash/v2"
	"github.com/nobletooth/strand/pkg/utils"
)

var (
	// ErrIndexOutOfRange is returned when a requested position does not exist.
	ErrIndexOutOfRange = errors.New("index is out of bounds")
	// ErrValueNotFound is returned when a value scan exhausts the list.
	ErrValueNotFound = errors.New("no node with the given value was found")
	// ErrNoCursor is returned by cursor movements when there is no current
	// node, either because the list is empty or because the tail was removed.
	ErrNoCursor = errors.New("list has no current node")
	// ErrCorruptChain signals a nil link on a walk that the length bookkeeping
	// says must succeed. It accompanies an invariant violation.
	ErrCorruptChain = errors.New("hit a nil link inside the chain")
)

const (
	minFilterCapacity       = 1 << 10
	filterFalsePositiveRate = 0.01
)

// Entry is one (position, payload) snapshot produced by Collect.
type Entry struct {
	Index int
	Value string
}

// List is a doubly linked chain of Nodes with an explicit cursor.
type List struct {
	head   *Node
	tail   *Node
	cursor *Node
	length int
	// filter holds every payload inserted since the last rebuild, a superset
	// of the live payloads. Supersets never yield false negatives, so lookups
	// stay correct across removals; filterStale triggers a rebuild on the
	// next FindByValue to win back precision.
	filter      *bloom.BloomFilter
	filterStale bool
}

// New creates a list, optionally populated with the given values in order.
// The first value lands at index 0 and every following value is spliced after
// its predecessor, so the values keep their argument order.
func New(initial ...string) (*List, error) {
	l := &List{
		filter: bloom.NewWithEstimates(uint(max(minFilterCapacity, 2*len(initial))), filterFalsePositiveRate),
	}
	for i, value := range initial {
		var err error
		if i == 0 {
			_, err = l.Insert(value, false /*after*/, 0)
		} else {
			_, err = l.Insert(value, true /*after*/, i-1)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to insert initial value #%d: %w", i, err)
		}
	}
	return l, nil
}

// Len returns the number of nodes in the list.
func (l *List) Len() int {
	return l.length
}

// Head returns the first node of the list or nil if the list is empty.
func (l *List) Head() *Node {
	return l.head
}

// Tail returns the last node of the list or nil if the list is empty.
func (l *List) Tail() *Node {
	return l.tail
}

// Cursor returns the current node, or nil when there is none.
func (l *List) Cursor() *Node {
	return l.cursor
}

func (l *List) atHead() bool { return l.cursor == l.head }
func (l *List) atTail() bool { return l.cursor == l.tail }

// Seek moves the cursor to the node at the given 0-based index by walking
// forward from the head. It is the single place index validation happens.
// Seeking index 0 on an empty list is allowed and leaves the cursor nil; any
// other index outside [0, Len()-1] fails with ErrIndexOutOfRange.
func (l *List) Seek(index int) error {
	if index < 0 || (index != 0 && index > l.length-1) {
		return ErrIndexOutOfRange
	}

	l.cursor = l.head
	for step := 0; step < index; step++ {
		if l.cursor == nil || l.cursor.next == nil {
			// The index was validated against length, so a nil link here
			// means the chain and the length bookkeeping disagree.
			utils.RaiseInvariant("list", "broken_chain", "Hit a nil link while seeking a valid index.",
				"index", index, "step", step, "length", l.length)
			return ErrCorruptChain
		}
		l.cursor = l.cursor.next
	}
	return nil
}

// Insert creates a node for value and splices it next to the node at index:
// after it when after is true, before it otherwise. Inserting into an empty
// list makes the new node both head and tail. The cursor lands on the new
// node, which is returned.
func (l *List) Insert(value string, after bool, index int) (*Node, error) {
	node, err := NewNode(value)
	if err != nil {
		return nil, err
	}
	if err := l.Seek(index); err != nil {
		return nil, fmt.Errorf("failed to position the cursor: %w", err)
	}

	switch {
	case l.length == 0:
		l.head, l.tail = node, node
	case after:
		node.prev = l.cursor
		node.next = l.cursor.next
		if l.atTail() {
			l.tail = node
		} else {
			l.cursor.next.prev = node
		}
		l.cursor.next = node
	default:
		node.prev = l.cursor.prev
		node.next = l.cursor
		if l.atHead() {
			l.head = node
		} else {
			l.cursor.prev.next = node
		}
		l.cursor.prev = node
	}

	l.cursor = node
	l.length++
	l.filter.AddString(value)
	return node, nil
}

// Modify overwrites the payload of the node at index and returns that node.
// The structure of the chain is untouched.
func (l *List) Modify(newValue string, index int) (*Node, error) {
	if newValue == "" {
		return nil, ErrMissingValue
	}
	if err := l.Seek(index); err != nil {
		return nil, fmt.Errorf("failed to position the cursor: %w", err)
	}
	if l.cursor == nil { // Seek(0) on an empty list leaves no node to modify.
		return nil, ErrIndexOutOfRange
	}

	l.cursor.setValue(newValue)
	// The old payload stays in the filter as a harmless false positive.
	l.filter.AddString(newValue)
	return l.cursor, nil
}

// Remove unlinks the node at index and returns its payload. The neighbors are
// connected to each other; a node with no predecessor promotes its successor
// to head and a node with no successor promotes its predecessor to tail. The
// cursor moves to the removed node's former successor, which is nil when the
// tail was removed.
func (l *List) Remove(index int) (string, error) {
	if err := l.Seek(index); err != nil {
		return "", fmt.Errorf("failed to position the cursor: %w", err)
	}
	if l.cursor == nil {
		return "", ErrIndexOutOfRange
	}

	removed := l.cursor
	if removed.prev != nil {
		removed.prev.next = removed.next
	} else {
		// Node was the head.
		l.head = removed.next
	}
	if removed.next != nil {
		removed.next.prev = removed.prev
	} else {
		// Node was the tail.
		l.tail = removed.prev
	}

	l.cursor = removed.next
	l.length--
	l.filterStale = true

	// Clean up the removed node's pointers.
	removed.prev = nil
	removed.next = nil
	return removed.value, nil
}

// StepBack moves the cursor to its predecessor. At the head the cursor stays
// put; stepping with no cursor at all fails with ErrNoCursor. The resulting
// cursor node is returned.
func (l *List) StepBack() (*Node, error) {
	if l.cursor == nil {
		return nil, ErrNoCursor
	}
	if l.cursor.prev != nil {
		l.cursor = l.cursor.prev
	}
	return l.cursor, nil
}

// StepForward moves the cursor to its successor. At the tail the cursor stays
// put; stepping with no cursor at all fails with ErrNoCursor. The resulting
// cursor node is returned.
func (l *List) StepForward() (*Node, error) {
	if l.cursor == nil {
		return nil, ErrNoCursor
	}
	if l.cursor.next != nil {
		l.cursor = l.cursor.next
	}
	return l.cursor, nil
}

// FindByIndex resets the cursor to the head and walks forward index steps,
// returning the node it lands on. Unlike Seek, an empty list has no index 0:
// any walk that runs out of nodes fails with ErrIndexOutOfRange.
func (l *List) FindByIndex(index int) (*Node, error) {
	if index < 0 {
		return nil, ErrIndexOutOfRange
	}
	l.cursor = l.head
	for step := 0; step < index; step++ {
		if l.cursor == nil {
			return nil, ErrIndexOutOfRange
		}
		l.cursor = l.cursor.next
	}
	if l.cursor == nil {
		return nil, ErrIndexOutOfRange
	}
	return l.cursor, nil
}

// FindByValue scans from the head for the first node whose payload equals
// value, leaving the cursor on it. A miss leaves the cursor nil and fails
// with ErrValueNotFound. The bloom filter answers definite misses without a
// scan, and cached digests keep the scan cheap on long payloads.
func (l *List) FindByValue(value string) (*Node, error) {
	if l.filterStale {
		l.rebuildFilter()
	}
	if !l.filter.TestString(value) {
		l.cursor = nil
		return nil, ErrValueNotFound
	}

	target := xxhash.Sum64String(value)
	for l.cursor = l.head; l.cursor != nil; l.cursor = l.cursor.next {
		if l.cursor.hash == target && l.cursor.value == value {
			return l.cursor, nil
		}
	}
	return nil, ErrValueNotFound
}

// rebuildFilter replaces the payload filter with one built from the live
// chain, dropping the false positives accumulated by removals.
func (l *List) rebuildFilter() {
	l.filter = bloom.NewWithEstimates(uint(max(minFilterCapacity, 2*l.length)), filterFalsePositiveRate)
	for node := l.head; node != nil; node = node.next {
		l.filter.AddString(node.value)
	}
	l.filterStale = false
}

// Collect walks the chain once and returns the (index, value) snapshot of
// every node whose position is requested: all of them when allNodes is true,
// otherwise the ones listed in indexes. Requested positions that do not exist
// are silently skipped. The walk advances on every node regardless of whether
// it matched, so non-contiguous index sets are gathered in one pass; the
// list's cursor is not disturbed.
func (l *List) Collect(indexes []int, allNodes bool) []Entry {
	entries := make([]Entry, 0)
	index := 0
	for node := l.head; node != nil; node = node.next {
		if allNodes || slices.Contains(indexes, index) {
			entries = append(entries, Entry{Index: index, Value: node.value})
		}
		index++
	}
	return entries
}

// Display writes one "Node <index>: <value>" line per collected entry to w,
// in collection order. Lines render the snapshot taken by Collect, not a
// re-read of the live list.
func (l *List) Display(w io.Writer, indexes []int, allNodes bool) error {
	for _, entry := range l.Collect(indexes, allNodes) {
		if _, err := fmt.Fprintf(w, "Node %d: %s\n", entry.Index, entry.Value); err != nil {
			return fmt.Errorf("failed to write node line: %w", err)
		}
	}
	return nil
}

package rope

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInvariant is returned by Validate when a node's cached metrics
// disagree with its contents.
var ErrInvariant = errors.New("rope invariant violated")

// Rope is a persistent rope over text indexed by code point.
// Operations return new Rope values; the original is never modified.
// Copying a Rope copies a single pointer. The zero value is an empty rope.
type Rope struct {
	root *Node
}

// New creates an empty rope backed by a single empty leaf.
func New() Rope {
	return Rope{root: newLeaf("")}
}

// FromString creates a single-leaf rope holding s verbatim.
func FromString(s string) Rope {
	return Rope{root: newLeaf(s)}
}

// FromReader creates a rope from an io.Reader.
// The text is stored in bounded leaves joined into a balanced tree.
func FromReader(r io.Reader) (Rope, error) {
	b := NewBuilder()
	if _, err := b.ReadFrom(r); err != nil {
		return Rope{}, err
	}
	return b.Build(), nil
}

// Root returns the root node, which is nil only for the zero Rope.
func (r Rope) Root() *Node {
	return r.root
}

// Len returns the total number of code points.
func (r Rope) Len() int {
	if r.root == nil {
		return 0
	}
	return r.root.length
}

// IsEmpty returns true if the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// CharAt returns the code point at index i.
// Returns 0 and false if i is outside [0, Len()).
func (r Rope) CharAt(i int) (rune, bool) {
	if r.root == nil || i < 0 || i >= r.root.length {
		return 0, false
	}
	return r.root.charAt(i)
}

// Split splits the rope at index i, clamped to [0, Len()].
// The left rope holds [0, i) and the right rope holds [i, Len()).
func (r Rope) Split(i int) (Rope, Rope) {
	if r.root == nil {
		return New(), New()
	}

	i = clamp(i, 0, r.root.length)
	left, right := r.root.split(i)
	return Rope{root: left}, Rope{root: right}
}

// Concat joins two ropes under a new internal node.
// Both operands are shared, not copied, and no rebalancing happens.
func (r Rope) Concat(other Rope) Rope {
	left, right := r.root, other.root
	if left == nil {
		left = newLeaf("")
	}
	if right == nil {
		right = newLeaf("")
	}
	return Rope{root: newInternal(left, right)}
}

// Insert inserts text at index i, clamped to [0, Len()].
// Returns a new rope; the original is unchanged.
func (r Rope) Insert(i int, text string) Rope {
	if len(text) == 0 {
		return r
	}

	left, right := r.Split(i)
	return left.Concat(FromString(text)).Concat(right)
}

// Delete removes up to n code points starting at start.
// start is clamped to [0, Len()] and n to the text remaining after start.
// Returns a new rope; the original is unchanged.
func (r Rope) Delete(start, n int) Rope {
	left, rest := r.Split(start)
	n = clamp(n, 0, rest.Len())
	_, right := rest.Split(n)
	return left.Concat(right)
}

// Replace removes n code points at start and inserts text in their place.
func (r Rope) Replace(start, n int, text string) Rope {
	return r.Delete(start, n).Insert(start, text)
}

// String returns the full text.
// It walks every leaf; use sparingly on hot paths.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}

	var sb strings.Builder
	sb.Grow(r.root.length)
	it := r.Leaves()
	for it.Next() {
		sb.WriteString(it.Text())
	}
	return sb.String()
}

// Slice returns the text in [start, end), with both bounds clamped.
func (r Rope) Slice(start, end int) string {
	if r.root == nil {
		return ""
	}

	start = clamp(start, 0, r.root.length)
	end = clamp(end, 0, r.root.length)
	if start >= end {
		return ""
	}

	var sb strings.Builder
	sb.Grow(end - start)
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// WriteTo writes the full text to w, one leaf at a time.
// Implements io.WriterTo.
func (r Rope) WriteTo(w io.Writer) (int64, error) {
	var total int64
	it := r.Leaves()
	for it.Next() {
		if it.Len() == 0 {
			continue
		}
		n, err := io.WriteString(w, it.Text())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Equals returns true if two ropes contain the same text.
// Note: This compares content, not structure.
func (r Rope) Equals(other Rope) bool {
	if r.root == other.root {
		return true
	}
	if r.Len() != other.Len() {
		return false
	}
	return r.String() == other.String()
}

// Depth returns the number of levels in the tree.
// A single-leaf rope has depth 1.
func (r Rope) Depth() int {
	if r.root == nil {
		return 0
	}
	return r.root.depth()
}

// LeafCount returns the number of leaves, including empty ones.
func (r Rope) LeafCount() int {
	count := 0
	it := r.Leaves()
	for it.Next() {
		count++
	}
	return count
}

// Validate checks the cached weight and length of every node.
func (r Rope) Validate() error {
	if r.root == nil {
		return nil
	}
	_, err := validate(r.root, "root")
	return err
}

func validate(n *Node, path string) (int, error) {
	if n.IsLeaf() {
		want := newLeaf(n.text).length
		if n.length != want {
			return 0, fmt.Errorf("%w: leaf %s length %d, counted %d", ErrInvariant, path, n.length, want)
		}
		return n.length, nil
	}

	if n.right == nil {
		return 0, fmt.Errorf("%w: internal node %s has no right child", ErrInvariant, path)
	}
	left, err := validate(n.left, path+".L")
	if err != nil {
		return 0, err
	}
	right, err := validate(n.right, path+".R")
	if err != nil {
		return 0, err
	}

	if n.weight != left {
		return 0, fmt.Errorf("%w: node %s weight %d, left length %d", ErrInvariant, path, n.weight, left)
	}
	if n.length != left+right {
		return 0, fmt.Errorf("%w: node %s length %d, children total %d", ErrInvariant, path, n.length, left+right)
	}
	return n.length, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

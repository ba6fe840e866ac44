package rope

import (
	"strings"
	"unicode/utf8"
)

// Node is a node in the rope tree. Nodes are immutable once built.
// Leaf nodes hold a text fragment; internal nodes hold exactly two children.
type Node struct {
	// Leaf node fields
	text string

	// Internal node fields
	left   *Node
	right  *Node
	weight int // rune length of left

	length int  // rune length of the whole subtree
	ascii  bool // leaf holds only bytes below utf8.RuneSelf
}

// newLeaf creates a leaf holding s.
func newLeaf(s string) *Node {
	return &Node{
		text:   s,
		length: utf8.RuneCountInString(s),
		ascii:  isASCII(s),
	}
}

// newInternal joins two subtrees. The weight is always taken from the left
// child's cached length, never patched incrementally.
func newInternal(left, right *Node) *Node {
	return &Node{
		left:   left,
		right:  right,
		weight: left.length,
		length: left.length + right.length,
	}
}

// IsLeaf returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.left == nil
}

// Len returns the rune length of the subtree.
func (n *Node) Len() int {
	return n.length
}

// Weight returns the rune length of the left subtree.
// For a leaf it is the length of its own fragment.
func (n *Node) Weight() int {
	if n.IsLeaf() {
		return n.length
	}
	return n.weight
}

// Text returns the fragment stored in a leaf, or "" for internal nodes.
func (n *Node) Text() string {
	return n.text
}

// isASCII reports whether s is plain ASCII. An invalid byte also counts
// as one rune, so comparing byte and rune lengths is not enough.
func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// charAt walks from n to the leaf containing index i.
func (n *Node) charAt(i int) (rune, bool) {
	for !n.IsLeaf() {
		if i < n.weight {
			n = n.left
		} else {
			i -= n.weight
			n = n.right
		}
	}

	if i < 0 || i >= n.length {
		return 0, false
	}
	if n.ascii {
		return rune(n.text[i]), true
	}
	for _, r := range n.text {
		if i == 0 {
			return r, true
		}
		i--
	}
	return 0, false
}

// split splits the subtree at rune index i.
// Returns two nodes: left holds [0, i), right holds [i, length).
// Subtrees that lie entirely on one side are reused, not copied.
func (n *Node) split(i int) (*Node, *Node) {
	if n.IsLeaf() {
		return n.splitLeaf(i)
	}

	if i <= n.weight {
		ll, lr := n.left.split(i)
		return ll, newInternal(lr, n.right)
	}

	rl, rr := n.right.split(i - n.weight)
	return newInternal(n.left, rl), rr
}

// splitLeaf divides a leaf's fragment into two new leaves.
func (n *Node) splitLeaf(i int) (*Node, *Node) {
	if i <= 0 {
		return newLeaf(""), n
	}
	if i >= n.length {
		return n, newLeaf("")
	}

	b := byteOffset(n.text, i)
	return newLeaf(n.text[:b]), newLeaf(n.text[b:])
}

// appendRange appends the runes in [start, end) of the subtree to sb.
// Both bounds are relative to n and already clamped to [0, n.length].
func (n *Node) appendRange(sb *strings.Builder, start, end int) {
	for start < end {
		if n.IsLeaf() {
			sb.WriteString(n.text[byteOffset(n.text, start):byteOffset(n.text, end)])
			return
		}

		if end <= n.weight {
			n = n.left
			continue
		}
		if start >= n.weight {
			start -= n.weight
			end -= n.weight
			n = n.right
			continue
		}

		// Range straddles the weight
		n.left.appendRange(sb, start, n.weight)
		start, end = 0, end-n.weight
		n = n.right
	}
}

// depth returns the number of levels in the subtree; a lone leaf has depth 1.
func (n *Node) depth() int {
	if n.IsLeaf() {
		return 1
	}
	return 1 + max(n.left.depth(), n.right.depth())
}

// byteOffset converts a rune index within s to a byte offset.
// Indices past the end map to len(s).
func byteOffset(s string, i int) int {
	if i <= 0 {
		return 0
	}
	if len(s) == utf8.RuneCountInString(s) {
		return min(i, len(s))
	}
	for b := range s {
		if i == 0 {
			return b
		}
		i--
	}
	return len(s)
}

// buildBalanced joins leaves into a height-balanced tree, preserving order.
func buildBalanced(leaves []*Node) *Node {
	switch len(leaves) {
	case 0:
		return newLeaf("")
	case 1:
		return leaves[0]
	}

	mid := len(leaves) / 2
	return newInternal(buildBalanced(leaves[:mid]), buildBalanced(leaves[mid:]))
}

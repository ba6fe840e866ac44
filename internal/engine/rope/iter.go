package rope

// LeafIterator visits the leaves of a rope in document order.
type LeafIterator struct {
	stack  []*Node
	leaf   *Node
	offset int // rune offset of the current leaf
}

// Leaves returns an iterator over all leaves in the rope, including
// empty leaves left behind by splits at fragment boundaries.
func (r Rope) Leaves() *LeafIterator {
	it := &LeafIterator{stack: make([]*Node, 0, 16)}
	if r.root != nil {
		it.stack = append(it.stack, r.root)
	}
	return it
}

// Next advances to the next leaf.
// Returns true if there is a leaf, false if iteration is complete.
func (it *LeafIterator) Next() bool {
	if len(it.stack) == 0 {
		if it.leaf != nil {
			it.offset += it.leaf.length
			it.leaf = nil
		}
		return false
	}

	n := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]

	// Descend left, deferring right siblings
	for !n.IsLeaf() {
		it.stack = append(it.stack, n.right)
		n = n.left
	}

	if it.leaf != nil {
		it.offset += it.leaf.length
	}
	it.leaf = n
	return true
}

// Node returns the current leaf node.
func (it *LeafIterator) Node() *Node {
	return it.leaf
}

// Text returns the fragment of the current leaf.
func (it *LeafIterator) Text() string {
	if it.leaf == nil {
		return ""
	}
	return it.leaf.text
}

// Len returns the rune length of the current leaf.
func (it *LeafIterator) Len() int {
	if it.leaf == nil {
		return 0
	}
	return it.leaf.length
}

// Offset returns the rune offset of the start of the current leaf.
func (it *LeafIterator) Offset() int {
	return it.offset
}

// Collect returns the remaining non-empty leaves.
func (it *LeafIterator) Collect() []*Node {
	var leaves []*Node
	for it.Next() {
		if it.leaf.length > 0 {
			leaves = append(leaves, it.leaf)
		}
	}
	return leaves
}

package rope

// Maintainer restructures a rope without changing its text.
// Editors run one after each edit to keep tree depth in check.
type Maintainer func(Rope) Rope

// Rebalance returns a height-balanced rope over the same leaves.
// Leaves are shared with the original; empty leaves are dropped.
func (r Rope) Rebalance() Rope {
	if r.root == nil || r.root.IsLeaf() {
		return r
	}
	return Rope{root: buildBalanced(r.Leaves().Collect())}
}

// Flatten rebuilds the rope from its text using fresh, bounded leaves.
// Unlike Rebalance it also merges runs of tiny leaves.
func (r Rope) Flatten() Rope {
	b := NewBuilder()
	_, _ = r.WriteTo(b)
	return b.Build()
}

// DepthRebalancer returns a Maintainer that rebalances a rope only when its
// depth exceeds maxDepth. A maxDepth of zero or less disables it.
func DepthRebalancer(maxDepth int) Maintainer {
	return func(r Rope) Rope {
		if maxDepth <= 0 || r.Depth() <= maxDepth {
			return r
		}
		return r.Rebalance()
	}
}

// Chain runs maintainers in order.
func Chain(ms ...Maintainer) Maintainer {
	return func(r Rope) Rope {
		for _, m := range ms {
			if m != nil {
				r = m(r)
			}
		}
		return r
	}
}

// Package rope provides a persistent rope for text storage and editing.
//
// A rope is a binary tree whose leaves hold text fragments. Every internal
// node caches its weight, the rune length of its left subtree, and routes
// index lookups by comparing the index against that weight.
//
// Key properties:
//   - All positions are code point (rune) indices, never byte offsets
//   - Operations return new ropes; existing ropes and nodes are never modified
//   - Unchanged subtrees are shared between the old and new rope after an edit
//   - Out-of-range indices are clamped; no operation returns an error
//
// Basic usage:
//
//	r := rope.FromString("hello world")
//	r = r.Insert(5, ",")   // "hello, world"
//	r = r.Delete(0, 7)     // "world"
//	text := r.String()     // "world"
//
// Split and Concat never rebalance. Trees built by many small edits grow
// deep; callers that care can run Rebalance, Flatten, or a Maintainer such as
// DepthRebalancer between edits.
package rope

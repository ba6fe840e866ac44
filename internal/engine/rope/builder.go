package rope

import (
	"io"
	"strings"
	"unicode/utf8"
)

// Leaf size constants used when the rope builds its own leaves
// (Builder, FromReader, Flatten). FromString always makes one leaf.
const (
	// MinLeafSize is the preferred minimum bytes per leaf (except the last).
	MinLeafSize = 128

	// MaxLeafSize is the maximum bytes per built leaf.
	MaxLeafSize = 256

	// TargetLeafSize is the preferred leaf size when building.
	TargetLeafSize = (MinLeafSize + MaxLeafSize) / 2
)

// Builder provides efficient incremental construction of a rope.
// It buffers writes and builds a balanced tree when Build is called.
type Builder struct {
	leaves   []*Node
	buffer   strings.Builder
	totalLen int
}

// NewBuilder creates a new rope builder.
func NewBuilder() *Builder {
	return &Builder{
		leaves: make([]*Node, 0, 64),
	}
}

// WriteString appends a string to the builder.
func (b *Builder) WriteString(s string) (int, error) {
	if len(s) == 0 {
		return 0, nil
	}

	b.totalLen += len(s)
	b.buffer.WriteString(s)

	if b.buffer.Len() >= MaxLeafSize*2 {
		b.flush(false)
	}
	return len(s), nil
}

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (int, error) {
	return b.WriteString(string(p))
}

// WriteRune appends a single rune.
func (b *Builder) WriteRune(r rune) (int, error) {
	n, err := b.buffer.WriteRune(r)
	b.totalLen += n
	return n, err
}

// flush moves buffered text into leaves. Unless final, a trailing
// incomplete UTF-8 sequence stays buffered for the next write.
func (b *Builder) flush(final bool) {
	if b.buffer.Len() == 0 {
		return
	}

	s := b.buffer.String()
	cut := len(s)
	if !final {
		cut = completePrefix(s)
	}
	b.buffer.Reset()
	b.buffer.WriteString(s[cut:])

	for _, part := range splitIntoLeaves(s[:cut]) {
		b.leaves = append(b.leaves, newLeaf(part))
	}
}

// Len returns the total number of bytes written.
func (b *Builder) Len() int {
	return b.totalLen
}

// Reset clears the builder for reuse.
func (b *Builder) Reset() {
	b.leaves = b.leaves[:0]
	b.buffer.Reset()
	b.totalLen = 0
}

// Build creates the rope from accumulated text.
// After calling Build, the builder is reset.
func (b *Builder) Build() Rope {
	b.flush(true)

	if len(b.leaves) == 0 {
		b.Reset()
		return New()
	}

	leaves := make([]*Node, len(b.leaves))
	copy(leaves, b.leaves)
	b.Reset()

	return Rope{root: buildBalanced(leaves)}
}

// ReadFrom implements io.ReaderFrom.
func (b *Builder) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, 64*1024)
	var total int64

	for {
		n, err := r.Read(buf)
		if n > 0 {
			_, _ = b.WriteString(string(buf[:n]))
			total += int64(n)
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// completePrefix returns the length of the longest prefix of s that does
// not end inside a multi-byte sequence.
func completePrefix(s string) int {
	for i := len(s) - 1; i >= 0 && i >= len(s)-utf8.UTFMax; i-- {
		if utf8.RuneStart(s[i]) {
			if utf8.FullRuneInString(s[i:]) {
				return len(s)
			}
			return i
		}
	}
	return len(s)
}

// splitIntoLeaves cuts s into pieces no larger than MaxLeafSize bytes.
func splitIntoLeaves(s string) []string {
	if len(s) == 0 {
		return nil
	}
	if len(s) <= MaxLeafSize {
		return []string{s}
	}

	var parts []string
	remaining := s
	for len(remaining) > 0 {
		if len(remaining) <= MaxLeafSize {
			parts = append(parts, remaining)
			break
		}

		cut := findLeafBoundary(remaining, TargetLeafSize)
		parts = append(parts, remaining[:cut])
		remaining = remaining[cut:]
	}
	return parts
}

// findLeafBoundary finds a UTF-8 boundary near target.
// It prefers splitting after a newline if one is close by.
func findLeafBoundary(s string, target int) int {
	if target >= len(s) {
		return len(s)
	}

	searchStart := max(target-MinLeafSize/4, 1)
	searchEnd := min(target+MinLeafSize/4, len(s))

	for i := target; i < searchEnd; i++ {
		if s[i] == '\n' {
			return i + 1
		}
	}
	for i := target - 1; i >= searchStart; i-- {
		if s[i] == '\n' {
			return i + 1
		}
	}

	// No newline nearby; back up to the start of the rune at target
	pos := target
	for pos > 0 && !utf8.RuneStart(s[pos]) {
		pos--
	}
	if pos == 0 {
		pos = target
		for pos < len(s) && !utf8.RuneStart(s[pos]) {
			pos++
		}
	}
	return pos
}

package source

import "strconv"

// Span locates a node inside one document. Documents carry no byte
// positions, so Start is the node's pre-order ordinal in its file and End is
// Start+1. The zero Span within a file points at the document as a whole.
type Span struct {
	File  FileID
	Start uint32
	End   uint32 // exclusive
}

// NodeSpan returns the span of the n-th node of file.
func NodeSpan(file FileID, n uint32) Span {
	return Span{File: file, Start: n, End: n + 1}
}

// Empty reports whether s names no node.
func (s Span) Empty() bool {
	return s.Start == s.End
}

// String renders s as file#node, or file#- for a whole-document span.
func (s Span) String() string {
	prefix := strconv.FormatUint(uint64(s.File), 10) + "#"
	if s.Empty() {
		return prefix + "-"
	}
	return prefix + strconv.FormatUint(uint64(s.Start), 10)
}

// Cover extends s to include other. Spans from different files are left as is.
func (s Span) Cover(other Span) Span {
	if s.File != other.File || other.Empty() {
		return s
	}
	if s.Empty() {
		return other
	}
	s.Start = min(s.Start, other.Start)
	s.End = max(s.End, other.End)
	return s
}

package source

import "testing"

func TestSpanString(t *testing.T) {
	if got := NodeSpan(2, 7).String(); got != "2#7" {
		t.Fatalf("node span: got=%q want=%q", got, "2#7")
	}
	if got := (Span{File: 2}).String(); got != "2#-" {
		t.Fatalf("document span: got=%q want=%q", got, "2#-")
	}
}

func TestSpanCover(t *testing.T) {
	a, b := NodeSpan(1, 3), NodeSpan(1, 8)
	if got := a.Cover(b); got.Start != 3 || got.End != 9 {
		t.Fatalf("cover: got=%+v", got)
	}
	if got := (Span{File: 1}).Cover(b); got != b {
		t.Fatalf("empty span should take the other: got=%+v", got)
	}
	if got := a.Cover(NodeSpan(2, 0)); got != a {
		t.Fatalf("cross-file cover must not change s: got=%+v", got)
	}
}

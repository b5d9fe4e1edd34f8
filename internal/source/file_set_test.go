package source

import "testing"

func TestFileSetResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("main.play", []byte("let a = 1;\nlet b = 2;\n\nprintln(b);"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{4, LineCol{Line: 1, Col: 5}},
		{10, LineCol{Line: 1, Col: 11}}, // the newline itself
		{11, LineCol{Line: 2, Col: 1}},
		{22, LineCol{Line: 3, Col: 1}},
		{23, LineCol{Line: 4, Col: 1}},
	}
	for _, tt := range tests {
		got, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if got != tt.want {
			t.Fatalf("offset %d: expected %+v, got %+v", tt.off, tt.want, got)
		}
	}
}

func TestFileSetNormalizesCRLFAndBOM(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("crlf.play", []byte("\xEF\xBB\xBFa;\r\nb;\r\n"))
	f := fs.Get(id)
	if string(f.Content) != "a;\nb;\n" {
		t.Fatalf("unexpected content %q", f.Content)
	}
	if got := f.GetLine(2); got != "b;" {
		t.Fatalf("expected line 2 %q, got %q", "b;", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Fatalf("expected empty line for out-of-range, got %q", got)
	}
}

func TestFileSetLatestPath(t *testing.T) {
	fs := NewFileSet()
	first := fs.AddVirtual("dir/../x.play", []byte("1;"))
	second := fs.AddVirtual("x.play", []byte("2;"))
	if first == second {
		t.Fatalf("expected distinct file IDs")
	}
	got, ok := fs.GetLatest("./x.play")
	if !ok || got != second {
		t.Fatalf("expected latest id %d, got %d (ok=%v)", second, got, ok)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 12}
	if got := a.Cover(b); got != (Span{File: 1, Start: 5, End: 20}) {
		t.Fatalf("unexpected cover %v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Fatalf("spans from different files must not merge, got %v", got)
	}
}

func TestSpanContains(t *testing.T) {
	outer := Span{File: 1, Start: 5, End: 20}
	cases := []struct {
		inner Span
		want  bool
	}{
		{Span{File: 1, Start: 5, End: 20}, true},
		{Span{File: 1, Start: 6, End: 6}, true},
		{Span{File: 1, Start: 4, End: 10}, false},
		{Span{File: 1, Start: 10, End: 21}, false},
		{Span{File: 2, Start: 6, End: 7}, false},
	}
	for _, tc := range cases {
		if got := outer.Contains(tc.inner); got != tc.want {
			t.Fatalf("Contains(%v) = %v, want %v", tc.inner, got, tc.want)
		}
	}
}

func TestFileText(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("t.play", []byte("let abc = 1;")))
	if got := f.Text(Span{Start: 4, End: 7}); got != "abc" {
		t.Fatalf("text = %q", got)
	}
	if got := f.Text(Span{Start: 10, End: 99}); got != "1;" {
		t.Fatalf("clamped text = %q", got)
	}
	if f.Flags&FileVirtual == 0 || f.Flags&FileNormalizedCRLF != 0 {
		t.Fatalf("flags = %b", f.Flags)
	}
}

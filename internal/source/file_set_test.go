package source

import (
	"testing"
)

func TestKindForPath(t *testing.T) {
	cases := []struct {
		path string
		want Kind
	}{
		{"app.js", KindScript},
		{"mod.MJS", KindScript},
		{"legacy.cjs", KindScript},
		{"view.jsx", KindScript},
		{"style.css", KindStylesheet},
		{"README.md", KindUnknown},
		{"noext", KindUnknown},
	}
	for _, tc := range cases {
		if got := KindForPath(tc.path); got != tc.want {
			t.Errorf("KindForPath(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestToLineCol(t *testing.T) {
	content := []byte("ab\ncd\n\nxyz")
	idx := buildLineIndex(content)

	cases := []struct {
		off  uint32
		line uint32
		col  uint32
	}{
		{0, 1, 1},  // 'a'
		{1, 1, 2},  // 'b'
		{2, 1, 3},  // '\n' still belongs to line 1
		{3, 2, 1},  // 'c'
		{4, 2, 2},  // 'd'
		{6, 3, 1},  // empty line
		{7, 4, 1},  // 'x'
		{9, 4, 3},  // 'z'
		{10, 4, 4}, // one past the end
	}
	for _, tc := range cases {
		got := toLineCol(idx, tc.off)
		if got.Line != tc.line || got.Col != tc.col {
			t.Errorf("toLineCol(off=%d) = %d:%d, want %d:%d", tc.off, got.Line, got.Col, tc.line, tc.col)
		}
	}
}

func TestToLineColSingleLine(t *testing.T) {
	got := toLineCol(nil, 5)
	if got.Line != 1 || got.Col != 6 {
		t.Errorf("toLineCol(nil, 5) = %d:%d, want 1:6", got.Line, got.Col)
	}
}

func TestAddVirtualNormalizes(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("buf.js", KindUnknown, []byte("\xEF\xBB\xBFlet a = 1;\r\nlet b = 2;\r\n"))
	f := fs.Get(id)

	if f.Kind != KindScript {
		t.Fatalf("expected script kind, got %v", f.Kind)
	}
	if f.GetLine(1) != "let a = 1;" {
		t.Errorf("line 1 = %q", f.GetLine(1))
	}
	if f.GetLine(2) != "let b = 2;" {
		t.Errorf("line 2 = %q", f.GetLine(2))
	}
	if f.GetLine(99) != "" {
		t.Errorf("out-of-range line should be empty, got %q", f.GetLine(99))
	}
}

func TestResolveSpan(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("buf.css", KindUnknown, []byte(".a {}\n.b {}\n"))
	span := Span{File: id, Start: 6, End: 8}

	start, end := fs.Resolve(span)
	if start.Line != 2 || start.Col != 1 {
		t.Errorf("start = %d:%d, want 2:1", start.Line, start.Col)
	}
	if end.Line != 2 || end.Col != 3 {
		t.Errorf("end = %d:%d, want 2:3", end.Line, end.Col)
	}
}

package js

import (
	"testing"

	"baselint/internal/source"
)

func parseSrc(t *testing.T, src string) *Node {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.js", source.KindScript, []byte(src))
	return Parse(fs.Get(id))
}

func collect(prog *Node, kind NodeKind) []*Node {
	var out []*Node
	Walk(prog, nil, func(n, _ *Node) {
		if n.Kind == kind {
			out = append(out, n)
		}
	})
	return out
}

func TestParseOptionalChainAndNullish(t *testing.T) {
	prog := parseSrc(t, "const x = a?.b ?? c;")

	members := collect(prog, NodeMember)
	if len(members) != 1 {
		t.Fatalf("got %d member nodes, want 1", len(members))
	}
	m := members[0]
	if !m.Optional {
		t.Error("member must be optional")
	}
	if m.OpSpan.Start != 11 || m.OpSpan.End != 13 {
		t.Errorf("`?.` OpSpan: got [%d,%d), want [11,13)", m.OpSpan.Start, m.OpSpan.End)
	}

	var nullish *Node
	Walk(prog, nil, func(n, _ *Node) {
		if n.Kind == NodeBinary && n.Op == "??" {
			nullish = n
		}
	})
	if nullish == nil {
		t.Fatal("no ?? binary node")
	}
	if nullish.OpSpan.Start != 15 || nullish.OpSpan.End != 17 {
		t.Errorf("`??` OpSpan: got [%d,%d), want [15,17)", nullish.OpSpan.Start, nullish.OpSpan.End)
	}
}

func TestParseOptionalCallAndIndex(t *testing.T) {
	prog := parseSrc(t, "obj?.method?.(1); arr?.[0];")

	calls := collect(prog, NodeCall)
	if len(calls) != 1 || !calls[0].Optional {
		t.Fatalf("want one optional call, got %v", calls)
	}
	var optionalMembers int
	for _, m := range collect(prog, NodeMember) {
		if m.Optional {
			optionalMembers++
		}
	}
	if optionalMembers != 2 {
		t.Errorf("got %d optional members, want 2", optionalMembers)
	}
}

func TestParseNullishPrecedence(t *testing.T) {
	// ?? binds looser than || here structurally: a || b оказывается левым
	// операндом. Нам важна лишь фиксация самого оператора.
	prog := parseSrc(t, "const v = (a || b) ?? c;")
	var found bool
	Walk(prog, nil, func(n, _ *Node) {
		if n.Kind == NodeBinary && n.Op == "??" {
			found = true
		}
	})
	if !found {
		t.Error("?? not recorded")
	}
}

func TestParseLogicalAssignments(t *testing.T) {
	prog := parseSrc(t, "a ||= 1; b &&= 2; c ??= 3;")
	ops := map[string]bool{}
	Walk(prog, nil, func(n, _ *Node) {
		if n.Kind == NodeBinary {
			ops[n.Op] = true
		}
	})
	for _, op := range []string{"||=", "&&=", "??="} {
		if !ops[op] {
			t.Errorf("missing %s node", op)
		}
	}
}

func TestParseClassWithPrivateMembers(t *testing.T) {
	src := `class Counter {
  #count = 0;
  static #instances = 0;
  #bump() { this.#count++; }
  get value() { return this.#count; }
}`
	prog := parseSrc(t, src)

	classes := collect(prog, NodeClass)
	if len(classes) != 1 || classes[0].Name != "Counter" {
		t.Fatalf("class not parsed: %v", classes)
	}

	fields := collect(prog, NodeClassField)
	if len(fields) != 2 {
		t.Fatalf("got %d class fields, want 2", len(fields))
	}
	var staticFields int
	for _, f := range fields {
		if f.Key.Kind != NodePrivateIdent {
			t.Errorf("field key kind: got %v", f.Key.Kind)
		}
		if f.Static {
			staticFields++
		}
	}
	if staticFields != 1 {
		t.Errorf("got %d static fields, want 1", staticFields)
	}

	methods := collect(prog, NodeClassMethod)
	if len(methods) != 2 {
		t.Fatalf("got %d methods, want 2", len(methods))
	}
	privRefs := collect(prog, NodePrivateIdent)
	// 2 поля + ключ метода + три обращения this.#count
	if len(privRefs) < 5 {
		t.Errorf("got %d private idents, want at least 5", len(privRefs))
	}
}

func TestParseAwaitInsideAndOutsideFunctions(t *testing.T) {
	src := `const data = await fetch(url);
async function load() { await fetch(url); }
const f = async () => { await g(); };`
	prog := parseSrc(t, src)

	type hit struct {
		inFunction bool
	}
	var hits []hit

	depth := 0
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.Kind == NodeAwait {
			hits = append(hits, hit{inFunction: depth > 0})
		}
		enter := n.Kind == NodeFunction
		if enter {
			depth++
		}
		for _, c := range []*Node{n.Object, n.Prop, n.Callee, n.Left, n.Right, n.Operand, n.Test, n.Cons, n.Alt, n.Key, n.Value} {
			walk(c)
		}
		for _, c := range n.Args {
			walk(c)
		}
		for _, c := range n.Body {
			walk(c)
		}
		if enter {
			depth--
		}
	}
	walk(prog)

	if len(hits) != 3 {
		t.Fatalf("got %d await nodes, want 3", len(hits))
	}
	if hits[0].inFunction {
		t.Error("first await is top-level")
	}
	if !hits[1].inFunction || !hits[2].inFunction {
		t.Error("awaits 2 and 3 are inside functions")
	}
}

func TestParseAwaitInParenGroups(t *testing.T) {
	// await в заголовке if/while и в группирующих скобках строит NodeAwait.
	cases := []struct {
		src  string
		want int
	}{
		{"if (await ready()) { run(); }", 1},
		{"while (await poll()) {}", 1},
		{"const x = (await f());", 1},
		{"for await (const c of chunks) {}", 1},
	}
	for _, tc := range cases {
		prog := parseSrc(t, tc.src)
		if got := len(collect(prog, NodeAwait)); got != tc.want {
			t.Errorf("%q: got %d await nodes, want %d", tc.src, got, tc.want)
		}
	}
}

func TestParseDynamicImport(t *testing.T) {
	prog := parseSrc(t, `const mod = await import("./mod.js");`)
	imports := collect(prog, NodeImportCall)
	if len(imports) != 1 {
		t.Fatalf("got %d import calls, want 1", len(imports))
	}
	if len(imports[0].Args) != 1 || imports[0].Args[0].Kind != NodeLiteral {
		t.Errorf("import call args: %v", imports[0].Args)
	}
}

func TestParseStaticImportSkipped(t *testing.T) {
	prog := parseSrc(t, "import { a } from \"./a.js\";\nconst x = 1;")
	if len(collect(prog, NodeImportCall)) != 0 {
		t.Error("static import must not produce an import call")
	}
	if len(prog.Body) == 0 {
		t.Error("statement after import lost")
	}
}

func TestParseNewWithOptionsObject(t *testing.T) {
	src := `const obs = new IntersectionObserver(cb, { trackVisibility: true, delay: 100 });`
	prog := parseSrc(t, src)

	news := collect(prog, NodeNew)
	if len(news) != 1 {
		t.Fatalf("got %d new nodes, want 1", len(news))
	}
	n := news[0]
	if n.Callee == nil || n.Callee.Kind != NodeIdent || n.Callee.Name != "IntersectionObserver" {
		t.Fatalf("callee: %v", n.Callee)
	}
	if len(n.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(n.Args))
	}

	keys := map[string]bool{}
	Walk(n.Args[1], nil, func(pn, _ *Node) {
		if pn.Kind == NodeProperty {
			keys[pn.Name] = true
		}
	})
	if !keys["trackVisibility"] || !keys["delay"] {
		t.Errorf("option keys not recorded: %v", keys)
	}
}

func TestParseQualifiedNewCallee(t *testing.T) {
	prog := parseSrc(t, "const seg = new Intl.Segmenter('en');")
	news := collect(prog, NodeNew)
	if len(news) != 1 {
		t.Fatalf("got %d new nodes", len(news))
	}
	callee := news[0].Callee
	if callee == nil || callee.Kind != NodeMember {
		t.Fatalf("callee: %v", callee)
	}
	if callee.Object.Name != "Intl" || callee.Prop.Name != "Segmenter" {
		t.Errorf("callee parts: %v.%v", callee.Object.Name, callee.Prop.Name)
	}
	if len(news[0].Args) != 1 {
		t.Errorf("args must bind to new, got %d", len(news[0].Args))
	}
}

func TestParseMethodCallChain(t *testing.T) {
	prog := parseSrc(t, "navigator.clipboard.writeText(text);")
	calls := collect(prog, NodeCall)
	if len(calls) != 1 {
		t.Fatalf("got %d calls", len(calls))
	}
	callee := calls[0].Callee
	if callee.Kind != NodeMember || callee.Prop.Name != "writeText" {
		t.Fatalf("outer member: %v", callee)
	}
	inner := callee.Object
	if inner.Kind != NodeMember || inner.Object.Name != "navigator" || inner.Prop.Name != "clipboard" {
		t.Errorf("inner member: %v", inner)
	}
}

func TestParseArrowFunctions(t *testing.T) {
	prog := parseSrc(t, "const f = (a, b) => a + b; const g = x => ({ y: x });")
	fns := collect(prog, NodeFunction)
	if len(fns) != 2 {
		t.Errorf("got %d functions, want 2", len(fns))
	}
}

func TestParseTemplateInterpolationContents(t *testing.T) {
	prog := parseSrc(t, "const s = `v=${a?.b}`;")
	members := collect(prog, NodeMember)
	if len(members) != 1 || !members[0].Optional {
		t.Errorf("optional member inside template lost: %v", members)
	}
}

func TestParseGarbageRecovers(t *testing.T) {
	// Мусор не должен ни паниковать, ни зацикливаться.
	cases := []string{
		"const = = =;",
		"} } ) ] ;;;",
		"class { {",
		"`unterminated ${",
		"a?.",
	}
	for _, src := range cases {
		prog := parseSrc(t, src)
		if prog == nil || prog.Kind != NodeProgram {
			t.Errorf("%q: no program returned", src)
		}
	}
}

func TestParseEmptyProgram(t *testing.T) {
	prog := parseSrc(t, "// only a comment\n")
	if len(prog.Body) != 0 {
		t.Errorf("got %d statements, want 0", len(prog.Body))
	}
}

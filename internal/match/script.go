package match

import (
	"strings"

	"baselint/internal/catalog"
	"baselint/internal/js"
	"baselint/internal/source"
	"baselint/internal/suppress"
)

// Script traverses a parsed script tree once and emits raw occurrences.
// Suppressed lines emit nothing.
func Script(file *source.File, prog *js.Node, cat *catalog.Catalog, sup suppress.Set) []Occurrence {
	m := &scriptMatcher{file: file, cat: cat, sup: sup}
	m.walk(prog, nil, 0)
	return m.out
}

type scriptMatcher struct {
	file *source.File
	cat  *catalog.Catalog
	sup  suppress.Set
	out  []Occurrence
}

func (m *scriptMatcher) emit(off uint32, id string) {
	occ := newOccurrence(m.file, m.cat, off, id)
	if m.sup.Has(occ.Line) {
		return
	}
	m.out = append(m.out, occ)
}

// walk visits every node depth-first in source order, tracking the function
// nesting depth for the top-level await rule.
func (m *scriptMatcher) walk(n, parent *js.Node, fnDepth int) {
	if n == nil {
		return
	}
	m.visit(n, parent, fnDepth)

	depth := fnDepth
	if n.Kind == js.NodeFunction {
		depth++
	}
	for _, c := range [...]*js.Node{n.Object, n.Prop, n.Callee} {
		m.walk(c, n, depth)
	}
	for _, c := range n.Args {
		m.walk(c, n, depth)
	}
	for _, c := range [...]*js.Node{n.Left, n.Right, n.Operand, n.Test, n.Cons, n.Alt, n.Key, n.Value} {
		m.walk(c, n, depth)
	}
	for _, c := range n.Body {
		m.walk(c, n, depth)
	}
}

func (m *scriptMatcher) visit(n, parent *js.Node, fnDepth int) {
	switch n.Kind {
	case js.NodeMember:
		m.matchChain(n, parent)
		m.matchMemberAccess(n, parent)

	case js.NodeCall:
		m.matchChain(n, parent)
		m.matchCall(n)

	case js.NodeNew:
		m.matchConstructor(n)

	case js.NodeBinary:
		switch n.Op {
		case "??":
			m.emit(n.OpSpan.Start, "nullish-coalescing")
		case "&&=", "||=", "??=":
			m.emit(n.OpSpan.Start, "logical-assignments")
		}

	case js.NodeAwait:
		if fnDepth == 0 {
			m.emit(n.OpSpan.Start, "top-level-await")
		}

	case js.NodeImportCall:
		m.emit(n.OpSpan.Start, "dynamic-import")

	case js.NodeClassField:
		if n.Key != nil && n.Key.Kind == js.NodePrivateIdent {
			m.emit(n.Key.Span.Start, "private-class-fields")
		}

	case js.NodeClassMethod:
		if n.Key != nil && n.Key.Kind == js.NodePrivateIdent {
			m.emit(n.Key.Span.Start, "private-class-methods")
		}

	case js.NodePrivateIdent:
		// Обращение вида obj.#field; ключи полей и методов учитывает их
		// родительское правило.
		if parent != nil && parent.Kind == js.NodeMember && parent.Prop == n {
			m.emit(n.Span.Start, "private-field-access")
		}
	}
}

// matchChain emits exactly one occurrence per maximal optional chain. A node
// whose immediate parent continues the same chain stays silent: отчитывается
// вершина цепочки.
func (m *scriptMatcher) matchChain(n, parent *js.Node) {
	if !chainHasOptional(n) {
		return
	}
	if isChainLink(parent, n) {
		return
	}
	m.emit(deepestOptionalOp(n).Start, "optional-chaining")
}

// chainHasOptional reports whether any link on the member/call spine below n
// (including n) was reached through `?.`.
func chainHasOptional(n *js.Node) bool {
	for cur := n; cur != nil; cur = spineChild(cur) {
		if cur.Optional {
			return true
		}
	}
	return false
}

// deepestOptionalOp returns the span of the innermost `?.` token on the spine.
func deepestOptionalOp(n *js.Node) source.Span {
	var span source.Span
	for cur := n; cur != nil; cur = spineChild(cur) {
		if cur.Optional {
			span = cur.OpSpan
		}
	}
	return span
}

func spineChild(n *js.Node) *js.Node {
	switch n.Kind {
	case js.NodeMember:
		return n.Object
	case js.NodeCall:
		return n.Callee
	}
	return nil
}

// isChainLink reports whether parent extends the member/call spine through n.
// Computed property expressions and call arguments are separate chains.
func isChainLink(parent, n *js.Node) bool {
	if parent == nil {
		return false
	}
	switch parent.Kind {
	case js.NodeMember:
		return parent.Object == n
	case js.NodeCall:
		return parent.Callee == n
	}
	return false
}

func (m *scriptMatcher) matchCall(n *js.Node) {
	callee := n.Callee
	if callee == nil {
		return
	}
	qual := qualifiedName(callee)
	method := ""
	if callee.Kind == js.NodeMember && !callee.Computed && callee.Prop != nil && callee.Prop.Kind == js.NodeIdent {
		method = callee.Prop.Name
	}

	// Фиксированные API важнее общих таблиц.
	if id := priorityCallFeature(qual, method); id != "" {
		m.emit(callee.Span.Start, id)
		return
	}
	if qual != "" {
		if id, ok := catalog.ScriptCalls[qual]; ok {
			m.emit(callee.Span.Start, id)
			return
		}
	}
	if method != "" {
		if id, ok := catalog.ScriptMethods[method]; ok {
			m.emit(callee.Prop.Span.Start, id)
		}
	}
}

// priorityCallFeature maps a small fixed set of dialog/clipboard/sharing/
// typed-style-map APIs ahead of the generic tables.
func priorityCallFeature(qual, method string) string {
	name := strings.TrimPrefix(qual, "window.")
	switch name {
	case "showOpenFilePicker", "showSaveFilePicker", "showDirectoryPicker":
		return "file-system-access"
	case "navigator.share", "navigator.canShare":
		return "web-share"
	}
	if strings.HasPrefix(name, "navigator.clipboard.") {
		return "async-clipboard"
	}
	switch method {
	case "attributeStyleMap", "computedStyleMap":
		return "css-typed-om"
	}
	return ""
}

// matchMemberAccess catches typed-style-map property access that is not
// a direct call (el.attributeStyleMap.set(...)).
func (m *scriptMatcher) matchMemberAccess(n, parent *js.Node) {
	if n.Computed || n.Prop == nil || n.Prop.Kind != js.NodeIdent {
		return
	}
	switch n.Prop.Name {
	case "attributeStyleMap", "computedStyleMap":
		// Когда этот member — callee вызова, отчитается правило вызова.
		if parent != nil && parent.Kind == js.NodeCall && parent.Callee == n {
			return
		}
		m.emit(n.Prop.Span.Start, "css-typed-om")
	}
}

func (m *scriptMatcher) matchConstructor(n *js.Node) {
	if n.Callee == nil {
		return
	}
	name := qualifiedName(n.Callee)
	if name == "" {
		return
	}
	if name == "IntersectionObserver" && hasObserverV2Options(n.Args) {
		m.emit(n.Callee.Span.Start, "intersection-observer-v2")
		return
	}
	if id, ok := catalog.Constructors[name]; ok {
		m.emit(n.Callee.Span.Start, id)
	}
}

// hasObserverV2Options detects the v2 observer by its option keys.
func hasObserverV2Options(args []*js.Node) bool {
	for _, arg := range args {
		if arg == nil || arg.Kind != js.NodeObject {
			continue
		}
		for _, prop := range arg.Body {
			if prop.Kind == js.NodeProperty && (prop.Name == "trackVisibility" || prop.Name == "delay") {
				return true
			}
		}
	}
	return false
}

// qualifiedName renders an object chain plus property name ("a.b.c") for
// table lookups. Computed access and non-ident links yield "".
func qualifiedName(n *js.Node) string {
	switch n.Kind {
	case js.NodeIdent:
		return n.Name
	case js.NodeMember:
		if n.Computed || n.Prop == nil || n.Prop.Kind != js.NodeIdent {
			return ""
		}
		obj := qualifiedName(n.Object)
		if obj == "" {
			return ""
		}
		return obj + "." + n.Prop.Name
	}
	return ""
}

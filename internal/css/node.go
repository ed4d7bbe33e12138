package css

import "baselint/internal/source"

// NodeKind classifies stylesheet nodes.
type NodeKind uint8

const (
	NodeRule   NodeKind = iota // selector { ... }
	NodeAtRule                 // @name params [{ ... }]
	NodeDecl                   // prop: value
)

func (k NodeKind) String() string {
	switch k {
	case NodeRule:
		return "Rule"
	case NodeAtRule:
		return "AtRule"
	case NodeDecl:
		return "Decl"
	}
	return "Unknown"
}

// Node is one positioned stylesheet construct. Field roles depend on Kind.
type Node struct {
	Kind NodeKind
	Span source.Span

	// Rule
	Selector string
	SelSpan  source.Span

	// AtRule: Name без '@', Params — всё до '{' или ';'
	Name     string
	NameSpan source.Span
	Params   string

	// Decl
	Prop     string
	PropSpan source.Span
	Value    string
	ValSpan  source.Span

	Body []*Node // Rule/AtRule children: declarations and nested rules
}

// Walk visits every node depth-first in document order.
func Walk(nodes []*Node, visit func(*Node)) {
	for _, n := range nodes {
		visit(n)
		Walk(n.Body, visit)
	}
}

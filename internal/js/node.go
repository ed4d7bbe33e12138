package js

import "baselint/internal/source"

// NodeKind is the closed set of structural node variants. Matchers dispatch
// on it with exhaustive switches.
type NodeKind uint8

const (
	NodeProgram NodeKind = iota
	NodeIdent
	NodePrivateIdent
	NodeLiteral
	NodeTemplate
	NodeMember
	NodeCall
	NodeNew
	NodeImportCall
	NodeBinary
	NodeUnary
	NodeConditional
	NodeAwait
	NodeFunction
	NodeClass
	NodeClassField
	NodeClassMethod
	NodeObject
	NodeProperty
	NodeArray
	NodeSpread
	NodeSequence
)

func (k NodeKind) String() string {
	switch k {
	case NodeProgram:
		return "Program"
	case NodeIdent:
		return "Ident"
	case NodePrivateIdent:
		return "PrivateIdent"
	case NodeLiteral:
		return "Literal"
	case NodeTemplate:
		return "Template"
	case NodeMember:
		return "Member"
	case NodeCall:
		return "Call"
	case NodeNew:
		return "New"
	case NodeImportCall:
		return "ImportCall"
	case NodeBinary:
		return "Binary"
	case NodeUnary:
		return "Unary"
	case NodeConditional:
		return "Conditional"
	case NodeAwait:
		return "Await"
	case NodeFunction:
		return "Function"
	case NodeClass:
		return "Class"
	case NodeClassField:
		return "ClassField"
	case NodeClassMethod:
		return "ClassMethod"
	case NodeObject:
		return "Object"
	case NodeProperty:
		return "Property"
	case NodeArray:
		return "Array"
	case NodeSpread:
		return "Spread"
	case NodeSequence:
		return "Sequence"
	}
	return "Unknown"
}

// Node is one positioned structural tree node. Field roles depend on Kind;
// unused fields stay zero.
type Node struct {
	Kind NodeKind
	Span source.Span

	// OpSpan pins the token of interest: the `?.`, the `??`, the `await`
	// keyword, the `import` keyword of a dynamic import.
	OpSpan source.Span

	Optional bool   // Member/Call reached through ?.
	Computed bool   // Member with [expr] property
	Static   bool   // class member modifier
	Op       string // Binary/Unary operator text
	Name     string // Ident name or literal property key

	Object *Node   // Member: receiver
	Prop   *Node   // Member: property (Ident, PrivateIdent or computed expr)
	Callee *Node   // Call/New
	Args   []*Node // Call/New arguments

	Left  *Node // Binary
	Right *Node // Binary

	Operand *Node // Unary/Await/Spread

	Test *Node // Conditional
	Cons *Node
	Alt  *Node

	Key   *Node // Property/ClassField/ClassMethod
	Value *Node // Property/ClassField initializer, ClassMethod function

	Body []*Node // Program/Function/Class/Object/Array/Template/Sequence children
}

// Walk visits every node of the tree exactly once, depth-first, passing the
// immediate parent. The visitor never mutates the tree.
func Walk(n *Node, parent *Node, visit func(n, parent *Node)) {
	if n == nil {
		return
	}
	visit(n, parent)

	children := [...]*Node{n.Object, n.Prop, n.Callee, n.Left, n.Right, n.Operand, n.Test, n.Cons, n.Alt, n.Key, n.Value}
	for _, child := range children {
		Walk(child, n, visit)
	}
	for _, child := range n.Args {
		Walk(child, n, visit)
	}
	for _, child := range n.Body {
		Walk(child, n, visit)
	}
}

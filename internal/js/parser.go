package js

import (
	"strings"

	"baselint/internal/source"
)

// Parser is a tolerant structural parser: it recovers positions and shape,
// skips what it cannot understand, and never fails a unit. Semantic
// correctness of the input is not its job.
type Parser struct {
	lx    *Lexer
	tok   Token
	ahead *Token
}

// Parse builds the structural tree for a script file. Invalid input yields an
// empty program rather than an error: fail soft per unit.
func Parse(file *source.File) (prog *Node) {
	p := &Parser{lx: NewLexer(file)}
	p.next()

	prog = &Node{Kind: NodeProgram, Span: source.Span{File: file.ID}}
	defer func() {
		if r := recover(); r != nil {
			prog = &Node{Kind: NodeProgram, Span: source.Span{File: file.ID}}
		}
	}()

	for p.tok.Kind != TokEOF {
		before := p.tok.Span.Start
		if stmt := p.parseStatement(); stmt != nil {
			prog.Body = append(prog.Body, stmt)
		}
		// Не зациклились? Если правило ничего не съело — двигаемся сами.
		if p.tok.Kind != TokEOF && p.tok.Span.Start == before {
			p.next()
		}
	}
	prog.Span.End = p.tok.Span.End
	return prog
}

func (p *Parser) next() {
	if p.ahead != nil {
		p.tok = *p.ahead
		p.ahead = nil
		return
	}
	p.tok = p.lx.Next()
}

func (p *Parser) peek() Token {
	if p.ahead == nil {
		t := p.lx.Next()
		p.ahead = &t
	}
	return *p.ahead
}

func (p *Parser) eat(text string) bool {
	if p.tok.IsPunct(text) {
		p.next()
		return true
	}
	return false
}

// --- statements ---

func (p *Parser) parseStatement() *Node {
	switch {
	case p.tok.IsPunct(";"):
		p.next()
		return nil

	case p.tok.IsPunct("{"):
		return p.parseBlock()

	case p.tok.Kind == TokKeyword:
		return p.parseKeywordStatement()

	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseKeywordStatement() *Node {
	switch p.tok.Text {
	case "class":
		return p.parseClass()

	case "function":
		return p.parseFunction()

	case "async":
		if p.peek().IsKeyword("function") {
			p.next()
			return p.parseFunction()
		}
		return p.parseExpressionStatement()

	case "const", "let", "var":
		return p.parseVarDecl()

	case "if":
		p.next()
		seq := &Node{Kind: NodeSequence, Span: p.tok.Span}
		p.appendNonNil(seq, p.parseParenGroup())
		p.appendNonNil(seq, p.parseStatement())
		if p.tok.IsKeyword("else") {
			p.next()
			p.appendNonNil(seq, p.parseStatement())
		}
		return seq

	case "for", "while", "switch":
		p.next()
		seq := &Node{Kind: NodeSequence, Span: p.tok.Span}
		p.appendNonNil(seq, p.parseParenGroup())
		p.appendNonNil(seq, p.parseStatement())
		return seq

	case "do":
		p.next()
		seq := &Node{Kind: NodeSequence, Span: p.tok.Span}
		p.appendNonNil(seq, p.parseStatement())
		if p.tok.IsKeyword("while") {
			p.next()
			p.appendNonNil(seq, p.parseParenGroup())
		}
		return seq

	case "try":
		p.next()
		seq := &Node{Kind: NodeSequence, Span: p.tok.Span}
		p.appendNonNil(seq, p.parseStatement())
		return seq

	case "catch":
		p.next()
		seq := &Node{Kind: NodeSequence, Span: p.tok.Span}
		if p.tok.IsPunct("(") {
			p.appendNonNil(seq, p.parseParenGroup())
		}
		p.appendNonNil(seq, p.parseStatement())
		return seq

	case "finally":
		p.next()
		return p.parseStatement()

	case "case":
		p.next()
		expr := p.parseAssign()
		p.eat(":")
		return expr

	case "default":
		p.next()
		p.eat(":")
		return nil

	case "return", "throw":
		p.next()
		if p.tok.IsPunct(";") || p.tok.IsPunct("}") || p.tok.Kind == TokEOF {
			return nil
		}
		return p.parseExpressionStatement()

	case "export":
		p.next()
		if p.tok.IsKeyword("default") {
			p.next()
		}
		if p.tok.IsPunct("{") || p.tok.IsPunct("*") {
			// Re-export list: пропускаем до конца инструкции.
			p.skipUntilStatementEnd()
			return nil
		}
		return p.parseStatement()

	case "import":
		if p.peek().IsPunct("(") || p.peek().IsPunct(".") {
			return p.parseExpressionStatement()
		}
		// Статический импорт структуры не несёт — пропускаем инструкцию.
		p.skipUntilStatementEnd()
		return nil

	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) appendNonNil(seq *Node, n *Node) {
	if n != nil {
		seq.Body = append(seq.Body, n)
		seq.Span = seq.Span.Cover(n.Span)
	}
}

func (p *Parser) parseBlock() *Node {
	seq := &Node{Kind: NodeSequence, Span: p.tok.Span}
	p.next() // '{'
	for !p.tok.IsPunct("}") && p.tok.Kind != TokEOF {
		before := p.tok.Span.Start
		p.appendNonNil(seq, p.parseStatement())
		if !p.tok.IsPunct("}") && p.tok.Kind != TokEOF && p.tok.Span.Start == before {
			p.next()
		}
	}
	seq.Span = seq.Span.Cover(p.tok.Span)
	p.eat("}")
	return seq
}

// parseParenGroup parses a parenthesized region as a loose expression list:
// заголовки for/if/while, параметры catch.
func (p *Parser) parseParenGroup() *Node {
	if !p.tok.IsPunct("(") {
		return nil
	}
	seq := &Node{Kind: NodeSequence, Span: p.tok.Span}
	p.next()
	for !p.tok.IsPunct(")") && p.tok.Kind != TokEOF {
		if p.tok.IsPunct(";") || p.tok.IsPunct(",") {
			p.next()
			continue
		}
		before := p.tok.Span.Start
		if p.tok.Kind == TokKeyword {
			switch p.tok.Text {
			case "const", "let", "var", "in", "of":
				p.next()
				continue
			}
		}
		p.appendNonNil(seq, p.parseAssign())
		if p.tok.Span.Start == before && !p.tok.IsPunct(")") && p.tok.Kind != TokEOF {
			p.next()
		}
	}
	seq.Span = seq.Span.Cover(p.tok.Span)
	p.eat(")")
	return seq
}

func (p *Parser) parseVarDecl() *Node {
	seq := &Node{Kind: NodeSequence, Span: p.tok.Span}
	p.next() // const | let | var

	for {
		// Цель связывания: идентификатор или деструктуризация.
		switch {
		case p.tok.Kind == TokIdent:
			seq.Body = append(seq.Body, &Node{Kind: NodeIdent, Name: p.tok.Text, Span: p.tok.Span})
			p.next()
		case p.tok.IsPunct("{"):
			p.appendNonNil(seq, p.parseObject())
		case p.tok.IsPunct("["):
			p.appendNonNil(seq, p.parseArray())
		}

		if p.eat("=") {
			p.appendNonNil(seq, p.parseAssign())
		}
		if p.tok.IsKeyword("in") || p.tok.IsKeyword("of") {
			// for-in / for-of header
			p.next()
			p.appendNonNil(seq, p.parseAssign())
		}
		if !p.eat(",") {
			break
		}
	}
	p.eat(";")
	return seq
}

func (p *Parser) parseExpressionStatement() *Node {
	expr := p.parseAssign()
	p.eat(";")
	return expr
}

func (p *Parser) skipUntilStatementEnd() {
	for p.tok.Kind != TokEOF {
		if p.tok.IsPunct(";") {
			p.next()
			return
		}
		if p.tok.Kind == TokString {
			// `from "module"` — конец импорта/экспорта
			p.next()
			p.eat(";")
			return
		}
		p.next()
	}
}

// --- expressions ---

var assignOps = map[string]struct{}{
	"=": {}, "+=": {}, "-=": {}, "*=": {}, "/=": {}, "%=": {}, "**=": {},
	"<<=": {}, ">>=": {}, ">>>=": {}, "&=": {}, "|=": {}, "^=": {},
	"&&=": {}, "||=": {}, "??=": {},
}

func (p *Parser) parseAssign() *Node {
	left := p.parseConditional()
	if left == nil {
		return nil
	}

	if p.tok.IsPunct("=>") {
		return p.parseArrowBody(left)
	}

	if p.tok.Kind == TokPunct {
		if _, ok := assignOps[p.tok.Text]; ok {
			op := p.tok
			p.next()
			right := p.parseAssign()
			n := &Node{Kind: NodeBinary, Op: op.Text, OpSpan: op.Span, Left: left, Right: right, Span: left.Span}
			if right != nil {
				n.Span = n.Span.Cover(right.Span)
			}
			return n
		}
	}
	return left
}

// parseArrowBody wraps already-parsed params into a function node. Arrow
// functions are the one construct recognized after the fact.
func (p *Parser) parseArrowBody(params *Node) *Node {
	fn := &Node{Kind: NodeFunction, Span: params.Span}
	fn.Args = append(fn.Args, params)
	p.next() // '=>'
	if p.tok.IsPunct("{") {
		block := p.parseBlock()
		fn.Body = block.Body
		fn.Span = fn.Span.Cover(block.Span)
	} else if body := p.parseAssign(); body != nil {
		fn.Body = append(fn.Body, body)
		fn.Span = fn.Span.Cover(body.Span)
	}
	return fn
}

func (p *Parser) parseConditional() *Node {
	cond := p.parseBinary(1)
	if cond == nil {
		return nil
	}
	if p.tok.IsPunct("?") {
		p.next()
		n := &Node{Kind: NodeConditional, Test: cond, Span: cond.Span}
		n.Cons = p.parseAssign()
		p.eat(":")
		n.Alt = p.parseAssign()
		if n.Alt != nil {
			n.Span = n.Span.Cover(n.Alt.Span)
		}
		return n
	}
	return cond
}

// binPrec returns the precedence of a binary operator token, 0 for none.
func binPrec(tok Token) (prec int, rightAssoc bool) {
	if tok.Kind == TokKeyword {
		if tok.Text == "in" || tok.Text == "instanceof" {
			return 8, false
		}
		return 0, false
	}
	if tok.Kind != TokPunct {
		return 0, false
	}
	switch tok.Text {
	case "??":
		return 1, false
	case "||":
		return 2, false
	case "&&":
		return 3, false
	case "|":
		return 4, false
	case "^":
		return 5, false
	case "&":
		return 6, false
	case "==", "!=", "===", "!==":
		return 7, false
	case "<", ">", "<=", ">=":
		return 8, false
	case "<<", ">>", ">>>":
		return 9, false
	case "+", "-":
		return 10, false
	case "*", "/", "%":
		return 11, false
	case "**":
		return 12, true
	}
	return 0, false
}

func (p *Parser) parseBinary(minPrec int) *Node {
	left := p.parseUnary()
	if left == nil {
		return nil
	}
	for {
		prec, rightAssoc := binPrec(p.tok)
		if prec == 0 || prec < minPrec {
			return left
		}
		op := p.tok
		p.next()
		nextMin := prec + 1
		if rightAssoc {
			nextMin = prec
		}
		right := p.parseBinary(nextMin)
		n := &Node{Kind: NodeBinary, Op: op.Text, OpSpan: op.Span, Left: left, Right: right, Span: left.Span}
		if right != nil {
			n.Span = n.Span.Cover(right.Span)
		}
		left = n
	}
}

func (p *Parser) parseUnary() *Node {
	if p.tok.IsKeyword("await") {
		op := p.tok
		p.next()
		operand := p.parseUnary()
		n := &Node{Kind: NodeAwait, OpSpan: op.Span, Operand: operand, Span: op.Span}
		if operand != nil {
			n.Span = n.Span.Cover(operand.Span)
		}
		return n
	}
	if p.tok.IsKeyword("typeof") || p.tok.IsKeyword("void") || p.tok.IsKeyword("delete") || p.tok.IsKeyword("yield") {
		op := p.tok
		p.next()
		operand := p.parseUnary()
		n := &Node{Kind: NodeUnary, Op: op.Text, OpSpan: op.Span, Operand: operand, Span: op.Span}
		if operand != nil {
			n.Span = n.Span.Cover(operand.Span)
		}
		return n
	}
	if p.tok.Kind == TokPunct {
		switch p.tok.Text {
		case "!", "~", "+", "-", "++", "--":
			op := p.tok
			p.next()
			operand := p.parseUnary()
			n := &Node{Kind: NodeUnary, Op: op.Text, OpSpan: op.Span, Operand: operand, Span: op.Span}
			if operand != nil {
				n.Span = n.Span.Cover(operand.Span)
			}
			return n
		}
	}

	expr := p.parseCallChain(p.parsePrimaryOrNew())
	if expr == nil {
		return nil
	}
	for p.tok.IsPunct("++") || p.tok.IsPunct("--") {
		expr = &Node{Kind: NodeUnary, Op: p.tok.Text, OpSpan: p.tok.Span, Operand: expr, Span: expr.Span.Cover(p.tok.Span)}
		p.next()
	}
	return expr
}

func (p *Parser) parsePrimaryOrNew() *Node {
	if p.tok.IsKeyword("new") {
		newTok := p.tok
		p.next()
		if p.tok.IsPunct(".") {
			// new.target
			p.next()
			n := &Node{Kind: NodeIdent, Name: "new." + p.tok.Text, Span: newTok.Span.Cover(p.tok.Span)}
			p.next()
			return n
		}
		callee := p.parseMemberChain(p.parsePrimaryOrNew())
		n := &Node{Kind: NodeNew, Callee: callee, OpSpan: newTok.Span, Span: newTok.Span}
		if callee != nil {
			n.Span = n.Span.Cover(callee.Span)
		}
		if p.tok.IsPunct("(") {
			n.Args = p.parseArgs()
		}
		return n
	}
	return p.parsePrimary()
}

// parseMemberChain parses `.name` / `[expr]` accesses without consuming call
// arguments: точная привязка аргументов к `new`.
func (p *Parser) parseMemberChain(base *Node) *Node {
	for base != nil {
		switch {
		case p.tok.IsPunct("."):
			p.next()
			prop := p.parsePropName()
			if prop == nil {
				return base
			}
			base = &Node{Kind: NodeMember, Object: base, Prop: prop, Span: base.Span.Cover(prop.Span)}
		case p.tok.IsPunct("["):
			p.next()
			idx := p.parseAssign()
			p.eat("]")
			base = &Node{Kind: NodeMember, Object: base, Prop: idx, Computed: true, Span: base.Span}
		default:
			return base
		}
	}
	return base
}

func (p *Parser) parseCallChain(base *Node) *Node {
	for base != nil {
		switch {
		case p.tok.IsPunct("."):
			p.next()
			prop := p.parsePropName()
			if prop == nil {
				return base
			}
			base = &Node{Kind: NodeMember, Object: base, Prop: prop, Span: base.Span.Cover(prop.Span)}

		case p.tok.IsPunct("?."):
			op := p.tok
			p.next()
			switch {
			case p.tok.IsPunct("("):
				args := p.parseArgs()
				base = &Node{Kind: NodeCall, Callee: base, Args: args, Optional: true, OpSpan: op.Span, Span: base.Span.Cover(op.Span)}
			case p.tok.IsPunct("["):
				p.next()
				idx := p.parseAssign()
				p.eat("]")
				base = &Node{Kind: NodeMember, Object: base, Prop: idx, Computed: true, Optional: true, OpSpan: op.Span, Span: base.Span.Cover(op.Span)}
			default:
				prop := p.parsePropName()
				if prop == nil {
					return base
				}
				base = &Node{Kind: NodeMember, Object: base, Prop: prop, Optional: true, OpSpan: op.Span, Span: base.Span.Cover(prop.Span)}
			}

		case p.tok.IsPunct("("):
			args := p.parseArgs()
			base = &Node{Kind: NodeCall, Callee: base, Args: args, Span: base.Span.Cover(p.tok.Span)}

		case p.tok.Kind == TokTemplate:
			// Tagged template
			tmpl := p.parseTemplate()
			base = &Node{Kind: NodeCall, Callee: base, Args: []*Node{tmpl}, Span: base.Span.Cover(tmpl.Span)}

		default:
			return base
		}
	}
	return base
}

func (p *Parser) parsePropName() *Node {
	switch p.tok.Kind {
	case TokIdent, TokKeyword:
		n := &Node{Kind: NodeIdent, Name: p.tok.Text, Span: p.tok.Span}
		p.next()
		return n
	case TokPrivate:
		n := &Node{Kind: NodePrivateIdent, Name: p.tok.Text, Span: p.tok.Span}
		p.next()
		return n
	}
	return nil
}

func (p *Parser) parseArgs() []*Node {
	var args []*Node
	p.next() // '('
	for !p.tok.IsPunct(")") && p.tok.Kind != TokEOF {
		if p.eat(",") {
			continue
		}
		before := p.tok.Span.Start
		if p.tok.IsPunct("...") {
			op := p.tok
			p.next()
			operand := p.parseAssign()
			n := &Node{Kind: NodeSpread, Operand: operand, OpSpan: op.Span, Span: op.Span}
			if operand != nil {
				n.Span = n.Span.Cover(operand.Span)
			}
			args = append(args, n)
		} else if arg := p.parseAssign(); arg != nil {
			args = append(args, arg)
		}
		if p.tok.Span.Start == before && !p.tok.IsPunct(")") && p.tok.Kind != TokEOF {
			p.next()
		}
	}
	p.eat(")")
	return args
}

func (p *Parser) parsePrimary() *Node {
	switch p.tok.Kind {
	case TokIdent:
		n := &Node{Kind: NodeIdent, Name: p.tok.Text, Span: p.tok.Span}
		p.next()
		return n

	case TokPrivate:
		n := &Node{Kind: NodePrivateIdent, Name: p.tok.Text, Span: p.tok.Span}
		p.next()
		return n

	case TokNumber, TokString, TokRegex:
		n := &Node{Kind: NodeLiteral, Name: p.tok.Text, Span: p.tok.Span}
		p.next()
		return n

	case TokTemplate:
		return p.parseTemplate()

	case TokKeyword:
		return p.parseKeywordPrimary()

	case TokPunct:
		switch p.tok.Text {
		case "(":
			group := p.parseParenGroup()
			return group
		case "[":
			return p.parseArray()
		case "{":
			return p.parseObject()
		}
	}
	return nil
}

func (p *Parser) parseKeywordPrimary() *Node {
	switch p.tok.Text {
	case "this", "super", "async", "of", "static":
		// async/of/static контекстные: в позиции выражения это имена.
		n := &Node{Kind: NodeIdent, Name: p.tok.Text, Span: p.tok.Span}
		p.next()
		return n

	case "function":
		return p.parseFunction()

	case "class":
		return p.parseClass()

	case "import":
		importTok := p.tok
		p.next()
		if p.tok.IsPunct("(") {
			args := p.parseArgs()
			return &Node{Kind: NodeImportCall, Args: args, OpSpan: importTok.Span, Span: importTok.Span}
		}
		return &Node{Kind: NodeIdent, Name: "import", Span: importTok.Span}

	case "new":
		return p.parsePrimaryOrNew()
	}
	return nil
}

func (p *Parser) parseTemplate() *Node {
	tmpl := &Node{Kind: NodeTemplate, Span: p.tok.Span}
	for p.tok.Kind == TokTemplate {
		chunk := p.tok
		tmpl.Body = append(tmpl.Body, &Node{Kind: NodeLiteral, Name: chunk.Text, Span: chunk.Span})
		tmpl.Span = tmpl.Span.Cover(chunk.Span)
		opensInterp := strings.HasSuffix(chunk.Text, "${")
		p.next()
		if !opensInterp {
			break
		}
		if expr := p.parseAssign(); expr != nil {
			tmpl.Body = append(tmpl.Body, expr)
			tmpl.Span = tmpl.Span.Cover(expr.Span)
		}
		if !p.tok.IsPunct("}") {
			break
		}
		p.next() // '}' возобновляет сканирование шаблона
	}
	return tmpl
}

func (p *Parser) parseArray() *Node {
	arr := &Node{Kind: NodeArray, Span: p.tok.Span}
	p.next() // '['
	for !p.tok.IsPunct("]") && p.tok.Kind != TokEOF {
		if p.eat(",") {
			continue
		}
		before := p.tok.Span.Start
		if p.tok.IsPunct("...") {
			op := p.tok
			p.next()
			operand := p.parseAssign()
			arr.Body = append(arr.Body, &Node{Kind: NodeSpread, Operand: operand, OpSpan: op.Span, Span: op.Span})
		} else if el := p.parseAssign(); el != nil {
			arr.Body = append(arr.Body, el)
		}
		if p.tok.Span.Start == before && !p.tok.IsPunct("]") && p.tok.Kind != TokEOF {
			p.next()
		}
	}
	arr.Span = arr.Span.Cover(p.tok.Span)
	p.eat("]")
	return arr
}

func (p *Parser) parseObject() *Node {
	obj := &Node{Kind: NodeObject, Span: p.tok.Span}
	p.next() // '{'
	for !p.tok.IsPunct("}") && p.tok.Kind != TokEOF {
		if p.eat(",") || p.eat(";") {
			continue
		}
		before := p.tok.Span.Start
		if p.tok.IsPunct("...") {
			p.next()
			if operand := p.parseAssign(); operand != nil {
				obj.Body = append(obj.Body, &Node{Kind: NodeSpread, Operand: operand, Span: operand.Span})
			}
			continue
		}
		if prop := p.parseObjectProperty(); prop != nil {
			obj.Body = append(obj.Body, prop)
		}
		if p.tok.Span.Start == before && !p.tok.IsPunct("}") && p.tok.Kind != TokEOF {
			p.next()
		}
	}
	obj.Span = obj.Span.Cover(p.tok.Span)
	p.eat("}")
	return obj
}

func (p *Parser) parseObjectProperty() *Node {
	prop := &Node{Kind: NodeProperty, Span: p.tok.Span}

	// Модификаторы методов: async, get, set, * — только если дальше снова имя.
	for {
		if p.tok.IsPunct("*") {
			p.next()
			continue
		}
		if (p.tok.IsKeyword("async") || p.tok.Is(TokIdent, "get") || p.tok.Is(TokIdent, "set")) &&
			(p.peek().Kind == TokIdent || p.peek().Kind == TokString || p.peek().Kind == TokNumber || p.peek().Kind == TokKeyword || p.peek().IsPunct("[")) {
			p.next()
			continue
		}
		break
	}

	switch {
	case p.tok.Kind == TokIdent || p.tok.Kind == TokKeyword:
		prop.Key = &Node{Kind: NodeIdent, Name: p.tok.Text, Span: p.tok.Span}
		prop.Name = p.tok.Text
		p.next()
	case p.tok.Kind == TokString || p.tok.Kind == TokNumber:
		prop.Key = &Node{Kind: NodeLiteral, Name: p.tok.Text, Span: p.tok.Span}
		prop.Name = strings.Trim(p.tok.Text, `"'`)
		p.next()
	case p.tok.IsPunct("["):
		p.next()
		prop.Key = p.parseAssign()
		prop.Computed = true
		p.eat("]")
	default:
		return nil
	}

	switch {
	case p.eat(":"):
		prop.Value = p.parseAssign()
	case p.tok.IsPunct("("):
		// Метод объекта
		fn := &Node{Kind: NodeFunction, Span: prop.Span}
		fn.Args = p.parseArgs()
		if p.tok.IsPunct("{") {
			block := p.parseBlock()
			fn.Body = block.Body
			fn.Span = fn.Span.Cover(block.Span)
		}
		prop.Value = fn
	case p.eat("="):
		// Деструктуризация со значением по умолчанию
		prop.Value = p.parseAssign()
	default:
		prop.Value = prop.Key
	}
	if prop.Value != nil {
		prop.Span = prop.Span.Cover(prop.Value.Span)
	}
	return prop
}

func (p *Parser) parseFunction() *Node {
	fn := &Node{Kind: NodeFunction, Span: p.tok.Span}
	p.next() // 'function'
	p.eat("*")
	if p.tok.Kind == TokIdent {
		fn.Name = p.tok.Text
		p.next()
	}
	if p.tok.IsPunct("(") {
		fn.Args = p.parseArgs()
	}
	if p.tok.IsPunct("{") {
		block := p.parseBlock()
		fn.Body = block.Body
		fn.Span = fn.Span.Cover(block.Span)
	}
	return fn
}

func (p *Parser) parseClass() *Node {
	cls := &Node{Kind: NodeClass, Span: p.tok.Span}
	p.next() // 'class'
	if p.tok.Kind == TokIdent {
		cls.Name = p.tok.Text
		p.next()
	}
	if p.tok.IsKeyword("extends") {
		p.next()
		cls.Callee = p.parseCallChain(p.parsePrimary())
	}
	if !p.tok.IsPunct("{") {
		return cls
	}
	p.next()

	for !p.tok.IsPunct("}") && p.tok.Kind != TokEOF {
		if p.eat(";") {
			continue
		}
		before := p.tok.Span.Start
		if member := p.parseClassMember(); member != nil {
			cls.Body = append(cls.Body, member)
		}
		if p.tok.Span.Start == before && !p.tok.IsPunct("}") && p.tok.Kind != TokEOF {
			p.next()
		}
	}
	cls.Span = cls.Span.Cover(p.tok.Span)
	p.eat("}")
	return cls
}

func (p *Parser) parseClassMember() *Node {
	static := false

	// Модификаторы: static, async, get/set, *
	for {
		if p.tok.IsKeyword("static") && !p.peek().IsPunct("(") && !p.peek().IsPunct("=") {
			static = true
			p.next()
			continue
		}
		if p.tok.IsKeyword("async") && !p.peek().IsPunct("(") && !p.peek().IsPunct("=") {
			p.next()
			continue
		}
		if (p.tok.Is(TokIdent, "get") || p.tok.Is(TokIdent, "set")) &&
			(p.peek().Kind == TokIdent || p.peek().Kind == TokPrivate || p.peek().Kind == TokKeyword || p.peek().IsPunct("[")) {
			p.next()
			continue
		}
		if p.tok.IsPunct("*") {
			p.next()
			continue
		}
		break
	}

	var key *Node
	switch p.tok.Kind {
	case TokIdent, TokKeyword:
		key = &Node{Kind: NodeIdent, Name: p.tok.Text, Span: p.tok.Span}
		p.next()
	case TokPrivate:
		key = &Node{Kind: NodePrivateIdent, Name: p.tok.Text, Span: p.tok.Span}
		p.next()
	case TokString, TokNumber:
		key = &Node{Kind: NodeLiteral, Name: p.tok.Text, Span: p.tok.Span}
		p.next()
	default:
		if p.tok.IsPunct("[") {
			p.next()
			key = p.parseAssign()
			p.eat("]")
		}
	}
	if key == nil {
		return nil
	}

	if p.tok.IsPunct("(") {
		fn := &Node{Kind: NodeFunction, Span: key.Span}
		fn.Args = p.parseArgs()
		if p.tok.IsPunct("{") {
			block := p.parseBlock()
			fn.Body = block.Body
			fn.Span = fn.Span.Cover(block.Span)
		}
		return &Node{Kind: NodeClassMethod, Key: key, Value: fn, Static: static, Span: key.Span.Cover(fn.Span)}
	}

	field := &Node{Kind: NodeClassField, Key: key, Static: static, Span: key.Span}
	if p.eat("=") {
		field.Value = p.parseAssign()
		if field.Value != nil {
			field.Span = field.Span.Cover(field.Value.Span)
		}
	}
	p.eat(";")
	return field
}

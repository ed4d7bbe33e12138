package css

import (
	"strings"

	"baselint/internal/source"
)

// Parse builds the structural tree of a stylesheet. The parser is tolerant:
// junk preludes are dropped, unbalanced braces close at EOF, ничего не падает.
func Parse(file *source.File) []*Node {
	p := &parser{file: file, src: file.Content}
	return p.parseItems(false)
}

type parser struct {
	file *source.File
	src  []byte
	off  uint32
}

func (p *parser) eof() bool { return int(p.off) >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.off]
}

func (p *parser) peekAt(n uint32) byte {
	if int(p.off+n) >= len(p.src) {
		return 0
	}
	return p.src[p.off+n]
}

func (p *parser) parseItems(inBlock bool) []*Node {
	var items []*Node
	for !p.eof() {
		p.skipTrivia()
		if p.eof() {
			return items
		}
		if p.peek() == '}' {
			p.off++
			if inBlock {
				return items
			}
			continue // лишняя '}' на верхнем уровне
		}

		start := p.off
		preludeEnd, term := p.scanPrelude()
		text, tStart, tEnd := trimSpan(p.src, start, preludeEnd)

		switch term {
		case '{':
			p.off++
			body := p.parseItems(true)
			n := p.makeRuleOrAtRule(text, tStart, tEnd)
			if n != nil {
				n.Body = body
				n.Span.End = p.off
				items = append(items, n)
			}

		case ';', '}', 0:
			if term == ';' {
				p.off++
			}
			// '}' остаётся: её обработает верх цикла.
			if text == "" {
				continue
			}
			if strings.HasPrefix(text, "@") {
				n := p.makeRuleOrAtRule(text, tStart, tEnd)
				if n != nil {
					items = append(items, n)
				}
				continue
			}
			if decl := makeDecl(p.file.ID, p.src, tStart, tEnd); decl != nil {
				items = append(items, decl)
			}
		}
	}
	return items
}

// scanPrelude advances to the next ';', '{' or '}' outside parens, brackets,
// strings and comments. The terminator is not consumed.
func (p *parser) scanPrelude() (end uint32, term byte) {
	depth := 0
	for !p.eof() {
		ch := p.peek()
		switch ch {
		case '/':
			if p.peekAt(1) == '*' {
				p.skipComment()
				continue
			}
			p.off++
		case '"', '\'':
			p.skipString(ch)
		case '(', '[':
			depth++
			p.off++
		case ')', ']':
			if depth > 0 {
				depth--
			}
			p.off++
		case '{', ';', '}':
			if depth == 0 {
				return p.off, ch
			}
			p.off++
		default:
			p.off++
		}
	}
	return p.off, 0
}

func (p *parser) makeRuleOrAtRule(text string, tStart, tEnd uint32) *Node {
	if text == "" {
		return nil
	}
	span := source.Span{File: p.file.ID, Start: tStart, End: tEnd}
	if text[0] == '@' {
		nameEnd := 1
		for nameEnd < len(text) && isNameByte(text[nameEnd]) {
			nameEnd++
		}
		n := &Node{
			Kind:     NodeAtRule,
			Span:     span,
			Name:     text[1:nameEnd],
			NameSpan: source.Span{File: p.file.ID, Start: tStart, End: tStart + uint32(nameEnd)},
			Params:   strings.TrimSpace(text[nameEnd:]),
		}
		return n
	}
	return &Node{Kind: NodeRule, Span: span, Selector: text, SelSpan: span}
}

// makeDecl splits `prop: value` at the first top-level colon. Preludes
// without a colon are dropped.
func makeDecl(file source.FileID, src []byte, tStart, tEnd uint32) *Node {
	depth := 0
	colon := uint32(0)
	found := false
	for i := tStart; i < tEnd; i++ {
		switch src[i] {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 && !found {
				colon = i
				found = true
			}
		}
		if found {
			break
		}
	}
	if !found {
		return nil
	}

	prop, pStart, pEnd := trimSpan(src, tStart, colon)
	value, vStart, vEnd := trimSpan(src, colon+1, tEnd)
	if prop == "" {
		return nil
	}
	return &Node{
		Kind:     NodeDecl,
		Span:     source.Span{File: file, Start: tStart, End: tEnd},
		Prop:     prop,
		PropSpan: source.Span{File: file, Start: pStart, End: pEnd},
		Value:    value,
		ValSpan:  source.Span{File: file, Start: vStart, End: vEnd},
	}
}

func (p *parser) skipTrivia() {
	for !p.eof() {
		ch := p.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			p.off++
		case ch == '/' && p.peekAt(1) == '*':
			p.skipComment()
		default:
			return
		}
	}
}

func (p *parser) skipComment() {
	p.off += 2
	for !p.eof() {
		if p.peek() == '*' && p.peekAt(1) == '/' {
			p.off += 2
			return
		}
		p.off++
	}
}

func (p *parser) skipString(quote byte) {
	p.off++
	for !p.eof() {
		ch := p.peek()
		if ch == '\\' {
			p.off += 2
			continue
		}
		p.off++
		if ch == quote || ch == '\n' {
			return
		}
	}
}

// trimSpan strips surrounding whitespace and comments are left as-is inside;
// возвращает текст и границы без пробелов.
func trimSpan(src []byte, start, end uint32) (text string, tStart, tEnd uint32) {
	for start < end && isSpace(src[start]) {
		start++
	}
	for end > start && isSpace(src[end-1]) {
		end--
	}
	return string(src[start:end]), start, end
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isNameByte(ch byte) bool {
	return ch == '-' || ch == '_' ||
		(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

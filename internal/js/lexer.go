package js

import (
	"baselint/internal/source"
)

// Lexer токенизирует скрипт. Шаблонные литералы разбиваются на чанки, чтобы
// выражения внутри ${...} токенизировались как обычный код.
type Lexer struct {
	file *source.File
	src  []byte
	off  uint32

	prev Token // последний значимый токен, нужен для эвристики regex/деления

	// Стек счётчиков фигурных скобок, по одному на активную интерполяцию.
	interp []int
	// После закрытия интерполяции следующий вызов Next продолжает шаблон.
	resumeTemplate bool
}

func NewLexer(file *source.File) *Lexer {
	return &Lexer{file: file, src: file.Content}
}

func (lx *Lexer) eof() bool { return int(lx.off) >= len(lx.src) }

func (lx *Lexer) peek() byte {
	if lx.eof() {
		return 0
	}
	return lx.src[lx.off]
}

func (lx *Lexer) peekAt(n uint32) byte {
	if int(lx.off+n) >= len(lx.src) {
		return 0
	}
	return lx.src[lx.off+n]
}

func (lx *Lexer) span(start uint32) source.Span {
	return source.Span{File: lx.file.ID, Start: start, End: lx.off}
}

func (lx *Lexer) token(kind TokKind, start uint32) Token {
	tok := Token{Kind: kind, Text: string(lx.src[start:lx.off]), Span: lx.span(start)}
	lx.prev = tok
	return tok
}

// Next returns the next significant token. After EOF it always returns EOF.
func (lx *Lexer) Next() Token {
	if lx.resumeTemplate {
		lx.resumeTemplate = false
		return lx.scanTemplateChunk(lx.off)
	}

	lx.skipTrivia()
	if lx.eof() {
		return Token{Kind: TokEOF, Span: lx.span(lx.off)}
	}

	start := lx.off
	ch := lx.peek()

	switch {
	case isIdentStart(ch):
		return lx.scanIdent(start)

	case ch == '#' && isIdentStart(lx.peekAt(1)):
		lx.off++
		lx.scanIdentTail()
		return lx.token(TokPrivate, start)

	case isDigit(ch) || (ch == '.' && isDigit(lx.peekAt(1))):
		return lx.scanNumber(start)

	case ch == '"' || ch == '\'':
		return lx.scanString(start, ch)

	case ch == '`':
		lx.off++
		return lx.scanTemplateChunk(start)

	case ch == '/' && lx.regexAllowed():
		return lx.scanRegex(start)

	default:
		return lx.scanPunct(start)
	}
}

func (lx *Lexer) skipTrivia() {
	for !lx.eof() {
		ch := lx.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			lx.off++
		case ch == '/' && lx.peekAt(1) == '/':
			for !lx.eof() && lx.peek() != '\n' {
				lx.off++
			}
		case ch == '/' && lx.peekAt(1) == '*':
			lx.off += 2
			for !lx.eof() {
				if lx.peek() == '*' && lx.peekAt(1) == '/' {
					lx.off += 2
					break
				}
				lx.off++
			}
		default:
			return
		}
	}
}

func (lx *Lexer) scanIdent(start uint32) Token {
	lx.scanIdentTail()
	tok := lx.token(TokIdent, start)
	if isKeyword(tok.Text) {
		tok.Kind = TokKeyword
		lx.prev = tok
	}
	return tok
}

func (lx *Lexer) scanIdentTail() {
	for !lx.eof() {
		ch := lx.peek()
		if isIdentStart(ch) || isDigit(ch) {
			lx.off++
			continue
		}
		// Non-ASCII identifiers pass through byte-wise; точная классификация
		// юникода здесь не нужна.
		if ch >= 0x80 {
			lx.off++
			continue
		}
		break
	}
}

func (lx *Lexer) scanNumber(start uint32) Token {
	// Префиксы 0x / 0o / 0b
	if lx.peek() == '0' {
		next := lx.peekAt(1)
		if next == 'x' || next == 'X' || next == 'o' || next == 'O' || next == 'b' || next == 'B' {
			lx.off += 2
			for !lx.eof() && (isHex(lx.peek()) || lx.peek() == '_') {
				lx.off++
			}
			if lx.peek() == 'n' {
				lx.off++
			}
			return lx.token(TokNumber, start)
		}
	}

	sawDot := false
	for !lx.eof() {
		ch := lx.peek()
		switch {
		case isDigit(ch) || ch == '_':
			lx.off++
		case ch == '.' && !sawDot && isDigit(lx.peekAt(1)):
			sawDot = true
			lx.off++
		case (ch == 'e' || ch == 'E') && (isDigit(lx.peekAt(1)) || ((lx.peekAt(1) == '+' || lx.peekAt(1) == '-') && isDigit(lx.peekAt(2)))):
			lx.off += 2
		case ch == 'n':
			lx.off++
			return lx.token(TokNumber, start)
		default:
			return lx.token(TokNumber, start)
		}
	}
	return lx.token(TokNumber, start)
}

func (lx *Lexer) scanString(start uint32, quote byte) Token {
	lx.off++
	for !lx.eof() {
		ch := lx.peek()
		if ch == '\\' {
			lx.off += 2
			continue
		}
		lx.off++
		if ch == quote || ch == '\n' {
			// Незакрытая строка обрывается на конце строки; fail soft.
			break
		}
	}
	return lx.token(TokString, start)
}

// scanTemplateChunk scans one literal chunk of a template. It stops at the
// closing backtick or at `${`, opening an interpolation that tokenizes as
// regular code until its matching `}`.
func (lx *Lexer) scanTemplateChunk(start uint32) Token {
	for !lx.eof() {
		ch := lx.peek()
		if ch == '\\' {
			lx.off += 2
			continue
		}
		if ch == '`' {
			lx.off++
			return lx.token(TokTemplate, start)
		}
		if ch == '$' && lx.peekAt(1) == '{' {
			lx.off += 2
			lx.interp = append(lx.interp, 0)
			return lx.token(TokTemplate, start)
		}
		lx.off++
	}
	return lx.token(TokTemplate, start)
}

func (lx *Lexer) scanRegex(start uint32) Token {
	lx.off++
	inClass := false
	for !lx.eof() {
		ch := lx.peek()
		if ch == '\\' {
			lx.off += 2
			continue
		}
		if ch == '\n' {
			break // не regex, но восстанавливаться тут незачем
		}
		lx.off++
		switch ch {
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				// Флаги
				lx.scanIdentTail()
				return lx.token(TokRegex, start)
			}
		}
	}
	return lx.token(TokRegex, start)
}

// regexAllowed реализует стандартную эвристику: после значения `/` — деление,
// иначе — начало регулярного выражения.
func (lx *Lexer) regexAllowed() bool {
	switch lx.prev.Kind {
	case TokIdent, TokNumber, TokString, TokTemplate, TokRegex, TokPrivate:
		return false
	case TokKeyword:
		// `this` и `super` — значения
		return lx.prev.Text != "this" && lx.prev.Text != "super"
	case TokPunct:
		switch lx.prev.Text {
		case ")", "]", "}", "++", "--":
			return false
		}
		return true
	}
	return true
}

var puncts3 = []string{"===", "!==", "**=", "...", "<<=", ">>=", "&&=", "||=", "??=", ">>>"}
var puncts2 = []string{
	"?.", "??", "=>", "==", "!=", "<=", ">=", "&&", "||", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "**", "<<", ">>",
}

func (lx *Lexer) scanPunct(start uint32) Token {
	rest := lx.src[lx.off:]

	if len(rest) >= 4 && string(rest[:4]) == ">>>=" {
		lx.off += 4
		return lx.token(TokPunct, start)
	}
	for _, p := range puncts3 {
		if len(rest) >= 3 && string(rest[:3]) == p {
			lx.off += 3
			return lx.token(TokPunct, start)
		}
	}
	for _, p := range puncts2 {
		if len(rest) >= 2 && string(rest[:2]) == p {
			// `?.` перед цифрой — это тернарный оператор с дробью: a ? .5 : b
			if p == "?." && isDigit(lx.peekAt(2)) {
				break
			}
			lx.off += 2
			return lx.token(TokPunct, start)
		}
	}

	ch := lx.peek()
	lx.off++

	// Учёт скобок внутри интерполяций шаблонов.
	if len(lx.interp) > 0 {
		top := len(lx.interp) - 1
		switch ch {
		case '{':
			lx.interp[top]++
		case '}':
			if lx.interp[top] == 0 {
				lx.interp = lx.interp[:top]
				lx.resumeTemplate = true
			} else {
				lx.interp[top]--
			}
		}
	}

	return lx.token(TokPunct, start)
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ch == '$' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= 0x80
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHex(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

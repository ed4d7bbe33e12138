package js

import "baselint/internal/source"

// TokKind classifies script tokens.
type TokKind uint8

const (
	TokEOF TokKind = iota
	TokIdent
	TokPrivate // #name
	TokKeyword
	TokNumber
	TokString
	TokTemplate // one literal chunk of a template, interpolations tokenize separately
	TokRegex
	TokPunct
)

// Token is one lexical unit with its byte span.
type Token struct {
	Kind TokKind
	Text string
	Span source.Span
}

func (t Token) Is(kind TokKind, text string) bool {
	return t.Kind == kind && t.Text == text
}

func (t Token) IsPunct(text string) bool {
	return t.Is(TokPunct, text)
}

func (t Token) IsKeyword(text string) bool {
	return t.Is(TokKeyword, text)
}

var keywords = map[string]struct{}{
	"class": {}, "function": {}, "await": {}, "import": {}, "new": {},
	"extends": {}, "static": {}, "async": {}, "const": {}, "let": {},
	"var": {}, "if": {}, "else": {}, "for": {}, "while": {}, "do": {},
	"switch": {}, "case": {}, "default": {}, "return": {}, "try": {},
	"catch": {}, "finally": {}, "throw": {}, "typeof": {}, "delete": {},
	"void": {}, "in": {}, "of": {}, "instanceof": {}, "this": {},
	"super": {}, "yield": {}, "export": {},
}

func isKeyword(name string) bool {
	_, ok := keywords[name]
	return ok
}

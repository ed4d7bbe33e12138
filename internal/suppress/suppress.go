// Package suppress resolves inline suppression markers into per-file
// line-exclusion sets. The set is scoped to a single parse call and is
// read-only once built.
package suppress

import (
	"bytes"
	"strings"

	"baselint/internal/source"
)

// Marker is the fixed token recognized inside comments.
const Marker = "baseline-ignore"

// Set holds 1-based suppressed line numbers for one source text.
type Set map[uint32]struct{}

// Has reports whether line is suppressed.
func (s Set) Has(line uint32) bool {
	_, ok := s[line]
	return ok
}

// Resolve scans raw text line by line for the marker in the comment syntax of
// the given source kind. Two placements:
//
//	code(); // baseline-ignore   -> suppresses only that line
//	// baseline-ignore           -> suppresses that line and the following one
func Resolve(content []byte, kind source.Kind) Set {
	set := make(Set)

	var line uint32
	for len(content) > 0 {
		line++
		raw := content
		if idx := bytes.IndexByte(content, '\n'); idx >= 0 {
			raw = content[:idx]
			content = content[idx+1:]
		} else {
			content = nil
		}

		text := string(raw)
		commentStart, ok := markerComment(text, kind)
		if !ok {
			continue
		}

		set[line] = struct{}{}
		if strings.TrimSpace(text[:commentStart]) == "" {
			// Маркер на отдельной строке покрывает и следующую строку.
			set[line+1] = struct{}{}
		}
	}
	return set
}

// markerComment finds a comment on the line that carries the marker and
// returns the byte index where the comment opens. Кавычки прячут и маркер,
// и открытие комментария: строковый литерал — не подавление.
func markerComment(text string, kind source.Kind) (int, bool) {
	markerAt := strings.Index(text, Marker)
	if markerAt < 0 {
		return 0, false
	}

	var quote byte
	for i := 0; i < markerAt; i++ {
		c := text[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '/':
			if i+1 >= len(text) {
				return 0, false
			}
			switch text[i+1] {
			case '*':
				end := strings.Index(text[i+2:], "*/")
				if end < 0 || i+2+end >= markerAt {
					return i, true
				}
				// Комментарий закрылся до маркера — продолжаем после него.
				i += 2 + end + 1
			case '/':
				if kind == source.KindScript {
					return i, true
				}
			}
		}
	}
	return 0, false
}

package source

import (
	"path/filepath"
	"slices"
	"strings"
)

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}
	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/32)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

// toLineCol converts a byte offset into a 1-based line/column pair.
// lineIdx holds the byte offsets of every '\n' in the file.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// бинпоиск: наибольший lineIdx[i] < off
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}

	// hi — индекс последнего перевода строки перед off
	if hi < 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	lineStart := lineIdx[hi] + 1
	return LineCol{Line: uint32(hi + 2), Col: off - lineStart + 1}
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных путях
	return filepath.ToSlash(filepath.Clean(p))
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

package match

import (
	"sort"
	"strings"

	"baselint/internal/catalog"
	"baselint/internal/css"
	"baselint/internal/source"
	"baselint/internal/suppress"
)

// Таблицы с подстрочным поиском обходим в отсортированном порядке ключей,
// иначе порядок вхождений зависит от порядка итерации map.
var (
	pseudoTokens = sortedKeys(catalog.SelectorPseudoClasses)
	valueTokens  = sortedKeys(catalog.ValueTokens)
)

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Stylesheet traverses a parsed stylesheet tree once and emits raw
// occurrences. Suppressed lines emit nothing.
func Stylesheet(file *source.File, nodes []*css.Node, cat *catalog.Catalog, sup suppress.Set) []Occurrence {
	m := &sheetMatcher{file: file, cat: cat, sup: sup}
	css.Walk(nodes, m.visit)
	return m.out
}

type sheetMatcher struct {
	file *source.File
	cat  *catalog.Catalog
	sup  suppress.Set
	out  []Occurrence
}

func (m *sheetMatcher) emit(off uint32, id string) {
	occ := newOccurrence(m.file, m.cat, off, id)
	if m.sup.Has(occ.Line) {
		return
	}
	m.out = append(m.out, occ)
}

func (m *sheetMatcher) visit(n *css.Node) {
	switch n.Kind {
	case css.NodeAtRule:
		if id, ok := catalog.AtRules[n.Name]; ok {
			m.emit(n.NameSpan.Start, id)
		}

	case css.NodeRule:
		m.matchSelector(n)

	case css.NodeDecl:
		m.matchDecl(n)
	}
}

// matchSelector reports every pseudo-class token found in the rule selector,
// one occurrence per token, ordered by position.
func (m *sheetMatcher) matchSelector(n *css.Node) {
	type hit struct {
		idx int
		id  string
	}
	var hits []hit
	for _, token := range pseudoTokens {
		if idx := strings.Index(n.Selector, token); idx >= 0 {
			hits = append(hits, hit{idx: idx, id: catalog.SelectorPseudoClasses[token]})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].idx < hits[j].idx })
	for _, h := range hits {
		m.emit(n.SelSpan.Start+uint32(h.idx), h.id)
	}
}

func (m *sheetMatcher) matchDecl(n *css.Node) {
	matched := false

	if id, ok := catalog.Properties[n.Prop]; ok {
		m.emit(n.PropSpan.Start, id)
		matched = true
	}
	for _, token := range valueTokens {
		if idx := strings.Index(n.Value, token); idx >= 0 {
			m.emit(n.ValSpan.Start+uint32(idx), catalog.ValueTokens[token])
			matched = true
		}
	}
	if matched {
		return
	}

	// Generic probe: hits report only when the feature is not widely
	// supported.
	if id, ok := catalog.Generic["property:"+n.Prop]; ok && m.notWidely(id) {
		m.emit(n.PropSpan.Start, id)
		return
	}
	if id, ok := catalog.Generic["value:"+n.Value]; ok && m.notWidely(id) {
		m.emit(n.ValSpan.Start, id)
	}
}

func (m *sheetMatcher) notWidely(id string) bool {
	f, ok := m.cat.Lookup(id)
	return !ok || f.Status != catalog.StatusWidely
}

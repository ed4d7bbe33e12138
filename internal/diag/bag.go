package diag

import "sort"

// Bag accumulates diagnostics for one scan.
type Bag struct {
	items []Diagnostic
}

func NewBag() *Bag {
	return &Bag{}
}

func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

func (b *Bag) Append(ds ...Diagnostic) {
	b.items = append(b.items, ds...)
}

func (b *Bag) Len() int {
	return len(b.items)
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

// Items returns a read-only view of the accumulated diagnostics.
// Не модифицируйте возвращаемый срез.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// CountBySeverity returns how many diagnostics carry each severity.
func (b *Bag) CountBySeverity() (errors, warnings, infos int) {
	for i := range b.items {
		switch b.items[i].Severity {
		case SevError:
			errors++
		case SevWarning:
			warnings++
		case SevInfo:
			infos++
		}
	}
	return
}

// SortStable orders diagnostics by file, line, column, severity (desc), feature.
// Batch output already follows input-unit order; this is for renderers that
// want a fully deterministic view.
func (b *Bag) SortStable() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.File != dj.File {
			return di.File < dj.File
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Feature < dj.Feature
	})
}

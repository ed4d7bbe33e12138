package diagfmt

import (
	"encoding/json"
	"io"

	"baselint/internal/diag"
)

// Output представляет корневую структуру JSON вывода.
type Output struct {
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	Count       int               `json:"count"`
}

// BuildOutput формирует структуру JSON-вывода без сериализации.
func BuildOutput(bag *diag.Bag, opts JSONOpts) Output {
	items := bag.Items()
	out := make([]diag.Diagnostic, 0, len(items))
	for _, d := range items {
		if opts.NoWarnings && d.Severity < diag.SevError {
			continue
		}
		if opts.Max > 0 && len(out) == opts.Max {
			break
		}
		out = append(out, d)
	}
	return Output{Diagnostics: out, Count: len(out)}
}

// JSON сериализует диагностики как есть: каждая запись - граничный формат
// (file, line, column, feature, message, severity, baseline, browserSupport,
// fixes), пригодный для редакторов и CI.
func JSON(w io.Writer, bag *diag.Bag, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildOutput(bag, opts))
}

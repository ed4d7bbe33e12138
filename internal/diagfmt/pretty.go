// Package diagfmt renders final diagnostics for people and machines:
// pretty (терминал), json (точная граница для интеграций) и table
// (сводка по фичам).
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"baselint/internal/diag"
	"baselint/internal/source"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan, color.Bold)
	dimColor  = color.New(color.Faint)
)

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return errColor
	case diag.SevWarning:
		return warnColor
	default:
		return infoColor
	}
}

// Pretty форматирует диагностики в человекочитаемый вид. Для каждой печатает:
// <path>:<line>:<col>: <SEV> [feature]: <message>
// затем строку-контекст с ^ под колонкой, затем подсказки fixes.
// Завершает сводкой по количеству. Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	restore := color.NoColor
	color.NoColor = !opts.Color
	defer func() { color.NoColor = restore }()

	snips := newSnippetCache(&opts)
	shown := 0
	for _, d := range bag.Items() {
		if opts.NoWarnings && d.Severity < diag.SevError {
			continue
		}
		if opts.Max > 0 && shown == opts.Max {
			fmt.Fprintf(w, "... and more (truncated at %d)\n", opts.Max)
			break
		}
		shown++

		sev := severityColor(d.Severity)
		fmt.Fprintf(w, "%s:%d:%d: %s [%s]: %s\n",
			d.File, d.Line, d.Column,
			sev.Sprint(strings.ToUpper(d.Severity.String())),
			d.Feature, d.Message)

		if line, ok := snips.line(d.File, d.Line); ok {
			fmt.Fprintf(w, "  %s\n", line)
			fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", int(d.Column)), sev.Sprint("^"))
		}
		for _, fix := range d.Fixes {
			hint := fix.Description
			if fix.URL != "" {
				hint += " (" + fix.URL + ")"
			}
			fmt.Fprintf(w, "  %s %s\n", dimColor.Sprint("hint:"), hint)
		}
	}

	errs, warns, infos := bag.CountBySeverity()
	if opts.NoWarnings {
		warns, infos = 0, 0
	}
	if errs+warns+infos == 0 {
		fmt.Fprintln(w, "No baseline issues found.")
		return
	}
	fmt.Fprintf(w, "\n%s, %s, %s\n",
		errColor.Sprintf("%d errors", errs),
		warnColor.Sprintf("%d warnings", warns),
		infoColor.Sprintf("%d infos", infos))
}

// snippetCache хранит по одному source.File на путь в пределах одного
// вызова Pretty, чтобы не перечитывать файл на каждую диагностику.
type snippetCache struct {
	opts *PrettyOpts
	fs   *source.FileSet
	ids  map[string]int64 // path -> FileID, -1 = источник недоступен
}

func newSnippetCache(opts *PrettyOpts) *snippetCache {
	return &snippetCache{
		opts: opts,
		fs:   source.NewFileSet(),
		ids:  make(map[string]int64),
	}
}

// line extracts the 1-based context line. Табы заменяются пробелами,
// чтобы каретка попадала в колонку.
func (c *snippetCache) line(path string, lineNum uint32) (string, bool) {
	if lineNum == 0 {
		return "", false
	}
	id, seen := c.ids[path]
	if !seen {
		content, ok := c.opts.source(path)
		if !ok {
			c.ids[path] = -1
			return "", false
		}
		id = int64(c.fs.AddVirtual(path, source.KindUnknown, content))
		c.ids[path] = id
	}
	if id < 0 {
		return "", false
	}
	text := c.fs.Get(source.FileID(id)).GetLine(lineNum)
	if text == "" {
		return "", false
	}
	return strings.ReplaceAll(text, "\t", " "), true
}

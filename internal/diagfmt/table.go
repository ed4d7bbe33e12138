package diagfmt

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"baselint/internal/diag"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	tableErrStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	tableWarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	tableInfoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

type featureRow struct {
	feature  string
	count    int
	files    int
	worst    diag.Severity
	baseline diag.BaselineState
}

// Table выводит сводку по фичам: сколько вхождений, в скольких файлах,
// худшая серьёзность и baseline-статус. Строки упорядочены по количеству.
func Table(w io.Writer, bag *diag.Bag) {
	rows := summarize(bag.Items())
	if len(rows) == 0 {
		fmt.Fprintln(w, "No baseline issues found.")
		return
	}

	featWidth := len("FEATURE")
	for _, r := range rows {
		if width := runewidth.StringWidth(r.feature); width > featWidth {
			featWidth = width
		}
	}

	header := fmt.Sprintf("%-*s  %6s  %5s  %-8s  %s", featWidth, "FEATURE", "COUNT", "FILES", "SEVERITY", "BASELINE")
	fmt.Fprintln(w, tableHeaderStyle.Render(header))
	fmt.Fprintln(w, strings.Repeat("-", runewidth.StringWidth(header)))

	for _, r := range rows {
		style := tableInfoStyle
		switch r.worst {
		case diag.SevError:
			style = tableErrStyle
		case diag.SevWarning:
			style = tableWarnStyle
		}
		line := fmt.Sprintf("%-*s  %6d  %5d  %-8s  %s",
			featWidth, r.feature, r.count, r.files, r.worst.String(), r.baseline)
		fmt.Fprintln(w, style.Render(line))
	}

	errs, warns, infos := bag.CountBySeverity()
	fmt.Fprintf(w, "\n%d features, %d errors, %d warnings, %d infos\n",
		len(rows), errs, warns, infos)
}

func summarize(items []diag.Diagnostic) []featureRow {
	byFeature := make(map[string]*featureRow)
	filesSeen := make(map[string]map[string]struct{})

	for _, d := range items {
		row, ok := byFeature[d.Feature]
		if !ok {
			row = &featureRow{feature: d.Feature, baseline: d.Baseline}
			byFeature[d.Feature] = row
			filesSeen[d.Feature] = make(map[string]struct{})
		}
		row.count++
		if d.Severity > row.worst {
			row.worst = d.Severity
		}
		filesSeen[d.Feature][d.File] = struct{}{}
	}

	rows := make([]featureRow, 0, len(byFeature))
	for feature, row := range byFeature {
		row.files = len(filesSeen[feature])
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].feature < rows[j].feature
	})
	return rows
}

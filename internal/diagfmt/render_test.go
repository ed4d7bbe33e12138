package diagfmt

import (
	"encoding/json"
	"strings"
	"testing"

	"baselint/internal/diag"
)

func sampleBag() *diag.Bag {
	bag := diag.NewBag()
	bag.Append(
		diag.Diagnostic{
			File: "app.js", Line: 1, Column: 11,
			Feature:  "optional-chaining",
			Message:  "Uses 'Optional chaining' - not yet widely available",
			Severity: diag.SevWarning,
			Baseline: diag.BaselineNo,
			BrowserSupport: []string{
				"chrome 80", "firefox 74", "safari 13.1",
			},
			Fixes: []diag.Fix{{
				Type:        "docs",
				Description: "See the compatibility notes for Optional chaining",
				URL:         "https://example.test/optional-chaining",
			}},
		},
		diag.Diagnostic{
			File: "style.css", Line: 3, Column: 5,
			Feature:  "css-has-selector",
			Message:  "Uses ':has() selector' - limited availability across engines",
			Severity: diag.SevError,
			Baseline: diag.BaselineNo,
		},
		diag.Diagnostic{
			File: "app.js", Line: 2, Column: 0,
			Feature:  "optional-chaining",
			Message:  "Uses 'Optional chaining' - not yet widely available",
			Severity: diag.SevWarning,
			Baseline: diag.BaselineNo,
		},
	)
	return bag
}

func fixedSource(t *testing.T) func(string) ([]byte, bool) {
	t.Helper()
	files := map[string]string{
		"app.js":    "const x = a?.b ?? c;\nb?.c;\n",
		"style.css": "/* top */\n\n.card:has(.x) {}\n",
	}
	return func(path string) ([]byte, bool) {
		content, ok := files[path]
		return []byte(content), ok
	}
}

func TestPrettyLayout(t *testing.T) {
	var buf strings.Builder
	Pretty(&buf, sampleBag(), PrettyOpts{Source: fixedSource(t)})
	out := buf.String()

	for _, want := range []string{
		"app.js:1:11: WARNING [optional-chaining]:",
		"style.css:3:5: ERROR [css-has-selector]:",
		"const x = a?.b ?? c;",
		"hint: See the compatibility notes for Optional chaining (https://example.test/optional-chaining)",
		"1 errors, 2 warnings, 0 infos",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestPrettyCaretColumn(t *testing.T) {
	var buf strings.Builder
	Pretty(&buf, sampleBag(), PrettyOpts{Source: fixedSource(t)})

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		if strings.HasSuffix(line, "const x = a?.b ?? c;") {
			caret := lines[i+1]
			// Column 11 плюс два пробела отступа.
			if got := strings.Index(caret, "^"); got != 13 {
				t.Errorf("caret at %d, want 13 in %q", got, caret)
			}
			return
		}
	}
	t.Fatal("context line not rendered")
}

func TestPrettyNoWarningsKeepsErrorsOnly(t *testing.T) {
	var buf strings.Builder
	Pretty(&buf, sampleBag(), PrettyOpts{Source: fixedSource(t), NoWarnings: true})
	out := buf.String()

	if strings.Contains(out, "optional-chaining") {
		t.Errorf("warning leaked:\n%s", out)
	}
	if !strings.Contains(out, "css-has-selector") {
		t.Errorf("error dropped:\n%s", out)
	}
}

func TestPrettyMaxTruncates(t *testing.T) {
	var buf strings.Builder
	Pretty(&buf, sampleBag(), PrettyOpts{Source: fixedSource(t), Max: 1})
	out := buf.String()

	if !strings.Contains(out, "truncated at 1") {
		t.Errorf("no truncation notice:\n%s", out)
	}
	if strings.Count(out, "WARNING")+strings.Count(out, "ERROR") != 1 {
		t.Errorf("more than one diagnostic rendered:\n%s", out)
	}
}

func TestPrettyMissingSourceSkipsSnippet(t *testing.T) {
	var buf strings.Builder
	Pretty(&buf, sampleBag(), PrettyOpts{
		Source: func(string) ([]byte, bool) { return nil, false },
	})
	if strings.Contains(buf.String(), "^") {
		t.Errorf("caret rendered without content:\n%s", buf.String())
	}
}

func TestPrettyEmptyBag(t *testing.T) {
	var buf strings.Builder
	Pretty(&buf, diag.NewBag(), PrettyOpts{})
	if !strings.Contains(buf.String(), "No baseline issues found.") {
		t.Errorf("got %q", buf.String())
	}
}

func TestJSONBoundaryRecord(t *testing.T) {
	var buf strings.Builder
	if err := JSON(&buf, sampleBag(), JSONOpts{}); err != nil {
		t.Fatal(err)
	}

	var out struct {
		Diagnostics []map[string]any `json:"diagnostics"`
		Count       int              `json:"count"`
	}
	if err := json.Unmarshal([]byte(buf.String()), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Count != 3 || len(out.Diagnostics) != 3 {
		t.Fatalf("count %d, records %d", out.Count, len(out.Diagnostics))
	}

	first := out.Diagnostics[0]
	if first["file"] != "app.js" || first["line"] != float64(1) || first["column"] != float64(11) {
		t.Errorf("position fields: %+v", first)
	}
	if first["severity"] != "warning" || first["baseline"] != "no" {
		t.Errorf("classification fields: %+v", first)
	}
	if _, ok := first["browserSupport"]; !ok {
		t.Errorf("browserSupport missing: %+v", first)
	}
	// fixes omitted when empty.
	if _, ok := out.Diagnostics[1]["fixes"]; ok {
		t.Errorf("empty fixes serialized: %+v", out.Diagnostics[1])
	}
}

func TestJSONRoundTripsDiagnostics(t *testing.T) {
	var buf strings.Builder
	if err := JSON(&buf, sampleBag(), JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	var out Output
	if err := json.Unmarshal([]byte(buf.String()), &out); err != nil {
		t.Fatal(err)
	}
	if out.Diagnostics[0].Severity != diag.SevWarning {
		t.Errorf("severity %v", out.Diagnostics[0].Severity)
	}
	if out.Diagnostics[1].Feature != "css-has-selector" {
		t.Errorf("feature %s", out.Diagnostics[1].Feature)
	}
}

func TestJSONNoWarnings(t *testing.T) {
	out := BuildOutput(sampleBag(), JSONOpts{NoWarnings: true})
	if out.Count != 1 || out.Diagnostics[0].Severity != diag.SevError {
		t.Errorf("got %+v", out)
	}
}

func TestTableSummary(t *testing.T) {
	var buf strings.Builder
	Table(&buf, sampleBag())
	out := buf.String()

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if !strings.Contains(lines[0], "FEATURE") {
		t.Errorf("header: %q", lines[0])
	}
	// optional-chaining встречается дважды, идёт первым.
	if !strings.Contains(lines[2], "optional-chaining") || !strings.Contains(lines[2], "2") {
		t.Errorf("first row: %q", lines[2])
	}
	if !strings.Contains(lines[3], "css-has-selector") || !strings.Contains(lines[3], "error") {
		t.Errorf("second row: %q", lines[3])
	}
	if !strings.Contains(out, "2 features, 1 errors, 2 warnings, 0 infos") {
		t.Errorf("summary missing:\n%s", out)
	}
}

func TestTableEmpty(t *testing.T) {
	var buf strings.Builder
	Table(&buf, diag.NewBag())
	if !strings.Contains(buf.String(), "No baseline issues found.") {
		t.Errorf("got %q", buf.String())
	}
}

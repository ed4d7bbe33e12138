package driver

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"baselint/internal/catalog"
	"baselint/internal/diag"
	"baselint/internal/source"
)

func scanContent(t *testing.T, path, content string, opts Options) []diag.Diagnostic {
	t.Helper()
	units := []Unit{{Path: path, Content: []byte(content)}}
	diags, err := Scan(context.Background(), units, opts)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	return diags
}

func TestScanOptionalChainAndNullishEndToEnd(t *testing.T) {
	diags := scanContent(t, "app.js", "const x = a?.b ?? c;", Options{})

	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %+v", len(diags), diags)
	}
	want := map[string]bool{"optional-chaining": false, "nullish-coalescing": false}
	for _, d := range diags {
		want[d.Feature] = true
		if d.Severity != diag.SevWarning {
			t.Errorf("%s: severity %v, want warning", d.Feature, d.Severity)
		}
		if d.Baseline != diag.BaselineNo {
			t.Errorf("%s: baseline %q, want no", d.Feature, d.Baseline)
		}
		if d.File != "app.js" || d.Line != 1 {
			t.Errorf("%s: position %s:%d", d.Feature, d.File, d.Line)
		}
	}
	for feature, seen := range want {
		if !seen {
			t.Errorf("missing %s", feature)
		}
	}
}

func TestScanHasSelectorWithRuleOverride(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "baseline.config.json")
	cfgDoc := `{"rules": {"css-has-selector": {"severity": "error"}}}`
	if err := os.WriteFile(cfgPath, []byte(cfgDoc), 0o600); err != nil {
		t.Fatal(err)
	}

	diags := scanContent(t, "style.css", ".card:has(.x) {}", Options{ConfigPath: cfgPath})

	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics: %+v", len(diags), diags)
	}
	if diags[0].Feature != "css-has-selector" || diags[0].Severity != diag.SevError {
		t.Errorf("got %s/%v, want css-has-selector/error", diags[0].Feature, diags[0].Severity)
	}
}

func TestScanAwaitInControlFlowHeaders(t *testing.T) {
	cases := []string{
		"if (await ready()) { run(); }",
		"const x = (await f());",
		"await ready();",
	}
	for _, src := range cases {
		diags := scanContent(t, "app.js", src, Options{})
		if len(diags) != 1 || diags[0].Feature != "top-level-await" {
			t.Errorf("%q: got %+v, want one top-level-await", src, diags)
		}
	}
}

func TestScanEmptyAndCommentOnlyInputs(t *testing.T) {
	cases := []Unit{
		{Path: "a.js", Content: []byte("")},
		{Path: "b.js", Content: []byte("// just a comment\n")},
		{Path: "c.css", Content: []byte("/* just a comment */\n")},
	}
	diags, err := Scan(context.Background(), cases, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 0 {
		t.Errorf("got %+v, want none", diags)
	}
}

func TestScanWidelyNeverReported(t *testing.T) {
	diags := scanContent(t, "app.js", "fetch(url); const v = arr.flat();", Options{})
	for _, d := range diags {
		if d.Feature == "fetch" || d.Feature == "array-flat" {
			t.Errorf("widely feature %s reported", d.Feature)
		}
	}
}

func TestScanUnknownFeatureReportedAsUnknown(t *testing.T) {
	// Каталог без array-at: табличный матч даёт id, которого нет в реестре.
	cat, err := catalog.New([]catalog.Feature{
		{ID: "placeholder", Name: "x", Status: catalog.StatusWidely},
	})
	if err != nil {
		t.Fatal(err)
	}

	diags := scanContent(t, "app.js", "arr.at(-1);", Options{Catalog: cat})

	if len(diags) != 1 {
		t.Fatalf("got %+v, want one diagnostic", diags)
	}
	if diags[0].Feature != "array-at" {
		t.Errorf("feature %s", diags[0].Feature)
	}
	if diags[0].Severity != diag.SevWarning {
		t.Errorf("severity %v, want warning", diags[0].Severity)
	}
	if diags[0].Baseline != diag.BaselineUnknown {
		t.Errorf("baseline %q, want unknown", diags[0].Baseline)
	}
}

func TestScanIdempotence(t *testing.T) {
	units := []Unit{
		{Path: "a.js", Content: []byte("const x = a?.b ?? c;\nclass T { #v = 1; }\n")},
		{Path: "b.css", Content: []byte(".a:has(.b) { aspect-ratio: 1; }\n")},
	}
	first, err := Scan(context.Background(), units, Options{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := Scan(context.Background(), units, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("runs differ:\n%+v\n%+v", first, second)
	}
}

func TestScanOutputFollowsUnitOrder(t *testing.T) {
	units := []Unit{
		{Path: "z.js", Content: []byte("const a = x ?? y;")},
		{Path: "a.js", Content: []byte("const b = p?.q;")},
	}
	diags, err := Scan(context.Background(), units, Options{Jobs: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 2 {
		t.Fatalf("got %+v", diags)
	}
	if diags[0].File != "z.js" || diags[1].File != "a.js" {
		t.Errorf("order: %s, %s", diags[0].File, diags[1].File)
	}
}

func TestScanSuppressionEndToEnd(t *testing.T) {
	src := "// baseline-ignore\nconst a = x?.y;\nconst b = p ?? q;\n"
	diags := scanContent(t, "app.js", src, Options{})

	if len(diags) != 1 || diags[0].Feature != "nullish-coalescing" {
		t.Errorf("got %+v, want only the nullish diagnostic", diags)
	}
}

func TestScanIgnoreOverrideDropsOccurrences(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, ".baseline.json")
	cfgDoc := `{"severity": {"features": {"optional-chaining": "ignore"}}}`
	if err := os.WriteFile(cfgPath, []byte(cfgDoc), 0o600); err != nil {
		t.Fatal(err)
	}

	diags := scanContent(t, "app.js", "const x = a?.b ?? c;", Options{ConfigPath: cfgPath})
	if len(diags) != 1 || diags[0].Feature != "nullish-coalescing" {
		t.Errorf("got %+v", diags)
	}
}

func TestScanUnreadableFileContinuesBatch(t *testing.T) {
	units := []Unit{
		{Path: filepath.Join(t.TempDir(), "missing.js")},
		{Path: "ok.js", Content: []byte("const x = a ?? b;")},
	}
	diags, err := Scan(context.Background(), units, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 1 || diags[0].File != "ok.js" {
		t.Errorf("got %+v", diags)
	}
}

func TestScanInvalidConfigIsFatal(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "baseline.config.json")
	if err := os.WriteFile(cfgPath, []byte(`{"baseline": {"target": "soon"}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Scan(context.Background(), []Unit{{Path: "a.js", Content: []byte("1;")}}, Options{ConfigPath: cfgPath})
	if err == nil {
		t.Fatal("schema violations must fail the run")
	}
}

func TestScanKindHintOverridesExtension(t *testing.T) {
	units := []Unit{{
		Path:    "inline-styles",
		Content: []byte(".a:has(.b) {}"),
		Kind:    source.KindStylesheet,
	}}
	diags, err := Scan(context.Background(), units, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 1 || diags[0].Feature != "css-has-selector" {
		t.Errorf("got %+v", diags)
	}
}

func TestScanUnknownKindYieldsNothing(t *testing.T) {
	diags := scanContent(t, "notes.txt", "const x = a?.b;", Options{})
	if len(diags) != 0 {
		t.Errorf("got %+v", diags)
	}
}

func TestScanPathsExpandsDirectories(t *testing.T) {
	dir := t.TempDir()
	mustWrite := func(rel, content string) {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	mustWrite("src/app.js", "const x = a?.b;")
	mustWrite("node_modules/dep/index.js", "const y = c?.d;")
	mustWrite("readme.md", "# not scanned")

	diags, err := ScanPaths(context.Background(), []string{dir}, Options{Root: dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 1 {
		t.Fatalf("got %+v", diags)
	}
	if filepath.Base(diags[0].File) != "app.js" {
		t.Errorf("file %s", diags[0].File)
	}
}

func TestScanDiskCacheRoundTrip(t *testing.T) {
	cache := &DiskCache{dir: t.TempDir()}
	opts := Options{Cache: cache}

	first := scanContent(t, "app.js", "const x = a?.b ?? c;", opts)
	second := scanContent(t, "app.js", "const x = a?.b ?? c;", opts)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached run differs:\n%+v\n%+v", first, second)
	}
	if len(second) != 2 {
		t.Errorf("got %+v", second)
	}
}

func TestScanProgressEvents(t *testing.T) {
	var (
		mu    sync.Mutex
		count int
	)
	units := []Unit{
		{Path: "a.js", Content: []byte("1;")},
		{Path: "b.js", Content: []byte("2;")},
	}
	_, err := Scan(context.Background(), units, Options{
		Jobs: 2,
		Progress: func(e Event) {
			mu.Lock()
			count++
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("got %d progress events, want 2", count)
	}
}

package diagfmt

import "os"

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color bool
	// Source resolves a diagnostic path to its content for the context line.
	// nil falls back to reading the path from disk; a miss skips the snippet.
	Source func(path string) ([]byte, bool)
	// NoWarnings drops info and warning diagnostics from the output.
	NoWarnings bool
	// Max обрезает вывод, не сам список. 0 - без ограничения.
	Max int
}

func (o *PrettyOpts) source(path string) ([]byte, bool) {
	if o.Source != nil {
		return o.Source(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	Max        int // обрезка вывода, не Bag
	NoWarnings bool
}

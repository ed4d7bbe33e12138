package diag

// BaselineState classifies a reported feature relative to the active target.
// Baseline features are never reported, so diagnostics only ever carry
// BaselineNo or BaselineUnknown.
type BaselineState string

const (
	BaselineYes     BaselineState = "yes"
	BaselineNo      BaselineState = "no"
	BaselineUnknown BaselineState = "unknown"
)

// Fix is a remediation hint attached to a diagnostic.
type Fix struct {
	Type        string `json:"type" msgpack:"type"`
	Description string `json:"description" msgpack:"description"`
	URL         string `json:"url,omitempty" msgpack:"url,omitempty"`
}

// Diagnostic is the boundary record handed to every consumer
// (CLI renderers, editors, CI integrations).
type Diagnostic struct {
	File           string        `json:"file" msgpack:"file"`
	Line           uint32        `json:"line" msgpack:"line"`     // 1-based
	Column         uint32        `json:"column" msgpack:"column"` // 0-based
	Feature        string        `json:"feature" msgpack:"feature"`
	Message        string        `json:"message" msgpack:"message"`
	Severity       Severity      `json:"severity" msgpack:"severity"`
	Baseline       BaselineState `json:"baseline" msgpack:"baseline"`
	BrowserSupport []string      `json:"browserSupport" msgpack:"browserSupport"`
	Fixes          []Fix         `json:"fixes,omitempty" msgpack:"fixes,omitempty"`
}

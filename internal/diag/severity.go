package diag

import (
	"encoding/json"
	"fmt"
)

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// ParseSeverity converts a config-file severity value into a Severity.
func ParseSeverity(v string) (Severity, error) {
	switch v {
	case "info":
		return SevInfo, nil
	case "warning":
		return SevWarning, nil
	case "error":
		return SevError, nil
	}
	return SevWarning, fmt.Errorf("unknown severity %q", v)
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	sev, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

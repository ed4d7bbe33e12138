// Package match turns structural trees into raw feature occurrences. One
// matcher per source kind; every rule is local to a node and its immediate
// parent, никакого сквозного состояния между проходами.
package match

import (
	"fmt"

	"baselint/internal/catalog"
	"baselint/internal/diag"
	"baselint/internal/source"
)

// Occurrence is one detected feature usage before configuration filtering and
// baseline evaluation. Immutable once produced.
type Occurrence struct {
	Feature  string
	File     string
	Line     uint32 // 1-based
	Column   uint32 // 0-based
	Message  string
	Severity diag.Severity // default severity from the catalog status snapshot
	Status   string        // catalog status, "unknown" for ids absent from the catalog
	Engines  []string      // engines with any recorded support
}

// newOccurrence resolves the byte offset to a position and snapshots the
// catalog state for the feature. Unknown ids are carried through, not dropped.
func newOccurrence(file *source.File, cat *catalog.Catalog, off uint32, id string) Occurrence {
	pos := file.Pos(off)
	occ := Occurrence{
		Feature: id,
		File:    file.Path,
		Line:    pos.Line,
		Column:  pos.Col - 1,
		Status:  "unknown",
	}

	f, ok := cat.Lookup(id)
	if !ok {
		occ.Message = fmt.Sprintf("Uses unknown feature '%s'", id)
		occ.Severity = diag.SevWarning
		return occ
	}

	occ.Message = fmt.Sprintf("Uses '%s'", f.Name)
	occ.Status = string(f.Status)
	occ.Engines = f.SupportedEngines()
	if f.Status == catalog.StatusLimited {
		occ.Severity = diag.SevError
	} else {
		occ.Severity = diag.SevWarning
	}
	return occ
}

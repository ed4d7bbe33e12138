package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	_ "embed"

	"github.com/BurntSushi/toml"
)

// Status is the recorded availability of a feature across tracked engines.
type Status string

const (
	StatusWidely  Status = "widely"
	StatusNewly   Status = "newly"
	StatusLimited Status = "limited"
)

// Feature describes one tracked platform construct. Immutable after load.
type Feature struct {
	ID          string            `toml:"id"`
	Name        string            `toml:"name"`
	Description string            `toml:"description"`
	Status      Status            `toml:"status"`
	NewlySince  string            `toml:"newly_since"` // ISO date the feature became newly available
	Support     map[string]string `toml:"support"`     // engine -> minimum version
	SpecURL     string            `toml:"spec_url"`
}

// NewlyYear returns the year the feature became newly available.
func (f *Feature) NewlyYear() (int, bool) {
	if len(f.NewlySince) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(f.NewlySince[:4])
	if err != nil {
		return 0, false
	}
	return year, true
}

// SupportedEngines returns the sorted list of engines with any recorded support.
func (f *Feature) SupportedEngines() []string {
	if len(f.Support) == 0 {
		return nil
	}
	engines := make([]string, 0, len(f.Support))
	for engine := range f.Support {
		engines = append(engines, engine)
	}
	sort.Strings(engines)
	return engines
}

// Catalog is the read-only feature registry. Safe for concurrent reads.
type Catalog struct {
	byID  map[string]*Feature
	order []string
}

// New builds a catalog from descriptor entries. Duplicate ids are an error:
// the registry is curated by hand and a collision means a data bug.
func New(features []Feature) (*Catalog, error) {
	c := &Catalog{
		byID:  make(map[string]*Feature, len(features)),
		order: make([]string, 0, len(features)),
	}
	for i := range features {
		f := &features[i]
		if f.ID == "" {
			return nil, fmt.Errorf("catalog entry %d has empty id", i)
		}
		if _, dup := c.byID[f.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog id %q", f.ID)
		}
		switch f.Status {
		case StatusWidely, StatusNewly, StatusLimited:
		default:
			return nil, fmt.Errorf("catalog id %q has unknown status %q", f.ID, f.Status)
		}
		c.byID[f.ID] = f
		c.order = append(c.order, f.ID)
	}
	return c, nil
}

// Lookup returns the descriptor for id, if present.
func (c *Catalog) Lookup(id string) (*Feature, bool) {
	f, ok := c.byID[id]
	return f, ok
}

// Len returns the number of registered features.
func (c *Catalog) Len() int {
	return len(c.order)
}

// All returns descriptors in registry order.
func (c *Catalog) All() []*Feature {
	out := make([]*Feature, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

//go:embed features.toml
var featuresTOML []byte

type featuresFile struct {
	Feature []Feature `toml:"feature"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog parsed from the embedded data file.
// Parsed once per process; данные после этого не меняются.
func Default() *Catalog {
	defaultOnce.Do(func() {
		var file featuresFile
		if err := toml.Unmarshal(featuresTOML, &file); err != nil {
			defaultErr = fmt.Errorf("parse embedded catalog: %w", err)
			return
		}
		defaultCatalog, defaultErr = New(file.Feature)
	})
	if defaultErr != nil {
		// Embedded data is part of the binary; failing to parse it is a build defect.
		panic(defaultErr)
	}
	return defaultCatalog
}

// Package lookup holds the read-only reference tables consumed by the
// cleaners: region by country code, region overrides, country names and
// product-name canonicalization.
//
// Tables are loaded once per run and passed explicitly to the cleaners that
// need them; nothing in this package is mutated after Load returns.
package lookup

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
)

// Tables bundles every lookup table used by the pipeline.
type Tables struct {
	// Regions fills a null region from the country code.
	Regions map[string]string `json:"regions"`
	// RegionOverrides forces a region for specific country codes.
	RegionOverrides map[string]string `json:"region_overrides"`
	// CountryNames maps ISO-2 codes to display names.
	CountryNames map[string]string `json:"country_names"`
	// ProductNames maps raw product names to canonical names.
	ProductNames map[string]string `json:"product_names"`
	// Patches are key-addressed point fixes applied to geo locations.
	Patches []Patch `json:"patches"`
}

// Patch sets column values on the rows whose Key column equals Value.
type Patch struct {
	Key      string            `json:"key"`
	Value    string            `json:"value"`
	Set      map[string]string `json:"set"`
	OnlyNull bool              `json:"only_null"`
}

// Default returns a fresh copy of the built-in tables.
func Default() Tables {
	patches := make([]Patch, len(defaultPatches))
	for i, p := range defaultPatches {
		p.Set = maps.Clone(p.Set)
		patches[i] = p
	}
	return Tables{
		Regions:         maps.Clone(defaultRegions),
		RegionOverrides: maps.Clone(defaultRegionOverrides),
		CountryNames:    maps.Clone(defaultCountryNames),
		ProductNames:    maps.Clone(defaultProductNames),
		Patches:         patches,
	}
}

// Load returns the built-in tables with the JSON file at path merged on top.
// Map entries in the file add to or replace built-in entries; a non-empty
// "patches" array replaces the built-in patches. An empty path returns
// Default().
func Load(path string) (Tables, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("lookup: read %s: %w", path, err)
	}
	var file Tables
	if err := json.Unmarshal(b, &file); err != nil {
		return Tables{}, fmt.Errorf("lookup: decode %s: %w", path, err)
	}
	t.Merge(file)
	if err := t.Validate(); err != nil {
		return Tables{}, fmt.Errorf("lookup: %s: %w", path, err)
	}
	return t, nil
}

// Merge copies the entries of o into t.
func (t *Tables) Merge(o Tables) {
	maps.Copy(t.Regions, o.Regions)
	maps.Copy(t.RegionOverrides, o.RegionOverrides)
	maps.Copy(t.CountryNames, o.CountryNames)
	maps.Copy(t.ProductNames, o.ProductNames)
	if len(o.Patches) > 0 {
		t.Patches = slices.Clone(o.Patches)
	}
}

// Validate checks that patches are addressable.
func (t Tables) Validate() error {
	for i, p := range t.Patches {
		if p.Key == "" {
			return fmt.Errorf("patches[%d]: key must not be empty", i)
		}
		if len(p.Set) == 0 {
			return fmt.Errorf("patches[%d]: set must not be empty", i)
		}
		if _, ok := p.Set[p.Key]; ok {
			return fmt.Errorf("patches[%d]: must not rewrite its own key %q", i, p.Key)
		}
	}
	return nil
}

package cleaner

import (
	"salesclean/internal/lookup"
	"salesclean/internal/transformer"
	"salesclean/internal/transformer/builtin"
	"salesclean/pkg/records"
)

// GeoLocations cleans the geo locations dataset:
// dedup (last wins) → region fill from lookup → key patches → region
// overrides → country_name enrichment inserted as the second column.
type GeoLocations struct {
	Lookups lookup.Tables
}

func (GeoLocations) Name() string { return DatasetGeoLocations }

func (g GeoLocations) Clean(in records.Dataset) (records.Dataset, Report, error) {
	if err := requireColumns(in, "country_code", "region"); err != nil {
		return records.Dataset{}, Report{}, err
	}
	rules := make([]builtin.PatchRule, 0, len(g.Lookups.Patches))
	for _, p := range g.Lookups.Patches {
		rules = append(rules, builtin.PatchRule{Key: p.Key, Value: p.Value, Set: p.Set, OnlyNull: p.OnlyNull})
	}

	var rep Report
	stages := transformer.Stages{
		{Name: "dedup", T: builtin.DeDup{Keys: []string{"country_code"}, Policy: builtin.KeepLast}},
		{Name: "null_report", T: snapshotColumns(&rep, in.Columns)},
		{Name: "fill_region", T: builtin.FillFromLookup{Field: "region", From: "country_code", Table: g.Lookups.Regions}},
		{Name: "patch", T: builtin.Patch{Rules: rules}},
		{Name: "override_region", T: builtin.Override{Key: "country_code", Field: "region", Table: g.Lookups.RegionOverrides}},
		{Name: "country_name", T: builtin.Enrich{From: "country_code", Field: "country_name", Table: g.Lookups.CountryNames}},
	}
	cols := records.InsertColumn(in.Columns, "country_name", 1)
	out := run(g.Name(), in, cols, stages, &rep)
	return out, rep, nil
}

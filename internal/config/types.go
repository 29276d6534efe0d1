// Package config provides the shared project configuration for the
// takeoff pipeline. This package is decoupled from CLI concerns; every
// core package receives these structs as plain data and nothing reads
// globals at extraction time.
package config

import "fmt"

// Project holds the full per-project configuration.
type Project struct {
	// Name identifies the project in run history and reports.
	Name string `koanf:"name"`

	// FloorCount is the number of floor views drawn per multi-floor
	// sheet. Raw symbol counts are de-duplicated by this factor.
	FloorCount int `koanf:"floor_count"`

	// BuildingSqft is the building size used by the device-based
	// conduit estimation fallback.
	BuildingSqft int `koanf:"building_sqft"`

	// SheetOverrides pins sheet codes to page indices (0-based),
	// bypassing title-block detection for those codes.
	SheetOverrides map[string]int `koanf:"sheet_overrides"`

	// DemoBlock is the numeric block of sheet codes that carry
	// demolition plans (E1xx sheets when the block is 100).
	DemoBlock int `koanf:"demo_block"`

	// DemoKeynotes maps keynote digits to demolition material names.
	DemoKeynotes map[string]string `koanf:"demo_keynotes"`

	// ReferenceConduit supplies known conduit lengths per size class.
	// When present it wins over both vector extraction and the
	// device-based fallback.
	ReferenceConduit map[string]float64 `koanf:"reference_conduit"`

	// GroundTruthPath points at the YAML reference quantities used by
	// the validate step. Empty disables validation.
	GroundTruthPath string `koanf:"ground_truth"`

	Ratios   Ratios   `koanf:"ratios"`
	Geometry Geometry `koanf:"geometry"`
	Derive   Derive   `koanf:"derive"`
}

// Ratios carries the named multipliers used by the derivation rules.
type Ratios struct {
	// PowerPackRatio converts occupancy sensor counts to power packs.
	PowerPackRatio float64 `koanf:"power_pack_ratio"`

	// OCCeilingRatio splits occupancy sensors between ceiling and wall
	// mounts.
	OCCeilingRatio float64 `koanf:"oc_ceiling_ratio"`

	// CablePerJackFt is the cable footage allotted per data jack.
	CablePerJackFt int `koanf:"cable_per_jack_ft"`

	// JHookSpacingFt is the support spacing along cable runs.
	JHookSpacingFt int `koanf:"jhook_spacing_ft"`

	// ConduitFittings holds per-size fitting counts per 100 ft of
	// conduit. Sizes missing from the map fall back to DefaultFitting.
	ConduitFittings map[string]FittingRatios `koanf:"conduit_fittings"`

	// WireRuns maps a conduit size class to the wire gauge it carries
	// and the wire footage multiplier per foot of conduit.
	WireRuns map[string]WireRun `koanf:"wire_runs"`
}

// FittingRatios are fitting quantities per 100 ft of one conduit size.
type FittingRatios struct {
	Connector     float64 `koanf:"connector"`
	Coupling      float64 `koanf:"coupling"`
	Bushing       float64 `koanf:"bushing"`
	StrapOneHole  float64 `koanf:"strap_1hole"`
	StrapUnistrut float64 `koanf:"strap_unistrut"`
}

// WireRun describes the wire pulled through one conduit size class.
type WireRun struct {
	Gauge      string  `koanf:"gauge"`
	Multiplier float64 `koanf:"multiplier"`
}

// Geometry configures the vector length estimator.
type Geometry struct {
	// PointsPerFoot converts page points to feet at the drawing scale.
	PointsPerFoot float64 `koanf:"points_per_foot"`

	// SlackFactor widens each stroke-width threshold when classifying
	// path widths into size classes.
	SlackFactor float64 `koanf:"slack_factor"`

	// DefaultSize is the size class assigned to paths wider than every
	// configured threshold.
	DefaultSize string `koanf:"default_size"`

	// SizeWidths maps a conduit size class to the nominal stroke width
	// that draws it.
	SizeWidths map[string]float64 `koanf:"size_widths"`
}

// Derive toggles optional derivation rule groups.
type Derive struct {
	Fittings    bool `koanf:"fittings"`
	Consumables bool `koanf:"consumables"`
	Wire        bool `koanf:"wire"`
}

// Validate checks the project configuration for values the pipeline
// cannot work with.
func (p *Project) Validate() error {
	if p.FloorCount < 1 {
		return fmt.Errorf("floor_count must be at least 1, got %d", p.FloorCount)
	}
	if p.BuildingSqft < 0 {
		return fmt.Errorf("building_sqft must not be negative, got %d", p.BuildingSqft)
	}
	if p.Geometry.PointsPerFoot <= 0 {
		return fmt.Errorf("geometry.points_per_foot must be positive, got %v", p.Geometry.PointsPerFoot)
	}
	if p.Geometry.SlackFactor < 1 {
		return fmt.Errorf("geometry.slack_factor must be at least 1, got %v", p.Geometry.SlackFactor)
	}
	if p.Ratios.PowerPackRatio < 0 || p.Ratios.PowerPackRatio > 1 {
		return fmt.Errorf("ratios.power_pack_ratio must be in [0,1], got %v", p.Ratios.PowerPackRatio)
	}
	if p.Ratios.OCCeilingRatio < 0 || p.Ratios.OCCeilingRatio > 1 {
		return fmt.Errorf("ratios.oc_ceiling_ratio must be in [0,1], got %v", p.Ratios.OCCeilingRatio)
	}
	if p.Ratios.CablePerJackFt < 0 {
		return fmt.Errorf("ratios.cable_per_jack_ft must not be negative, got %d", p.Ratios.CablePerJackFt)
	}
	if p.Ratios.JHookSpacingFt <= 0 {
		return fmt.Errorf("ratios.jhook_spacing_ft must be positive, got %d", p.Ratios.JHookSpacingFt)
	}
	return nil
}

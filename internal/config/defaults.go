package config

// Default configuration values.
const (
	DefaultFloorCount   = 2
	DefaultBuildingSqft = 10000
	DefaultDemoBlock    = 100

	// DefaultPointsPerFoot corresponds to a 1/8" = 1'-0" drawing scale:
	// 72 points per inch over 8 feet.
	DefaultPointsPerFoot = 9.0

	DefaultSlackFactor = 1.5
	DefaultConduitSize = `3/4"`

	DefaultPowerPackRatio = 0.74
	DefaultOCCeilingRatio = 0.84
	DefaultCablePerJackFt = 10
	DefaultJHookSpacingFt = 4
)

// DefaultDemoKeynotes returns the stock keynote legend for demolition
// sheets.
func DefaultDemoKeynotes() map[string]string {
	return map[string]string{
		"1": "Demo 2'x4' Recessed",
		"2": "Demo 2'x2' Recessed",
		"3": "Demo Downlight",
		"4": "Demo Switch",
		"5": "Demo 4' Strip",
		"6": "Demo 8' Strip",
		"7": "Demo Exit",
		"9": "Demo Receptacle",
	}
}

// DefaultFittingRatios returns the stock per-size fitting counts per
// 100 ft of conduit.
func DefaultFittingRatios() map[string]FittingRatios {
	return map[string]FittingRatios{
		`1/2"`: {
			Connector:    10.0,
			Coupling:     8.0,
			Bushing:      10.0,
			StrapOneHole: 12.0,
		},
		`3/4"`: {
			Connector:     10.5,
			Coupling:      9.2,
			Bushing:       10.5,
			StrapOneHole:  9.2,
			StrapUnistrut: 3.1,
		},
		`1"`: {
			Connector:     4.9,
			Coupling:      8.1,
			Bushing:       4.9,
			StrapOneHole:  1.9,
			StrapUnistrut: 10.1,
		},
		`1-1/4"`: {
			Connector:     11.8,
			Coupling:      5.8,
			Bushing:       11.8,
			StrapOneHole:  4.1,
			StrapUnistrut: 7.3,
		},
	}
}

// DefaultFitting is the ratio set used for conduit sizes missing from
// the fitting table.
func DefaultFitting() FittingRatios {
	return DefaultFittingRatios()[DefaultConduitSize]
}

// DefaultWireRuns returns the stock conduit-size to wire-gauge mapping.
// The 1-1/4" multiplier is small because most feeder conduit carries
// heavier gauges priced separately.
func DefaultWireRuns() map[string]WireRun {
	return map[string]WireRun{
		`1/2"`:   {Gauge: "#14 THHN", Multiplier: 3.0},
		`3/4"`:   {Gauge: "#12 THHN", Multiplier: 2.3},
		`1"`:     {Gauge: "#10 THHN", Multiplier: 8.4},
		`1-1/4"`: {Gauge: "#8 THHN", Multiplier: 0.08},
	}
}

// DefaultSizeWidths returns the stock stroke-width thresholds per
// conduit size class.
func DefaultSizeWidths() map[string]float64 {
	return map[string]float64{
		`1/2"`:   0.5,
		`3/4"`:   0.75,
		`1"`:     1.0,
		`1-1/4"`: 1.25,
	}
}

// ApplyDefaults fills zero values of a Project with the stock
// configuration.
func ApplyDefaults(p *Project) {
	if p == nil {
		return
	}
	if p.FloorCount == 0 {
		p.FloorCount = DefaultFloorCount
	}
	if p.BuildingSqft == 0 {
		p.BuildingSqft = DefaultBuildingSqft
	}
	if p.DemoBlock == 0 {
		p.DemoBlock = DefaultDemoBlock
	}
	if p.DemoKeynotes == nil {
		p.DemoKeynotes = DefaultDemoKeynotes()
	}
	applyRatioDefaults(&p.Ratios)
	applyGeometryDefaults(&p.Geometry)
}

func applyRatioDefaults(r *Ratios) {
	if r.PowerPackRatio == 0 {
		r.PowerPackRatio = DefaultPowerPackRatio
	}
	if r.OCCeilingRatio == 0 {
		r.OCCeilingRatio = DefaultOCCeilingRatio
	}
	if r.CablePerJackFt == 0 {
		r.CablePerJackFt = DefaultCablePerJackFt
	}
	if r.JHookSpacingFt == 0 {
		r.JHookSpacingFt = DefaultJHookSpacingFt
	}
	if r.ConduitFittings == nil {
		r.ConduitFittings = DefaultFittingRatios()
	}
	if r.WireRuns == nil {
		r.WireRuns = DefaultWireRuns()
	}
}

func applyGeometryDefaults(g *Geometry) {
	if g.PointsPerFoot == 0 {
		g.PointsPerFoot = DefaultPointsPerFoot
	}
	if g.SlackFactor == 0 {
		g.SlackFactor = DefaultSlackFactor
	}
	if g.DefaultSize == "" {
		g.DefaultSize = DefaultConduitSize
	}
	if g.SizeWidths == nil {
		g.SizeWidths = DefaultSizeWidths()
	}
}

// NewProject returns a Project populated with defaults. All derivation
// rule groups start enabled; ApplyDefaults leaves the toggles alone
// because a false bool is indistinguishable from an unset one.
func NewProject() *Project {
	p := &Project{Derive: Derive{Fittings: true, Consumables: true, Wire: true}}
	ApplyDefaults(p)
	return p
}

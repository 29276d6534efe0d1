// Package geometry estimates conduit run lengths from vector path data.
// Stroke widths map to conduit size classes; segment lengths convert to
// feet at the drawing scale.
package geometry

import (
	"math"
	"sort"

	"github.com/takeline-labs/takeline/internal/config"
	"github.com/takeline-labs/takeline/internal/source"
	"github.com/takeline-labs/takeline/internal/takeoff"
)

// EstimateLengths sums path lengths per conduit size class. A path is
// classified to the smallest size whose nominal stroke width covers the
// path width within the slack factor; wider paths get the default size.
// No paths at all yields an empty snapshot, which downstream treats as
// "no geometry", not as measured zero.
func EstimateLengths(paths []source.Path, g config.Geometry) takeoff.LengthSnapshot {
	if len(paths) == 0 {
		return takeoff.LengthSnapshot{}
	}

	thresholds := sortedThresholds(g.SizeWidths)
	snap := takeoff.LengthSnapshot{}
	for _, p := range paths {
		points := 0.0
		for _, seg := range p.Segments {
			points += math.Hypot(seg.X1-seg.X0, seg.Y1-seg.Y0)
		}
		if points == 0 {
			continue
		}
		size := classifyWidth(p.Width, thresholds, g)
		snap[size] += points / g.PointsPerFoot
	}

	if len(snap) == 0 {
		return takeoff.LengthSnapshot{}
	}
	for size, feet := range snap {
		snap[size] = math.Round(feet*10) / 10
	}
	return snap
}

type widthThreshold struct {
	size  string
	width float64
}

func sortedThresholds(sizeWidths map[string]float64) []widthThreshold {
	out := make([]widthThreshold, 0, len(sizeWidths))
	for size, w := range sizeWidths {
		out = append(out, widthThreshold{size: size, width: w})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].width < out[j].width })
	return out
}

func classifyWidth(width float64, thresholds []widthThreshold, g config.Geometry) string {
	for _, t := range thresholds {
		if width <= t.width*g.SlackFactor {
			return t.size
		}
	}
	return g.DefaultSize
}

// Device-based estimation constants, used when neither reference
// lengths nor vector geometry are available. Rules of thumb for small
// commercial work.
const (
	feetPerLightingDevice = 25
	feetPerPowerDevice    = 30
	feetPerControlDevice  = 15
	sqftPerFeederFoot     = 15

	devicesPerLightingCircuit = 8
	devicesPerPowerCircuit    = 5
	feetPerLightingCircuit    = 250
	feetPerPowerCircuit       = 150
	riserFeetPerFloor         = 50

	minHalfInchFeet       = 50
	minThreeQuarterFeet   = 500
	minOneInchFeet        = 200
	minInchAndQuarterFeet = 100
)

// Device groups feeding the size-class estimates.
var (
	lightingItems = []string{
		"F2", "F3", "F4", "F4E", "F5", "F7", "F7E", "F8", "F9", "X1", "X2",
		"Ceiling Occupancy Sensor", "Daylight Sensor",
	}
	powerItems = []string{
		"Duplex Receptacle", "GFI Receptacle", "SP Switch", "3-Way Switch",
	}
	controlItems = []string{
		"Wall Occupancy Sensor", "Wireless Dimmer", "Daylight Sensor",
	}
)

// EstimateFromDevices is the fallback conduit estimate built from
// device counts and building size. It always produces all four standard
// size classes, each floored at a minimum footage.
func EstimateFromDevices(counts takeoff.CountSnapshot, buildingSqft, floors int) takeoff.LengthSnapshot {
	flat := counts.Flatten()
	lighting := sumItems(flat, lightingItems)
	power := sumItems(flat, powerItems)
	controls := sumItems(flat, controlItems)

	lightingCircuits := max(1, lighting/devicesPerLightingCircuit)
	powerCircuits := max(1, power/devicesPerPowerCircuit)

	half := controls * feetPerControlDevice
	threeQuarter := max(lighting*feetPerLightingDevice, lightingCircuits*feetPerLightingCircuit)
	oneInch := max(power*feetPerPowerDevice, powerCircuits*feetPerPowerCircuit)
	feeder := buildingSqft / sqftPerFeederFoot

	if floors > 1 {
		threeQuarter += (floors - 1) * riserFeetPerFloor
	}

	return takeoff.LengthSnapshot{
		`1/2"`:   float64(max(half, minHalfInchFeet)),
		`3/4"`:   float64(max(threeQuarter, minThreeQuarterFeet)),
		`1"`:     float64(max(oneInch, minOneInchFeet)),
		`1-1/4"`: float64(max(feeder, minInchAndQuarterFeet)),
	}
}

func sumItems(flat map[string]int, items []string) int {
	total := 0
	for _, item := range items {
		total += flat[item]
	}
	return total
}

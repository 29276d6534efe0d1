// Package derive applies the business rules that turn device counts and
// conduit lengths into supporting material quantities. Every rule is a
// pure function of its inputs and the configured ratios; no rule reads
// another rule's output. Divisions truncate unless a rule documents
// otherwise.
package derive

import (
	"github.com/takeline-labs/takeline/internal/config"
	"github.com/takeline-labs/takeline/internal/takeoff"
)

// Options selects which optional rule groups run. Omitted groups leave
// their material names out of the result entirely rather than writing
// zeros.
type Options struct {
	Fittings    bool
	Consumables bool
	Wire        bool
}

// Materials runs every enabled rule and merges the outputs into one
// material list. Rules that need conduit lengths are skipped, not
// zeroed, when the length snapshot is empty.
func Materials(counts takeoff.CountSnapshot, lengths takeoff.LengthSnapshot, r config.Ratios, opts Options) takeoff.MaterialList {
	flat := counts.Flatten()
	out := takeoff.MaterialList{}

	ceiling := flat["Ceiling Occupancy Sensor"]
	wall := flat["Wall Occupancy Sensor"]
	daylight := flat["Daylight Sensor"]
	jacks := flat["Cat 6 Jack"]
	duplex := flat["Duplex Receptacle"]
	gfi := flat["GFI Receptacle"]
	dimmers := flat["Wireless Dimmer"]
	spSwitches := flat["SP Switch"]
	threeWay := flat["3-Way Switch"]
	switches := spSwitches + threeWay

	out["Power Pack"] = PowerPacks(ceiling, wall, r)

	cable, jhooks := CableAndJHooks(jacks, r)
	out["Cat 6 Cable (ft)"] = cable
	out["J-Hook"] = jhooks

	boxes := Boxes(duplex, gfi, switches, dimmers, wall, ceiling, daylight, jacks)
	mergeInto(out, boxes)
	mergeInto(out, PlasterRings(duplex, gfi, switches, dimmers, wall, ceiling, daylight))
	mergeInto(out, Plates(duplex, gfi, dimmers, spSwitches, threeWay))
	mergeInto(out, FixtureAccessories(flat))

	if opts.Fittings && !lengths.Empty() {
		mergeInto(out, Fittings(lengths, r))
	}
	if opts.Consumables {
		devices := duplex + gfi + switches + dimmers + ceiling + wall + daylight + jacks
		totalBoxes := 0
		for _, n := range boxes {
			totalBoxes += n
		}
		mergeInto(out, Consumables(devices, totalBoxes, int(lengths.TotalFeet())))
	}
	if opts.Wire && !lengths.Empty() {
		mergeInto(out, Wire(lengths, r))
	}
	return out
}

// PowerPacks sizes lighting control power packs from the sensor
// population. Roughly one pack per 1.35 sensors.
func PowerPacks(ceilingSensors, wallSensors int, r config.Ratios) int {
	return int(float64(ceilingSensors+wallSensors) * r.PowerPackRatio)
}

// CableAndJHooks sizes data cable footage and its supports. One J-hook
// per spacing interval along the cable.
func CableAndJHooks(dataJacks int, r config.Ratios) (cableFeet, jhooks int) {
	cableFeet = dataJacks * r.CablePerJackFt
	jhooks = cableFeet / r.JHookSpacingFt
	return cableFeet, jhooks
}

// Share of wall devices that need deep boxes for crowded locations.
const deepBoxShare = 0.10

// Share of data jacks that get new oversized boxes; the rest reuse
// existing boxes.
const dataNewBoxShare = 0.15

// Boxes sizes device boxes. Wall devices mount in bracket boxes,
// ceiling devices in plain squares.
func Boxes(duplex, gfi, switches, dimmers, wallSensors, ceilingSensors, daylightSensors, dataJacks int) takeoff.MaterialList {
	wallDevices := duplex + gfi + switches + dimmers + wallSensors
	ceilingDevices := ceilingSensors + daylightSensors
	dataBoxes := int(float64(dataJacks) * dataNewBoxShare)
	deepBoxes := int(float64(wallDevices) * deepBoxShare)

	return takeoff.MaterialList{
		`4" Square Box w/bracket`:       max(0, wallDevices-deepBoxes),
		`4" Square Box`:                 ceilingDevices,
		`4-11/16" Square Box w/bracket`: dataBoxes,
		`4" Square Box 2-1/8" deep`:     deepBoxes,
	}
}

// PlasterRings sizes rings for the boxes. Ceiling sensors take
// half-depth rings.
func PlasterRings(duplex, gfi, switches, dimmers, wallSensors, ceilingSensors, daylightSensors int) takeoff.MaterialList {
	singleGang := duplex + gfi + switches + dimmers + wallSensors
	ceilingDevices := ceilingSensors + daylightSensors

	return takeoff.MaterialList{
		`4" Square-1G Plaster Ring`:  max(0, singleGang),
		`4" Square-3/0 Plaster Ring`: ceilingDevices,
	}
}

// Plates sizes wall plates. GFI and dimmers take decora openings.
func Plates(duplex, gfi, dimmers, spSwitches, threeWaySwitches int) takeoff.MaterialList {
	return takeoff.MaterialList{
		"Duplex Plate": duplex,
		"Decora Plate": gfi + dimmers,
		"Switch Plate": spSwitches + threeWaySwitches,
	}
}

// Pendant fixtures take four support cables and one canopy each; linear
// fixtures four pendant cables each.
const (
	cablesPerLinearFixture  = 4
	cablesPerPendantFixture = 4
)

var (
	layInTags   = []string{"F2", "F8"}
	pendantTags = []string{"F10", "F11"}
	surfaceTags = []string{"F7", "F7E"}
)

// FixtureAccessories sizes whips, support cables, and canopies from the
// fixture mix.
func FixtureAccessories(flat map[string]int) takeoff.MaterialList {
	layIn := 0
	for _, tag := range layInTags {
		layIn += flat[tag]
	}
	pendants := 0
	for _, tag := range pendantTags {
		pendants += flat[tag]
	}
	surface := 0
	for _, tag := range surfaceTags {
		surface += flat[tag]
	}
	linear := flat["4' Linear LED"] + flat["6' Linear LED"] + flat["8' Linear LED"]

	out := takeoff.MaterialList{
		"Fixture Whip": layIn,
	}
	if linear > 0 {
		out["Pendant/Cable"] = linear * cablesPerLinearFixture
	}
	if pendants > 0 {
		out["Aircraft Cable Kit"] = pendants * cablesPerPendantFixture
		out["Canopy Kit"] = pendants
	}
	if surface > 0 {
		out["Surface Mount Kit"] = surface
	}
	return out
}

// Fittings sizes connectors, couplings, bushings, and straps per 100 ft
// of each conduit size. Sizes without a configured ratio set use the
// default fitting ratios.
func Fittings(lengths takeoff.LengthSnapshot, r config.Ratios) takeoff.MaterialList {
	out := takeoff.MaterialList{}
	for _, size := range lengths.Sizes() {
		feet := lengths[size]
		if feet <= 0 {
			continue
		}
		ratios, ok := r.ConduitFittings[size]
		if !ok {
			ratios = config.DefaultFitting()
		}
		factor := feet / 100

		out[size+" Connector"] = int(factor * ratios.Connector)
		out[size+" Coupling"] = int(factor * ratios.Coupling)
		out[size+" Bushing"] = int(factor * ratios.Bushing)
		out[size+" 1-Hole Strap"] = int(factor * ratios.StrapOneHole)
		if ratios.StrapUnistrut > 0 {
			out[size+" Unistrut Strap"] = int(factor * ratios.StrapUnistrut)
		}
	}
	return out
}

// Consumable ratios per device or per box.
const (
	wirenutsRedPerDevice    = 4
	wirenutsYellowPerDevice = 2
	screwsPerDevice         = 4
	pullLinePerConduitFoot  = 0.5
	devicesPerTapeRoll      = 50
	devicesPerPhaseTapeRoll = 100
)

// Consumables sizes wirenuts, screws, pull line, and tape from overall
// device and box totals.
func Consumables(totalDevices, totalBoxes, totalConduitFeet int) takeoff.MaterialList {
	return takeoff.MaterialList{
		"Red Wirenut":               totalDevices * wirenutsRedPerDevice,
		"Yellow Wirenut":            totalDevices * wirenutsYellowPerDevice,
		"Ground Screw":              totalBoxes,
		"Pan Head Tapping Screw #8": totalDevices * screwsPerDevice,
		"Poly Pull Line (ft)":       int(float64(totalConduitFeet) * pullLinePerConduitFoot),
		"Black Tape":                max(1, totalDevices/devicesPerTapeRoll),
		"Red Phase Tape":            max(1, totalDevices/devicesPerPhaseTapeRoll),
		"Blue Phase Tape":           max(1, totalDevices/devicesPerPhaseTapeRoll),
	}
}

// Wire sizes conductor footage per gauge from the conduit each size
// class carries.
func Wire(lengths takeoff.LengthSnapshot, r config.Ratios) takeoff.MaterialList {
	out := takeoff.MaterialList{}
	for _, size := range lengths.Sizes() {
		feet := lengths[size]
		if feet <= 0 {
			continue
		}
		run, ok := r.WireRuns[size]
		if !ok {
			continue
		}
		out[run.Gauge] += int(feet * run.Multiplier)
	}
	return out
}

func mergeInto(dst, src takeoff.MaterialList) {
	for name, n := range src {
		dst[name] += n
	}
}

package table

import "fluids/internal/units"

// LayoutTableVersion changes whenever a layout is added or a legend changes.
const LayoutTableVersion = 1

// UnitKind selects how a column's unit label is derived from the resolved
// unit selection.
type UnitKind int

const (
	NoUnit UnitKind = iota
	TemperatureUnit
	PressureUnit
	DensityUnit
	VolumeUnit
	EnergyUnit
	EntropyUnit
	SpeedUnit
	JouleThomsonUnit
	ViscosityUnit
	ConductivityUnit
	SurfaceTensionUnit
)

// Column is one legend entry.
type Column struct {
	Name string
	Unit UnitKind
}

// Layout is a known response shape.
type Layout struct {
	Name    string
	Title   string
	Columns []Column
}

// Width is the number of whitespace-separated words in a data row.
func (l *Layout) Width() int {
	return len(l.Columns)
}

var (
	stateColumns = []Column{
		{"Temperature", TemperatureUnit},
		{"Pressure", PressureUnit},
	}
	phaseProperties = []Column{
		{"Density", DensityUnit},
		{"Volume", VolumeUnit},
		{"Internal Energy", EnergyUnit},
		{"Enthalpy", EnergyUnit},
		{"Entropy", EntropyUnit},
		{"Cv", EntropyUnit},
		{"Cp", EntropyUnit},
		{"Sound Spd.", SpeedUnit},
		{"Joule-Thomson", JouleThomsonUnit},
		{"Viscosity", ViscosityUnit},
		{"Therm. Cond.", ConductivityUnit},
	}
	phaseColumn   = Column{"Phase", NoUnit}
	surfaceColumn = Column{"Surf. Tension", SurfaceTensionUnit}
)

func singlePhase(suffix string) []Column {
	cols := make([]Column, 0, 14)
	cols = append(cols, stateColumns...)
	cols = append(cols, phaseProperties...)
	cols = append(cols, phaseColumn)
	return withSuffix(cols, suffix)
}

func withSuffix(cols []Column, suffix string) []Column {
	if suffix == "" {
		return cols
	}
	out := make([]Column, len(cols))
	for i, c := range cols {
		out[i] = Column{Name: c.Name + " (" + suffix + ")", Unit: c.Unit}
	}
	return out
}

func concat(parts ...[]Column) []Column {
	var out []Column
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Layouts holds every recognized response shape keyed by data-row width.
var Layouts = map[int]*Layout{
	14: {
		Name:    "single-phase",
		Title:   "Single-phase fluid properties",
		Columns: singlePhase(""),
	},
	28: {
		Name:    "saturation",
		Title:   "Saturation properties, liquid then vapor",
		Columns: concat(singlePhase("liquid"), singlePhase("vapor")),
	},
	25: {
		Name:  "saturation-surface-tension",
		Title: "Saturation properties with surface tension, liquid then vapor",
		Columns: concat(
			stateColumns,
			withSuffix(phaseProperties, "liquid"),
			[]Column{surfaceColumn},
			withSuffix(phaseProperties, "vapor"),
		),
	},
}

// LookupLayout returns the layout for a data-row width, or nil.
func LookupLayout(width int) *Layout {
	return Layouts[width]
}

// UnitLabel renders the unit for kind under labels. NoUnit yields "".
func UnitLabel(kind UnitKind, labels units.Labels) string {
	switch kind {
	case TemperatureUnit:
		return labels.Label(units.Temperature)
	case PressureUnit:
		return labels.Label(units.Pressure)
	case DensityUnit:
		return labels.Label(units.Density)
	case VolumeUnit:
		return labels.MolarVolume
	case EnergyUnit:
		return labels.Label(units.Energy)
	case EntropyUnit:
		return labels.MolarEntropy
	case SpeedUnit:
		return labels.Label(units.Velocity)
	case JouleThomsonUnit:
		return labels.Label(units.Temperature) + "/" + labels.Label(units.Pressure)
	case ViscosityUnit:
		return labels.Label(units.Viscosity)
	case ConductivityUnit:
		return "W/m*K"
	case SurfaceTensionUnit:
		return labels.Label(units.SurfaceTension)
	default:
		return ""
	}
}

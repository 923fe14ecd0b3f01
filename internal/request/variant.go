package request

import (
	"fmt"
	"strings"
)

// Variant is the kind of property sweep.
type Variant int

const (
	Isobar Variant = iota + 1
	Isotherm
	Isochore
	// SaturationByPressure sweeps the saturation curve in pressure steps.
	SaturationByPressure
	// SaturationByTemperature sweeps the saturation curve in temperature steps.
	SaturationByTemperature
)

// Variants lists every variant in display order.
func Variants() []Variant {
	return []Variant{Isobar, Isotherm, Isochore, SaturationByPressure, SaturationByTemperature}
}

// Type is the service's Type parameter value. The saturation types are named
// after the dependent quantity: stepping pressure yields saturation
// temperatures (SatT) and vice versa.
func (v Variant) Type() string {
	switch v {
	case Isobar:
		return "IsoBar"
	case Isotherm:
		return "IsoTherm"
	case Isochore:
		return "IsoChor"
	case SaturationByPressure:
		return "SatT"
	case SaturationByTemperature:
		return "SatP"
	default:
		return ""
	}
}

// Tag is the short name used in output filenames and headers.
func (v Variant) Tag() string {
	switch v {
	case Isobar:
		return "isobar"
	case Isotherm:
		return "isotherm"
	case Isochore:
		return "isochore"
	case SaturationByPressure:
		return "satpressure"
	case SaturationByTemperature:
		return "sattemperature"
	default:
		return ""
	}
}

func (v Variant) String() string {
	if tag := v.Tag(); tag != "" {
		return tag
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// Valid reports whether v is a known variant.
func (v Variant) Valid() bool {
	return v.Type() != ""
}

// ParseVariant accepts a tag or the service Type value, case-insensitively.
func ParseVariant(value string) (Variant, error) {
	needle := strings.ToLower(strings.TrimSpace(value))
	for _, v := range Variants() {
		if needle == v.Tag() || needle == strings.ToLower(v.Type()) {
			return v, nil
		}
	}
	return 0, &UsageError{Field: "variant", Msg: fmt.Sprintf("unknown calculation variant %q", value)}
}

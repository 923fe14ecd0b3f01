package request

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"fluids/internal/units"
)

// RefStates lists the reference-state conventions the service accepts.
var RefStates = []string{"DEF", "NBP", "ASHRAE", "IIR"}

const (
	MinDigits = 1
	MaxDigits = 12
)

// UsageError reports a request the user must correct. No network access is
// attempted for a request that fails validation.
type UsageError struct {
	Field string
	Msg   string
}

func (e *UsageError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

// Request is a single calculation request. Numeric fields keep the user's
// literal decimal text so the query echoes exactly what was typed.
type Request struct {
	Variant     Variant
	SubstanceID string

	// Fixed-value fields: T for isotherms, P for isobars, D for isochores.
	Temperature string
	Pressure    string
	Density     string

	TLow, THigh, TInc string
	PLow, PHigh, PInc string

	RefState string
	Digits   int
	Units    units.Codes
}

type param struct {
	name  string
	value string
}

// params returns the variant's template parameters in emission order.
func (r Request) params() []param {
	switch r.Variant {
	case Isobar:
		return []param{{"P", r.Pressure}, {"TLow", r.TLow}, {"THigh", r.THigh}, {"TInc", r.TInc}}
	case Isotherm:
		return []param{{"T", r.Temperature}, {"PLow", r.PLow}, {"PHigh", r.PHigh}, {"PInc", r.PInc}}
	case Isochore:
		return []param{{"D", r.Density}, {"TLow", r.TLow}, {"THigh", r.THigh}, {"TInc", r.TInc}}
	case SaturationByPressure:
		return []param{{"PLow", r.PLow}, {"PHigh", r.PHigh}, {"PInc", r.PInc}}
	case SaturationByTemperature:
		return []param{{"TLow", r.TLow}, {"THigh", r.THigh}, {"TInc", r.TInc}}
	default:
		return nil
	}
}

// Validate checks the request and normalizes its text fields in place.
func (r *Request) Validate() error {
	if !r.Variant.Valid() {
		return &UsageError{Field: "variant", Msg: "exactly one calculation variant must be selected"}
	}
	r.SubstanceID = strings.TrimSpace(r.SubstanceID)
	if r.SubstanceID == "" {
		return &UsageError{Field: "id", Msg: "substance ID is required"}
	}
	if strings.ContainsAny(r.SubstanceID, " \t&=?#") {
		return &UsageError{Field: "id", Msg: fmt.Sprintf("substance ID %q contains invalid characters", r.SubstanceID)}
	}
	r.RefState = strings.ToUpper(strings.TrimSpace(r.RefState))
	if r.RefState == "" {
		r.RefState = RefStates[0]
	}
	if !slices.Contains(RefStates, r.RefState) {
		return &UsageError{Field: "refstate", Msg: fmt.Sprintf("must be one of %s, got %q", strings.Join(RefStates, ", "), r.RefState)}
	}
	if r.Digits < MinDigits || r.Digits > MaxDigits {
		return &UsageError{Field: "digits", Msg: fmt.Sprintf("must be between %d and %d, got %d", MinDigits, MaxDigits, r.Digits)}
	}
	if err := r.Units.Validate(); err != nil {
		return &UsageError{Field: "units", Msg: err.Error()}
	}

	values := map[string]float64{}
	for i, p := range r.params() {
		text := strings.TrimSpace(p.value)
		if text == "" {
			return &UsageError{Field: p.name, Msg: fmt.Sprintf("required for %s", r.Variant.Tag())}
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return &UsageError{Field: p.name, Msg: fmt.Sprintf("%q is not a number", text)}
		}
		values[p.name] = v
		r.setParam(i, text)
	}
	for _, axis := range []string{"T", "P"} {
		low, hasLow := values[axis+"Low"]
		high := values[axis+"High"]
		inc, hasInc := values[axis+"Inc"]
		if !hasLow {
			continue
		}
		if low > high {
			return &UsageError{Field: axis + "Low", Msg: fmt.Sprintf("low value %v exceeds high value %v", low, high)}
		}
		if hasInc && inc <= 0 {
			return &UsageError{Field: axis + "Inc", Msg: "increment must be positive"}
		}
	}
	return nil
}

func (r *Request) setParam(index int, value string) {
	name := r.params()[index].name
	switch name {
	case "T":
		r.Temperature = value
	case "P":
		r.Pressure = value
	case "D":
		r.Density = value
	case "TLow":
		r.TLow = value
	case "THigh":
		r.THigh = value
	case "TInc":
		r.TInc = value
	case "PLow":
		r.PLow = value
	case "PHigh":
		r.PHigh = value
	case "PInc":
		r.PInc = value
	}
}

// IsUsageError reports whether err is (or wraps) a UsageError.
func IsUsageError(err error) bool {
	var usage *UsageError
	return errors.As(err, &usage)
}

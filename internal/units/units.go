package units

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Quantity identifies one of the seven selectable unit quantities.
type Quantity int

const (
	Temperature Quantity = iota
	Pressure
	Density
	Energy
	Velocity
	Viscosity
	SurfaceTension
)

// Count is the number of selectable quantities, and so the number of codes an
// override string must carry.
const Count = 7

// ErrInvalidOverride reports a malformed unit override argument.
var ErrInvalidOverride = errors.New("invalid unit override")

type quantityTable struct {
	name   string
	param  string
	labels []string
}

// Ordered to match Quantity. The service expects the exact label text.
var tables = [Count]quantityTable{
	Temperature:    {name: "temperature", param: "TUnit", labels: []string{"K", "C", "F", "R"}},
	Pressure:       {name: "pressure", param: "PUnit", labels: []string{"MPa", "bar", "atm", "torr", "psia"}},
	Density:        {name: "density", param: "DUnit", labels: []string{"mol/l", "mol/m3", "g/ml", "kg/m3", "lb-mole/ft3", "lbm/ft3"}},
	Energy:         {name: "energy", param: "HUnit", labels: []string{"kJ/mol", "kJ/kg", "kcal/mol", "Btu/lb-mole", "kcal/g", "Btu/lbm"}},
	Velocity:       {name: "velocity", param: "WUnit", labels: []string{"m/s", "ft/s", "mph"}},
	Viscosity:      {name: "viscosity", param: "VisUnit", labels: []string{"uPa*s", "Pa*s", "cP", "lbm/ft*s"}},
	SurfaceTension: {name: "surface tension", param: "STUnit", labels: []string{"N/m", "dyn/cm", "lb/ft", "lb/in"}},
}

// Parallel to the density labels.
var volumeLabels = []string{"l/mol", "m3/mol", "ml/g", "m3/kg", "ft3/lb-mole", "ft3/lbm"}

// Parallel to the energy labels.
var entropyLabels = []string{"J/mol*K", "J/g*K", "cal/mol*K", "Btu/lb-mole*R", "cal/g*K", "Btu/lbm*R"}

// Name returns the quantity's lower-case display name.
func (q Quantity) Name() string {
	if q < 0 || int(q) >= Count {
		return "unknown"
	}
	return tables[q].name
}

// Param returns the query parameter the service reads the quantity's unit from.
func (q Quantity) Param() string {
	if q < 0 || int(q) >= Count {
		return ""
	}
	return tables[q].param
}

// Labels returns a copy of the quantity's ordered label list.
func (q Quantity) Labels() []string {
	if q < 0 || int(q) >= Count {
		return nil
	}
	return append([]string(nil), tables[q].labels...)
}

// Quantities lists all selectable quantities in code order.
func Quantities() []Quantity {
	out := make([]Quantity, Count)
	for i := range out {
		out[i] = Quantity(i)
	}
	return out
}

// Codes holds one 1-based unit code per quantity, indexed by Quantity.
type Codes [Count]int

// Default returns the baked-in default unit selection.
func Default() Codes {
	return Codes{1, 1, 1, 1, 1, 1, 1}
}

// SI returns K, MPa, kg/m3, kJ/mol, m/s, Pa*s, N/m.
func SI() Codes {
	return Codes{1, 1, 4, 1, 1, 2, 1}
}

// Preset resolves a named preset ("default" or "si").
func Preset(name string) (Codes, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return Default(), nil
	case "si":
		return SI(), nil
	default:
		return Codes{}, fmt.Errorf("unknown unit preset %q (valid: default, si)", name)
	}
}

// ParseOverride parses exactly seven whitespace-separated integer codes in
// quantity order, e.g. "1 1 4 2 1 2 1". Codes are not range-checked here;
// Resolve does that.
func ParseOverride(value string) (Codes, error) {
	fields := strings.Fields(value)
	if len(fields) != Count {
		return Codes{}, fmt.Errorf("%w: expected %d space-separated codes, got %d", ErrInvalidOverride, Count, len(fields))
	}
	var codes Codes
	for i, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil {
			return Codes{}, fmt.Errorf("%w: %s code %q is not an integer", ErrInvalidOverride, Quantity(i).Name(), field)
		}
		codes[i] = n
	}
	return codes, nil
}

// FromSlice converts a configured code list into Codes.
func FromSlice(values []int) (Codes, error) {
	if len(values) != Count {
		return Codes{}, fmt.Errorf("%w: expected %d codes, got %d", ErrInvalidOverride, Count, len(values))
	}
	var codes Codes
	copy(codes[:], values)
	return codes, nil
}

// String renders the codes in override syntax.
func (c Codes) String() string {
	parts := make([]string, Count)
	for i, code := range c {
		parts[i] = strconv.Itoa(code)
	}
	return strings.Join(parts, " ")
}

// Validate reports the first out-of-range code.
func (c Codes) Validate() error {
	for i, code := range c {
		q := Quantity(i)
		if code < 1 || code > len(tables[q].labels) {
			return &InvalidUnitCodeError{Quantity: q, Code: code, Max: len(tables[q].labels)}
		}
	}
	return nil
}

// InvalidUnitCodeError reports a code outside its quantity's label list.
type InvalidUnitCodeError struct {
	Quantity Quantity
	Code     int
	Max      int
}

func (e *InvalidUnitCodeError) Error() string {
	return fmt.Sprintf("invalid %s unit code %d (valid range 1-%d: %s)",
		e.Quantity.Name(), e.Code, e.Max, strings.Join(describe(e.Quantity), ", "))
}

func describe(q Quantity) []string {
	labels := tables[q].labels
	out := make([]string, len(labels))
	for i, label := range labels {
		out[i] = fmt.Sprintf("%d=%s", i+1, label)
	}
	return out
}

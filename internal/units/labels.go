package units

import "strings"

// Labels is the resolved form of a Codes selection.
type Labels struct {
	Codes Codes
	// Human-readable labels indexed by Quantity.
	Names [Count]string
	// MolarVolume and MolarEntropy are header-only labels.
	MolarVolume  string
	MolarEntropy string
}

// Resolve maps each code to its label. Out-of-range codes fail with
// *InvalidUnitCodeError.
func Resolve(codes Codes) (Labels, error) {
	if err := codes.Validate(); err != nil {
		return Labels{}, err
	}
	labels := Labels{Codes: codes}
	for i, code := range codes {
		labels.Names[i] = tables[i].labels[code-1]
	}
	labels.MolarVolume = volumeLabels[codes[Density]-1]
	labels.MolarEntropy = entropyLabels[codes[Energy]-1]
	return labels, nil
}

// Label returns the human-readable unit label for q.
func (l Labels) Label(q Quantity) string {
	if q < 0 || int(q) >= Count {
		return ""
	}
	return l.Names[q]
}

// Token returns the URL-safe form of the label for q.
func (l Labels) Token(q Quantity) string {
	return Token(l.Label(q))
}

// Params returns the seven (parameter, token) pairs in quantity order.
func (l Labels) Params() [][2]string {
	out := make([][2]string, 0, Count)
	for _, q := range Quantities() {
		out = append(out, [2]string{q.Param(), l.Token(q)})
	}
	return out
}

// Token percent-encodes the slash in a unit label; the remaining characters
// are accepted verbatim by the service.
func Token(label string) string {
	return strings.ReplaceAll(label, "/", "%2F")
}

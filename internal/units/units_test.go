package units_test

import (
	"errors"
	"strings"
	"testing"

	"fluids/internal/units"
)

func TestResolveMatchesLabelTables(t *testing.T) {
	for _, q := range units.Quantities() {
		for i, want := range q.Labels() {
			codes := units.Default()
			codes[q] = i + 1
			labels, err := units.Resolve(codes)
			if err != nil {
				t.Fatalf("Resolve(%s=%d) returned error: %v", q.Name(), i+1, err)
			}
			if got := labels.Label(q); got != want {
				t.Fatalf("%s code %d: got %q want %q", q.Name(), i+1, got, want)
			}
		}
	}
}

func TestResolveRejectsOutOfRangeCodes(t *testing.T) {
	for _, q := range units.Quantities() {
		for _, code := range []int{0, len(q.Labels()) + 1, -3} {
			codes := units.Default()
			codes[q] = code
			_, err := units.Resolve(codes)
			var invalid *units.InvalidUnitCodeError
			if !errors.As(err, &invalid) {
				t.Fatalf("%s code %d: expected InvalidUnitCodeError, got %v", q.Name(), code, err)
			}
			if invalid.Quantity != q || invalid.Max != len(q.Labels()) {
				t.Fatalf("unexpected error detail: %+v", invalid)
			}
			if !strings.Contains(err.Error(), "valid range 1-") {
				t.Fatalf("expected valid range in message, got %q", err.Error())
			}
		}
	}
}

func TestSIPreset(t *testing.T) {
	labels, err := units.Resolve(units.SI())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	want := []string{"K", "MPa", "kg/m3", "kJ/mol", "m/s", "Pa*s", "N/m"}
	for i, q := range units.Quantities() {
		if got := labels.Label(q); got != want[i] {
			t.Fatalf("%s: got %q want %q", q.Name(), got, want[i])
		}
	}
	if labels.MolarVolume != "m3/kg" {
		t.Fatalf("unexpected molar volume label %q", labels.MolarVolume)
	}
	if labels.MolarEntropy != "J/mol*K" {
		t.Fatalf("unexpected molar entropy label %q", labels.MolarEntropy)
	}
}

func TestPresetLookup(t *testing.T) {
	if codes, err := units.Preset("SI"); err != nil || codes != units.SI() {
		t.Fatalf("Preset(SI) = %v, %v", codes, err)
	}
	if codes, err := units.Preset(""); err != nil || codes != units.Default() {
		t.Fatalf("Preset(\"\") = %v, %v", codes, err)
	}
	if _, err := units.Preset("imperial"); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}

func TestParseOverride(t *testing.T) {
	codes, err := units.ParseOverride("1 1 4 2 1 2 1")
	if err != nil {
		t.Fatalf("ParseOverride returned error: %v", err)
	}
	want := units.Codes{1, 1, 4, 2, 1, 2, 1}
	if codes != want {
		t.Fatalf("got %v want %v", codes, want)
	}
	if codes.String() != "1 1 4 2 1 2 1" {
		t.Fatalf("unexpected String(): %q", codes.String())
	}
}

func TestParseOverrideRejectsWrongCount(t *testing.T) {
	for _, input := range []string{"", "1 1 4 2 1 2", "1 1 4 2 1 2 1 1", "1 1 x 2 1 2 1"} {
		if _, err := units.ParseOverride(input); !errors.Is(err, units.ErrInvalidOverride) {
			t.Fatalf("ParseOverride(%q): expected ErrInvalidOverride, got %v", input, err)
		}
	}
}

func TestTokenEncodesSlash(t *testing.T) {
	codes := units.Codes{1, 1, 1, 2, 1, 1, 2}
	labels, err := units.Resolve(codes)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got := labels.Token(units.Density); got != "mol%2Fl" {
		t.Fatalf("density token: %q", got)
	}
	if got := labels.Token(units.Energy); got != "kJ%2Fkg" {
		t.Fatalf("energy token: %q", got)
	}
	if got := labels.Token(units.Viscosity); got != "uPa*s" {
		t.Fatalf("viscosity token: %q", got)
	}
	params := labels.Params()
	if len(params) != units.Count || params[0][0] != "TUnit" || params[6][0] != "STUnit" {
		t.Fatalf("unexpected params: %v", params)
	}
}

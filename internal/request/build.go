package request

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"fluids/internal/units"
)

// BuildOptions carries the environment a plan is built against.
type BuildOptions struct {
	BaseURL      string
	OutputPrefix string
	// Output overrides the default output filename when set.
	Output string
}

// Plan is everything needed to execute one request.
type Plan struct {
	Query      string
	PrimeURL   string
	DataURL    string
	OutputPath string
}

// Build validates req and renders the query and both URLs.
func Build(req Request, labels units.Labels, opts BuildOptions) (Plan, error) {
	if err := req.Validate(); err != nil {
		return Plan{}, err
	}
	if labels.Codes != req.Units {
		return Plan{}, errors.New("unit labels do not match the request's unit codes")
	}
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		return Plan{}, errors.New("service base url required")
	}

	query := Query(req, labels)
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}

	output := strings.TrimSpace(opts.Output)
	if output == "" {
		output = DefaultOutputName(opts.OutputPrefix, req.Variant)
	}

	return Plan{
		Query:      query,
		PrimeURL:   base + sep + "Action=Load&" + query,
		DataURL:    base + sep + "Action=Data&Wide=on&" + query,
		OutputPath: output,
	}, nil
}

// Query renders the variant template followed by the shared parameters.
func Query(req Request, labels units.Labels) string {
	var b strings.Builder
	add := func(name, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(value)
	}

	add("Type", req.Variant.Type())
	for _, p := range req.params() {
		add(p.name, url.QueryEscape(p.value))
	}
	add("ID", url.QueryEscape(req.SubstanceID))
	add("RefState", url.QueryEscape(req.RefState))
	for _, pair := range labels.Params() {
		add(pair[0], pair[1])
	}
	add("Digits", strconv.Itoa(req.Digits))
	return b.String()
}

// DefaultOutputName returns <prefix>_<tag>.dat.
func DefaultOutputName(prefix string, v Variant) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "fluids"
	}
	return prefix + "_" + v.Tag() + ".dat"
}

package table

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"fluids/internal/fileutil"
	"fluids/internal/units"
)

// DefaultSource is the citation written at the top of every output file.
const DefaultSource = "NIST Chemistry WebBook, SRD 69: Thermophysical Properties of Fluid Systems (https://webbook.nist.gov/chemistry/fluid/)"

// Classification is the outcome of inspecting a response body.
type Classification struct {
	// Columns is the word count of the final non-empty line.
	Columns int
	// Layout is nil when the count matches no known layout.
	Layout *Layout
}

// Recognized reports whether a layout matched.
func (c Classification) Recognized() bool {
	return c.Layout != nil
}

// Classify inspects the final non-empty line of body.
func Classify(body string) Classification {
	lines := splitLines(body)
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		width := len(strings.Fields(lines[i]))
		return Classification{Columns: width, Layout: LookupLayout(width)}
	}
	return Classification{}
}

// Provenance is the header block describing where the data came from.
type Provenance struct {
	Source        string
	SubstanceID   string
	SubstanceName string
	Variant       string
	Timestamp     time.Time
	RunID         string
}

// Document is a response body ready to be written.
type Document struct {
	Provenance Provenance
	Labels     units.Labels
	Body       string
}

// Result summarizes a write.
type Result struct {
	Recognized bool
	Columns    int
	Layout     string
	Rows       int
}

// Write renders doc to w: provenance, then the legend or a warning line, then
// every body line after the first (the service echoes the input there).
func Write(w io.Writer, doc Document) (Result, error) {
	class := Classify(doc.Body)
	result := Result{Recognized: class.Recognized(), Columns: class.Columns}
	if class.Layout != nil {
		result.Layout = class.Layout.Name
	}

	bw := bufio.NewWriter(w)
	writeProvenance(bw, doc.Provenance)
	if class.Layout != nil {
		writeLegend(bw, class.Layout, doc.Labels)
	} else {
		fmt.Fprintf(bw, "# WARNING: format not recognized (%d columns); data written without column legend\n", class.Columns)
	}
	fmt.Fprintln(bw, "#")

	for _, line := range dataLines(doc.Body) {
		if strings.TrimSpace(line) != "" {
			result.Rows++
		}
		fmt.Fprintln(bw, line)
	}
	if err := bw.Flush(); err != nil {
		return result, fmt.Errorf("write table: %w", err)
	}
	return result, nil
}

// DataRows counts the non-blank lines after the echoed first line of body.
func DataRows(body string) int {
	rows := 0
	for _, line := range dataLines(body) {
		if strings.TrimSpace(line) != "" {
			rows++
		}
	}
	return rows
}

// WriteFile writes doc to path atomically.
func WriteFile(path string, doc Document) (Result, error) {
	var result Result
	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		var err error
		result, err = Write(w, doc)
		return err
	})
	if err != nil {
		return Result{}, fmt.Errorf("write %s: %w", path, err)
	}
	return result, nil
}

func writeProvenance(w io.Writer, p Provenance) {
	source := p.Source
	if source == "" {
		source = DefaultSource
	}
	fmt.Fprintf(w, "# Source: %s\n", source)
	name := p.SubstanceName
	if name == "" {
		name = "not available"
	}
	fmt.Fprintf(w, "# Substance: %s (%s)\n", name, p.SubstanceID)
	fmt.Fprintf(w, "# Calculation: %s\n", p.Variant)
	if !p.Timestamp.IsZero() {
		fmt.Fprintf(w, "# Retrieved: %s\n", p.Timestamp.UTC().Format(time.RFC3339))
	}
	if p.RunID != "" {
		fmt.Fprintf(w, "# Run: %s\n", p.RunID)
	}
}

func writeLegend(w io.Writer, layout *Layout, labels units.Labels) {
	fmt.Fprintf(w, "# %s, %d columns:\n", layout.Title, layout.Width())
	for i, col := range layout.Columns {
		unit := UnitLabel(col.Unit, labels)
		if unit == "" {
			fmt.Fprintf(w, "# %2d  %s\n", i+1, col.Name)
			continue
		}
		fmt.Fprintf(w, "# %2d  %s [%s]\n", i+1, col.Name, unit)
	}
}

func dataLines(body string) []string {
	lines := splitLines(body)
	if len(lines) > 0 {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func splitLines(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	if body == "" {
		return nil
	}
	return strings.Split(body, "\n")
}

// Package phenotype loads the phenotypic antibiotic resistance spreadsheet.
// The spreadsheet has antibiotic names across the first row, isolate IDs down
// the first column, and one of R/I/S/U in each cell. Blank cells count as
// undetermined.
package phenotype

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Status is a single phenotypic resistance call.
type Status string

const (
	Resistant    Status = "R"
	Intermediate Status = "I"
	Susceptible  Status = "S"
	Undetermined Status = "U"
)

// ParseStatus converts a raw spreadsheet cell into a Status.
// A blank cell defaults to Undetermined.
func ParseStatus(cell string) (Status, bool) {
	switch strings.TrimSpace(cell) {
	case "":
		return Undetermined, true
	case "R":
		return Resistant, true
	case "I":
		return Intermediate, true
	case "S":
		return Susceptible, true
	case "U":
		return Undetermined, true
	}
	return "", false
}

// Matrix is the loaded phenotype table. Isolates keeps input order,
// Antibiotics is sorted alphabetically for stable display.
type Matrix struct {
	Isolates    []string                     `json:"isolates"`
	Antibiotics []string                     `json:"antibiotics"`
	Statuses    map[string]map[string]Status `json:"statuses"`
}

// Status returns the call for one (isolate, antibiotic) pair.
// Pairs outside the matrix read as Undetermined.
func (m *Matrix) Status(isolate, antibiotic string) Status {
	if row, ok := m.Statuses[isolate]; ok {
		if s, ok := row[antibiotic]; ok {
			return s
		}
	}
	return Undetermined
}

// HasIsolate reports whether the isolate ID appears in the matrix.
func (m *Matrix) HasIsolate(id string) bool {
	_, ok := m.Statuses[id]
	return ok
}

// Subset restricts the matrix to the named antibiotics. Names must all be
// present as columns.
func (m *Matrix) Subset(antibiotics []string) (*Matrix, error) {
	var missing []string
	for _, a := range antibiotics {
		if !contains(m.Antibiotics, a) {
			missing = append(missing, a)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("antibiotics not present in phenotype file column headers: %s", strings.Join(missing, ", "))
	}

	keep := append([]string(nil), antibiotics...)
	sort.Strings(keep)

	sub := &Matrix{
		Isolates:    append([]string(nil), m.Isolates...),
		Antibiotics: keep,
		Statuses:    make(map[string]map[string]Status, len(m.Isolates)),
	}
	for _, id := range m.Isolates {
		row := make(map[string]Status, len(keep))
		for _, a := range keep {
			row[a] = m.Status(id, a)
		}
		sub.Statuses[id] = row
	}
	return sub, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Load reads a phenotype spreadsheet from disk. CSV and TSV are accepted;
// the delimiter is picked from the file extension (.tsv/.tabular/.txt are
// tab-delimited, anything else is comma-delimited).
func Load(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &MissingFileError{Path: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // short rows simply leave trailing cells blank
	r.TrimLeadingSpace = true
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tabular", ".txt":
		r.Comma = '\t'
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, &EmptyPhenotypeError{Path: path}
	}

	header := rows[0]
	antibiotics := make([]string, 0, len(header)-1)
	for _, name := range header[1:] {
		name = Capitalize(strings.TrimSpace(name))
		if name != "" {
			antibiotics = append(antibiotics, name)
		}
	}
	sort.Strings(antibiotics)

	m := &Matrix{
		Antibiotics: antibiotics,
		Statuses:    make(map[string]map[string]Status),
	}

	for rownum, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		id := strings.TrimSpace(row[0])
		if id == "" {
			continue
		}
		if !m.HasIsolate(id) {
			m.Isolates = append(m.Isolates, id)
			m.Statuses[id] = make(map[string]Status, len(antibiotics))
		}
		for col, name := range header[1:] {
			name = Capitalize(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			cell := ""
			if col+1 < len(row) {
				cell = row[col+1]
			}
			status, ok := ParseStatus(cell)
			if !ok {
				return nil, &InvalidStatusError{Path: path, Row: rownum + 2, Isolate: id, Antibiotic: name, Value: cell}
			}
			m.Statuses[id][name] = status
		}
	}

	if len(m.Isolates) == 0 {
		return nil, &EmptyPhenotypeError{Path: path}
	}
	return m, nil
}

// Capitalize matches the original tool's column normalisation: first letter
// upper, rest lower.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

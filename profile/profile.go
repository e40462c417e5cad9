// Package profile merges phenotype and genotype data into the dataset that
// gets plotted and persisted.
package profile

import (
	"sort"

	"abxrxpro/genotype"
	"abxrxpro/phenotype"
)

// DisplayConfig is the presentation side of a profile: the colour scheme
// per status, the antibiotic subset on display, and whether the gene
// frequency chart is suppressed.
type DisplayConfig struct {
	Colours     map[phenotype.Status]string `json:"colours"`
	Antibiotics []string                    `json:"antibiotics,omitempty"`
	HideGenes   bool                        `json:"hide_genes"`
}

// DefaultColours is the scheme applied when the user does not override it.
// R/I/S/U in order.
func DefaultColours() map[phenotype.Status]string {
	return map[phenotype.Status]string{
		phenotype.Resistant:    "rgb(238, 102, 119)",
		phenotype.Intermediate: "rgb(204, 187, 68)",
		phenotype.Susceptible:  "rgb(102, 204, 238)",
		phenotype.Undetermined: "rgb(68, 119, 170)",
	}
}

// Dataset is a merged, plottable, persistable profile payload.
type Dataset struct {
	Pheno   *phenotype.Matrix `json:"phenotype"`
	Records []genotype.Record `json:"records,omitempty"`

	// Genes maps isolate ID -> antibiotic or class name -> gene list.
	// Only isolates present in the phenotype matrix appear here.
	Genes map[string]map[string][]string `json:"genes,omitempty"`

	// Orphans lists isolate IDs that appeared in genotype files but not in
	// the phenotype matrix. Their records are retained in Records but
	// excluded from the merged view above.
	Orphans []string `json:"orphans,omitempty"`

	HasGenotype bool          `json:"has_genotype"`
	Display     DisplayConfig `json:"display"`
}

// Merge joins genotype records onto a phenotype matrix. classes maps
// antibiotic name to its class and controls which RGI drug classes survive
// (RGI reports every class a gene touches; only classes of displayed
// antibiotics are kept, as in the original tool). The join key is the
// isolate ID, exact and case-sensitive.
//
// Records whose isolate is absent from the matrix are kept and flagged as
// orphans rather than discarded; the caller decides how loudly to report
// them.
func Merge(m *phenotype.Matrix, records []genotype.Record, classes map[string]string) *Dataset {
	ds := &Dataset{
		Pheno:       m,
		Records:     append([]genotype.Record(nil), records...),
		Genes:       make(map[string]map[string][]string, len(m.Isolates)),
		HasGenotype: len(records) > 0,
	}
	for _, id := range m.Isolates {
		ds.Genes[id] = make(map[string][]string)
	}

	selected := make(map[string]bool, len(classes))
	for _, class := range classes {
		selected[class] = true
	}

	seenOrphan := make(map[string]bool)
	for _, rec := range ds.Records {
		if !m.HasIsolate(rec.Isolate) {
			if !seenOrphan[rec.Isolate] {
				seenOrphan[rec.Isolate] = true
				ds.Orphans = append(ds.Orphans, rec.Isolate)
			}
			continue
		}
		for _, key := range rec.Classes {
			if rec.Source == genotype.SourceRGI && !selected[key] {
				continue
			}
			ds.Genes[rec.Isolate][key] = append(ds.Genes[rec.Isolate][key], rec.Gene)
		}
	}
	return ds
}

// GeneFrequency is the derived per-gene aggregate: how many distinct
// isolates carry the gene, and which ones, in processing order.
type GeneFrequency struct {
	Gene     string   `json:"gene"`
	Count    int      `json:"count"`
	Isolates []string `json:"isolates"`
}

// Percent is the share of matrix isolates carrying the gene.
func (g GeneFrequency) Percent(totalIsolates int) float64 {
	if totalIsolates == 0 {
		return 0
	}
	return float64(g.Count) / float64(totalIsolates) * 100
}

// Frequencies recomputes the gene frequency aggregate from the dataset's
// records. Gene order is first-appearance order; orphaned isolates do not
// contribute.
func Frequencies(ds *Dataset) []GeneFrequency {
	var order []string
	carriers := make(map[string]map[string]bool)
	isolates := make(map[string][]string)

	for _, rec := range ds.Records {
		if !ds.Pheno.HasIsolate(rec.Isolate) {
			continue
		}
		if carriers[rec.Gene] == nil {
			carriers[rec.Gene] = make(map[string]bool)
			order = append(order, rec.Gene)
		}
		if !carriers[rec.Gene][rec.Isolate] {
			carriers[rec.Gene][rec.Isolate] = true
			isolates[rec.Gene] = append(isolates[rec.Gene], rec.Isolate)
		}
	}

	freqs := make([]GeneFrequency, 0, len(order))
	for _, gene := range order {
		freqs = append(freqs, GeneFrequency{
			Gene:     gene,
			Count:    len(isolates[gene]),
			Isolates: isolates[gene],
		})
	}
	return freqs
}

// CellAnnotation is the per (isolate, antibiotic) chart cell: the deduped
// gene list shown on hoverless inspection, and the bubble size derived from
// the raw gene-hit count.
type CellAnnotation struct {
	Isolate    string
	Antibiotic string
	Genes      []string
	Size       int
}

const baseMarkerSize = 5

// Annotations builds the chart cells for every (isolate, antibiotic) pair
// in display order. Genes assigned to an antibiotic's class count towards
// that antibiotic's cell as well.
func Annotations(ds *Dataset, classes map[string]string) []CellAnnotation {
	antibiotics := ds.Display.Antibiotics
	if len(antibiotics) == 0 {
		antibiotics = ds.Pheno.Antibiotics
	}

	var cells []CellAnnotation
	for _, id := range ds.Pheno.Isolates {
		for _, abx := range antibiotics {
			cell := CellAnnotation{Isolate: id, Antibiotic: abx, Size: baseMarkerSize}
			seen := make(map[string]bool)

			direct := ds.Genes[id][abx]
			cell.Size += len(direct)
			for _, g := range direct {
				if !seen[g] {
					seen[g] = true
					cell.Genes = append(cell.Genes, g)
				}
			}
			if class, ok := classes[abx]; ok {
				byClass := ds.Genes[id][class]
				cell.Size += len(byClass)
				for _, g := range byClass {
					if !seen[g] {
						seen[g] = true
						cell.Genes = append(cell.Genes, g)
					}
				}
			}
			cells = append(cells, cell)
		}
	}
	return cells
}

// Summary facts for listings.
func (ds *Dataset) IsolateCount() int    { return len(ds.Pheno.Isolates) }
func (ds *Dataset) AntibioticCount() int { return len(ds.Pheno.Antibiotics) }

// Preview joins the first n entries of list with a trailing ellipsis when
// truncated.
func Preview(list []string, n int) string {
	if len(list) <= n {
		return join(list)
	}
	return join(list[:n]) + "..."
}

func join(list []string) string {
	out := ""
	for i, s := range list {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

// SortedGenes returns the distinct display-view gene names, sorted. Used by
// diagnostics.
func SortedGenes(ds *Dataset) []string {
	set := make(map[string]bool)
	for _, byKey := range ds.Genes {
		for _, genes := range byKey {
			for _, g := range genes {
				set[g] = true
			}
		}
	}
	out := make([]string, 0, len(set))
	for g := range set {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

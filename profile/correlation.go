package profile

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"abxrxpro/phenotype"
)

// Correlation measures how well carrying a gene predicts a phenotypic call
// for one antibiotic across the profile's isolates.
type Correlation struct {
	Gene       string
	Antibiotic string
	R          float64
	Strength   string
}

// statusWeight turns a call into the numeric value used for correlation.
// Intermediate counts half.
func statusWeight(s phenotype.Status) float64 {
	switch s {
	case phenotype.Resistant:
		return 1
	case phenotype.Intermediate:
		return 0.5
	}
	return 0
}

// Correlate computes the Pearson correlation between gene presence and
// phenotype for every (gene, antibiotic) pairing the merged view suggests.
// Genes assigned to a class are tested against each member antibiotic of
// that class present in the matrix. Results come back sorted by gene then
// antibiotic.
func Correlate(ds *Dataset, classes map[string]string) []Correlation {
	// Distinct (key, gene) pairs across the merged view, where key is an
	// antibiotic or class name.
	pairSet := make(map[[2]string]bool)
	for _, byKey := range ds.Genes {
		for key, genes := range byKey {
			for _, g := range genes {
				pairSet[[2]string{key, g}] = true
			}
		}
	}

	// Reverse the class map once: class -> member antibiotics on display.
	members := make(map[string][]string)
	for abx, class := range classes {
		if contains(ds.Pheno.Antibiotics, abx) {
			members[class] = append(members[class], abx)
		}
	}
	for _, m := range members {
		sort.Strings(m)
	}

	var results []Correlation
	for pair := range pairSet {
		key, gene := pair[0], pair[1]

		antibiotics := []string{key}
		if abxs, isClass := members[key]; isClass {
			antibiotics = abxs
		}

		presence := genePresence(ds, key, gene)
		for _, abx := range antibiotics {
			if !contains(ds.Pheno.Antibiotics, abx) {
				continue
			}
			pheno := make([]float64, len(ds.Pheno.Isolates))
			for i, id := range ds.Pheno.Isolates {
				pheno[i] = statusWeight(ds.Pheno.Status(id, abx))
			}
			r := stat.Correlation(pheno, presence, nil)
			results = append(results, Correlation{
				Gene:       gene,
				Antibiotic: abx,
				R:          r,
				Strength:   Strength(r),
			})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Gene != results[j].Gene {
			return results[i].Gene < results[j].Gene
		}
		return results[i].Antibiotic < results[j].Antibiotic
	})
	return results
}

func genePresence(ds *Dataset, key, gene string) []float64 {
	out := make([]float64, len(ds.Pheno.Isolates))
	for i, id := range ds.Pheno.Isolates {
		for _, g := range ds.Genes[id][key] {
			if g == gene {
				out[i] = 1
				break
			}
		}
	}
	return out
}

// Strength labels a correlation coefficient. A NaN coefficient (zero
// variance on either side) reads as no relationship.
func Strength(r float64) string {
	switch {
	case math.IsNaN(r):
		return "no or negligible relationship"
	case r >= 0.7:
		return "very strong positive relationship"
	case r >= 0.4:
		return "strong positive relationship"
	case r >= 0.3:
		return "moderate positive relationship"
	case r >= 0.2:
		return "weak positive relationship"
	case r > -0.2:
		return "no or negligible relationship"
	case r > -0.3:
		return "weak negative relationship"
	case r > -0.4:
		return "moderate negative relationship"
	case r > -0.7:
		return "strong negative relationship"
	default:
		return "very strong negative relationship"
	}
}

// Negligible reports whether a result is below the reporting threshold.
func (c Correlation) Negligible() bool {
	return c.Strength == "no or negligible relationship"
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

package genotype

import "strings"

// Per-source column mappings. Each caller lays its summary table out
// differently; the parsers below reduce all three to Record.

// RGI summary columns of interest. Drug classes come "; "-separated with an
// " antibiotic" suffix on each entry ("penam antibiotic"). RGI names classes
// in the singular, so entries are pluralised to line up with the class names
// used in the antibiotic settings ("Penams" and friends).
func parseRGI(path, isolate string, header []string, rows [][]string) ([]Record, error) {
	cols, err := columnIndex(path, header, "Best_Hit_ARO", "Drug Class")
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, row := range rows {
		gene := cell(row, cols["Best_Hit_ARO"])
		rawClass := cell(row, cols["Drug Class"])
		if gene == "" || rawClass == "" {
			continue
		}
		var classes []string
		for _, c := range strings.Split(rawClass, ";") {
			c = strings.TrimSuffix(strings.TrimSpace(c), " antibiotic")
			if c == "" {
				continue
			}
			classes = append(classes, titleCase(c)+"s")
		}
		if len(classes) == 0 {
			continue
		}
		records = append(records, Record{Isolate: isolate, Gene: gene, Source: SourceRGI, Classes: classes})
	}
	return records, nil
}

// staramr summary columns. Genotype and Predicted Phenotype are parallel
// ", "-separated lists pairing each gene with the antibiotic it confers
// resistance to. A file lacking the Genotype column is most likely the
// resfinder output of staramr rather than summary.tsv.
func parseStaramr(path, isolate string, header []string, rows [][]string) ([]Record, error) {
	cols, err := columnIndex(path, header, "Genotype", "Predicted Phenotype")
	if err != nil {
		if _, missingGenotype := err.(*MalformedFileError); missingGenotype {
			return nil, &MalformedFileError{Path: path, Detail: "expected staramr summary.tsv columns (Genotype, Predicted Phenotype); check that this is not the resfinder output"}
		}
		return nil, err
	}

	var records []Record
	for _, row := range rows {
		rawGenes := cell(row, cols["Genotype"])
		if rawGenes == "" || rawGenes == "None" {
			continue
		}
		genes := splitList(rawGenes)
		phenos := splitList(cell(row, cols["Predicted Phenotype"]))
		for i, gene := range genes {
			rec := Record{Isolate: isolate, Gene: gene, Source: SourceStaramr}
			if i < len(phenos) {
				rec.Classes = []string{titleCase(phenos[i])}
			}
			records = append(records, rec)
		}
	}
	return records, nil
}

// amrfinder result columns. Subclass carries a single antibiotic class per
// row, upper-cased in the raw output.
func parseAmrfinder(path, isolate string, header []string, rows [][]string) ([]Record, error) {
	cols, err := columnIndex(path, header, "Gene symbol", "Subclass")
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, row := range rows {
		gene := cell(row, cols["Gene symbol"])
		subclass := cell(row, cols["Subclass"])
		if gene == "" || subclass == "" {
			continue
		}
		records = append(records, Record{
			Isolate: isolate,
			Gene:    gene,
			Source:  SourceAmrfinder,
			Classes: []string{capitalize(subclass)},
		})
	}
	return records, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// titleCase capitalises each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

package plot

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"abxrxpro/phenotype"
	"abxrxpro/profile"
)

// FallbackName is used when a chart is exported without a profile name.
// Kept for compatibility with the original tool, which fell through to the
// boolean's string form.
const FallbackName = "False"

// ExportHTML writes a standalone chart document for the dataset into dir
// and returns the written path. The file is named after the profile; an
// unnamed export falls back to the literal name "False". An already
// exported file is never overwritten.
func ExportHTML(dir, name string, ds *profile.Dataset, cells []profile.CellAnnotation, freqs []profile.GeneFrequency) (string, error) {
	if name == "" {
		name = FallbackName
	}
	path := filepath.Join(dir, name+".html")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("chart already exported to %s; remove it first", path)
	}

	bubble, err := BubbleSVG(ds, cells)
	if err != nil {
		return "", fmt.Errorf("rendering resistance profile chart: %w", err)
	}

	genes := ""
	if ds.HasGenotype && !ds.Display.HideGenes {
		bar, err := FrequencyBarSVG(freqs, ds.IsolateCount())
		if err != nil {
			return "", fmt.Errorf("rendering gene frequency chart: %w", err)
		}
		genes = geneSection(bar, freqs, ds.IsolateCount())
	}

	doc := document(name, ds, bubble, genes, cells)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("writing chart export: %w", err)
	}
	return path, nil
}

var statusNames = []struct {
	Status phenotype.Status
	Label  string
}{
	{phenotype.Resistant, "Resistant (R)"},
	{phenotype.Intermediate, "Intermediate (I)"},
	{phenotype.Susceptible, "Susceptible (S)"},
	{phenotype.Undetermined, "Undetermined (U)"},
}

func document(name string, ds *profile.Dataset, bubbleSVG, geneSection string, cells []profile.CellAnnotation) string {
	var legend strings.Builder
	colours := ds.Display.Colours
	if colours == nil {
		colours = profile.DefaultColours()
	}
	for _, s := range statusNames {
		legend.WriteString(fmt.Sprintf(
			`<span class="swatch" style="background:%s"></span>%s `,
			html.EscapeString(colours[s.Status]), html.EscapeString(s.Label)))
	}

	var table strings.Builder
	for _, c := range cells {
		if len(c.Genes) == 0 {
			continue
		}
		table.WriteString(fmt.Sprintf(
			"\t\t<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			html.EscapeString(c.Isolate),
			html.EscapeString(c.Antibiotic),
			html.EscapeString(string(ds.Pheno.Status(c.Isolate, c.Antibiotic))),
			html.EscapeString(strings.Join(c.Genes, ", "))))
	}
	annots := "<p>No genotype identified.</p>"
	if table.Len() > 0 {
		annots = fmt.Sprintf(`<button onclick="toggle('annots')">Toggle genotype detail</button>
	<table id="annots">
		<tr><th>Isolate</th><th>Antibiotic</th><th>Phenotype</th><th>Genes identified</th></tr>
%s	</table>`, table.String())
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<title>AbxRxPro: %[1]s</title>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; padding: 20px; background-color: #f9f9f9; }
		h1 { color: #333; }
		table { border-collapse: collapse; margin-top: 20px; }
		th, td { padding: 8px 12px; border: 1px solid #ccc; text-align: left; }
		th { background-color: #eee; }
		.swatch { display: inline-block; width: 14px; height: 14px; margin: 0 4px 0 12px; border: 1px solid #666; vertical-align: middle; }
	</style>
	<script>
		function toggle(id) {
			var el = document.getElementById(id);
			el.style.display = el.style.display === "none" ? "" : "none";
		}
	</script>
</head>
<body>
	<h1>AbxRxPro: %[1]s antibiotic resistance profile</h1>
	<p>%[2]d isolates, %[3]d antibiotics. %[4]s</p>
	<div>%[5]s</div>
	%[6]s
%[7]s
</body>
</html>`,
		html.EscapeString(name),
		ds.IsolateCount(),
		ds.AntibioticCount(),
		legend.String(),
		bubbleSVG,
		annots,
		geneSection)
}

func geneSection(barSVG string, freqs []profile.GeneFrequency, total int) string {
	var rows strings.Builder
	for _, f := range freqs {
		rows.WriteString(fmt.Sprintf(
			"\t\t<tr><td>%s</td><td>%d</td><td>%.1f</td><td>%s</td></tr>\n",
			html.EscapeString(f.Gene), f.Count, f.Percent(total),
			html.EscapeString(strings.Join(f.Isolates, ", "))))
	}
	return fmt.Sprintf(`	<h2>Gene frequencies</h2>
	<div>%s</div>
	<button onclick="toggle('freqs')">Toggle frequency detail</button>
	<table id="freqs">
		<tr><th>Gene</th><th>Isolate count</th><th>Frequency (%%)</th><th>Found in isolates</th></tr>
%s	</table>`, barSVG, rows.String())
}

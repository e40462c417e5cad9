// Package plot renders a merged profile to charts. Charts are drawn with
// gonum/plot into SVG strings and stitched into a standalone HTML document,
// so an exported profile needs nothing but a browser.
package plot

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"abxrxpro/phenotype"
	"abxrxpro/profile"
)

// ParseRGB reads an rgb(r, g, b) colour string. The bare (r,g,b) form used
// on the command line is accepted too.
func ParseRGB(s string) (color.RGBA, error) {
	compact := strings.ReplaceAll(s, " ", "")
	compact = strings.TrimPrefix(compact, "rgb")
	var r, g, b int
	if _, err := fmt.Sscanf(compact, "(%d,%d,%d)", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q, expected rgb(r, g, b)", s)
	}
	if r < 0 || r > 255 || g < 0 || g > 255 || b < 0 || b > 255 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q, channels must be 0-255", s)
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}, nil
}

// nameTicks labels integer axis positions 1..n with fixed names.
type nameTicks struct {
	names []string
}

func (t nameTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for i, name := range t.names {
		v := float64(i + 1)
		if v < min || v > max {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: v, Label: name})
	}
	return ticks
}

// BubbleSVG draws the resistance profile grid: isolates along X,
// antibiotics along Y, marker colour from the phenotype status and marker
// size from the genotype hit count of each cell.
func BubbleSVG(ds *profile.Dataset, cells []profile.CellAnnotation) (string, error) {
	antibiotics := ds.Display.Antibiotics
	if len(antibiotics) == 0 {
		antibiotics = ds.Pheno.Antibiotics
	}
	isolates := ds.Pheno.Isolates

	colours, err := parseScheme(ds.Display.Colours)
	if err != nil {
		return "", err
	}

	abxRow := make(map[string]int, len(antibiotics))
	for i, a := range antibiotics {
		abxRow[a] = i + 1
	}
	isoCol := make(map[string]int, len(isolates))
	for i, id := range isolates {
		isoCol[id] = i + 1
	}

	pts := make(plotter.XYs, len(cells))
	styles := make([]draw.GlyphStyle, len(cells))
	maxSize := 1
	for _, c := range cells {
		if c.Size > maxSize {
			maxSize = c.Size
		}
	}
	for i, c := range cells {
		pts[i].X = float64(isoCol[c.Isolate])
		pts[i].Y = float64(abxRow[c.Antibiotic])
		styles[i] = draw.GlyphStyle{
			Color:  colours[ds.Pheno.Status(c.Isolate, c.Antibiotic)],
			Radius: vg.Points(4 + 12*math.Sqrt(float64(c.Size)/float64(maxSize))),
			Shape:  draw.CircleGlyph{},
		}
	}

	p := plot.New()
	p.Title.Text = "AbxRxPro: antibiotic resistance profile"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Isolate ID"
	p.Y.Label.Text = "Antibiotics"
	p.X.Tick.Marker = nameTicks{names: isolates}
	p.Y.Tick.Marker = nameTicks{names: antibiotics}
	p.X.Min, p.X.Max = 0, float64(len(isolates))+1
	p.Y.Min, p.Y.Max = 0, float64(len(antibiotics))+1

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return "", err
	}
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle { return styles[i] }
	p.Add(sc, plotter.NewGrid())

	return renderSVG(p, vg.Length(math.Max(6, float64(len(isolates))))*vg.Inch, vg.Length(math.Max(4, 0.5*float64(len(antibiotics))))*vg.Inch)
}

// FrequencyBarSVG draws the gene frequency chart: percentage of isolates
// carrying each gene.
func FrequencyBarSVG(freqs []profile.GeneFrequency, totalIsolates int) (string, error) {
	values := make(plotter.Values, len(freqs))
	names := make([]string, len(freqs))
	for i, f := range freqs {
		values[i] = f.Percent(totalIsolates)
		names[i] = f.Gene
	}

	p := plot.New()
	p.Title.Text = "AbxRxPro: gene frequencies"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Resistance gene"
	p.Y.Label.Text = "Gene frequency (%)"
	p.Y.Min, p.Y.Max = 0, 100
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return "", err
	}
	bars.Color = color.RGBA{R: 100, G: 180, B: 255, A: 255}
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)

	w := vg.Length(math.Max(6, 0.4*float64(len(freqs)))) * vg.Inch
	return renderSVG(p, w, 4*vg.Inch)
}

func parseScheme(scheme map[phenotype.Status]string) (map[phenotype.Status]color.RGBA, error) {
	if scheme == nil {
		scheme = profile.DefaultColours()
	}
	out := make(map[phenotype.Status]color.RGBA, len(scheme))
	for status, raw := range scheme {
		c, err := ParseRGB(raw)
		if err != nil {
			return nil, fmt.Errorf("colour for status %s: %w", status, err)
		}
		out[status] = c
	}
	return out, nil
}

func renderSVG(p *plot.Plot, w, h vg.Length) (string, error) {
	var buf bytes.Buffer
	writer, err := p.WriterTo(w, h, "svg")
	if err != nil {
		return "", err
	}
	if _, err := writer.WriteTo(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

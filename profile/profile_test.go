package profile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abxrxpro/genotype"
	"abxrxpro/phenotype"
)

func testMatrix() *phenotype.Matrix {
	return &phenotype.Matrix{
		Isolates:    []string{"X1", "X2"},
		Antibiotics: []string{"Amp", "Cip"},
		Statuses: map[string]map[string]phenotype.Status{
			"X1": {"Amp": phenotype.Resistant, "Cip": phenotype.Undetermined},
			"X2": {"Amp": phenotype.Susceptible, "Cip": phenotype.Intermediate},
		},
	}
}

func testClasses() map[string]string {
	return map[string]string{"Amp": "Penicillins", "Cip": "Fluoroquinolones"}
}

func rec(isolate, gene string, source genotype.Source, classes ...string) genotype.Record {
	return genotype.Record{Isolate: isolate, Gene: gene, Source: source, Classes: classes}
}

func TestMerge_JoinsByIsolate(t *testing.T) {
	records := []genotype.Record{
		rec("X1", "blaTEM", genotype.SourceStaramr, "Amp"),
		rec("X2", "qnrS1", genotype.SourceStaramr, "Cip"),
	}

	ds := Merge(testMatrix(), records, testClasses())

	assert.True(t, ds.HasGenotype)
	assert.Equal(t, []string{"blaTEM"}, ds.Genes["X1"]["Amp"])
	assert.Equal(t, []string{"qnrS1"}, ds.Genes["X2"]["Cip"])
	assert.Empty(t, ds.Orphans)
}

func TestMerge_RGIClassFilter(t *testing.T) {
	records := []genotype.Record{
		// Penicillins is the class of a displayed antibiotic; Phenicols is not.
		rec("X1", "blaTEM", genotype.SourceRGI, "Penicillins", "Phenicols"),
	}

	ds := Merge(testMatrix(), records, testClasses())

	assert.Equal(t, []string{"blaTEM"}, ds.Genes["X1"]["Penicillins"])
	assert.Empty(t, ds.Genes["X1"]["Phenicols"])
}

func TestMerge_OrphanRetainedAndFlagged(t *testing.T) {
	records := []genotype.Record{
		rec("X1", "blaTEM", genotype.SourceStaramr, "Amp"),
		rec("X9", "tetA", genotype.SourceStaramr, "Tetracycline"),
		rec("X9", "tetB", genotype.SourceStaramr, "Tetracycline"),
	}

	ds := Merge(testMatrix(), records, testClasses())

	assert.Equal(t, []string{"X9"}, ds.Orphans)
	// Retained in the record list, excluded from the merged view.
	assert.Len(t, ds.Records, 3)
	_, inView := ds.Genes["X9"]
	assert.False(t, inView)
}

func TestMerge_CaseSensitiveJoin(t *testing.T) {
	records := []genotype.Record{
		rec("x1", "blaTEM", genotype.SourceStaramr, "Amp"),
	}

	ds := Merge(testMatrix(), records, testClasses())
	assert.Equal(t, []string{"x1"}, ds.Orphans)
	assert.Empty(t, ds.Genes["X1"]["Amp"])
}

func TestMerge_Idempotent(t *testing.T) {
	records := []genotype.Record{
		rec("X1", "blaTEM", genotype.SourceStaramr, "Amp"),
		rec("X2", "blaTEM", genotype.SourceStaramr, "Amp"),
		rec("X2", "qnrS1", genotype.SourceRGI, "Fluoroquinolones"),
		rec("X9", "tetA", genotype.SourceAmrfinder, "Tetracycline"),
	}

	a := Merge(testMatrix(), records, testClasses())
	b := Merge(testMatrix(), records, testClasses())

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("merge is not idempotent (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(Frequencies(a), Frequencies(b)); diff != "" {
		t.Errorf("frequencies differ across identical merges:\n%s", diff)
	}
}

func TestFrequencies_DistinctIsolateCounts(t *testing.T) {
	// The scenario from the file naming contract: blaTEM found in X1 and X2.
	records := []genotype.Record{
		rec("X1", "blaTEM", genotype.SourceRGI, "Penicillins"),
		rec("X2", "blaTEM", genotype.SourceRGI, "Penicillins"),
	}

	ds := Merge(testMatrix(), records, testClasses())
	freqs := Frequencies(ds)

	require.Len(t, freqs, 1)
	assert.Equal(t, "blaTEM", freqs[0].Gene)
	assert.Equal(t, 2, freqs[0].Count)
	assert.Equal(t, []string{"X1", "X2"}, freqs[0].Isolates)
	assert.InDelta(t, 100.0, freqs[0].Percent(ds.IsolateCount()), 1e-9)
}

func TestFrequencies_DuplicateRecordsCountOnce(t *testing.T) {
	// Same gene reported twice for one isolate (e.g. two loci).
	records := []genotype.Record{
		rec("X1", "blaTEM", genotype.SourceStaramr, "Amp"),
		rec("X1", "blaTEM", genotype.SourceRGI, "Penicillins"),
	}

	ds := Merge(testMatrix(), records, testClasses())
	freqs := Frequencies(ds)

	require.Len(t, freqs, 1)
	assert.Equal(t, 1, freqs[0].Count)
	assert.Equal(t, []string{"X1"}, freqs[0].Isolates)
}

func TestFrequencies_OrphansExcluded(t *testing.T) {
	records := []genotype.Record{
		rec("X1", "blaTEM", genotype.SourceStaramr, "Amp"),
		rec("X9", "blaTEM", genotype.SourceStaramr, "Amp"),
	}

	ds := Merge(testMatrix(), records, testClasses())
	freqs := Frequencies(ds)

	require.Len(t, freqs, 1)
	assert.Equal(t, 1, freqs[0].Count)
}

func TestAnnotations_SizesAndGeneLists(t *testing.T) {
	records := []genotype.Record{
		rec("X1", "blaTEM", genotype.SourceStaramr, "Amp"),
		rec("X1", "blaSHV", genotype.SourceRGI, "Penicillins"),
	}

	ds := Merge(testMatrix(), records, testClasses())
	cells := Annotations(ds, testClasses())

	// 2 isolates x 2 antibiotics, isolate-major order.
	require.Len(t, cells, 4)
	assert.Equal(t, "X1", cells[0].Isolate)
	assert.Equal(t, "Amp", cells[0].Antibiotic)

	// X1/Amp: one direct gene plus one via the Penicillins class.
	assert.Equal(t, []string{"blaTEM", "blaSHV"}, cells[0].Genes)
	assert.Equal(t, baseMarkerSize+2, cells[0].Size)

	// X2 has no genotype at all.
	for _, c := range cells[2:] {
		assert.Empty(t, c.Genes)
		assert.Equal(t, baseMarkerSize, c.Size)
	}
}

func TestAnnotations_DeduplicatesText(t *testing.T) {
	records := []genotype.Record{
		rec("X1", "blaTEM", genotype.SourceStaramr, "Amp"),
		rec("X1", "blaTEM", genotype.SourceStaramr, "Amp"),
	}

	ds := Merge(testMatrix(), records, testClasses())
	cells := Annotations(ds, testClasses())

	// Text deduped, size still reflects both hits.
	assert.Equal(t, []string{"blaTEM"}, cells[0].Genes)
	assert.Equal(t, baseMarkerSize+2, cells[0].Size)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "a, b", Preview([]string{"a", "b"}, 5))
	assert.Equal(t, "a, b...", Preview([]string{"a", "b", "c"}, 2))
}

package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abxrxpro/genotype"
	"abxrxpro/phenotype"
)

func corrMatrix() *phenotype.Matrix {
	return &phenotype.Matrix{
		Isolates:    []string{"A", "B", "C", "D"},
		Antibiotics: []string{"Amp", "Cip"},
		Statuses: map[string]map[string]phenotype.Status{
			"A": {"Amp": phenotype.Resistant, "Cip": phenotype.Susceptible},
			"B": {"Amp": phenotype.Resistant, "Cip": phenotype.Resistant},
			"C": {"Amp": phenotype.Susceptible, "Cip": phenotype.Susceptible},
			"D": {"Amp": phenotype.Susceptible, "Cip": phenotype.Resistant},
		},
	}
}

func TestCorrelate_PerfectPositive(t *testing.T) {
	// blaTEM present exactly in the Amp-resistant isolates.
	records := []genotype.Record{
		rec("A", "blaTEM", genotype.SourceStaramr, "Amp"),
		rec("B", "blaTEM", genotype.SourceStaramr, "Amp"),
	}
	ds := Merge(corrMatrix(), records, testClasses())

	results := Correlate(ds, testClasses())
	require.Len(t, results, 1)
	assert.Equal(t, "blaTEM", results[0].Gene)
	assert.Equal(t, "Amp", results[0].Antibiotic)
	assert.InDelta(t, 1.0, results[0].R, 1e-9)
	assert.Equal(t, "very strong positive relationship", results[0].Strength)
	assert.False(t, results[0].Negligible())
}

func TestCorrelate_ClassFansOutToMemberAntibiotics(t *testing.T) {
	// A gene recorded under the Penicillins class is tested against Amp,
	// the class member present in the matrix.
	records := []genotype.Record{
		rec("A", "blaSHV", genotype.SourceRGI, "Penicillins"),
		rec("B", "blaSHV", genotype.SourceRGI, "Penicillins"),
	}
	ds := Merge(corrMatrix(), records, testClasses())

	results := Correlate(ds, testClasses())
	require.Len(t, results, 1)
	assert.Equal(t, "Amp", results[0].Antibiotic)
	assert.InDelta(t, 1.0, results[0].R, 1e-9)
}

func TestCorrelate_NoRelationship(t *testing.T) {
	// qnrS1 presence is independent of the Cip phenotype.
	records := []genotype.Record{
		rec("A", "qnrS1", genotype.SourceStaramr, "Cip"),
		rec("B", "qnrS1", genotype.SourceStaramr, "Cip"),
	}
	ds := Merge(corrMatrix(), records, testClasses())

	results := Correlate(ds, testClasses())
	require.Len(t, results, 1)
	assert.True(t, results[0].Negligible())
}

func TestStrength_Labels(t *testing.T) {
	cases := []struct {
		r    float64
		want string
	}{
		{0.9, "very strong positive relationship"},
		{0.5, "strong positive relationship"},
		{0.35, "moderate positive relationship"},
		{0.25, "weak positive relationship"},
		{0.1, "no or negligible relationship"},
		{-0.1, "no or negligible relationship"},
		{-0.25, "weak negative relationship"},
		{-0.35, "moderate negative relationship"},
		{-0.5, "strong negative relationship"},
		{-0.9, "very strong negative relationship"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Strength(c.r), "r=%v", c.r)
	}
}

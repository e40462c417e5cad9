package genotype

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGenotypeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const rgiFile = "ORF_ID\tBest_Hit_ARO\tDrug Class\n" +
	"orf1\tblaTEM-1\tpenam antibiotic; cephalosporin antibiotic\n" +
	"orf2\ttet(A)\ttetracycline antibiotic\n" +
	"orf3\tnoclass\t\n"

const staramrFile = "Isolate ID\tGenotype\tPredicted Phenotype\n" +
	"ignored\tblaTEM-1, tet(A)\tampicillin, tetracycline\n"

const amrfinderFile = "Protein identifier\tGene symbol\tSubclass\n" +
	"p1\tblaTEM-1\tBETA-LACTAM\n" +
	"p2\taph(6)-Id\tSTREPTOMYCIN\n"

func TestParseFile_RGI(t *testing.T) {
	dir := t.TempDir()
	path := writeGenotypeFile(t, dir, "X1_RGI.tabular", rgiFile)

	recs, err := ParseFile(path, SourceRGI)
	require.NoError(t, err)
	require.Len(t, recs, 2) // classless row dropped

	assert.Equal(t, "blaTEM-1", recs[0].Gene)
	assert.Equal(t, SourceRGI, recs[0].Source)
	assert.Equal(t, []string{"Penams", "Cephalosporins"}, recs[0].Classes)
	assert.Equal(t, []string{"Tetracyclines"}, recs[1].Classes)
}

func TestParseFile_Staramr(t *testing.T) {
	dir := t.TempDir()
	path := writeGenotypeFile(t, dir, "X1_staramr.tsv", staramrFile)

	recs, err := ParseFile(path, SourceStaramr)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "blaTEM-1", recs[0].Gene)
	assert.Equal(t, []string{"Ampicillin"}, recs[0].Classes)
	assert.Equal(t, "tet(A)", recs[1].Gene)
	assert.Equal(t, []string{"Tetracycline"}, recs[1].Classes)
}

func TestParseFile_StaramrNoneRowSkipped(t *testing.T) {
	dir := t.TempDir()
	path := writeGenotypeFile(t, dir, "X1_staramr.tsv",
		"Isolate ID\tGenotype\tPredicted Phenotype\nX1\tNone\tSensitive\n")

	recs, err := ParseFile(path, SourceStaramr)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestParseFile_Amrfinder(t *testing.T) {
	dir := t.TempDir()
	path := writeGenotypeFile(t, dir, "X2_amrfinder.txt", amrfinderFile)

	recs, err := ParseFile(path, SourceAmrfinder)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, []string{"Beta-lactam"}, recs[0].Classes)
	assert.Equal(t, []string{"Streptomycin"}, recs[1].Classes)
}

func TestParseFile_IsolateAlwaysFromFilename(t *testing.T) {
	// The staramr body names a different isolate; the filename wins.
	dir := t.TempDir()
	path := writeGenotypeFile(t, dir, "X9_staramr.tsv", staramrFile)

	recs, err := ParseFile(path, SourceStaramr)
	require.NoError(t, err)
	for _, r := range recs {
		assert.Equal(t, "X9", r.Isolate)
	}
}

func TestParseFile_MissingColumns(t *testing.T) {
	dir := t.TempDir()
	path := writeGenotypeFile(t, dir, "X1_RGI.tsv", "A\tB\nfoo\tbar\n")

	_, err := ParseFile(path, SourceRGI)
	var malformed *MalformedFileError
	require.True(t, errors.As(err, &malformed))
	assert.Contains(t, malformed.Detail, "Best_Hit_ARO")
}

func TestParseFile_ResfinderHint(t *testing.T) {
	dir := t.TempDir()
	path := writeGenotypeFile(t, dir, "X1_staramr.tsv", "Gene\tAccession\nblaTEM\tAB1\n")

	_, err := ParseFile(path, SourceStaramr)
	var malformed *MalformedFileError
	require.True(t, errors.As(err, &malformed))
	assert.Contains(t, malformed.Detail, "resfinder")
}

func TestParseFile_BadFilename(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing source suffix", func(t *testing.T) {
		path := writeGenotypeFile(t, dir, "X1.tsv", rgiFile)
		_, err := ParseFile(path, SourceRGI)
		var malformed *MalformedFileError
		require.True(t, errors.As(err, &malformed))
	})

	t.Run("wrong extension", func(t *testing.T) {
		path := writeGenotypeFile(t, dir, "X1_RGI.xlsx", rgiFile)
		_, err := ParseFile(path, SourceRGI)
		var malformed *MalformedFileError
		require.True(t, errors.As(err, &malformed))
	})

	t.Run("empty isolate", func(t *testing.T) {
		path := writeGenotypeFile(t, dir, "_RGI.tsv", rgiFile)
		_, err := ParseFile(path, SourceRGI)
		var malformed *MalformedFileError
		require.True(t, errors.As(err, &malformed))
	})
}

func TestParseSource(t *testing.T) {
	for _, tag := range []string{"RGI", "staramr", "amrfinder"} {
		_, err := ParseSource(tag)
		assert.NoError(t, err)
	}

	// Case-sensitive.
	for _, tag := range []string{"rgi", "Staramr", "resfinder", ""} {
		_, err := ParseSource(tag)
		var unsupported *UnsupportedSourceError
		assert.True(t, errors.As(err, &unsupported), "tag %q", tag)
	}
}

func TestScanFolder(t *testing.T) {
	dir := t.TempDir()
	writeGenotypeFile(t, dir, "X1_RGI.tabular", rgiFile)
	writeGenotypeFile(t, dir, "X2_RGI.tsv", rgiFile)
	writeGenotypeFile(t, dir, "X3_staramr.tsv", staramrFile) // other source, ignored
	writeGenotypeFile(t, dir, "notes_RGI.pdf", "junk")       // wrong extension, ignored

	recs, err := ScanFolder(dir, SourceRGI)
	require.NoError(t, err)
	require.Len(t, recs, 4)

	isolates := map[string]bool{}
	for _, r := range recs {
		isolates[r.Isolate] = true
	}
	assert.Equal(t, map[string]bool{"X1": true, "X2": true}, isolates)
}

func TestScanFolder_IgnoresMultiDotNames(t *testing.T) {
	dir := t.TempDir()
	writeGenotypeFile(t, dir, "X1_RGI.tsv", rgiFile)
	writeGenotypeFile(t, dir, "X1_RGI.summary.tsv", "junk") // outside the naming contract, ignored

	recs, err := ScanFolder(dir, SourceRGI)
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	for _, r := range recs {
		assert.Equal(t, "X1", r.Isolate)
	}
}

func TestScanFolder_Empty(t *testing.T) {
	_, err := ScanFolder(t.TempDir(), SourceAmrfinder)
	var missing *MissingFileError
	require.True(t, errors.As(err, &missing))
}

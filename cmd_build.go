package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"abxrxpro/genotype"
	"abxrxpro/phenotype"
	"abxrxpro/plot"
	"abxrxpro/profile"
	"abxrxpro/store"
)

var (
	buildPheno       string
	buildRGI         string
	buildStaramr     string
	buildAmrfinder   string
	buildAntibiotics []string
	buildColours     []string
	buildName        string
	buildOverwrite   bool
	buildExport      bool
	buildCSV         bool
	buildOut         string
	buildHideGenes   bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a resistance profile from phenotype and genotype files",
	Long: `Build a resistance profile from a phenotype spreadsheet, optionally
merged with genotype caller output.

The phenotype file carries isolate IDs in the first column and antibiotic
names in the header row; cells hold R, I, S, U or are left blank for
undetermined. Genotype folders hold per-isolate caller files named
<isolateID>_<source>.<ext> (tsv, tabular or txt, tab-separated).

With --name the profile is saved for reloading; with --export (or with no
name at all) the chart is exported as a standalone HTML file.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildPheno, "pheno", "P", "", "phenotype spreadsheet path (CSV or TSV)")
	buildCmd.Flags().StringVarP(&buildRGI, "rgi", "R", "", "folder with RGI summary files")
	buildCmd.Flags().StringVarP(&buildStaramr, "staramr", "S", "", "folder with staramr summary files")
	buildCmd.Flags().StringVarP(&buildAmrfinder, "amrfinder", "A", "", "folder with amrfinder result files")
	buildCmd.Flags().StringSliceVarP(&buildAntibiotics, "antibiotics", "a", nil, "subset of antibiotics to display (default: all column headers)")
	buildCmd.Flags().StringSliceVarP(&buildColours, "colours", "c", nil, "four rgb(r,g,b) colours for R, I, S, U in order")
	buildCmd.Flags().StringVarP(&buildName, "name", "n", "", "save the profile under this name")
	buildCmd.Flags().BoolVar(&buildOverwrite, "overwrite", false, "replace an existing profile of the same name")
	buildCmd.Flags().BoolVarP(&buildExport, "export", "e", false, "export the chart to a standalone HTML file")
	buildCmd.Flags().BoolVar(&buildCSV, "csv", false, "write the gene frequency aggregate as CSV")
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", defaultExportDir(), "directory for exported files")
	buildCmd.Flags().BoolVar(&buildHideGenes, "hide-genes", false, "do not include the gene frequency chart")
	_ = buildCmd.MarkFlagRequired("pheno")
	rootCmd.AddCommand(buildCmd)
}

// defaultExportDir mirrors the original tool: exports land in Downloads.
func defaultExportDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}

func runBuild(cmd *cobra.Command, args []string) error {
	ds, cells, freqs, err := assemble()
	if err != nil {
		return err
	}

	if buildName != "" {
		st, err := store.Open(paths.ProfilesDir())
		if err != nil {
			return err
		}
		if err := st.Save(buildName, ds, buildOverwrite); err != nil {
			logger.Error("profile save failed", zap.String("profile", buildName), zap.Error(err))
			return err
		}
		logger.Info("profile saved", zap.String("profile", buildName))
		fmt.Printf("New profile has been saved: %s\n", buildName)
	}

	if buildExport || buildName == "" {
		path, err := plot.ExportHTML(buildOut, buildName, ds, cells, freqs)
		if err != nil {
			return err
		}
		logger.Info("chart exported", zap.String("path", path))
		fmt.Printf("Your antibiotic resistance profile has been exported to:\n%s\n", path)
	}

	if buildCSV {
		name := buildName
		if name == "" {
			name = plot.FallbackName
		}
		path := filepath.Join(buildOut, name+"_gene_frequencies.csv")
		if err := plot.WriteFrequencyCSV(path, freqs, ds.IsolateCount()); err != nil {
			return err
		}
		fmt.Printf("Wrote gene frequencies to CSV file: %s\n", path)
	}
	return nil
}

// assemble runs the full load-normalise-merge pipeline from the build
// flags. Any error aborts the build; nothing is persisted on the way.
func assemble() (*profile.Dataset, []profile.CellAnnotation, []profile.GeneFrequency, error) {
	fmt.Println("Reading antibiotic resistance phenotypic data...")
	matrix, err := phenotype.Load(buildPheno)
	if err != nil {
		logger.Error("phenotype load failed", zap.String("path", buildPheno), zap.Error(err))
		return nil, nil, nil, err
	}
	logger.Info("phenotype loaded",
		zap.Int("isolates", len(matrix.Isolates)),
		zap.Int("antibiotics", len(matrix.Antibiotics)))

	if len(buildAntibiotics) > 0 {
		names := make([]string, len(buildAntibiotics))
		for i, a := range buildAntibiotics {
			names[i] = phenotype.Capitalize(a)
		}
		matrix, err = matrix.Subset(names)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	colours, err := colourScheme()
	if err != nil {
		return nil, nil, nil, err
	}

	var records []genotype.Record
	folders := []struct {
		dir    string
		source genotype.Source
	}{
		{buildRGI, genotype.SourceRGI},
		{buildStaramr, genotype.SourceStaramr},
		{buildAmrfinder, genotype.SourceAmrfinder},
	}
	for _, f := range folders {
		if f.dir == "" {
			continue
		}
		fmt.Printf("Reading %s data...\n", f.source)
		recs, err := genotype.ScanFolder(f.dir, f.source)
		if err != nil {
			logger.Error("genotype scan failed", zap.String("dir", f.dir), zap.String("source", string(f.source)), zap.Error(err))
			return nil, nil, nil, err
		}
		logger.Info("genotype loaded", zap.String("source", string(f.source)), zap.Int("records", len(recs)))
		records = append(records, recs...)
	}

	classes := settings.ClassSelection(matrix.Antibiotics)
	ds := profile.Merge(matrix, records, classes)
	ds.Display = profile.DisplayConfig{
		Colours:     colours,
		Antibiotics: matrix.Antibiotics,
		HideGenes:   buildHideGenes || !ds.HasGenotype,
	}

	for _, orphan := range ds.Orphans {
		logger.Warn("genotype isolate absent from phenotype file, excluded from chart", zap.String("isolate", orphan))
		fmt.Fprintf(os.Stderr, "Warning: isolate %s has genotype data but no phenotype row; excluded from the chart.\n", orphan)
	}

	fmt.Println("Writing graph annotations...")
	cells := profile.Annotations(ds, classes)
	freqs := profile.Frequencies(ds)
	return ds, cells, freqs, nil
}

// colourScheme resolves the status colour map: command line first, then the
// settings file.
func colourScheme() (map[phenotype.Status]string, error) {
	scheme := profile.DefaultColours()
	for status := range scheme {
		if c, ok := settings.Colours[string(status)]; ok {
			scheme[status] = c
		}
	}

	if len(buildColours) > 0 {
		if len(buildColours) != 4 {
			return nil, fmt.Errorf("expected 4 colours for R, I, S, U in order, got %d", len(buildColours))
		}
		order := []phenotype.Status{phenotype.Resistant, phenotype.Intermediate, phenotype.Susceptible, phenotype.Undetermined}
		for i, raw := range buildColours {
			rgba, err := plot.ParseRGB(raw)
			if err != nil {
				return nil, err
			}
			scheme[order[i]] = fmt.Sprintf("rgb(%d, %d, %d)", rgba.R, rgba.G, rgba.B)
		}
		fmt.Println("User defined colour scheme has been set.")
	}

	for status, raw := range scheme {
		if _, err := plot.ParseRGB(raw); err != nil {
			return nil, fmt.Errorf("settings colour for status %s: %w", status, err)
		}
	}
	return scheme, nil
}

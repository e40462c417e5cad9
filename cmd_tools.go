package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"abxrxpro/config"
	"abxrxpro/genotype"
	"abxrxpro/phenotype"
	"abxrxpro/profile"
)

var (
	corrPheno     string
	corrRGI       string
	corrStaramr   string
	corrAmrfinder string

	checkPheno     string
	checkRGI       string
	checkStaramr   string
	checkAmrfinder string
)

var correlateCmd = &cobra.Command{
	Use:   "correlate",
	Short: "Correlate gene presence with phenotypic resistance",
	Long: `Report the Pearson correlation between carrying a resistance gene and
the phenotypic call for each antibiotic it is linked to. Statuses are
weighted R=1, I=0.5, S=0, U=0. Genes linked to an antibiotic class are
tested against every member antibiotic in the phenotype file. Pairs with a
negligible relationship are not reported.`,
	RunE: runCorrelate,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run diagnostics over settings and input files",
	RunE:  runCheck,
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the location of today's log file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Location of relevant log file:\n%s\n", paths.LogFile(time.Now()))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("AbxRxPro - Version Information")
		fmt.Printf("\tAbxRxPro:\t\t%s\n", config.MainVersion)
		fmt.Println("\nComponents:")
		fmt.Printf("\tPhenotype Loader:\t%s\n", config.PhenotypeLoader)
		fmt.Printf("\tGenotype Parsers:\t%s\n", config.GenotypeParsers)
		fmt.Printf("\tMerge Engine:\t\t%s\n", config.MergeEngine)
		fmt.Printf("\tProfile Store:\t\t%s\n", config.ProfileStore)
		fmt.Printf("\tChart Renderer:\t\t%s\n", config.ChartRenderer)
		fmt.Printf("\tCorrelation Tool:\t%s\n", config.CorrelationTool)
		fmt.Printf("\tBenchmark:\t\t%s\n", config.Benchmark)
		return nil
	},
}

func init() {
	correlateCmd.Flags().StringVarP(&corrPheno, "pheno", "P", "", "phenotype spreadsheet path (CSV or TSV)")
	correlateCmd.Flags().StringVarP(&corrRGI, "rgi", "R", "", "folder with RGI summary files")
	correlateCmd.Flags().StringVarP(&corrStaramr, "staramr", "S", "", "folder with staramr summary files")
	correlateCmd.Flags().StringVarP(&corrAmrfinder, "amrfinder", "A", "", "folder with amrfinder result files")
	_ = correlateCmd.MarkFlagRequired("pheno")

	checkCmd.Flags().StringVarP(&checkPheno, "pheno", "P", "", "phenotype spreadsheet to validate")
	checkCmd.Flags().StringVarP(&checkRGI, "rgi", "R", "", "RGI folder to validate")
	checkCmd.Flags().StringVarP(&checkStaramr, "staramr", "S", "", "staramr folder to validate")
	checkCmd.Flags().StringVarP(&checkAmrfinder, "amrfinder", "A", "", "amrfinder folder to validate")

	rootCmd.AddCommand(correlateCmd, checkCmd, logCmd, versionCmd)
}

func runCorrelate(cmd *cobra.Command, args []string) error {
	matrix, err := phenotype.Load(corrPheno)
	if err != nil {
		return err
	}

	var records []genotype.Record
	folders := []struct {
		dir    string
		source genotype.Source
	}{
		{corrRGI, genotype.SourceRGI},
		{corrStaramr, genotype.SourceStaramr},
		{corrAmrfinder, genotype.SourceAmrfinder},
	}
	for _, f := range folders {
		if f.dir == "" {
			continue
		}
		recs, err := genotype.ScanFolder(f.dir, f.source)
		if err != nil {
			return err
		}
		records = append(records, recs...)
	}
	if len(records) == 0 {
		return fmt.Errorf("no genotype data given; provide at least one of -R, -S, -A")
	}

	classes := settings.ClassSelection(matrix.Antibiotics)
	ds := profile.Merge(matrix, records, classes)

	results := profile.Correlate(ds, classes)
	reported := 0
	for _, r := range results {
		if r.Negligible() {
			continue
		}
		fmt.Printf("%-20s %-20s %+.3f  %s\n", r.Gene, r.Antibiotic, r.R, r.Strength)
		reported++
	}
	if reported == 0 {
		fmt.Println("No gene/antibiotic pair rose above a negligible relationship.")
	}
	return nil
}

// runCheck is a dry run over every input the user names, plus the settings
// file itself. Nothing is saved or exported.
func runCheck(cmd *cobra.Command, args []string) error {
	failures := 0
	report := func(label string, err error) {
		if err != nil {
			failures++
			fmt.Printf("FAIL  %s: %v\n", label, err)
			return
		}
		fmt.Printf("ok    %s\n", label)
	}

	_, err := config.LoadSettings(paths.SettingsFile())
	report("settings "+paths.SettingsFile(), err)

	var matrix *phenotype.Matrix
	if checkPheno != "" {
		m, err := phenotype.Load(checkPheno)
		report("phenotype "+checkPheno, err)
		if err == nil {
			matrix = m
			fmt.Printf("      %d isolates, %d antibiotics\n", len(m.Isolates), len(m.Antibiotics))
		}
	}

	folders := []struct {
		dir    string
		source genotype.Source
	}{
		{checkRGI, genotype.SourceRGI},
		{checkStaramr, genotype.SourceStaramr},
		{checkAmrfinder, genotype.SourceAmrfinder},
	}
	var records []genotype.Record
	for _, f := range folders {
		if f.dir == "" {
			continue
		}
		recs, err := genotype.ScanFolder(f.dir, f.source)
		report(string(f.source)+" "+f.dir, err)
		if err == nil {
			fmt.Printf("      %d records\n", len(recs))
			records = append(records, recs...)
		}
	}

	if matrix != nil && len(records) > 0 {
		ds := profile.Merge(matrix, records, settings.ClassSelection(matrix.Antibiotics))
		fmt.Printf("Merged view: %d distinct genes: %s\n",
			len(profile.SortedGenes(ds)), profile.Preview(profile.SortedGenes(ds), 10))
		for _, orphan := range ds.Orphans {
			fmt.Printf("Warning: isolate %s has genotype data but no phenotype row.\n", orphan)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}
	fmt.Printf("All checks passed. (%s)\n", config.MainVersion)
	return nil
}

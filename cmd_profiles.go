package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"abxrxpro/plot"
	"abxrxpro/profile"
	"abxrxpro/store"
)

var (
	showOut       string
	showHideGenes bool
	exportOut     string
	deleteYes     bool
)

var showCmd = &cobra.Command{
	Use:   "show <profile>",
	Short: "Load a saved profile and export its chart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportProfile(args[0], showOut, showHideGenes)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <profile>",
	Short: "Export a saved profile to a standalone HTML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportProfile(args[0], exportOut, false)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved antibiotic resistance profiles",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <profile>",
	Short: "Delete a saved profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	showCmd.Flags().StringVarP(&showOut, "out", "o", defaultExportDir(), "directory for the exported chart")
	showCmd.Flags().BoolVar(&showHideGenes, "hide-genes", false, "do not include the gene frequency chart")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", defaultExportDir(), "directory for the exported chart")
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(showCmd, exportCmd, listCmd, deleteCmd)
}

// exportProfile reloads a saved dataset and renders it without touching the
// original source files. Gene frequencies are recomputed from the stored
// records on every load.
func exportProfile(name, outDir string, hideGenes bool) error {
	fmt.Printf("Loading %s...\n", name)
	st, err := store.Open(paths.ProfilesDir())
	if err != nil {
		return err
	}
	ds, err := st.Load(name)
	if err != nil {
		logger.Error("profile load failed", zap.String("profile", name), zap.Error(err))
		return err
	}
	if hideGenes {
		ds.Display.HideGenes = true
	}

	classes := settings.ClassSelection(ds.Pheno.Antibiotics)
	cells := profile.Annotations(ds, classes)
	freqs := profile.Frequencies(ds)

	path, err := plot.ExportHTML(outDir, name, ds, cells, freqs)
	if err != nil {
		return err
	}
	logger.Info("profile exported", zap.String("profile", name), zap.String("path", path))
	fmt.Printf("%s has loaded.\nYour antibiotic resistance profile has been exported to:\n%s\n", name, path)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	st, err := store.Open(paths.ProfilesDir())
	if err != nil {
		return err
	}
	entries, err := st.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No saved profiles found.")
		return nil
	}

	fmt.Printf("%-20s %-17s %9s %12s %9s  %s\n", "Name", "Created", "Isolates", "Antibiotics", "Genotype", "Contents")
	fmt.Println(strings.Repeat("-", 100))
	for _, e := range entries {
		genotype := "no"
		if e.Summary.Genotype {
			genotype = "yes"
		}
		fmt.Printf("%-20s %-17s %9d %12d %9s  %s\n",
			e.Name, e.Summary.Created, e.Summary.Isolates, e.Summary.Antibiotics, genotype, e.Summary.IsolateIDs)
	}
	fmt.Printf("Total: %d profiles\n", len(entries))
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	name := args[0]
	if !deleteYes {
		fmt.Printf("Are you sure you want to delete %s? (y/n)\n", name)
		response, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return err
		}
		switch strings.TrimSpace(response) {
		case "y":
		case "n":
			return nil
		default:
			fmt.Println("Sorry, response was not recognised. Please try again and respond with 'y' or 'n'.")
			logger.Warn("unrecognised delete confirmation", zap.String("response", strings.TrimSpace(response)))
			return nil
		}
	}

	fmt.Printf("Deleting %s...\n", name)
	st, err := store.Open(paths.ProfilesDir())
	if err != nil {
		return err
	}
	if err := st.Delete(name); err != nil {
		logger.Error("profile delete failed", zap.String("profile", name), zap.Error(err))
		return err
	}
	logger.Info("profile deleted", zap.String("profile", name))
	fmt.Printf("%s has been deleted.\n", name)
	return nil
}

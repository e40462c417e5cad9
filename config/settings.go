// Package config owns the on-disk settings file and the data directory
// layout shared by every command.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings carries the antibiotic class map and the default colour scheme.
// The class map links individual antibiotics to the class-level resistance
// calls that RGI and amrfinder report.
type Settings struct {
	// Antibiotics maps antibiotic name to antibiotic class.
	Antibiotics map[string]string `yaml:"antibiotics"`

	// Colours maps status letter (R/I/S/U) to an rgb(r, g, b) string.
	Colours map[string]string `yaml:"colours"`
}

// DefaultSettings returns the scheme and class map written on first run.
func DefaultSettings() *Settings {
	return &Settings{
		// Class names follow RGI's drug class vocabulary, title-cased and
		// pluralised, so class-level genotype calls line up with them.
		Antibiotics: map[string]string{
			"Amoxicillin":      "Penams",
			"Ampicillin":       "Penams",
			"Apramycin":        "Aminoglycosides",
			"Azithromycin":     "Macrolides",
			"Cefotaxime":       "Cephalosporins",
			"Ceftazidime":      "Cephalosporins",
			"Chloramphenicol":  "Phenicols",
			"Ciprofloxacin":    "Fluoroquinolones",
			"Colistin":         "Peptides",
			"Ertapenem":        "Carbapenems",
			"Gentamicin":       "Aminoglycosides",
			"Imipenem":         "Carbapenems",
			"Kanamycin":        "Aminoglycosides",
			"Meropenem":        "Carbapenems",
			"Nalidixic acid":   "Fluoroquinolones",
			"Streptomycin":     "Aminoglycosides",
			"Sulfamethoxazole": "Sulfonamides",
			"Tetracycline":     "Tetracyclines",
			"Tigecycline":      "Tetracyclines",
			"Trimethoprim":     "Diaminopyrimidines",
		},
		Colours: map[string]string{
			"R": "rgb(238, 102, 119)",
			"I": "rgb(204, 187, 68)",
			"S": "rgb(102, 204, 238)",
			"U": "rgb(68, 119, 170)",
		},
	}
}

// LoadSettings reads the settings file, creating it with defaults when it
// does not exist yet.
func LoadSettings(path string) (*Settings, error) {
	payload, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s := DefaultSettings()
		if err := s.Save(path); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	}
	s := &Settings{}
	if err := yaml.Unmarshal(payload, s); err != nil {
		return nil, fmt.Errorf("decoding settings %s: %w", path, err)
	}
	if s.Colours == nil {
		s.Colours = DefaultSettings().Colours
	}
	return s, nil
}

// Save writes the settings file.
func (s *Settings) Save(path string) error {
	payload, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

// ClassSelection reduces the class map to the given antibiotics, mirroring
// how the original tool only matched class-level genotype calls against
// displayed antibiotics.
func (s *Settings) ClassSelection(antibiotics []string) map[string]string {
	out := make(map[string]string)
	for _, abx := range antibiotics {
		if class, ok := s.Antibiotics[abx]; ok {
			out[abx] = class
		}
	}
	return out
}

// Paths resolves the fixed data directory layout.
type Paths struct {
	Root string
}

// DefaultRoot is ~/.abxrxpro.
func DefaultRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".abxrxpro"
	}
	return filepath.Join(home, ".abxrxpro")
}

func (p Paths) SettingsFile() string { return filepath.Join(p.Root, "settings.yaml") }
func (p Paths) ProfilesDir() string  { return filepath.Join(p.Root, "profiles") }
func (p Paths) LogsDir() string      { return filepath.Join(p.Root, "logs") }

// LogFile is today's log file, one per day as in the original tool.
func (p Paths) LogFile(now time.Time) string {
	return filepath.Join(p.LogsDir(), now.Format("06-01-02")+".log")
}

// Ensure creates the directory layout.
func (p Paths) Ensure() error {
	for _, dir := range []string{p.Root, p.ProfilesDir(), p.LogsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating data directory %s: %w", dir, err)
		}
	}
	return nil
}

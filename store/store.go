// Package store persists named profiles on disk. The layout mirrors the
// original tool: one JSON payload per profile under profiles/, plus an
// index file carrying the listing summaries.
//
// The store assumes a single user and a single invocation at a time; there
// is no locking, and concurrent invocations against the same profile name
// are a race.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"abxrxpro/profile"
)

const indexFile = "index.json"

// Summary is the listing entry for one saved profile.
type Summary struct {
	Created     string `json:"created"`
	Isolates    int    `json:"isolates"`
	Antibiotics int    `json:"antibiotics"`
	Genotype    bool   `json:"genotype"`
	IsolateIDs  string `json:"isolate_ids"`
	AbxNames    string `json:"antibiotic_names"`
}

// Store is a handle on one profiles directory. Pass it explicitly; there is
// no package-level singleton.
type Store struct {
	dir string
}

// Open ensures the profiles directory exists and returns a handle on it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating profile directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string { return s.dir }

func (s *Store) profilePath(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// ValidateName rejects profile names that would escape the store directory
// or collide with the index.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("profile name must not be empty")
	}
	if name == strings.TrimSuffix(indexFile, ".json") {
		return fmt.Errorf("profile name %q is reserved", name)
	}
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return fmt.Errorf("profile name %q must not contain path separators", name)
	}
	return nil
}

// Save persists a dataset under name. With overwrite false, an existing
// name fails with ProfileExistsError. The payload is staged to a temporary
// file and renamed into place, and the index is only updated after the
// payload lands, so a failed save never leaves a partial profile behind.
//
// Saving is the only way a profile acquires genotype data: a profile saved
// without genotype data cannot have it appended later under the same name,
// it has to be rebuilt and saved again.
func (s *Store) Save(name string, ds *profile.Dataset, overwrite bool) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	index, err := s.readIndex()
	if err != nil {
		return err
	}
	if !overwrite {
		// A payload file can exist without an index entry if a previous
		// save died between the two writes; treat it as taken too rather
		// than clobbering it.
		_, indexed := index[name]
		_, statErr := os.Stat(s.profilePath(name))
		if indexed || statErr == nil {
			return &ProfileExistsError{Name: name}
		}
	}

	payload, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding profile %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing profile %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.profilePath(name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing profile %s: %w", name, err)
	}

	index[name] = Summary{
		Created:     time.Now().Format("02/01/2006 15:04"),
		Isolates:    ds.IsolateCount(),
		Antibiotics: ds.AntibioticCount(),
		Genotype:    ds.HasGenotype,
		IsolateIDs:  profile.Preview(ds.Pheno.Isolates, 5),
		AbxNames:    profile.Preview(ds.Pheno.Antibiotics, 5),
	}
	return s.writeIndex(index)
}

// Load reads a saved dataset back. An unknown name fails with
// ProfileNotFoundError.
func (s *Store) Load(name string) (*profile.Dataset, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	payload, err := os.ReadFile(s.profilePath(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ProfileNotFoundError{Name: name}
		}
		return nil, fmt.Errorf("reading profile %s: %w", name, err)
	}
	var ds profile.Dataset
	if err := json.Unmarshal(payload, &ds); err != nil {
		return nil, fmt.Errorf("decoding profile %s: %w", name, err)
	}
	return &ds, nil
}

// Delete removes a profile irrecoverably.
func (s *Store) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	index, err := s.readIndex()
	if err != nil {
		return err
	}
	_, inIndex := index[name]
	err = os.Remove(s.profilePath(name))
	missing := err != nil && errors.Is(err, fs.ErrNotExist)
	if err != nil && !missing {
		return fmt.Errorf("deleting profile %s: %w", name, err)
	}
	if !inIndex && missing {
		return &ProfileNotFoundError{Name: name}
	}
	delete(index, name)
	return s.writeIndex(index)
}

// Entry pairs a profile name with its summary.
type Entry struct {
	Name    string
	Summary Summary
}

// List returns every saved profile, sorted by name.
func (s *Store) List() ([]Entry, error) {
	index, err := s.readIndex()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(index))
	for name, sum := range index {
		entries = append(entries, Entry{Name: name, Summary: sum})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Exists reports whether name is saved.
func (s *Store) Exists(name string) (bool, error) {
	index, err := s.readIndex()
	if err != nil {
		return false, err
	}
	_, ok := index[name]
	return ok, nil
}

func (s *Store) readIndex() (map[string]Summary, error) {
	payload, err := os.ReadFile(filepath.Join(s.dir, indexFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]Summary{}, nil
		}
		return nil, fmt.Errorf("reading profile index: %w", err)
	}
	index := map[string]Summary{}
	if err := json.Unmarshal(payload, &index); err != nil {
		return nil, fmt.Errorf("decoding profile index: %w", err)
	}
	return index, nil
}

func (s *Store) writeIndex(index map[string]Summary) error {
	payload, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, "index.*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing profile index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, indexFile)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing profile index: %w", err)
	}
	return nil
}

// Package genotype normalises resistance-gene caller output into a common
// record shape. Three callers are recognised: RGI, staramr and amrfinder.
// Each file describes exactly one isolate; the isolate ID is encoded in the
// file name as <isolateID>_<source>.<ext> with ext one of tsv, tabular, txt.
package genotype

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source identifies the caller that produced a genotype file.
type Source string

const (
	SourceRGI       Source = "RGI"
	SourceStaramr   Source = "staramr"
	SourceAmrfinder Source = "amrfinder"
)

// Sources lists the recognised source tags.
var Sources = []Source{SourceRGI, SourceStaramr, SourceAmrfinder}

// ParseSource validates a source tag. Tags are case-sensitive.
func ParseSource(tag string) (Source, error) {
	for _, s := range Sources {
		if string(s) == tag {
			return s, nil
		}
	}
	return "", &UnsupportedSourceError{Tag: tag}
}

// Record is one resistance gene call, normalised across sources.
type Record struct {
	Isolate string   `json:"isolate"`
	Gene    string   `json:"gene"`
	Source  Source   `json:"source"`
	Classes []string `json:"classes"`
}

var extensions = map[string]bool{".tsv": true, ".tabular": true, ".txt": true}

// IsolateFromFilename extracts the isolate ID from a genotype file name.
// The name must end in _<source>.<ext>.
func IsolateFromFilename(path string, source Source) (string, error) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if !extensions[strings.ToLower(ext)] {
		return "", &MalformedFileError{Path: path, Detail: fmt.Sprintf("unexpected extension %q, want tsv, tabular or txt", ext)}
	}
	stem := strings.TrimSuffix(base, ext)
	suffix := "_" + string(source)
	if !strings.HasSuffix(stem, suffix) || len(stem) == len(suffix) {
		return "", &MalformedFileError{Path: path, Detail: fmt.Sprintf("file name does not match <isolateID>%s.<ext>", suffix)}
	}
	return strings.TrimSuffix(stem, suffix), nil
}

// ParseFile parses one genotype file. Every returned record carries the
// isolate ID taken from the file name, never from the file body.
func ParseFile(path string, source Source) ([]Record, error) {
	if _, err := ParseSource(string(source)); err != nil {
		return nil, err
	}
	isolate, err := IsolateFromFilename(path, source)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &MissingFileError{Path: path, Err: err}
	}
	defer f.Close()

	var header []string
	var rows [][]string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if header == nil {
			header = fields
			continue
		}
		rows = append(rows, fields)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if header == nil {
		return nil, &MalformedFileError{Path: path, Detail: "file has no header row"}
	}

	switch source {
	case SourceRGI:
		return parseRGI(path, isolate, header, rows)
	case SourceStaramr:
		return parseStaramr(path, isolate, header, rows)
	case SourceAmrfinder:
		return parseAmrfinder(path, isolate, header, rows)
	}
	return nil, &UnsupportedSourceError{Tag: string(source)}
}

// ScanFolder parses every genotype file in dir that matches the naming
// contract for the given source. A folder with no matching files is an
// input error, mirroring the original tool.
func ScanFolder(dir string, source Source) ([]Record, error) {
	if _, err := ParseSource(string(source)); err != nil {
		return nil, err
	}
	// One glob per contract extension, so names like X1_RGI.summary.tsv
	// never match in the first place.
	var files []string
	for ext := range extensions {
		matches, err := filepath.Glob(filepath.Join(dir, "*_"+string(source)+ext))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, &MissingFileError{Path: dir, Err: fmt.Errorf("no *_%s files detected", source)}
	}
	sort.Strings(files)

	var records []Record
	for _, file := range files {
		recs, err := ParseFile(file, source)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}
	return records, nil
}

// columnIndex resolves required column names to indices, or fails naming
// every column that is absent.
func columnIndex(path string, header []string, names ...string) (map[string]int, error) {
	idx := make(map[string]int, len(names))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	var missing []string
	out := make(map[string]int, len(names))
	for _, name := range names {
		i, ok := idx[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		out[name] = i
	}
	if len(missing) > 0 {
		return nil, &MalformedFileError{Path: path, Detail: fmt.Sprintf("expected columns missing: %s", strings.Join(missing, ", "))}
	}
	return out, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

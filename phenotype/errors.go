package phenotype

import "fmt"

// MissingFileError reports a phenotype path that could not be opened.
type MissingFileError struct {
	Path string
	Err  error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("phenotype file %s could not be read: %v", e.Path, e.Err)
}

func (e *MissingFileError) Unwrap() error { return e.Err }

// EmptyPhenotypeError reports a spreadsheet with no data rows. A phenotype
// file is mandatory for every profile build, so an empty one is fatal.
type EmptyPhenotypeError struct {
	Path string
}

func (e *EmptyPhenotypeError) Error() string {
	return fmt.Sprintf("phenotype file %s contains no isolate rows", e.Path)
}

// InvalidStatusError reports a cell value outside R/I/S/U.
type InvalidStatusError struct {
	Path       string
	Row        int
	Isolate    string
	Antibiotic string
	Value      string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("%s row %d (%s, %s): invalid resistance value %q, accepted values are R, I, S, U or blank",
		e.Path, e.Row, e.Isolate, e.Antibiotic, e.Value)
}

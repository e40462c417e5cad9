package genotype

import "fmt"

// UnsupportedSourceError reports a genotype source tag outside the
// recognised set. Tags are case-sensitive.
type UnsupportedSourceError struct {
	Tag string
}

func (e *UnsupportedSourceError) Error() string {
	return fmt.Sprintf("unsupported genotype source %q, recognised sources are RGI, staramr, amrfinder", e.Tag)
}

// MalformedFileError reports a genotype file whose name or column layout
// does not match its source's contract.
type MalformedFileError struct {
	Path   string
	Detail string
}

func (e *MalformedFileError) Error() string {
	return fmt.Sprintf("malformed genotype file %s: %s", e.Path, e.Detail)
}

// MissingFileError reports a genotype path or folder with nothing to parse.
type MissingFileError struct {
	Path string
	Err  error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("genotype data not found at %s: %v", e.Path, e.Err)
}

func (e *MissingFileError) Unwrap() error { return e.Err }

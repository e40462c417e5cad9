package config

// Version system:
// vMAJOR.MINOR.PATCH

// Centralized version control
const (
	// Executable
	MainVersion = "v2.1.0"

	// Components
	PhenotypeLoader = "v1.1.0"
	GenotypeParsers = "v1.2.0"
	MergeEngine     = "v1.1.0"
	ProfileStore    = "v1.0.1"
	ChartRenderer   = "v1.0.0"
	CorrelationTool = "v0.2.0"
	Benchmark       = "v1.0.0"
)

package analysis

// SortField specifies how to sort analysis results.
type SortField string

const (
	// SortByCount sorts by issue count.
	SortByCount SortField = "count"
	// SortByAlpha sorts by rule ID, path or name.
	SortByAlpha SortField = "alpha"
	// SortBySeverity puts the entries with the most errors first.
	SortBySeverity SortField = "severity"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha, SortBySeverity:
		return true
	default:
		return false
	}
}

// Options configures Analyze.
type Options struct {
	IncludeByFile bool
	IncludeByRule bool

	// IncludeByName ranks the unknown element and attribute names.
	IncludeByName bool

	SortBy SortField

	// SortDesc puts the highest counts first when sorting by count.
	SortDesc bool

	// TopNames caps BySubject. Zero keeps every name.
	TopNames int

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is.
	WorkingDir string
}

// DefaultOptions returns Options with every view enabled, highest counts
// first.
func DefaultOptions() Options {
	return Options{
		IncludeByFile: true,
		IncludeByRule: true,
		IncludeByName: true,
		SortBy:        SortByCount,
		SortDesc:      true,
		TopNames:      10,
	}
}

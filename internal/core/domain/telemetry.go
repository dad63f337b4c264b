package domain

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ResolutionStatus is the outcome of expanding one URI during a resolution.
type ResolutionStatus string

const (
	// StatusCached means the record was served from the index.
	StatusCached ResolutionStatus = "cached"
	// StatusLoaded means a local file was read and parsed.
	StatusLoaded ResolutionStatus = "loaded"
	// StatusFetched means the document was retrieved from the network.
	StatusFetched ResolutionStatus = "fetched"
	// StatusFailed means the URI could not be resolved.
	StatusFailed ResolutionStatus = "failed"
	// StatusSkipped means the URI was claimed but not expanded before the deadline.
	StatusSkipped ResolutionStatus = "skipped"
)

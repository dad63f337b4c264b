package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidURI is returned when a string cannot be normalized into an absolute ontology URI.
	ErrInvalidURI = zerr.New("invalid ontology URI")

	// ErrNotInitialized is returned when no index exists for the managed root.
	ErrNotInitialized = zerr.New("no ontology environment found, run 'ontoenv init' first")

	// ErrRootNotFound is returned when the managed root directory cannot be read.
	ErrRootNotFound = zerr.New("ontology root directory not found")

	// ErrRootNotDirectory is returned when the managed root path is not a directory.
	ErrRootNotDirectory = zerr.New("ontology root is not a directory")

	// ErrIndexReadFailed is returned when the persisted index cannot be read from disk.
	ErrIndexReadFailed = zerr.New("failed to read ontology index")

	// ErrIndexWriteFailed is returned when the persisted index cannot be written.
	ErrIndexWriteFailed = zerr.New("failed to write ontology index")

	// ErrIndexMarshalFailed is returned when the index cannot be serialized.
	ErrIndexMarshalFailed = zerr.New("failed to marshal ontology index")

	// ErrUnsupportedIndexVersion is returned when the persisted index was written by an incompatible version.
	ErrUnsupportedIndexVersion = zerr.New("unsupported ontology index version")

	// ErrInvalidSourceEntry is returned when a persisted source file entry has no path.
	ErrInvalidSourceEntry = zerr.New("invalid source file entry")

	// ErrCacheWriteFailed is returned when a fetched document cannot be stored in the document cache.
	ErrCacheWriteFailed = zerr.New("failed to write document cache")

	// ErrCacheReadFailed is returned when a cached document cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read document cache")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a config value is out of range.
	ErrInvalidConfig = zerr.New("invalid configuration value")

	// ErrUnsupportedFormat is returned when no RDF syntax is known for a document.
	ErrUnsupportedFormat = zerr.New("unsupported RDF format")

	// ErrNoOntologyDeclared is returned when a document has no owl:Ontology subject.
	ErrNoOntologyDeclared = zerr.New("document declares no owl:Ontology")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrFetchRequestFailed is returned when a remote document request cannot be built or sent.
	ErrFetchRequestFailed = zerr.New("failed to fetch remote document")

	// ErrUnexpectedStatus is returned when a remote server answers with a non-success status.
	ErrUnexpectedStatus = zerr.New("unexpected HTTP status")

	// ErrOfflineMode is returned when a fetch is required but remote access is disabled.
	ErrOfflineMode = zerr.New("remote fetching disabled")

	// ErrResolutionDeadline is recorded for URIs left unexpanded when a resolution deadline expires.
	ErrResolutionDeadline = zerr.New("resolution deadline exceeded")

	// ErrWatcherFailed is returned when the file system watcher cannot be started.
	ErrWatcherFailed = zerr.New("failed to start file watcher")
)

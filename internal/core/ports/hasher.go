package ports

// Hasher defines the interface for fingerprinting ontology files.
//
//go:generate mockgen -destination=mocks/hasher_mock.go -package=mocks -source=hasher.go
type Hasher interface {
	// ComputeFileHash returns a stable hex digest of a file's content.
	ComputeFileHash(path string) (string, error)
	// ComputeHash returns the digest of in-memory content, in the same form as ComputeFileHash.
	ComputeHash(data []byte) string
}

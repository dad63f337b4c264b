package domain

import "path/filepath"

const (
	// EnvDirName is the name of the environment directory colocated with the managed root.
	EnvDirName = ".ontoenv"

	// IndexFileName is the name of the persisted index inside the environment directory.
	IndexFileName = "index.json"

	// CacheDirName is the name of the directory holding fetched remote documents.
	CacheDirName = "cache"

	// ConfigFileName is the name of the optional configuration file.
	ConfigFileName = "config.yaml"

	// IndexVersion is the current on-disk index format version.
	IndexVersion = 1

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// EnvDir returns the environment directory for a managed root.
func EnvDir(root string) string {
	return filepath.Join(root, EnvDirName)
}

// DefaultIndexPath returns the index location for a managed root.
// It joins .ontoenv and index.json.
func DefaultIndexPath(root string) string {
	return filepath.Join(root, EnvDirName, IndexFileName)
}

// DefaultCachePath returns the remote document cache directory for a managed root.
// It joins .ontoenv and cache.
func DefaultCachePath(root string) string {
	return filepath.Join(root, EnvDirName, CacheDirName)
}

// DefaultConfigPath returns the config file location for a managed root.
func DefaultConfigPath(root string) string {
	return filepath.Join(root, EnvDirName, ConfigFileName)
}

package domain

import "path/filepath"

const (
	// LanesFileName is the name of the pipeline declaration file.
	LanesFileName = "lanes.yaml"

	// LanesDirName is the name of the internal metadata directory.
	LanesDirName = ".lanes"

	// RunsDirName is the name of the run archive directory.
	RunsDirName = "runs"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// MetadataPath returns the metadata directory for a pipeline root.
func MetadataPath(root string) string {
	return filepath.Join(root, LanesDirName)
}

// RunsPath returns the run archive directory for a pipeline root.
func RunsPath(root string) string {
	return filepath.Join(root, LanesDirName, RunsDirName)
}

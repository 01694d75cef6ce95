package config

import (
	"os"
	"path/filepath"
)

// ParametersFile returns the default location of the parameters artifact
func (p PathsConfig) ParametersFile() string {
	return filepath.Join(p.JSONDir, ParametersFileName)
}

// FileExists checks if a regular file exists
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

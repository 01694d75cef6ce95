// Package artifact persists the parameters document shared by the stages.
package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	apperrors "tabviz/internal/errors"
	"tabviz/pkg/contracts/domain"
)

// Indent is the indentation used for the parameters document.
const Indent = "    "

// Write encodes a as an indented JSON object and writes it to path,
// creating the parent directory when absent.
func Write(path string, a *domain.ParametersArtifact) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(a); err != nil {
		return apperrors.NewParsingError("failed to encode parameters", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create output directory", err).
			WithContext("path", path)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return apperrors.NewStorageError("failed to write parameters", err).
			WithContext("path", path)
	}
	return nil
}

// Read loads the parameters document at path.
func Read(path string) (*domain.ParametersArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("parameters file %s", path))
		}
		return nil, apperrors.NewStorageError("failed to read parameters", err).
			WithContext("path", path)
	}

	a := domain.NewParametersArtifact()
	if err := json.Unmarshal(data, a); err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("invalid parameters file %s", path), err)
	}
	return a, nil
}

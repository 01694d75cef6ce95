package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabviz/internal/artifact"
	apperrors "tabviz/internal/errors"
	"tabviz/pkg/contracts/domain"
)

func emptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tabviz.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTransform_WritesSummaryAndTransformed(t *testing.T) {
	base := t.TempDir()
	dataDir := filepath.Join(base, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "a.csv"),
		[]byte(",x,flat\n0,1,5\n1,2,5\n2,3,5\n"), 0644))

	params := domain.NewParametersArtifact()
	params.Set("a.csv", domain.FileParameters{
		LinesToRead: 3,
		Columns:     []string{"", "x", "flat"},
		FileName:    "a.csv",
	})
	params.Set("gone.csv", domain.FileParameters{
		LinesToRead: 1,
		Columns:     []string{"x"},
		FileName:    "gone.csv",
	})
	paramsFile := filepath.Join(base, "json", "parameters.json")
	require.NoError(t, artifact.Write(paramsFile, params))

	stdout, err := execute(t,
		"--config", emptyConfig(t),
		"--params-file", paramsFile,
		"--data-dir", dataDir,
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "gone.csv skipped (missing_file)")
	assert.Contains(t, stdout, "Transformed 1 of 2 file(s)")

	summary, err := os.ReadFile(filepath.Join(dataDir, "a_summary.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "column_name,mean,stddev\n")
	assert.Contains(t, string(summary), "flat,5,0\n")

	transformed, err := os.ReadFile(filepath.Join(dataDir, "a_transformed.csv"))
	require.NoError(t, err)
	assert.Equal(t, "x,flat\n0,0\n0.5,0\n1,0\n", string(transformed))
}

func TestTransform_MissingParametersFile(t *testing.T) {
	base := t.TempDir()

	_, err := execute(t,
		"--config", emptyConfig(t),
		"--params-file", filepath.Join(base, "absent.json"),
		"--data-dir", base,
	)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestTransform_CorruptParametersFile(t *testing.T) {
	base := t.TempDir()
	paramsFile := filepath.Join(base, "parameters.json")
	require.NoError(t, os.WriteFile(paramsFile, []byte("[1, 2]"), 0644))

	_, err := execute(t, "--config", emptyConfig(t), "--params-file", paramsFile)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}

package compare

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tabviz/internal/errors"
	"tabviz/pkg/contracts/domain"
)

func newTestComparer(dataDir, imagesDir string, seed uint64, order Order) *Comparer {
	return NewComparer(Options{
		DataDir:    dataDir,
		ImagesDir:  imagesDir,
		Extensions: []string{".csv"},
		Order:      order,
		Width:      400,
		Height:     300,
	}, NewRand(seed), slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func listImages(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	var out []string
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out
}

func TestCompare(t *testing.T) {
	dataDir := t.TempDir()
	imagesDir := filepath.Join(t.TempDir(), "images")
	write(t, dataDir, "alpha_transformed.csv", "heart_rate,label\n0.2,x\n0.9,y\n0.5,z\n")
	write(t, dataDir, "beta_transformed.csv", "blood_pressure\n1\n0\n0.25\n")
	write(t, dataDir, "alpha.csv", "heart_rate\n60\n")

	result, skips, err := newTestComparer(dataDir, imagesDir, 42, OrderAscending).Compare(context.Background())
	require.NoError(t, err)
	assert.Empty(t, skips)

	files := []string{result.A.File, result.B.File}
	assert.ElementsMatch(t, []string{"alpha_transformed.csv", "beta_transformed.csv"}, files)

	byFile := map[string]Pick{result.A.File: result.A, result.B.File: result.B}
	assert.Equal(t, "heart_rate", byFile["alpha_transformed.csv"].Column)
	assert.Equal(t, []float64{0.2, 0.5, 0.9}, byFile["alpha_transformed.csv"].Values)
	assert.Equal(t, []float64{0, 0.25, 1}, byFile["beta_transformed.csv"].Values)

	assert.FileExists(t, result.Path)
	assert.Contains(t, []string{
		filepath.Join(imagesDir, "alpha_vs_beta_comparison.png"),
		filepath.Join(imagesDir, "beta_vs_alpha_comparison.png"),
	}, result.Path)
}

func TestCompare_DeterministicWithSeed(t *testing.T) {
	dataDir := t.TempDir()
	for _, name := range []string{"a_transformed.csv", "b_transformed.csv", "c_transformed.csv", "d_transformed.csv"} {
		write(t, dataDir, name, "x,y,z\n0.1,0.2,0.3\n0.4,0.5,0.6\n")
	}

	first, _, err := newTestComparer(dataDir, t.TempDir(), 7, OrderOriginal).Compare(context.Background())
	require.NoError(t, err)
	second, _, err := newTestComparer(dataDir, t.TempDir(), 7, OrderOriginal).Compare(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.A.File, second.A.File)
	assert.Equal(t, first.A.Column, second.A.Column)
	assert.Equal(t, first.B.File, second.B.File)
	assert.Equal(t, first.B.Column, second.B.Column)
	assert.NotEqual(t, first.A.File, first.B.File)
}

func TestCompare_SkipsCandidatesWithoutData(t *testing.T) {
	dataDir := t.TempDir()
	write(t, dataDir, "a_transformed.csv", "v\n0.1\n0.2\n")
	write(t, dataDir, "b_transformed.csv", "label\nfoo\n")
	write(t, dataDir, "c_transformed.csv", "w\n0.3\n0.4\n")

	result, skips, err := newTestComparer(dataDir, t.TempDir(), 3, OrderOriginal).Compare(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a_transformed.csv", "c_transformed.csv"}, []string{result.A.File, result.B.File})
	for _, s := range skips {
		assert.Equal(t, "b_transformed.csv", s.Item)
		assert.Equal(t, domain.SkipNoNumericData, s.Code)
	}
}

func TestCompare_Errors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{
			name:  "no transformed files",
			files: map[string]string{"a.csv": "v\n1\n"},
		},
		{
			name:  "only one transformed file",
			files: map[string]string{"a_transformed.csv": "v\n1\n", "a.csv": "v\n1\n"},
		},
		{
			name: "every candidate lacks data",
			files: map[string]string{
				"a_transformed.csv": "label\nfoo\n",
				"b_transformed.csv": "a,b\n1\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dataDir := t.TempDir()
			imagesDir := filepath.Join(t.TempDir(), "images")
			for name, content := range tt.files {
				write(t, dataDir, name, content)
			}

			_, _, err := newTestComparer(dataDir, imagesDir, 1, OrderOriginal).Compare(context.Background())
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
			assert.Empty(t, listImages(t, imagesDir))
		})
	}
}

func TestArrange(t *testing.T) {
	tests := []struct {
		order Order
		want  []float64
	}{
		{OrderOriginal, []float64{0.5, 0.1, 0.9}},
		{OrderAscending, []float64{0.1, 0.5, 0.9}},
		{OrderDescending, []float64{0.9, 0.5, 0.1}},
	}

	for _, tt := range tests {
		values := []float64{0.5, 0.1, 0.9}
		Arrange(values, tt.order)
		assert.Equal(t, tt.want, values)
	}
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Baseline Value", Humanize("baseline_value"))
	assert.Equal(t, "Heart Rate Mean", Humanize("heart_rate_MEAN"))
	assert.Equal(t, "Already Spaced", Humanize("already spaced"))
}

func TestYTicks(t *testing.T) {
	ticks := YTicks()
	require.Len(t, ticks, 11)
	assert.Equal(t, 0.0, ticks[0].Value)
	assert.Equal(t, "0.1", ticks[1].Label)
	assert.InDelta(t, 0.7, ticks[7].Value, 1e-12)
	assert.Equal(t, 1.0, ticks[10].Value)
	assert.Equal(t, "1.0", ticks[10].Label)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("images", "fetal_vs_sample_comparison.png"),
		OutputPath("images", "fetal_transformed.csv", "sample_transformed.csv"))
}

package extractor

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

func newTestExtractor(overrides map[string][]string) *Extractor {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewExtractor([]string{".csv"}, MergeExclusions(overrides), logger)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sample.csv", "Unnamed: 0,height,weight\n0,1.5,60\n1,1.7,70\n2,1.8,80\n")
	writeFile(t, dir, "sample_transformed.csv", "height,weight\n0,0\n")
	writeFile(t, dir, "fetal.csv", "baseline value,histogram_min,mean_value\n120,60,5\n")
	writeFile(t, dir, "broken.csv", "a,b\n1,2,3\n")
	writeFile(t, dir, "notes.txt", "not a table")

	for _, normalize := range []bool{false, true} {
		artifact, outcomes, err := newTestExtractor(nil).Scan(context.Background(), dir, normalize)
		require.NoError(t, err)

		assert.Equal(t, []string{"fetal.csv", "sample.csv"}, artifact.Names())

		sample, ok := artifact.Get("sample.csv")
		require.True(t, ok)
		assert.Equal(t, 3, sample.LinesToRead)
		assert.Equal(t, []string{"", "height", "weight"}, sample.Columns)
		assert.Equal(t, "sample.csv", sample.FileName)
		assert.Equal(t, normalize, sample.OtherParameters.Normalize)
		assert.Nil(t, sample.OtherParameters.DoNotInclude)

		fetal, ok := artifact.Get("fetal.csv")
		require.True(t, ok)
		assert.Equal(t, []string{"histogram", "mean", "percent"}, fetal.OtherParameters.DoNotInclude)
		assert.Equal(t, normalize, fetal.OtherParameters.Normalize)

		skips := domain.Skips(outcomes)
		require.Len(t, skips, 1)
		assert.Equal(t, "broken.csv", skips[0].Item)
		assert.Equal(t, domain.SkipUnreadable, skips[0].Code)
		assert.Len(t, outcomes, 3)
	}
}

func TestScan_NeverIncludesTransformed(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a_transformed.csv", "b.csv", "c_transformed_v2.csv", "_transformed.csv"} {
		writeFile(t, dir, name, "x\n1\n")
	}

	artifact, _, err := newTestExtractor(nil).Scan(context.Background(), dir, true)
	require.NoError(t, err)

	for _, name := range artifact.Names() {
		assert.False(t, domain.IsTransformed(name), name)
	}
	assert.Equal(t, []string{"b.csv"}, artifact.Names())
}

func TestScan_ExclusionOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fetal.csv", "a\n1\n")
	writeFile(t, dir, "sensors.csv", "raw_a,b\n1,2\n")

	artifact, _, err := newTestExtractor(map[string][]string{
		"sensors.csv": {"raw_"},
		"fetal.csv":   {},
	}).Scan(context.Background(), dir, false)
	require.NoError(t, err)

	sensors, _ := artifact.Get("sensors.csv")
	assert.Equal(t, []string{"raw_"}, sensors.OtherParameters.DoNotInclude)
	fetal, _ := artifact.Get("fetal.csv")
	assert.Equal(t, []string{"histogram", "mean", "percent"}, fetal.OtherParameters.DoNotInclude)
}

func TestScan_MissingDirectory(t *testing.T) {
	_, _, err := newTestExtractor(nil).Scan(context.Background(), filepath.Join(t.TempDir(), "nope"), false)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}

func TestMergeExclusions(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string][]string
		want      map[string][]string
	}{
		{
			name: "defaults only",
			want: map[string][]string{"fetal.csv": {"histogram", "mean", "percent"}},
		},
		{
			name:      "override extends built-in",
			overrides: map[string][]string{"fetal.csv": {"mean", "variance"}},
			want:      map[string][]string{"fetal.csv": {"histogram", "mean", "percent", "variance"}},
		},
		{
			name:      "empty override keeps built-in",
			overrides: map[string][]string{"fetal.csv": {}},
			want:      map[string][]string{"fetal.csv": {"histogram", "mean", "percent"}},
		},
		{
			name:      "override adds a file",
			overrides: map[string][]string{"other.csv": {"x"}},
			want: map[string][]string{
				"fetal.csv": {"histogram", "mean", "percent"},
				"other.csv": {"x"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := MergeExclusions(tt.overrides)
			assert.Equal(t, tt.want, merged)

			merged["fetal.csv"][0] = "mutated"
			assert.Equal(t, "histogram", DefaultExclusions["fetal.csv"][0])
		})
	}
}

package selector

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabviz/pkg/contracts/domain"
)

func TestFilterColumns(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		terms   []string
		want    []string
	}{
		{
			name:    "substring match",
			columns: []string{"histogram_a", "value_b"},
			terms:   []string{"hist"},
			want:    []string{"value_b"},
		},
		{
			name:    "case sensitive",
			columns: []string{"Mean", "mean_x", "median"},
			terms:   []string{"mean"},
			want:    []string{"Mean", "median"},
		},
		{
			name:    "empty terms are ignored",
			columns: []string{"a", "b"},
			terms:   []string{"", ""},
			want:    []string{"a", "b"},
		},
		{
			name:    "no terms keeps everything including unnamed",
			columns: []string{"", "x"},
			want:    []string{"", "x"},
		},
		{
			name:    "fetal exclusions",
			columns: []string{"baseline value", "histogram_min", "mean_value_of_long_term_variability", "percentage_of_time", "fetal_health"},
			terms:   []string{"histogram", "mean", "percent"},
			want:    []string{"baseline value", "fetal_health"},
		},
		{
			name:    "everything removed",
			columns: []string{"ab", "abc"},
			terms:   []string{"a"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterColumns(tt.columns, tt.terms)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, FilterColumns(got, tt.terms), "filtering must be idempotent")
		})
	}
}

func TestResolveName(t *testing.T) {
	params := domain.FileParameters{FileName: "sample.csv"}
	assert.Equal(t, "sample.csv", ResolveName(params))

	params.OtherParameters.Normalize = true
	assert.Equal(t, "sample_transformed.csv", ResolveName(params))
}

func TestSelect(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"plain.csv", "norm_transformed.csv", "fetal.csv", "norm.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x\n1\n"), 0644))
	}

	artifact := domain.NewParametersArtifact()
	artifact.Set("norm.csv", domain.FileParameters{
		FileName:        "norm.csv",
		Columns:         []string{"a", "b"},
		OtherParameters: domain.OtherParameters{Normalize: true},
	})
	artifact.Set("stats_summary.csv", domain.FileParameters{
		FileName: "stats_summary.csv",
		Columns:  []string{"mean"},
	})
	artifact.Set("nocols.csv", domain.FileParameters{FileName: "nocols.csv"})
	artifact.Set("fetal.csv", domain.FileParameters{
		FileName:        "fetal.csv",
		Columns:         []string{"histogram_mode", "mean"},
		OtherParameters: domain.OtherParameters{DoNotInclude: []string{"histogram", "mean", "percent"}},
	})
	artifact.Set("gone.csv", domain.FileParameters{
		FileName:        "gone.csv",
		Columns:         []string{"a"},
		OtherParameters: domain.OtherParameters{Normalize: true},
	})
	artifact.Set("plain.csv", domain.FileParameters{
		FileName: "plain.csv",
		Columns:  []string{"", "value"},
	})

	sel := NewSelector(dir, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	outcomes := sel.Select(context.Background(), artifact)
	require.Len(t, outcomes, 6)

	targets := domain.Values(outcomes)
	require.Len(t, targets, 2)
	assert.Equal(t, domain.PlotTarget{
		Name:    "norm.csv",
		Path:    filepath.Join(dir, "norm_transformed.csv"),
		Columns: []string{"a", "b"},
	}, targets[0])
	assert.Equal(t, domain.PlotTarget{
		Name:    "plain.csv",
		Path:    filepath.Join(dir, "plain.csv"),
		Columns: []string{"", "value"},
	}, targets[1])

	var codes []domain.SkipCode
	for _, s := range domain.Skips(outcomes) {
		codes = append(codes, s.Code)
	}
	assert.Equal(t, []domain.SkipCode{
		domain.SkipSummaryFile,
		domain.SkipMissingColumns,
		domain.SkipEmptySelection,
		domain.SkipMissingFile,
	}, codes)
}

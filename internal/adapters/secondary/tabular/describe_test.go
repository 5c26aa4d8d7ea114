package tabular

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atelier-service/internal/core/domain"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func findColumn(t *testing.T, summary *domain.TableSummary, name string) domain.ColumnStat {
	t.Helper()
	for _, c := range summary.Columns {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("column %q not in summary", name)
	return domain.ColumnStat{}
}

func TestDescribe(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"region,claim_count,exposure,note",
		"north,0,1.5,ok",
		"south,2,0.25,",
		"north,1,1.0,fine",
	}, "\n"))

	summary, err := NewDescriber().Describe(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.NRows)
	require.Len(t, summary.Columns, 4)

	region := findColumn(t, summary, "region")
	assert.Equal(t, "str", region.DType)
	assert.Equal(t, 2, region.NUnique)
	assert.False(t, region.IsNumeric)
	assert.True(t, region.IsCategorical)

	claims := findColumn(t, summary, "claim_count")
	assert.Equal(t, "int64", claims.DType)
	assert.True(t, claims.IsNumeric)
	assert.True(t, claims.IsCategorical)

	exposure := findColumn(t, summary, "exposure")
	assert.Equal(t, "float64", exposure.DType)
	assert.True(t, exposure.IsNumeric)

	note := findColumn(t, summary, "note")
	assert.Equal(t, 1, note.NMissing)
}

func TestDescribe_NumericHighCardinalityIsNotCategorical(t *testing.T) {
	var b strings.Builder
	b.WriteString("premium\n")
	for i := 0; i < domain.CategoricalThreshold+10; i++ {
		fmt.Fprintf(&b, "%d.5\n", i)
	}
	path := writeCSV(t, b.String())

	summary, err := NewDescriber().Describe(context.Background(), path)
	require.NoError(t, err)

	premium := findColumn(t, summary, "premium")
	assert.True(t, premium.IsNumeric)
	assert.False(t, premium.IsCategorical)
}

func TestDescribe_AllMissingColumnIsString(t *testing.T) {
	path := writeCSV(t, "empty\n\n\n")

	summary, err := NewDescriber().Describe(context.Background(), path)
	require.NoError(t, err)

	empty := findColumn(t, summary, "empty")
	assert.Equal(t, "str", empty.DType)
	assert.Equal(t, 0, empty.NUnique)
	assert.Equal(t, 2, empty.NMissing)
}

func TestDescribe_MissingFile(t *testing.T) {
	_, err := NewDescriber().Describe(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, domain.ErrDatasetUnreadable)
}

func TestColumnValues(t *testing.T) {
	path := writeCSV(t, "region\nsouth\nnorth\nsouth\n\neast\n")

	values, err := NewDescriber().ColumnValues(context.Background(), path, "region", 200)
	require.NoError(t, err)
	assert.Equal(t, []string{"east", "north", "south"}, values)
}

func TestColumnValues_RespectsLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("zip\n")
	for i := 0; i < 300; i++ {
		fmt.Fprintf(&b, "zip-%03d\n", i)
	}
	path := writeCSV(t, b.String())

	values, err := NewDescriber().ColumnValues(context.Background(), path, "zip", 200)
	require.NoError(t, err)
	assert.Len(t, values, 200)
}

func TestColumnValues_UnknownColumn(t *testing.T) {
	path := writeCSV(t, "region\nnorth\n")

	_, err := NewDescriber().ColumnValues(context.Background(), path, "missing", 200)
	assert.ErrorIs(t, err, domain.ErrColumnNotFound)
}

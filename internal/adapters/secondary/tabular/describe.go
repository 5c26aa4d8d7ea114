// Package tabular computes column statistics for uploaded CSV files. It
// streams the file row by row, so memory stays proportional to the number of
// distinct values rather than the number of rows.
package tabular

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"atelier-service/internal/core/domain"
	ports "atelier-service/internal/core/ports/output"
)

type Describer struct{}

func NewDescriber() ports.DatasetDescriber {
	return &Describer{}
}

// columnAccum collects per-column state over one streaming pass.
type columnAccum struct {
	name     string
	values   map[string]struct{}
	nMissing int
	allInt   bool
	allFloat bool
}

func (c *columnAccum) observe(raw string) {
	if raw == "" {
		c.nMissing++
		return
	}
	c.values[raw] = struct{}{}
	if c.allInt {
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			c.allInt = false
		}
	}
	if c.allFloat {
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			c.allFloat = false
		}
	}
}

func (c *columnAccum) stat() domain.ColumnStat {
	dtype := "str"
	numeric := false
	switch {
	case c.allInt && len(c.values) > 0:
		dtype = "int64"
		numeric = true
	case c.allFloat && len(c.values) > 0:
		dtype = "float64"
		numeric = true
	}

	return domain.ColumnStat{
		Name:          c.name,
		DType:         dtype,
		NUnique:       len(c.values),
		NMissing:      c.nMissing,
		IsNumeric:     numeric,
		IsCategorical: !numeric || len(c.values) <= domain.CategoricalThreshold,
	}
}

func (d *Describer) Describe(ctx context.Context, path string) (*domain.TableSummary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDatasetUnreadable, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", domain.ErrDatasetUnreadable, err)
	}

	accums := make([]*columnAccum, len(header))
	for i, name := range header {
		accums[i] = &columnAccum{
			name:     name,
			values:   make(map[string]struct{}),
			allInt:   true,
			allFloat: true,
		}
	}

	nRows := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", domain.ErrDatasetUnreadable, nRows+2, err)
		}
		nRows++
		for i, raw := range record {
			accums[i].observe(raw)
		}
	}

	columns := make([]domain.ColumnStat, len(accums))
	for i, acc := range accums {
		columns[i] = acc.stat()
	}
	return &domain.TableSummary{NRows: nRows, Columns: columns}, nil
}

// ColumnValues returns up to limit distinct non-missing values of one column,
// sorted lexicographically. Once the cap is hit, later new values are
// skipped, so for high-cardinality columns the returned set depends on row
// order.
func (d *Describer) ColumnValues(ctx context.Context, path, column string, limit int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDatasetUnreadable, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", domain.ErrDatasetUnreadable, err)
	}

	col := -1
	for i, name := range header {
		if name == column {
			col = i
			break
		}
	}
	if col == -1 {
		return nil, domain.ErrColumnNotFound
	}

	seen := make(map[string]struct{})
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrDatasetUnreadable, err)
		}
		if col >= len(record) || record[col] == "" {
			continue
		}
		if _, ok := seen[record[col]]; ok {
			continue
		}
		if len(seen) >= limit {
			continue
		}
		seen[record[col]] = struct{}{}
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}

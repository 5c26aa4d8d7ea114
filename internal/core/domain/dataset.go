package domain

import (
	"time"

	"github.com/google/uuid"
)

type Dataset struct {
	ID         uuid.UUID    `json:"id"`
	ProjectID  uuid.UUID    `json:"project_id"`
	Name       string       `json:"name"`
	FilePath   string       `json:"file_path"`
	FileFormat string       `json:"file_format"`
	NRows      int          `json:"n_rows"`
	NCols      int          `json:"n_cols"`
	Columns    []ColumnStat `json:"columns"`
	UploadedAt time.Time    `json:"uploaded_at"`
}

// ColumnStat describes one column of a tabular dataset. A column counts as
// categorical when it is a string column or a numeric column with at most
// CategoricalThreshold distinct values.
type ColumnStat struct {
	Name          string `json:"name"`
	DType         string `json:"dtype"`
	NUnique       int    `json:"n_unique"`
	NMissing      int    `json:"n_missing"`
	IsNumeric     bool   `json:"is_numeric"`
	IsCategorical bool   `json:"is_categorical"`
}

const CategoricalThreshold = 50

// ClassifyFactors splits columns into categorical and continuous model
// factors, in column order, skipping reserved columns (response, offset,
// weights, split). Non-numeric non-categorical columns are not factors.
func ClassifyFactors(columns []ColumnStat, reserved map[string]bool) (categorical, continuous []string) {
	for _, c := range columns {
		if reserved[c.Name] {
			continue
		}
		switch {
		case c.IsCategorical:
			categorical = append(categorical, c.Name)
		case c.IsNumeric:
			continuous = append(continuous, c.Name)
		}
	}
	return categorical, continuous
}

// TableSummary is the result of describing a tabular file.
type TableSummary struct {
	NRows   int          `json:"n_rows"`
	Columns []ColumnStat `json:"columns"`
}

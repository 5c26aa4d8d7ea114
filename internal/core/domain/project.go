package domain

import (
	"time"

	"github.com/google/uuid"
)

// Project groups datasets and fit attempts and carries the working model
// specification the editor restores on load.
type Project struct {
	ID           uuid.UUID      `json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Config       *ProjectConfig `json:"config"`
	VersionCount int            `json:"version_count"`
}

// ProjectConfig is the current (unsaved) model setup for the editor.
type ProjectConfig struct {
	DatasetID *uuid.UUID   `json:"dataset_id,omitempty"`
	Response  string       `json:"response,omitempty"`
	Family    string       `json:"family,omitempty"`
	Link      string       `json:"link,omitempty"`
	Offset    string       `json:"offset,omitempty"`
	Weights   string       `json:"weights,omitempty"`
	Split     *SplitSpec   `json:"split,omitempty"`
	Columns   []ColumnStat `json:"columns,omitempty"`
}

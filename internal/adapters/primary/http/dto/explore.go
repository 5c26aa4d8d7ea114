package dto

import (
	"encoding/json"

	"github.com/google/uuid"

	"atelier-service/internal/core/domain"
)

type ExploreRequest struct {
	DatasetID uuid.UUID         `json:"dataset_id" binding:"required"`
	Response  string            `json:"response" binding:"required"`
	Family    string            `json:"family" binding:"required"`
	Link      string            `json:"link"`
	Offset    string            `json:"offset"`
	Weights   string            `json:"weights"`
	Split     *domain.SplitSpec `json:"split"`
}

func (r ExploreRequest) ToExploreSpec() domain.ExploreSpec {
	return domain.ExploreSpec{
		Response: r.Response,
		Family:   r.Family,
		Link:     r.Link,
		Offset:   r.Offset,
		Weights:  r.Weights,
		Split:    r.Split,
	}
}

type ExplorationResponse struct {
	Report    json.RawMessage        `json:"report"`
	NullModel *domain.NullModelStats `json:"null_model,omitempty"`
}

func ToExplorationResponse(e *domain.Exploration) ExplorationResponse {
	return ExplorationResponse{Report: e.Report, NullModel: e.NullModel}
}

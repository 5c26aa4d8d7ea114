package dto

import (
	"time"

	"github.com/google/uuid"

	"atelier-service/internal/core/domain"
)

type CreateProjectRequest struct {
	Name        string                `json:"name" binding:"required,max=100"`
	Description string                `json:"description"`
	Config      *domain.ProjectConfig `json:"config"`
}

type UpdateProjectConfigRequest struct {
	Config *domain.ProjectConfig `json:"config" binding:"required"`
}

type ProjectResponse struct {
	ID           uuid.UUID             `json:"id"`
	CreatedAt    string                `json:"created_at"`
	UpdatedAt    string                `json:"updated_at"`
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	Config       *domain.ProjectConfig `json:"config"`
	VersionCount int                   `json:"version_count"`
}

type ListProjectsResponse struct {
	Items []ProjectResponse `json:"items"`
	Total int               `json:"total"`
}

func ToProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:           p.ID,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    p.UpdatedAt.Format(time.RFC3339),
		Name:         p.Name,
		Description:  p.Description,
		Config:       p.Config,
		VersionCount: p.VersionCount,
	}
}

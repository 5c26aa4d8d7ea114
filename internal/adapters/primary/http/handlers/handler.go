package handlers

import (
	"atelier-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	projectSvc   *services.ProjectService
	datasetSvc   *services.DatasetService
	attemptSvc   *services.ModelAttemptService
	exploreSvc   *services.ExploreService
	orchestrator *services.FitOrchestrator
}

func New(
	projectSvc *services.ProjectService,
	datasetSvc *services.DatasetService,
	attemptSvc *services.ModelAttemptService,
	exploreSvc *services.ExploreService,
	orchestrator *services.FitOrchestrator,
) *Handler {
	return &Handler{
		projectSvc:   projectSvc,
		datasetSvc:   datasetSvc,
		attemptSvc:   attemptSvc,
		exploreSvc:   exploreSvc,
		orchestrator: orchestrator,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Projects
	r.POST("/projects", h.CreateProject)
	r.GET("/projects", h.ListProjects)
	r.GET("/projects/:id", h.GetProject)
	r.PUT("/projects/:id/config", h.UpdateProjectConfig)
	r.DELETE("/projects/:id", h.DeleteProject)

	// Datasets
	r.POST("/projects/:id/datasets", h.UploadDataset)
	r.GET("/projects/:id/datasets", h.ListDatasets)
	r.GET("/datasets/:id", h.GetDataset)
	r.GET("/datasets/:id/columns/:column/values", h.GetColumnValues)

	// Exploration
	r.POST("/projects/:id/explore", h.ExploreData)

	// Fits
	r.POST("/projects/:id/fits", h.SubmitFit)
	r.GET("/projects/:id/fits", h.ListFitHistory)
	r.GET("/fits/:id", h.GetFit)
	r.GET("/fits/:id/events", h.StreamFitEvents)
}

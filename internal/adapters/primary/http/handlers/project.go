package handlers

import (
	"net/http"

	"atelier-service/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) CreateProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projectSvc.Create(c.Request.Context(), req.Name, req.Description, req.Config)
	if err != nil {
		log.WithError(err).Error("create project failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectResponse(project))
}

func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.projectSvc.List(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("list projects failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		items = append(items, dto.ToProjectResponse(p))
	}

	c.JSON(http.StatusOK, dto.ListProjectsResponse{Items: items, Total: len(items)})
}

func (h *Handler) GetProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	project, err := h.projectSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

func (h *Handler) UpdateProjectConfig(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	var req dto.UpdateProjectConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.projectSvc.UpdateConfig(c.Request.Context(), id, req.Config); err != nil {
		log.WithError(err).Error("update project config failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *Handler) DeleteProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	if err := h.projectSvc.Delete(c.Request.Context(), id); err != nil {
		log.WithError(err).Error("delete project failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

package handlers

import (
	"net/http"

	"atelier-service/internal/adapters/primary/http/dto"
	"atelier-service/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) UploadDataset(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingFilename.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer file.Close()

	dataset, err := h.datasetSvc.Upload(c.Request.Context(), projectID, fileHeader.Filename, file)
	if err != nil {
		log.WithError(err).Error("dataset upload failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToDatasetResponse(dataset))
}

func (h *Handler) ListDatasets(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	datasets, err := h.datasetSvc.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	items := make([]dto.DatasetResponse, 0, len(datasets))
	for _, d := range datasets {
		items = append(items, dto.ToDatasetResponse(d))
	}

	c.JSON(http.StatusOK, dto.ListDatasetsResponse{Items: items, Total: len(items)})
}

func (h *Handler) GetDataset(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dataset id"})
		return
	}

	dataset, err := h.datasetSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDatasetResponse(dataset))
}

func (h *Handler) GetColumnValues(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dataset id"})
		return
	}
	column := c.Param("column")

	values, err := h.datasetSvc.ColumnValues(c.Request.Context(), id, column)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ColumnValuesResponse{Column: column, Values: values})
}

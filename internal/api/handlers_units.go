package api

import (
	"errors"
	"net/http"

	"structiv/internal/models"

	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) handleListUnits(c *gin.Context) {
	units, err := s.deps.Units.ListUnits(c.Request.Context())
	if err != nil {
		s.respondError(c, err, "Failed to fetch units")
		return
	}
	c.JSON(http.StatusOK, units)
}

func (s *HTTPServer) handleGetUnit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	unit, err := s.deps.Units.GetUnit(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err, "Failed to fetch unit")
		return
	}
	c.JSON(http.StatusOK, unit)
}

type createUnitRequest struct {
	Name   string   `json:"name"`
	Size   float64  `json:"size"`
	Price  float64  `json:"price"`
	Images []string `json:"images"`
	Status string   `json:"status"`
}

func (s *HTTPServer) handleCreateUnit(c *gin.Context) {
	var req createUnitRequest
	if !bindJSON(c, &req) {
		return
	}

	unit := &models.Unit{Name: req.Name, Size: req.Size, Price: req.Price, Images: req.Images, Status: req.Status}
	if err := s.deps.Units.CreateUnit(c.Request.Context(), unit); err != nil {
		s.respondError(c, err, "Failed to create unit")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Unit created successfully", "unitId": unit.ID})
}

func (s *HTTPServer) handleUpdateUnit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch models.UnitPatch
	if !bindJSON(c, &patch) {
		return
	}

	if err := s.deps.Units.UpdateUnit(c.Request.Context(), id, patch); err != nil {
		s.respondError(c, err, "Failed to update unit")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unit updated successfully"})
}

func (s *HTTPServer) handleUploadImages(c *gin.Context) {
	up := s.deps.Uploader
	limit := int64(up.MaxFiles())*up.MaxBytes() + 1<<20
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	form, err := c.MultipartForm()
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.respondError(c, up.TooLarge(), "Failed to process images")
			return
		}
		writeError(c, http.StatusBadRequest, "No files uploaded")
		return
	}

	urls, err := up.Save(c.Request.Context(), form.File["images"])
	if err != nil {
		s.respondError(c, err, "Failed to process images")
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": urls})
}

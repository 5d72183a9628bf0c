// internal/server/admin.go
package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (s *Server) listApplications(c *gin.Context) {
	var archived *bool
	if raw, ok := c.GetQuery("archived"); ok {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "archived must be true or false"})
			return
		}
		archived = &value
	}

	recs, err := s.directory.List(c.Request.Context(), archived)
	if err != nil {
		s.log.Error("listing applications failed", map[string]interface{}{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list applications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": recs})
}

func (s *Server) getApplication(c *gin.Context) {
	rec, err := s.directory.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) updateApplicationStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.directory.UpdateStatus(c.Request.Context(), c.Param("id"), body.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": body.Status})
}

func (s *Server) archiveApplication(c *gin.Context) {
	s.setArchived(c, true)
}

func (s *Server) unarchiveApplication(c *gin.Context) {
	s.setArchived(c, false)
}

func (s *Server) setArchived(c *gin.Context, archived bool) {
	if err := s.directory.SetArchived(c.Request.Context(), c.Param("id"), archived); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "archived": archived})
}

func (s *Server) deleteApplication(c *gin.Context) {
	if err := s.directory.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getStats(c *gin.Context) {
	stats, err := s.directory.GetStats(c.Request.Context())
	if err != nil {
		s.log.Error("loading stats failed", map[string]interface{}{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// signedURL hands the admin UI a temporary download link for a stored
// attachment path.
func (s *Server) signedURL(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	url, err := s.blobs.SignedURL(c.Request.Context(), path, s.signedTTL)
	if err != nil {
		s.log.Error("signing url failed", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign url"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "expiresIn": int(s.signedTTL.Seconds())})
}

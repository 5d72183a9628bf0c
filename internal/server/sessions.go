// internal/server/sessions.go
package server

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recruiting-wizard/internal/wizard/controller"
	"recruiting-wizard/internal/wizard/form"
)

func (s *Server) createSession(c *gin.Context) {
	id := uuid.NewString()
	snap := s.wizard.State(c.Request.Context(), id)
	c.JSON(http.StatusCreated, gin.H{
		"sessionId": id,
		"state":     snap,
	})
}

func (s *Server) getSession(c *gin.Context) {
	snap := s.wizard.State(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, snap)
}

func (s *Server) updateIntro(c *gin.Context) {
	var body struct {
		Accepted bool `json:"accepted"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap := s.wizard.UpdateIntro(c.Request.Context(), c.Param("id"), body.Accepted)
	c.JSON(http.StatusOK, snap)
}

func (s *Server) updateMission(c *gin.Context) {
	var patch controller.MissionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap := s.wizard.UpdateMission(c.Request.Context(), c.Param("id"), patch)
	c.JSON(http.StatusOK, snap)
}

func (s *Server) updateOutcome(c *gin.Context) {
	key := form.OutcomeKey(c.Param("key"))
	if _, ok := form.OutcomeLabels[key]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown outcome"})
		return
	}

	var patch controller.OutcomePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap := s.wizard.UpdateOutcome(c.Request.Context(), c.Param("id"), key, patch)
	c.JSON(http.StatusOK, snap)
}

func (s *Server) updateCompetency(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 || index >= len(form.CompetencyDefinitions) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown competency"})
		return
	}

	var patch controller.CompetencyPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap := s.wizard.UpdateCompetency(c.Request.Context(), c.Param("id"), index, patch)
	c.JSON(http.StatusOK, snap)
}

func (s *Server) updatePersonalInfo(c *gin.Context) {
	var patch controller.PersonalInfoPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap := s.wizard.UpdatePersonalInfo(c.Request.Context(), c.Param("id"), patch)
	c.JSON(http.StatusOK, snap)
}

// addDocuments accepts multipart uploads under the "files" field. Admission
// rules run in the controller so oversized files surface through the modal.
func (s *Server) addDocuments(c *gin.Context) {
	mpForm, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var files []form.Attachment
	for _, header := range mpForm.File["files"] {
		attachment, err := readAttachment(header)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		files = append(files, attachment)
	}

	snap := s.wizard.AddDocuments(c.Request.Context(), c.Param("id"), files)
	c.JSON(http.StatusOK, snap)
}

func (s *Server) removeDocument(c *gin.Context) {
	snap := s.wizard.RemoveDocument(c.Request.Context(), c.Param("id"), c.Param("name"))
	c.JSON(http.StatusOK, snap)
}

func (s *Server) setPhoto(c *gin.Context) {
	header, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	photo, err := readAttachment(header)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap := s.wizard.SetPhoto(c.Request.Context(), c.Param("id"), photo)
	c.JSON(http.StatusOK, snap)
}

func (s *Server) removePhoto(c *gin.Context) {
	snap := s.wizard.RemovePhoto(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, snap)
}

func (s *Server) next(c *gin.Context) {
	snap := s.wizard.Next(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, snap)
}

func (s *Server) back(c *gin.Context) {
	snap := s.wizard.Back(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, snap)
}

func (s *Server) closeModal(c *gin.Context) {
	snap := s.wizard.CloseModal(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, snap)
}

func (s *Server) submit(c *gin.Context) {
	snap := s.wizard.Submit(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, snap)
}

func readAttachment(header *multipart.FileHeader) (form.Attachment, error) {
	file, err := header.Open()
	if err != nil {
		return form.Attachment{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return form.Attachment{}, err
	}

	return form.Attachment{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        data,
	}, nil
}

package server

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/mediadrop/mediadrop/pkg/intake"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		s.logger.Error("unable to open uploaded file", "filename", fileHeader.Filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to read uploaded file"})
		return
	}
	defer f.Close()

	result, appErr := s.pipeline.Process(intake.Upload{
		OriginalName:  fileHeader.Filename,
		DeclaredType:  fileHeader.Header.Get("Content-Type"),
		DeclaredSize:  fileHeader.Size,
		SuggestedName: c.PostForm("name"),
		Body:          f,
	}, requestBase(c))
	if appErr != nil {
		c.JSON(appErr.StatusCode, gin.H{"error": appErr.Message})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleDelete(c *gin.Context) {
	// Only the base name is honoured; path components are stripped.
	name := filepath.Base(c.Param("name"))

	if err := s.store.Delete(name); err != nil {
		s.logger.Error("failed to delete file", "name", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
		return
	}

	// Missing files report deleted too; the endpoint is idempotent.
	c.JSON(http.StatusOK, gin.H{"deleted": true, "name": name})
}

func (s *Server) handleServeFile(c *gin.Context) {
	name := filepath.Base(c.Param("name"))

	f, info, err := s.store.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		s.logger.Error("failed to open file for serving", "name", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer f.Close()

	if !info.Mode().IsRegular() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}

// requestBase derives scheme://host from the inbound request, used when
// no public base URL override is configured.
func requestBase(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

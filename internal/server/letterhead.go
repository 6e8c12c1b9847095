package server

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetLetterhead(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.letterhead.Get()})
}

// GetLetterheadAsset serves the configured logo or stamp image.
func (s *Server) GetLetterheadAsset(c *gin.Context) {
	lh := s.letterhead.Get()

	var path string
	switch c.Param("asset") {
	case "logo":
		path = lh.LogoPath
	case "stamp":
		path = lh.StampPath
	}
	if path == "" {
		AbortWithError(c, ErrNotFound)
		return
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		AbortWithError(c, ErrNotFound)
		return
	}

	c.File(path)
}

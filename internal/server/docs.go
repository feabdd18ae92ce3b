package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/tariffdesk/internal/observability/logger"
	"go.uber.org/zap"
)

func (s *Server) ListDocs(c *gin.Context) {
	docs, err := s.docsSvc.ReadAll(c.Request.Context())
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("list docs failed", zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load docs",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"docs": docs})
}

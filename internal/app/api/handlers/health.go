package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/blancosphere/streamvault/pkg/config"
	"github.com/blancosphere/streamvault/pkg/response"
)

func ApiHealthCheck(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		response.JSON(c, http.StatusOK, gin.H{
			"status":    "healthy",
			"version":   cfg.Version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func RegisterHealthRoutes(r gin.IRouter, cfg *config.Config) {
	r.GET("/health-check", ApiHealthCheck(cfg))
}

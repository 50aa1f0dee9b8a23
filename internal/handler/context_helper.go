package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusops/faculty-workload-api/internal/middleware"
	"github.com/campusops/faculty-workload-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func timeoutContext(c *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), d)
}

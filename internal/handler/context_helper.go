package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-results-api/internal/middleware"
	"github.com/noah-isme/sma-results-api/internal/models"
)

func actorFromContext(c *gin.Context) models.Actor {
	return models.ActorFromClaims(middleware.Claims(c))
}

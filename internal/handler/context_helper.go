package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/middleware"
)

// actorID returns the authenticated user's id, empty when the route is public.
func actorID(c *gin.Context) string {
	if claims := middleware.CurrentUser(c); claims != nil {
		return claims.UserID
	}
	return ""
}

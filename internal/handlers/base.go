package handlers

import (
	"github.com/gin-gonic/gin"

	"murmur/internal/middleware"
	"murmur/internal/models"
	"murmur/internal/utils"
)

// mustUser returns the authenticated user. Routes behind AuthRequired
// always have one.
func mustUser(c *gin.Context) *models.User {
	return c.MustGet(middleware.CheckUserKey).(*models.User)
}

// respondError writes the uniform error payload.
func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// uintParam reads a numeric path parameter; 0 means malformed.
func uintParam(c *gin.Context, name string) uint {
	return utils.StringToUint(c.Param(name))
}

// pageParam reads the 1-based ?page= query parameter.
func pageParam(c *gin.Context) int {
	page := utils.StringToInt(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	return page
}

package middleware

import (
	"net/http"
	"time"

	"murmur/internal/db"
	"murmur/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// AuthRequired rejects requests without a logged-in user. LoadUser
// must run earlier in the chain.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// LoadUser resolves the session's user, stores it on the context and
// touches the last-seen timestamp.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")

		if userID != nil {
			var user models.User
			if err := db.DB.First(&user, userID).Error; err == nil {
				now := time.Now()
				db.DB.Model(&user).UpdateColumn("last_seen_at", now)
				user.LastSeenAt = &now
				c.Set(CheckUserKey, &user)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the loaded user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	if v, exists := c.Get(CheckUserKey); exists {
		return v.(*models.User)
	}
	return nil
}

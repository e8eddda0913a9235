package handlers

import (
	"net/http"

	"murmur/internal/db"
	"murmur/internal/services"
	"murmur/internal/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notify *services.NotificationService
}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{notify: services.NewNotificationService(db.DB)}
}

// List returns the caller's notifications newer than the ?since= unix
// cursor, oldest first, so clients can poll with the last timestamp
// they saw.
func (h *NotificationHandler) List(c *gin.Context) {
	user := mustUser(c)
	since := utils.StringToFloat(c.DefaultQuery("since", "0"))

	views, err := h.notify.Fetch(user.ID, since)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not load notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": views})
}

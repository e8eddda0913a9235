package handlers

import (
	"errors"
	"net/http"

	"murmur/internal/config"
	"murmur/internal/db"
	"murmur/internal/models"
	"murmur/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MessageHandler struct {
	cfg      config.AppConfig
	messages *services.MessageService
}

func NewMessageHandler(cfg config.AppConfig) *MessageHandler {
	notify := services.NewNotificationService(db.DB)
	return &MessageHandler{
		cfg:      cfg,
		messages: services.NewMessageService(db.DB, notify),
	}
}

// Inbox marks the caller's inbox read (watermark + zero notification)
// and returns received messages, newest first.
func (h *MessageHandler) Inbox(c *gin.Context) {
	user := mustUser(c)

	if err := h.messages.MarkInboxRead(user.ID); err != nil {
		respondError(c, http.StatusInternalServerError, "could not mark inbox read")
		return
	}

	msgs, err := h.messages.Received(user.ID, pageParam(c), h.cfg.PageSize)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not load messages")
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs, "page": pageParam(c)})
}

type sendMessageRequest struct {
	Body string `json:"body" binding:"required,max=140"`
}

// Send delivers a private message to the named user.
func (h *MessageHandler) Send(c *gin.Context) {
	user := mustUser(c)

	var recipient models.User
	if err := db.DB.Where("username = ?", c.Param("username")).First(&recipient).Error; err != nil {
		respondError(c, http.StatusNotFound, "recipient not found")
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "message body is required and limited to 140 characters")
		return
	}

	msg, err := h.messages.Send(user.ID, recipient.ID, req.Body)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not send message")
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// Delete removes one of the caller's received messages.
func (h *MessageHandler) Delete(c *gin.Context) {
	user := mustUser(c)
	err := h.messages.Delete(user.ID, uintParam(c, "id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondError(c, http.StatusNotFound, "message not found")
	default:
		respondError(c, http.StatusInternalServerError, "could not delete message")
	}
}

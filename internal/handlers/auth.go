package handlers

import (
	"net/http"
	"strings"

	"murmur/internal/config"
	"murmur/internal/db"
	"murmur/internal/models"
	"murmur/internal/services"
	"murmur/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	cfg         config.AppConfig
	tokens      *services.TokenService
	mailService *services.MailService
	logger      *zap.Logger
}

func NewAuthHandler(cfg config.AppConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		cfg: cfg,
		tokens: services.NewTokenService(services.TokenServiceConfig{
			SigningKey: []byte(cfg.ResetTokenKey),
			TokenTTL:   cfg.ResetTokenTTL,
		}),
		mailService: services.NewMailService(
			cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, logger),
		logger: logger,
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid registration payload")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not process password")
		return
	}

	user := models.User{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: hash,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		respondError(c, http.StatusConflict, "username or email already registered")
		return
	}

	h.logger.Info("user registered", zap.Uint("user_id", user.ID))
	c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid login payload")
		return
	}

	var user models.User
	if err := db.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if !utils.CheckPasswordHash(req.Password, user.Password) {
		respondError(c, http.StatusUnauthorized, "invalid username or password")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "could not establish session")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

type resetRequestPayload struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestPasswordReset issues a reset token and mails it. The response
// never reveals whether the address is registered.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req resetRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error; err == nil {
		token, err := h.tokens.IssueResetToken(user.ID)
		if err != nil {
			h.logger.Error("failed to issue reset token", zap.Error(err))
		} else {
			link := h.cfg.PublicBaseURL + "/reset_password/" + token
			h.mailService.SendPasswordResetEmail(user.Email, link, h.cfg.ResetTokenTTL.String())
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "reset instructions sent if the address is registered"})
}

type resetPasswordPayload struct {
	Password string `json:"password" binding:"required,min=6"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	userID, err := h.tokens.VerifyResetToken(c.Param("token"))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "invalid or expired reset token")
		return
	}

	var req resetPasswordPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not process password")
		return
	}
	if err := db.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("password", hash).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "could not reset password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "password reset"})
}

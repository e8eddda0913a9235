package handlers

import (
	"net/http"
	"strings"

	"murmur/internal/config"
	"murmur/internal/db"
	"murmur/internal/middleware"
	"murmur/internal/models"
	"murmur/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	cfg    config.AppConfig
	feed   *services.FeedService
	follow *services.FollowService
}

func NewUserHandler(cfg config.AppConfig) *UserHandler {
	return &UserHandler{
		cfg:    cfg,
		feed:   services.NewFeedService(db.DB),
		follow: services.NewFollowService(db.DB),
	}
}

// Profile returns a user's public profile with their recent posts.
func (h *UserHandler) Profile(c *gin.Context) {
	var user models.User
	if err := db.DB.Where("username = ?", c.Param("username")).First(&user).Error; err != nil {
		respondError(c, http.StatusNotFound, "user not found")
		return
	}

	posts, err := h.feed.UserPosts(user.ID, pageParam(c), h.cfg.PageSize)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not load posts")
		return
	}

	followers, _ := h.follow.FollowerCount(user.ID)
	followed, _ := h.follow.FollowedCount(user.ID)

	response := gin.H{
		"user":           user,
		"posts":          posts,
		"follower_count": followers,
		"followed_count": followed,
	}
	if viewer := middleware.CurrentUser(c); viewer != nil && viewer.ID != user.ID {
		following, _ := h.follow.IsFollowing(viewer.ID, user.ID)
		response["following"] = following
	}
	c.JSON(http.StatusOK, response)
}

type updateProfileRequest struct {
	Username string `json:"username"`
	About    string `json:"about"`
}

// UpdateProfile edits the caller's username and about text.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user := mustUser(c)

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	updates := map[string]interface{}{"about": req.About}
	if name := strings.TrimSpace(req.Username); name != "" {
		updates["username"] = name
	}
	if err := db.DB.Model(user).Updates(updates).Error; err != nil {
		respondError(c, http.StatusConflict, "username already taken")
		return
	}
	c.JSON(http.StatusOK, user)
}

// Follow adds a follow edge toward the named user. Self-follows are
// rejected here; the graph layer does not check.
func (h *UserHandler) Follow(c *gin.Context) {
	h.changeFollow(c, true)
}

// Unfollow removes the follow edge if present.
func (h *UserHandler) Unfollow(c *gin.Context) {
	h.changeFollow(c, false)
}

func (h *UserHandler) changeFollow(c *gin.Context, follow bool) {
	user := mustUser(c)

	var target models.User
	if err := db.DB.Where("username = ?", c.Param("username")).First(&target).Error; err != nil {
		respondError(c, http.StatusNotFound, "user not found")
		return
	}
	if target.ID == user.ID {
		respondError(c, http.StatusBadRequest, "cannot follow yourself")
		return
	}

	var err error
	if follow {
		err = h.follow.Follow(user.ID, target.ID)
	} else {
		err = h.follow.Unfollow(user.ID, target.ID)
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not update follow state")
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": follow})
}

package handlers

import (
	"net/http"
	"strings"
	"time"

	"murmur/internal/config"
	"murmur/internal/db"
	"murmur/internal/middleware"
	"murmur/internal/models"
	"murmur/internal/services"
	"murmur/internal/utils"

	"github.com/gin-gonic/gin"
)

const communityListCacheKey = "communities:all"

type CommunityHandler struct {
	cfg    config.AppConfig
	feed   *services.FeedService
	follow *services.FollowService
}

func NewCommunityHandler(cfg config.AppConfig) *CommunityHandler {
	return &CommunityHandler{
		cfg:    cfg,
		feed:   services.NewFeedService(db.DB),
		follow: services.NewFollowService(db.DB),
	}
}

// List returns the community directory, name-ordered. The directory
// changes rarely, so it sits behind a short-lived cache.
func (h *CommunityHandler) List(c *gin.Context) {
	if cached := utils.GetCache().Get(communityListCacheKey); cached != nil {
		c.JSON(http.StatusOK, gin.H{"communities": cached})
		return
	}

	var communities []models.Community
	if err := db.DB.Order("name ASC").Find(&communities).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "could not load communities")
		return
	}
	utils.GetCache().Set(communityListCacheKey, communities, time.Minute)
	c.JSON(http.StatusOK, gin.H{"communities": communities})
}

type createCommunityRequest struct {
	Name  string `json:"name" binding:"required,max=64"`
	About string `json:"about"`
}

func (h *CommunityHandler) Create(c *gin.Context) {
	var req createCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "community name is required")
		return
	}

	community := models.Community{
		Name:  strings.TrimSpace(req.Name),
		About: req.About,
	}
	if err := db.DB.Create(&community).Error; err != nil {
		respondError(c, http.StatusConflict, "community name already exists")
		return
	}
	utils.GetCache().Delete(communityListCacheKey)
	c.JSON(http.StatusCreated, community)
}

// Detail returns one community with a page of its posts.
func (h *CommunityHandler) Detail(c *gin.Context) {
	var community models.Community
	if err := db.DB.First(&community, uintParam(c, "id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "community not found")
		return
	}

	posts, err := h.feed.CommunityPosts(community.ID, pageParam(c), h.cfg.PageSize)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not load posts")
		return
	}

	response := gin.H{"community": community, "posts": posts}
	if user := middleware.CurrentUser(c); user != nil {
		joined, _ := h.follow.IsMember(user.ID, community.ID)
		response["joined"] = joined
	}
	c.JSON(http.StatusOK, response)
}

// Join adds the caller to the community.
func (h *CommunityHandler) Join(c *gin.Context) {
	h.changeMembership(c, true)
}

// Leave removes the caller from the community.
func (h *CommunityHandler) Leave(c *gin.Context) {
	h.changeMembership(c, false)
}

func (h *CommunityHandler) changeMembership(c *gin.Context, join bool) {
	user := mustUser(c)

	var community models.Community
	if err := db.DB.First(&community, uintParam(c, "id")).Error; err != nil {
		respondError(c, http.StatusNotFound, "community not found")
		return
	}

	var err error
	if join {
		err = h.follow.JoinCommunity(user.ID, community.ID)
	} else {
		err = h.follow.LeaveCommunity(user.ID, community.ID)
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not update membership")
		return
	}
	c.JSON(http.StatusOK, gin.H{"joined": join})
}

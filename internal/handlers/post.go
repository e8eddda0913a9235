package handlers

import (
	"errors"
	"net/http"

	"murmur/internal/config"
	"murmur/internal/db"
	"murmur/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PostHandler struct {
	cfg     config.AppConfig
	feed    *services.FeedService
	content *services.ContentService
}

func NewPostHandler(cfg config.AppConfig) *PostHandler {
	return &PostHandler{
		cfg:     cfg,
		feed:    services.NewFeedService(db.DB),
		content: services.NewContentService(db.DB),
	}
}

// Feed is the home timeline: posts by followed users plus the caller's
// own, newest first.
func (h *PostHandler) Feed(c *gin.Context) {
	user := mustUser(c)
	posts, err := h.feed.FollowedPosts(user.ID, pageParam(c), h.cfg.PageSize)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not load feed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "page": pageParam(c)})
}

// Explore lists posts outside any community.
func (h *PostHandler) Explore(c *gin.Context) {
	posts, err := h.feed.ExplorePosts(pageParam(c), h.cfg.PageSize)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not load posts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "page": pageParam(c)})
}

type createPostRequest struct {
	Body        string `json:"body" binding:"required,max=140"`
	CommunityID *uint  `json:"community_id"`
}

func (h *PostHandler) Create(c *gin.Context) {
	user := mustUser(c)

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "post body is required and limited to 140 characters")
		return
	}

	post, err := h.content.CreatePost(user.ID, req.Body, req.CommunityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "community not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "could not create post")
		return
	}
	c.JSON(http.StatusCreated, post)
}

// Detail returns one post with a page of its comments.
func (h *PostHandler) Detail(c *gin.Context) {
	postID := uintParam(c, "id")
	post, err := h.content.GetPost(postID)
	if err != nil {
		respondError(c, http.StatusNotFound, "post not found")
		return
	}
	comments, err := h.content.PostComments(postID, pageParam(c), h.cfg.PageSize)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not load comments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post, "comments": comments})
}

type createCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

func (h *PostHandler) CreateComment(c *gin.Context) {
	user := mustUser(c)

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "comment body is required")
		return
	}

	comment, err := h.content.CreateComment(user.ID, uintParam(c, "id"), req.Body)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "could not create comment")
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *PostHandler) Delete(c *gin.Context) {
	user := mustUser(c)
	err := h.content.DeletePost(user.ID, uintParam(c, "id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	case errors.Is(err, services.ErrNotOwner):
		respondError(c, http.StatusForbidden, "not your post")
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondError(c, http.StatusNotFound, "post not found")
	default:
		respondError(c, http.StatusInternalServerError, "could not delete post")
	}
}

func (h *PostHandler) DeleteComment(c *gin.Context) {
	user := mustUser(c)
	err := h.content.DeleteComment(user.ID, uintParam(c, "id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	case errors.Is(err, services.ErrNotOwner):
		respondError(c, http.StatusForbidden, "not your comment")
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondError(c, http.StatusNotFound, "comment not found")
	default:
		respondError(c, http.StatusInternalServerError, "could not delete comment")
	}
}

package handlers

import (
	"errors"
	"net/http"

	"murmur/internal/db"
	"murmur/internal/models"
	"murmur/internal/services"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	karma *services.KarmaService
}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{karma: services.NewKarmaService(db.DB)}
}

// Upvote handles POST /vote/:type/:id.
func (h *VoteHandler) Upvote(c *gin.Context) {
	h.vote(c, services.DirectionUp)
}

// Downvote handles POST /vote/:type/:id/down.
func (h *VoteHandler) Downvote(c *gin.Context) {
	h.vote(c, services.DirectionDown)
}

func (h *VoteHandler) vote(c *gin.Context, dir services.Direction) {
	user := mustUser(c)

	var target services.VoteTarget
	switch c.Param("type") {
	case "post":
		target = services.VoteTargetPost
	case "comment":
		target = services.VoteTargetComment
	default:
		respondError(c, http.StatusBadRequest, "unknown vote target")
		return
	}
	itemID := uintParam(c, "id")

	// Caller-side precondition: no votes on own content.
	ownerID, karma, err := h.itemState(target, itemID)
	if err != nil {
		respondError(c, http.StatusNotFound, "content not found")
		return
	}
	if ownerID == user.ID {
		respondError(c, http.StatusBadRequest, "cannot vote on your own content")
		return
	}

	applied, err := h.karma.CastVote(user.ID, target, itemID, dir)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			respondError(c, http.StatusNotFound, "content not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "could not record vote")
		return
	}

	if applied {
		karma += int(dir)
	}
	c.JSON(http.StatusOK, gin.H{"applied": applied, "karma": karma})
}

func (h *VoteHandler) itemState(target services.VoteTarget, itemID uint) (ownerID uint, karma int, err error) {
	if target == services.VoteTargetPost {
		var post models.Post
		if err := db.DB.Select("id", "user_id", "karma").First(&post, itemID).Error; err != nil {
			return 0, 0, err
		}
		return post.UserID, post.Karma, nil
	}
	var comment models.Comment
	if err := db.DB.Select("id", "user_id", "karma").First(&comment, itemID).Error; err != nil {
		return 0, 0, err
	}
	return comment.UserID, comment.Karma, nil
}

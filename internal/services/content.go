package services

import (
	"errors"

	"murmur/internal/models"
	"murmur/internal/utils"

	"gorm.io/gorm"
)

// ErrNotOwner is returned when a caller tries to delete content it
// does not own.
var ErrNotOwner = errors.New("not the owner of this content")

// ContentService creates and deletes posts and comments. Deletion
// cascades explicitly: a post takes its comments and every vote
// membership on either down with it, in one transaction.
type ContentService struct {
	db *gorm.DB
}

func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{db: db}
}

// CreatePost stores a new post, optionally inside a community.
func (s *ContentService) CreatePost(userID uint, body string, communityID *uint) (*models.Post, error) {
	if communityID != nil {
		var community models.Community
		if err := s.db.First(&community, *communityID).Error; err != nil {
			return nil, err
		}
	}
	post := models.Post{
		UserID:      userID,
		CommunityID: communityID,
		Body:        body,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// CreateComment stores a comment under a post. The body is rendered
// through markdown and sanitized once at creation.
func (s *ContentService) CreateComment(userID, postID uint, body string) (*models.Comment, error) {
	var post models.Post
	if err := s.db.Select("id").First(&post, postID).Error; err != nil {
		return nil, err
	}
	comment := models.Comment{
		PostID:   postID,
		UserID:   userID,
		Body:     body,
		BodyHTML: utils.RenderMarkdown(body),
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetPost loads a post with its author and community.
func (s *ContentService) GetPost(postID uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.Preload("User").Preload("Community").First(&post, postID).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// PostComments lists a post's comments, newest first.
func (s *ContentService) PostComments(postID uint, page, perPage int) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Offset(pageOffset(page, perPage)).
		Limit(perPage).
		Find(&comments).Error
	return comments, err
}

// DeletePost removes a post owned by userID, its comments, and all
// vote memberships on the post or its comments.
func (s *ContentService) DeletePost(userID, postID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			return err
		}
		if post.UserID != userID {
			return ErrNotOwner
		}

		commentIDs := tx.Model(&models.Comment{}).
			Select("id").
			Where("post_id = ?", postID)
		if err := tx.Where("comment_id IN (?)", commentIDs).
			Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}

// DeleteComment removes a comment owned by userID and its vote
// memberships.
func (s *ContentService) DeleteComment(userID, commentID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, commentID).Error; err != nil {
			return err
		}
		if comment.UserID != userID {
			return ErrNotOwner
		}
		if err := tx.Where("comment_id = ?", commentID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&comment).Error
	})
}

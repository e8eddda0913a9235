package services

import (
	"murmur/internal/models"

	"gorm.io/gorm"
)

// FeedService materializes the read models for post listings. Ordering
// is always newest first with id as the deterministic tiebreaker.
type FeedService struct {
	db *gorm.DB
}

func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{db: db}
}

// FollowedPosts is the home feed: posts by users the owner follows
// plus the owner's own, as one query, so an accidental self-follow
// edge cannot duplicate rows.
func (s *FeedService) FollowedPosts(userID uint, page, perPage int) ([]models.Post, error) {
	followed := s.db.Model(&models.Follow{}).
		Select("followed_id").
		Where("follower_id = ?", userID)

	var posts []models.Post
	err := s.db.Preload("User").Preload("Community").
		Where("user_id IN (?) OR user_id = ?", followed, userID).
		Order("created_at DESC, id DESC").
		Offset(pageOffset(page, perPage)).
		Limit(perPage).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, s.fillCommentCounts(posts)
}

// ExplorePosts lists posts that belong to no community.
func (s *FeedService) ExplorePosts(page, perPage int) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.Preload("User").
		Where("community_id IS NULL").
		Order("created_at DESC, id DESC").
		Offset(pageOffset(page, perPage)).
		Limit(perPage).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, s.fillCommentCounts(posts)
}

// CommunityPosts lists a community's posts.
func (s *FeedService) CommunityPosts(communityID uint, page, perPage int) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.Preload("User").
		Where("community_id = ?", communityID).
		Order("created_at DESC, id DESC").
		Offset(pageOffset(page, perPage)).
		Limit(perPage).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, s.fillCommentCounts(posts)
}

// UserPosts lists one author's posts for their profile page.
func (s *FeedService) UserPosts(userID uint, page, perPage int) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.Preload("User").Preload("Community").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(pageOffset(page, perPage)).
		Limit(perPage).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, s.fillCommentCounts(posts)
}

type commentCountRow struct {
	PostID uint
	Count  int
}

func (s *FeedService) fillCommentCounts(posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	var rows []commentCountRow
	if err := s.db.Model(&models.Comment{}).
		Select("post_id, count(*) as count").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&rows).Error; err != nil {
		return err
	}

	counts := make(map[uint]int, len(rows))
	for _, r := range rows {
		counts[r.PostID] = r.Count
	}
	for i := range posts {
		posts[i].CommentCount = counts[posts[i].ID]
	}
	return nil
}

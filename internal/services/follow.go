package services

import (
	"errors"

	"murmur/internal/models"

	"gorm.io/gorm"
)

// FollowService maintains the directed follow graph and community
// membership edges. All mutations are idempotent: inserting an
// existing edge or removing a missing one is a no-op. Self-loop
// prevention is the caller's job, as with voting.
type FollowService struct {
	db *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Follow inserts the follower→followed edge if absent.
func (s *FollowService) Follow(followerID, followedID uint) error {
	edge := models.Follow{FollowerID: followerID, FollowedID: followedID}
	err := s.db.Create(&edge).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// Unfollow removes the edge if present.
func (s *FollowService) Unfollow(followerID, followedID uint) error {
	return s.db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error
}

// IsFollowing reports whether the follower→followed edge exists.
func (s *FollowService) IsFollowing(followerID, followedID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}

// FollowerCount returns how many users follow userID.
func (s *FollowService) FollowerCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Follow{}).Where("followed_id = ?", userID).Count(&count).Error
	return count, err
}

// FollowedCount returns how many users userID follows.
func (s *FollowService) FollowedCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

// JoinCommunity inserts the membership edge if absent.
func (s *FollowService) JoinCommunity(userID, communityID uint) error {
	edge := models.CommunityMember{UserID: userID, CommunityID: communityID}
	err := s.db.Create(&edge).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// LeaveCommunity removes the membership edge if present.
func (s *FollowService) LeaveCommunity(userID, communityID uint) error {
	return s.db.Where("user_id = ? AND community_id = ?", userID, communityID).
		Delete(&models.CommunityMember{}).Error
}

// IsMember reports whether the user has joined the community.
func (s *FollowService) IsMember(userID, communityID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.CommunityMember{}).
		Where("user_id = ? AND community_id = ?", userID, communityID).
		Count(&count).Error
	return count > 0, err
}

package services

import (
	"errors"

	"murmur/internal/models"

	"gorm.io/gorm"
)

// Direction of a vote. Only the karma deltas remember it; the vote
// membership row does not.
type Direction int

const (
	DirectionUp   Direction = 1
	DirectionDown Direction = -1
)

// VoteTarget selects which kind of content item a vote lands on.
type VoteTarget string

const (
	VoteTargetPost    VoteTarget = "post"
	VoteTargetComment VoteTarget = "comment"
)

var (
	// ErrItemNotFound is returned when the voted item does not exist.
	ErrItemNotFound = errors.New("content item not found")
	// ErrSelfVote is returned when a caller fails the owner precondition.
	ErrSelfVote = errors.New("cannot vote on own content")
)

// KarmaService is the vote ledger. Admission of a vote inserts a
// (voter, item) membership and applies the karma delta to the item and
// its owner as one transaction; a duplicate membership rejects the vote
// with no state change.
type KarmaService struct {
	db *gorm.DB
}

func NewKarmaService(db *gorm.DB) *KarmaService {
	return &KarmaService{db: db}
}

// CastVote admits or rejects a vote by voterID on the given item.
// Callers must reject self-votes before calling; the ledger re-checks
// against the loaded owner and returns ErrSelfVote as a safety net.
//
// applied=false with a nil error means the voter had already voted on
// this item; nothing changed.
func (s *KarmaService) CastVote(voterID uint, target VoteTarget, itemID uint, dir Direction) (applied bool, err error) {
	if dir != DirectionUp && dir != DirectionDown {
		return false, errors.New("invalid vote direction")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		ownerID, err := s.itemOwner(tx, target, itemID)
		if err != nil {
			return err
		}
		if ownerID == voterID {
			return ErrSelfVote
		}

		// Fast path: known duplicate, reject without writing.
		var existing int64
		if err := s.membershipQuery(tx, voterID, target, itemID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}

		vote := models.Vote{UserID: voterID}
		if target == VoteTargetPost {
			vote.PostID = &itemID
		} else {
			vote.CommentID = &itemID
		}
		if err := tx.Create(&vote).Error; err != nil {
			// Concurrent duplicate: the unique index on (voter, item)
			// decides, not the pre-check above.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil
			}
			return err
		}

		delta := int(dir)
		var itemModel interface{}
		if target == VoteTargetPost {
			itemModel = &models.Post{}
		} else {
			itemModel = &models.Comment{}
		}
		if err := tx.Model(itemModel).Where("id = ?", itemID).
			UpdateColumn("karma", gorm.Expr("karma + ?", delta)).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", ownerID).
			UpdateColumn("karma", gorm.Expr("karma + ?", delta)).Error; err != nil {
			return err
		}

		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// HasVoted reports whether voterID already holds a membership on the
// item. The membership carries no direction, so that is all it can say.
func (s *KarmaService) HasVoted(voterID uint, target VoteTarget, itemID uint) (bool, error) {
	var count int64
	if err := s.membershipQuery(s.db, voterID, target, itemID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *KarmaService) membershipQuery(tx *gorm.DB, voterID uint, target VoteTarget, itemID uint) *gorm.DB {
	q := tx.Model(&models.Vote{}).Where("user_id = ?", voterID)
	if target == VoteTargetPost {
		return q.Where("post_id = ?", itemID)
	}
	return q.Where("comment_id = ?", itemID)
}

func (s *KarmaService) itemOwner(tx *gorm.DB, target VoteTarget, itemID uint) (uint, error) {
	if target == VoteTargetPost {
		var post models.Post
		if err := tx.Select("id", "user_id").First(&post, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrItemNotFound
			}
			return 0, err
		}
		return post.UserID, nil
	}
	var comment models.Comment
	if err := tx.Select("id", "user_id").First(&comment, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrItemNotFound
		}
		return 0, err
	}
	return comment.UserID, nil
}

package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pindrop/internal/apperr"
	"pindrop/internal/models"
)

// VoteOutcome reports what a cast did: first vote recorded, existing vote
// swapped to the other type, or toggled off entirely (VoteType nil).
type VoteOutcome struct {
	Message  string
	VoteType *int
	Created  bool
}

// VoteService is the ledger for the one-vote-per-(user, comment) rule. All
// mutations run inside a single transaction together with the comment's
// denormalized counters; the counters only ever move through relative
// updates, so the row lock serializes concurrent voters on one comment.
type VoteService struct {
	db *gorm.DB
}

func NewVoteService(db *gorm.DB) *VoteService {
	return &VoteService{db: db}
}

func counterColumn(voteType int) string {
	if voteType == models.VoteLike {
		return "likes"
	}
	return "dislikes"
}

func bump(tx *gorm.DB, commentID, column string, delta int) error {
	return tx.Model(&models.Comment{}).
		Where("id = ?", commentID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}

// Cast records, swaps, or toggles off a vote.
func (s *VoteService) Cast(ctx context.Context, userID, commentID string, voteType int) (VoteOutcome, error) {
	if voteType != models.VoteLike && voteType != models.VoteDislike {
		return VoteOutcome{}, apperr.BadRequest("voteType must be 1 (like) or -1 (dislike)")
	}

	var outcome VoteOutcome
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.Select("id").First(&comment, "id = ?", commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Comment not found")
			}
			return err
		}

		var existing models.Vote
		err := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err == nil {
			if existing.VoteType == voteType {
				// Same type again toggles the vote off.
				if err := tx.Delete(&models.Vote{}, "id = ?", existing.ID).Error; err != nil {
					return err
				}
				if err := bump(tx, commentID, counterColumn(voteType), -1); err != nil {
					return err
				}
				outcome = VoteOutcome{Message: "Vote removed"}
				return nil
			}

			// Opposite type swaps it in place.
			if err := tx.Model(&models.Vote{}).
				Where("id = ?", existing.ID).
				UpdateColumn("vote_type", voteType).Error; err != nil {
				return err
			}
			if err := bump(tx, commentID, counterColumn(existing.VoteType), -1); err != nil {
				return err
			}
			if err := bump(tx, commentID, counterColumn(voteType), 1); err != nil {
				return err
			}
			vt := voteType
			outcome = VoteOutcome{Message: "Vote updated", VoteType: &vt}
			return nil
		}

		vote := models.Vote{
			ID:        uuid.NewString(),
			UserID:    userID,
			CommentID: commentID,
			VoteType:  voteType,
		}
		if err := tx.Create(&vote).Error; err != nil {
			return err
		}
		if err := bump(tx, commentID, counterColumn(voteType), 1); err != nil {
			return err
		}
		vt := voteType
		outcome = VoteOutcome{Message: "Vote recorded", VoteType: &vt, Created: true}
		return nil
	})
	if err != nil {
		return VoteOutcome{}, err
	}
	return outcome, nil
}

// Remove deletes the caller's vote on a comment, if any.
func (s *VoteService) Remove(ctx context.Context, userID, commentID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Vote
		err := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Vote not found")
			}
			return err
		}

		if err := tx.Delete(&models.Vote{}, "id = ?", existing.ID).Error; err != nil {
			return err
		}
		return bump(tx, commentID, counterColumn(existing.VoteType), -1)
	})
}

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Alan16168/review-system-sub000/internal/database"
	"github.com/Alan16168/review-system-sub000/internal/models"
	"github.com/Alan16168/review-system-sub000/internal/repository"
)

// ReviewService exposes the review lookups needed around answer sets
type ReviewService struct {
	db      *sql.DB
	reviews *repository.ReviewRepository
	audit   *AuditService
}

// NewReviewService creates a new review service
func NewReviewService(db *sql.DB, reviews *repository.ReviewRepository, audit *AuditService) *ReviewService {
	return &ReviewService{
		db:      db,
		reviews: reviews,
		audit:   audit,
	}
}

// Get returns a review with creator and team names if the caller may see it
func (s *ReviewService) Get(ctx context.Context, reviewID, callerID int64) (*models.ReviewDetail, error) {
	detail, err := s.reviews.GetDetail(ctx, reviewID)
	if err != nil {
		slog.Error("Failed to load review", "review_id", reviewID, "error", err)
		return nil, internal("failed to load review", err)
	}
	if detail == nil {
		return nil, notFound("review not found")
	}

	ok, err := s.reviews.HasAccess(ctx, reviewID, callerID)
	if err != nil {
		slog.Error("Failed to check review access", "review_id", reviewID, "user_id", callerID, "error", err)
		return nil, internal("failed to check review access", err)
	}
	if !ok {
		return nil, permissionDenied("access denied")
	}

	return detail, nil
}

// Delete removes a review with its answer sets. The review owner and
// owner/admin members of the review's team may delete it.
func (s *ReviewService) Delete(ctx context.Context, reviewID, callerID int64) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		slog.Error("Failed to load review", "review_id", reviewID, "error", err)
		return internal("failed to load review", err)
	}
	if review == nil {
		return notFound("review not found")
	}

	if review.UserID != callerID {
		allowed := false
		if review.IsTeamReview() {
			role, err := s.reviews.GetTeamRole(ctx, *review.TeamID, callerID)
			if err != nil {
				slog.Error("Failed to check team role", "review_id", reviewID, "user_id", callerID, "error", err)
				return internal("failed to check team role", err)
			}
			allowed = role == models.TeamRoleOwner || role == models.TeamRoleAdmin
		}
		if !allowed {
			return permissionDenied("only the review owner or a team admin can delete this review")
		}
	}

	err = database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		affected, err := s.reviews.WithTx(tx).Delete(ctx, reviewID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return notFound("review not found")
		}

		details := map[string]any{"review_id": reviewID, "title": review.Title}
		return s.audit.Record(ctx, tx, callerID, AuditActionReviewDelete, fmt.Sprintf("review:%d", reviewID), details)
	})
	if err != nil {
		if KindOf(err) != KindInternal {
			return err
		}
		slog.Error("Failed to delete review", "review_id", reviewID, "user_id", callerID, "error", err)
		return internal("failed to delete review", err)
	}

	slog.Info("Review deleted", "review_id", reviewID, "user_id", callerID)
	return nil
}

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

// LockService locks and unlocks a batch, the answer sets of every author
// sharing one (review, set number). Only the review owner may do either.
type LockService struct {
	db       *sql.DB
	answers  *repository.AnswerSetRepository
	reviews  *repository.ReviewRepository
	audit    *AuditService
	recorder OperationRecorder
}

// NewLockService creates a new lock service
func NewLockService(
	db *sql.DB,
	answers *repository.AnswerSetRepository,
	reviews *repository.ReviewRepository,
	audit *AuditService,
	recorder OperationRecorder,
) *LockService {
	return &LockService{
		db:       db,
		answers:  answers,
		reviews:  reviews,
		audit:    audit,
		recorder: recorderOrNoop(recorder),
	}
}

// Lock freezes every answer set of the batch
func (s *LockService) Lock(ctx context.Context, reviewID int64, setNumber int, callerID int64) (*models.LockResult, error) {
	result, err := s.transition(ctx, reviewID, setNumber, callerID, true)
	s.recorder.RecordOperation("lock", outcomeOf(err))
	return result, err
}

// Unlock releases every answer set of the batch
func (s *LockService) Unlock(ctx context.Context, reviewID int64, setNumber int, callerID int64) (*models.LockResult, error) {
	result, err := s.transition(ctx, reviewID, setNumber, callerID, false)
	s.recorder.RecordOperation("unlock", outcomeOf(err))
	return result, err
}

// EnsureMutable rejects changes to a locked answer set
func (s *LockService) EnsureMutable(set *models.AnswerSet) error {
	if set.Locked() {
		return permissionDenied("answer set is locked")
	}
	return nil
}

func (s *LockService) transition(ctx context.Context, reviewID int64, setNumber int, callerID int64, lock bool) (*models.LockResult, error) {
	action, operation := AuditActionUnlock, "unlock"
	if lock {
		action, operation = AuditActionLock, "lock"
	}
	logger := slog.With(
		"operation", operation,
		"review_id", reviewID,
		"set_number", setNumber,
		"user_id", callerID,
	)

	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		logger.Error("Failed to load review", "error", err)
		return nil, internal("failed to load review", err)
	}
	if review == nil {
		return nil, notFound("review not found")
	}
	if review.UserID != callerID {
		return nil, permissionDenied("only the review owner can change answer set locks")
	}

	var affected int64
	err = database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		answers := s.answers.WithTx(tx)

		if err := answers.AcquireBatchLock(ctx, reviewID, setNumber); err != nil {
			return err
		}

		state, err := answers.GetBatchState(ctx, reviewID, setNumber)
		if err != nil {
			return err
		}
		if !state.Exists() {
			return notFound("answer set not found")
		}

		if lock {
			if state.FullyLocked() {
				return invalidState("answer set is already locked")
			}
			affected, err = answers.LockBatch(ctx, reviewID, setNumber, callerID)
		} else {
			if state.Locked == 0 {
				return invalidState("answer set is not locked")
			}
			affected, err = answers.UnlockBatch(ctx, reviewID, setNumber)
		}
		if err != nil {
			return err
		}

		details := map[string]any{
			"review_id":  reviewID,
			"set_number": setNumber,
			"affected":   affected,
		}
		return s.audit.Record(ctx, tx, callerID, action, batchResource(reviewID, setNumber), details)
	})
	if err != nil {
		if KindOf(err) == KindInternal {
			logger.Error("Failed to change answer set lock", "error", err)
			return nil, internal("failed to change answer set lock", err)
		}
		return nil, err
	}

	isLocked := models.LockedNo
	if lock {
		isLocked = models.LockedYes
	}
	logger.Info("Answer set lock changed", "is_locked", isLocked, "affected", affected)

	return &models.LockResult{
		Success:  true,
		IsLocked: isLocked,
		Affected: affected,
	}, nil
}

func batchResource(reviewID int64, setNumber int) string {
	return fmt.Sprintf("review:%d/answer_set:%d", reviewID, setNumber)
}

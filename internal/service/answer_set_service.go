package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/Alan16168/review-system-sub000/internal/database"
	"github.com/Alan16168/review-system-sub000/internal/models"
	"github.com/Alan16168/review-system-sub000/internal/repository"
	"github.com/Alan16168/review-system-sub000/pkg/validator"
)

// List modes
const (
	ModeEdit = "edit"
	ModeView = "view"
)

// AnswerSetService stores versioned answer sets for reviews
type AnswerSetService struct {
	db       *sql.DB
	answers  *repository.AnswerSetRepository
	reviews  *repository.ReviewRepository
	locks    *LockService
	recorder OperationRecorder
}

// NewAnswerSetService creates a new answer set service
func NewAnswerSetService(
	db *sql.DB,
	answers *repository.AnswerSetRepository,
	reviews *repository.ReviewRepository,
	locks *LockService,
	recorder OperationRecorder,
) *AnswerSetService {
	return &AnswerSetService{
		db:       db,
		answers:  answers,
		reviews:  reviews,
		locks:    locks,
		recorder: recorderOrNoop(recorder),
	}
}

// List returns answer sets newest first. In edit mode, and for personal
// reviews, only the caller's sets are returned. Team reviews in view mode
// return every author's sets to the owner and team members.
func (s *AnswerSetService) List(ctx context.Context, reviewID, callerID int64, mode string) ([]models.AnswerSet, error) {
	if mode == "" {
		mode = ModeEdit
	}
	if err := validator.ValidateOneOf("mode", mode, ModeEdit, ModeView); err != nil {
		return nil, invalidInput("%s", err.Error())
	}

	review, err := s.loadReview(ctx, "list", reviewID)
	if err != nil {
		return nil, err
	}

	filter := &callerID
	if review.IsTeamReview() && mode == ModeView {
		if review.UserID != callerID {
			role, err := s.reviews.GetTeamRole(ctx, *review.TeamID, callerID)
			if err != nil {
				slog.Error("Failed to check team membership", "review_id", reviewID, "user_id", callerID, "error", err)
				return nil, internal("failed to check team membership", err)
			}
			if role == "" {
				return nil, permissionDenied("only team members can view all answer sets")
			}
		}
		filter = nil
	}

	sets, err := s.answers.ListByReview(ctx, reviewID, filter)
	if err != nil {
		slog.Error("Failed to list answer sets", "review_id", reviewID, "user_id", callerID, "error", err)
		return nil, internal("failed to list answer sets", err)
	}

	return sets, nil
}

// Create stores a new answer set with the next set number for the caller.
// A set joining a locked batch starts locked.
func (s *AnswerSetService) Create(ctx context.Context, reviewID, callerID int64, payload AnswerPayload) (*models.CreateAnswerSetResult, error) {
	result, err := s.create(ctx, reviewID, callerID, payload)
	s.recorder.RecordOperation("create", outcomeOf(err))
	return result, err
}

func (s *AnswerSetService) create(ctx context.Context, reviewID, callerID int64, payload AnswerPayload) (*models.CreateAnswerSetResult, error) {
	if _, err := s.loadReview(ctx, "create", reviewID); err != nil {
		return nil, err
	}
	if err := s.ensureAccess(ctx, reviewID, callerID); err != nil {
		return nil, err
	}

	inputs, err := parseAnswers(payload, false)
	if err != nil {
		return nil, err
	}

	set := &models.AnswerSet{ReviewID: reviewID, UserID: callerID}
	err = database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		answers := s.answers.WithTx(tx)

		next, err := answers.NextSetNumber(ctx, reviewID, callerID)
		if err != nil {
			return err
		}
		set.SetNumber = next

		if err := answers.AcquireBatchLock(ctx, reviewID, next); err != nil {
			return err
		}
		state, err := answers.GetBatchState(ctx, reviewID, next)
		if err != nil {
			return err
		}
		set.IsLocked = models.LockedNo
		if state.FullyLocked() {
			set.IsLocked = models.LockedYes
			set.LockedAt = state.LockedAt
			set.LockedBy = state.LockedBy
		}

		if err := answers.Create(ctx, set); err != nil {
			return err
		}
		if set.ID <= 0 {
			return internal("answer set insert returned no id", nil)
		}

		for _, input := range inputs {
			if err := answers.UpsertAnswer(ctx, set.ID, input); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			slog.Error("Set number collision", "review_id", reviewID, "user_id", callerID, "set_number", set.SetNumber, "error", err)
		} else {
			slog.Error("Failed to create answer set", "review_id", reviewID, "user_id", callerID, "error", err)
		}
		return nil, internal("failed to create answer set", err)
	}

	slog.Info("Answer set created",
		"review_id", reviewID,
		"user_id", callerID,
		"set_number", set.SetNumber,
		"set_id", set.ID,
		"is_locked", set.IsLocked,
	)

	return &models.CreateAnswerSetResult{
		Success:   true,
		SetNumber: set.SetNumber,
		SetID:     set.ID,
	}, nil
}

// Update upserts the given answers into the caller's set. Questions not in
// payload keep their answers.
func (s *AnswerSetService) Update(ctx context.Context, reviewID int64, setNumber int, callerID int64, payload AnswerPayload) error {
	err := s.update(ctx, reviewID, setNumber, callerID, payload)
	s.recorder.RecordOperation("update", outcomeOf(err))
	return err
}

func (s *AnswerSetService) update(ctx context.Context, reviewID int64, setNumber int, callerID int64, payload AnswerPayload) error {
	inputs, err := parseAnswers(payload, true)
	if err != nil {
		return err
	}

	err = database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		answers := s.answers.WithTx(tx)

		set, err := answers.GetByNumberForUpdate(ctx, reviewID, callerID, setNumber)
		if err != nil {
			return err
		}
		if set == nil {
			return notFound("answer set not found")
		}
		if err := s.locks.EnsureMutable(set); err != nil {
			return err
		}

		for _, input := range inputs {
			if err := answers.UpsertAnswer(ctx, set.ID, input); err != nil {
				return err
			}
		}
		return answers.Touch(ctx, set.ID)
	})
	if err != nil {
		return s.translate("update", reviewID, setNumber, callerID, err)
	}

	return nil
}

// Delete removes the caller's set and its answers
func (s *AnswerSetService) Delete(ctx context.Context, reviewID int64, setNumber int, callerID int64) error {
	err := s.delete(ctx, reviewID, setNumber, callerID)
	s.recorder.RecordOperation("delete", outcomeOf(err))
	return err
}

func (s *AnswerSetService) delete(ctx context.Context, reviewID int64, setNumber int, callerID int64) error {
	err := database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		answers := s.answers.WithTx(tx)

		set, err := answers.GetByNumberForUpdate(ctx, reviewID, callerID, setNumber)
		if err != nil {
			return err
		}
		if set == nil {
			return notFound("answer set not found")
		}
		if err := s.locks.EnsureMutable(set); err != nil {
			return err
		}

		affected, err := answers.Delete(ctx, set.ID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return notFound("answer set not found")
		}
		return nil
	})
	if err != nil {
		return s.translate("delete", reviewID, setNumber, callerID, err)
	}

	slog.Info("Answer set deleted", "review_id", reviewID, "user_id", callerID, "set_number", setNumber)
	return nil
}

func (s *AnswerSetService) loadReview(ctx context.Context, operation string, reviewID int64) (*models.Review, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		slog.Error("Failed to load review", "operation", operation, "review_id", reviewID, "error", err)
		return nil, internal("failed to load review", err)
	}
	if review == nil {
		return nil, notFound("review not found")
	}
	return review, nil
}

func (s *AnswerSetService) ensureAccess(ctx context.Context, reviewID, callerID int64) error {
	ok, err := s.reviews.HasAccess(ctx, reviewID, callerID)
	if err != nil {
		slog.Error("Failed to check review access", "review_id", reviewID, "user_id", callerID, "error", err)
		return internal("failed to check review access", err)
	}
	if !ok {
		return permissionDenied("access denied")
	}
	return nil
}

// translate passes classified errors through and wraps everything else as internal
func (s *AnswerSetService) translate(operation string, reviewID int64, setNumber int, callerID int64, err error) error {
	if KindOf(err) != KindInternal {
		return err
	}
	slog.Error("Answer set operation failed",
		"operation", operation,
		"review_id", reviewID,
		"set_number", setNumber,
		"user_id", callerID,
		"error", err,
	)
	return internal("failed to "+operation+" answer set", err)
}

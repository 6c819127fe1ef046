package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Alan16168/review-system-sub000/internal/models"
)

// BatchState summarises the lock flags of every set sharing (review_id, set_number)
type BatchState struct {
	Total    int
	Locked   int
	LockedAt *time.Time
	LockedBy *int64
}

// Exists reports whether the batch has at least one set
func (b BatchState) Exists() bool {
	return b.Total > 0
}

// FullyLocked reports whether every set of a non-empty batch is locked
func (b BatchState) FullyLocked() bool {
	return b.Total > 0 && b.Locked == b.Total
}

// AnswerSetRepository handles answer set and answer database operations
type AnswerSetRepository struct {
	db DBTX
}

// NewAnswerSetRepository creates a new answer set repository
func NewAnswerSetRepository(db DBTX) *AnswerSetRepository {
	return &AnswerSetRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *AnswerSetRepository) WithTx(tx *sql.Tx) *AnswerSetRepository {
	return &AnswerSetRepository{db: tx}
}

const answerSetColumns = `
	s.id, s.review_id, s.user_id, u.username, s.set_number, s.is_locked,
	s.locked_at, s.locked_by, s.created_at, s.updated_at`

func scanAnswerSet(scanner interface{ Scan(dest ...any) error }, set *models.AnswerSet) error {
	return scanner.Scan(
		&set.ID,
		&set.ReviewID,
		&set.UserID,
		&set.Username,
		&set.SetNumber,
		&set.IsLocked,
		&set.LockedAt,
		&set.LockedBy,
		&set.CreatedAt,
		&set.UpdatedAt,
	)
}

// ListByReview returns the answer sets of a review, newest first, with their answers.
// When userID is non-nil only that author's sets are returned.
func (r *AnswerSetRepository) ListByReview(ctx context.Context, reviewID int64, userID *int64) ([]models.AnswerSet, error) {
	query := `
		SELECT` + answerSetColumns + `
		FROM review_answer_sets s
		JOIN users u ON u.id = s.user_id
		WHERE s.review_id = $1 AND ($2::INTEGER IS NULL OR s.user_id = $2)
		ORDER BY s.created_at DESC, s.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, reviewID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answer sets: %w", err)
	}
	defer closeRows(rows)

	sets := []models.AnswerSet{}
	for rows.Next() {
		var set models.AnswerSet
		if err := scanAnswerSet(rows, &set); err != nil {
			return nil, fmt.Errorf("failed to scan answer set: %w", err)
		}
		set.Answers = []models.Answer{}
		sets = append(sets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate answer sets: %w", err)
	}

	if len(sets) == 0 {
		return sets, nil
	}

	ids := make([]int64, len(sets))
	index := make(map[int64]int, len(sets))
	for i, set := range sets {
		ids[i] = set.ID
		index[set.ID] = i
	}

	answers, err := r.listAnswers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, answer := range answers {
		i := index[answer.AnswerSetID]
		sets[i].Answers = append(sets[i].Answers, answer)
	}

	return sets, nil
}

func (r *AnswerSetRepository) listAnswers(ctx context.Context, setIDs []int64) ([]models.Answer, error) {
	query := `
		SELECT id, answer_set_id, question_number, answer, datetime_value, datetime_title,
		       datetime_answer, created_at, updated_at
		FROM review_answers
		WHERE answer_set_id = ANY($1)
		ORDER BY answer_set_id, question_number ASC
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(setIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	defer closeRows(rows)

	var answers []models.Answer
	for rows.Next() {
		var a models.Answer
		if err := rows.Scan(
			&a.ID,
			&a.AnswerSetID,
			&a.QuestionNumber,
			&a.Answer,
			&a.DatetimeValue,
			&a.DatetimeTitle,
			&a.DatetimeAnswer,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate answers: %w", err)
	}

	return answers, nil
}

// GetByNumberForUpdate retrieves the caller's set with the given number and
// holds a row lock on it until the surrounding transaction ends.
// Returns nil, nil when absent.
func (r *AnswerSetRepository) GetByNumberForUpdate(ctx context.Context, reviewID, userID int64, setNumber int) (*models.AnswerSet, error) {
	query := `
		SELECT` + answerSetColumns + `
		FROM review_answer_sets s
		JOIN users u ON u.id = s.user_id
		WHERE s.review_id = $1 AND s.user_id = $2 AND s.set_number = $3
		FOR UPDATE OF s`

	set := &models.AnswerSet{}
	err := scanAnswerSet(r.db.QueryRowContext(ctx, query, reviewID, userID, setNumber), set)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get answer set: %w", err)
	}

	return set, nil
}

// NextSetNumber advances the (review, user) counter and returns the new set number.
// The first call for a pair seeds the counter from the highest existing set number.
func (r *AnswerSetRepository) NextSetNumber(ctx context.Context, reviewID, userID int64) (int, error) {
	query := `
		INSERT INTO review_answer_set_counters (review_id, user_id, last_set_number)
		VALUES ($1, $2, (
			SELECT COALESCE(MAX(set_number), 0) + 1
			FROM review_answer_sets
			WHERE review_id = $1 AND user_id = $2
		))
		ON CONFLICT (review_id, user_id)
		DO UPDATE SET last_set_number = review_answer_set_counters.last_set_number + 1
		RETURNING last_set_number
	`

	var next int
	if err := r.db.QueryRowContext(ctx, query, reviewID, userID).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to allocate set number: %w", err)
	}

	return next, nil
}

// AcquireBatchLock takes a transaction-scoped advisory lock on (review_id, set_number).
// It must run inside a transaction; the lock is released on commit or rollback.
func (r *AnswerSetRepository) AcquireBatchLock(ctx context.Context, reviewID int64, setNumber int) error {
	_, err := r.db.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1::INTEGER, $2::INTEGER)`, reviewID, setNumber)
	if err != nil {
		return fmt.Errorf("failed to acquire batch lock: %w", err)
	}
	return nil
}

// GetBatchState summarises the lock flags of a batch
func (r *AnswerSetRepository) GetBatchState(ctx context.Context, reviewID int64, setNumber int) (BatchState, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_locked = 'yes'),
		       MAX(locked_at),
		       MAX(locked_by)
		FROM review_answer_sets
		WHERE review_id = $1 AND set_number = $2
	`

	var state BatchState
	err := r.db.QueryRowContext(ctx, query, reviewID, setNumber).Scan(
		&state.Total,
		&state.Locked,
		&state.LockedAt,
		&state.LockedBy,
	)
	if err != nil {
		return BatchState{}, fmt.Errorf("failed to get batch state: %w", err)
	}

	return state, nil
}

// Create inserts a new answer set row and fills in its id and timestamps
func (r *AnswerSetRepository) Create(ctx context.Context, set *models.AnswerSet) error {
	query := `
		INSERT INTO review_answer_sets (review_id, user_id, set_number, is_locked, locked_at, locked_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		set.ReviewID,
		set.UserID,
		set.SetNumber,
		set.IsLocked,
		set.LockedAt,
		set.LockedBy,
	).Scan(&set.ID, &set.CreatedAt, &set.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create answer set: %w", err)
	}

	return nil
}

// UpsertAnswer inserts the answer or replaces all fields of an existing one
func (r *AnswerSetRepository) UpsertAnswer(ctx context.Context, setID int64, input models.AnswerInput) error {
	query := `
		INSERT INTO review_answers (answer_set_id, question_number, answer, datetime_value, datetime_title, datetime_answer)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (answer_set_id, question_number) DO UPDATE SET
			answer = EXCLUDED.answer,
			datetime_value = EXCLUDED.datetime_value,
			datetime_title = EXCLUDED.datetime_title,
			datetime_answer = EXCLUDED.datetime_answer,
			updated_at = NOW()
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		setID,
		input.QuestionNumber,
		input.Answer,
		input.DatetimeValue,
		input.DatetimeTitle,
		input.DatetimeAnswer,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert answer %d: %w", input.QuestionNumber, err)
	}

	return nil
}

// Touch refreshes the updated_at timestamp of a set
func (r *AnswerSetRepository) Touch(ctx context.Context, setID int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE review_answer_sets SET updated_at = NOW() WHERE id = $1`, setID)
	if err != nil {
		return fmt.Errorf("failed to touch answer set: %w", err)
	}
	return nil
}

// Delete removes a set; its answers cascade. Returns the number of rows removed.
func (r *AnswerSetRepository) Delete(ctx context.Context, setID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM review_answer_sets WHERE id = $1`, setID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete answer set: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected, nil
}

// LockBatch marks every set of the batch as locked by lockedBy in one statement
func (r *AnswerSetRepository) LockBatch(ctx context.Context, reviewID int64, setNumber int, lockedBy int64) (int64, error) {
	query := `
		UPDATE review_answer_sets
		SET is_locked = 'yes', locked_at = NOW(), locked_by = $3
		WHERE review_id = $1 AND set_number = $2
	`

	result, err := r.db.ExecContext(ctx, query, reviewID, setNumber, lockedBy)
	if err != nil {
		return 0, fmt.Errorf("failed to lock answer sets: %w", err)
	}

	return result.RowsAffected()
}

// UnlockBatch clears the lock of every set of the batch in one statement
func (r *AnswerSetRepository) UnlockBatch(ctx context.Context, reviewID int64, setNumber int) (int64, error) {
	query := `
		UPDATE review_answer_sets
		SET is_locked = 'no', locked_at = NULL, locked_by = NULL
		WHERE review_id = $1 AND set_number = $2
	`

	result, err := r.db.ExecContext(ctx, query, reviewID, setNumber)
	if err != nil {
		return 0, fmt.Errorf("failed to unlock answer sets: %w", err)
	}

	return result.RowsAffected()
}

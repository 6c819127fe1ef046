package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Alan16168/review-system-sub000/internal/models"
)

// ReviewRepository handles review, collaborator and access lookups
type ReviewRepository struct {
	db DBTX
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *ReviewRepository) WithTx(tx *sql.Tx) *ReviewRepository {
	return &ReviewRepository{db: tx}
}

// Create inserts a review
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (title, user_id, team_id, template_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query, review.Title, review.UserID, review.TeamID, review.TemplateID).
		Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// GetByID retrieves a review by ID. Returns nil, nil when it does not exist.
func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	query := `
		SELECT id, title, user_id, team_id, template_id, created_at, updated_at
		FROM reviews
		WHERE id = $1
	`

	review := &models.Review{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&review.ID,
		&review.Title,
		&review.UserID,
		&review.TeamID,
		&review.TemplateID,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

// GetDetail retrieves a review with creator and team names
func (r *ReviewRepository) GetDetail(ctx context.Context, id int64) (*models.ReviewDetail, error) {
	query := `
		SELECT r.id, r.title, r.user_id, r.team_id, r.template_id, r.created_at, r.updated_at,
		       u.username, t.name
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		LEFT JOIN teams t ON t.id = r.team_id
		WHERE r.id = $1
	`

	detail := &models.ReviewDetail{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&detail.ID,
		&detail.Title,
		&detail.UserID,
		&detail.TeamID,
		&detail.TemplateID,
		&detail.CreatedAt,
		&detail.UpdatedAt,
		&detail.CreatorName,
		&detail.TeamName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review detail: %w", err)
	}

	return detail, nil
}

// HasAccess reports whether the user owns the review, collaborates on it,
// or belongs to the review's team
func (r *ReviewRepository) HasAccess(ctx context.Context, reviewID, userID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reviews r
			WHERE r.id = $1 AND (
				r.user_id = $2
				OR EXISTS (SELECT 1 FROM review_collaborators c WHERE c.review_id = r.id AND c.user_id = $2)
				OR EXISTS (SELECT 1 FROM team_members m WHERE m.team_id = r.team_id AND m.user_id = $2)
			)
		)
	`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, reviewID, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check review access: %w", err)
	}

	return ok, nil
}

// GetTeamRole returns the user's role in the team, or "" when not a member
func (r *ReviewRepository) GetTeamRole(ctx context.Context, teamID, userID int64) (string, error) {
	var role string
	err := r.db.QueryRowContext(ctx,
		`SELECT role FROM team_members WHERE team_id = $1 AND user_id = $2`,
		teamID, userID,
	).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get team role: %w", err)
	}

	return role, nil
}

// AddCollaborator grants a user access to a review
func (r *ReviewRepository) AddCollaborator(ctx context.Context, reviewID, userID int64, canEdit bool) error {
	query := `
		INSERT INTO review_collaborators (review_id, user_id, can_edit)
		VALUES ($1, $2, $3)
		ON CONFLICT (review_id, user_id) DO UPDATE SET can_edit = EXCLUDED.can_edit
	`

	if _, err := r.db.ExecContext(ctx, query, reviewID, userID, canEdit); err != nil {
		return fmt.Errorf("failed to add collaborator: %w", err)
	}

	return nil
}

// Delete removes a review; answer sets and collaborators cascade
func (r *ReviewRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete review: %w", err)
	}

	return result.RowsAffected()
}

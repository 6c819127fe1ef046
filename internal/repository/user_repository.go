package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Alan16168/review-system-sub000/internal/database"
	"github.com/Alan16168/review-system-sub000/internal/models"
)

var (
	ErrUserExists = errors.New("user already exists")
)

// UserRepository handles user and team database operations
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new user repository
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, username, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRowContext(
		ctx,
		query,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.Role,
		now,
		now,
	).Scan(&user.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// GetByEmail retrieves a user by email. Returns nil, nil when not found.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, username, password_hash, role, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// CreateTeam inserts a team and registers its owner as an owner member
func (r *UserRepository) CreateTeam(ctx context.Context, team *models.Team) error {
	query := `INSERT INTO teams (name, owner_id) VALUES ($1, $2) RETURNING id, created_at`
	if err := r.db.QueryRowContext(ctx, query, team.Name, team.OwnerID).Scan(&team.ID, &team.CreatedAt); err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}

	return r.AddTeamMember(ctx, team.ID, team.OwnerID, models.TeamRoleOwner)
}

// AddTeamMember adds or updates a team membership
func (r *UserRepository) AddTeamMember(ctx context.Context, teamID, userID int64, role string) error {
	query := `
		INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (team_id, user_id) DO UPDATE SET role = EXCLUDED.role
	`

	if _, err := r.db.ExecContext(ctx, query, teamID, userID, role); err != nil {
		return fmt.Errorf("failed to add team member: %w", err)
	}

	return nil
}

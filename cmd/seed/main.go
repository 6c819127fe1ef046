package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Alan16168/review-system-sub000/internal/auth"
	"github.com/Alan16168/review-system-sub000/internal/config"
	"github.com/Alan16168/review-system-sub000/internal/database"
	"github.com/Alan16168/review-system-sub000/internal/logger"
	"github.com/Alan16168/review-system-sub000/internal/models"
	"github.com/Alan16168/review-system-sub000/internal/repository"
	"github.com/Alan16168/review-system-sub000/migrations"
	"github.com/Alan16168/review-system-sub000/pkg/validator"
)

type demoUser struct {
	email    string
	username string
	role     string
	teamRole string
}

var demoUsers = []demoUser{
	{email: "owner@example.com", username: "Team Owner", role: "admin", teamRole: models.TeamRoleOwner},
	{email: "lead@example.com", username: "Team Lead", role: "user", teamRole: models.TeamRoleAdmin},
	{email: "member@example.com", username: "Team Member", role: "user", teamRole: models.TeamRoleMember},
	{email: "guest@example.com", username: "Guest", role: "user"},
}

func main() {
	password := flag.String("password", "review123", "password for every demo user")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of the printed demo tokens")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(logger.Config{Level: cfg.Log.Level, Output: os.Stderr})

	if err := seed(context.Background(), cfg, *password, *tokenTTL); err != nil {
		slog.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
}

func seed(ctx context.Context, cfg *config.Config, password string, tokenTTL time.Duration) error {
	if err := validator.ValidateRequired("password", password); err != nil {
		return err
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.NewMigrationExecutor(db.DB, migrations.Files).RunMigrations(ctx); err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	tokens, err := auth.NewService(&cfg.JWT)
	if err != nil {
		return err
	}

	users := repository.NewUserRepository(db.DB)
	reviews := repository.NewReviewRepository(db.DB)

	created := make([]*models.User, 0, len(demoUsers))
	for _, du := range demoUsers {
		user, err := ensureUser(ctx, users, du, hash)
		if err != nil {
			return err
		}
		created = append(created, user)
	}
	owner := created[0]

	team := &models.Team{Name: "Demo Team", OwnerID: owner.ID}
	if err := users.CreateTeam(ctx, team); err != nil {
		return err
	}
	for i, du := range demoUsers {
		if du.teamRole == "" || du.teamRole == models.TeamRoleOwner {
			continue
		}
		if err := users.AddTeamMember(ctx, team.ID, created[i].ID, du.teamRole); err != nil {
			return err
		}
	}

	personal := &models.Review{Title: "My weekly retro", UserID: owner.ID, TemplateID: 1}
	if err := reviews.Create(ctx, personal); err != nil {
		return err
	}
	guest := created[len(created)-1]
	if err := reviews.AddCollaborator(ctx, personal.ID, guest.ID, true); err != nil {
		return err
	}

	teamReview := &models.Review{Title: "Sprint retrospective", UserID: owner.ID, TeamID: &team.ID, TemplateID: 1}
	if err := reviews.Create(ctx, teamReview); err != nil {
		return err
	}

	slog.Info("Demo data created",
		"team_id", team.ID,
		"personal_review_id", personal.ID,
		"team_review_id", teamReview.ID,
	)

	for _, user := range created {
		token, err := tokens.GenerateToken(user.ID, user.Email, user.Role, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Printf("%-20s %s\n", user.Email, token)
	}

	return nil
}

func ensureUser(ctx context.Context, users *repository.UserRepository, du demoUser, hash string) (*models.User, error) {
	email := validator.SanitizeEmail(du.email)
	if err := validator.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("demo user %q: %w", du.email, err)
	}

	user := &models.User{Email: email, Username: du.username, PasswordHash: hash, Role: du.role}
	err := users.Create(ctx, user)
	if errors.Is(err, repository.ErrUserExists) {
		existing, err := users.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("demo user %q vanished during seeding", email)
		}
		slog.Info("Demo user already exists", "email", email, "user_id", existing.ID)
		return existing, nil
	}
	if err != nil {
		return nil, err
	}

	slog.Info("Demo user created", "email", email, "user_id", user.ID)
	return user, nil
}

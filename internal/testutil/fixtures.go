package testutil

import (
	"context"
	"database/sql"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/Alan16168/review-system-sub000/internal/models"
	"github.com/Alan16168/review-system-sub000/internal/repository"
)

// Fixtures holds test data
type Fixtures struct {
	DB             *sql.DB
	Owner          *models.User
	Member         *models.User
	TeamAdmin      *models.User
	Collaborator   *models.User
	Outsider       *models.User
	Admin          *models.User
	Team           *models.Team
	PersonalReview *models.Review
	TeamReview     *models.Review
}

// SetupFixtures creates users, a team and one personal and one team review,
// both owned by Owner. Collaborator is invited to the personal review only.
func SetupFixtures(t *testing.T, db *sql.DB) *Fixtures {
	t.Helper()
	ctx := context.Background()
	users := repository.NewUserRepository(db)
	reviews := repository.NewReviewRepository(db)

	f := &Fixtures{DB: db}
	f.Owner = CreateUser(t, db, "owner@test.com", "Owner", "user")
	f.Member = CreateUser(t, db, "member@test.com", "Member", "user")
	f.TeamAdmin = CreateUser(t, db, "teamadmin@test.com", "Team Admin", "user")
	f.Collaborator = CreateUser(t, db, "collaborator@test.com", "Collaborator", "user")
	f.Outsider = CreateUser(t, db, "outsider@test.com", "Outsider", "user")
	f.Admin = CreateUser(t, db, "admin@test.com", "Admin", "admin")

	f.Team = &models.Team{Name: "Retro Team", OwnerID: f.Owner.ID}
	if err := users.CreateTeam(ctx, f.Team); err != nil {
		t.Fatalf("Failed to create team: %v", err)
	}
	if err := users.AddTeamMember(ctx, f.Team.ID, f.Member.ID, models.TeamRoleMember); err != nil {
		t.Fatalf("Failed to add team member: %v", err)
	}
	if err := users.AddTeamMember(ctx, f.Team.ID, f.TeamAdmin.ID, models.TeamRoleAdmin); err != nil {
		t.Fatalf("Failed to add team admin: %v", err)
	}

	f.PersonalReview = CreateReview(t, db, "Personal retro", f.Owner.ID, nil)
	f.TeamReview = CreateReview(t, db, "Sprint retro", f.Owner.ID, &f.Team.ID)

	if err := reviews.AddCollaborator(ctx, f.PersonalReview.ID, f.Collaborator.ID, true); err != nil {
		t.Fatalf("Failed to add collaborator: %v", err)
	}

	return f
}

// CreateUser creates a user with a bcrypt hashed default password
func CreateUser(t *testing.T, db *sql.DB, email, username, role string) *models.User {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}
	if err := repository.NewUserRepository(db).Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}

	return user
}

// CreateReview creates a review; teamID nil makes it personal
func CreateReview(t *testing.T, db *sql.DB, title string, ownerID int64, teamID *int64) *models.Review {
	t.Helper()

	review := &models.Review{
		Title:      title,
		UserID:     ownerID,
		TeamID:     teamID,
		TemplateID: 1,
	}
	if err := repository.NewReviewRepository(db).Create(context.Background(), review); err != nil {
		t.Fatalf("Failed to create review %s: %v", title, err)
	}

	return review
}

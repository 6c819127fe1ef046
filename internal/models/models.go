package models

import (
	"time"
)

// Lock flag values stored in review_answer_sets.is_locked
const (
	LockedYes = "yes"
	LockedNo  = "no"
)

// Team member roles
const (
	TeamRoleOwner  = "owner"
	TeamRoleAdmin  = "admin"
	TeamRoleMember = "member"
)

// User represents a user in the system
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Team groups users that share team reviews
type Team struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	OwnerID   int64     `json:"owner_id" db:"owner_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TeamMember links a user to a team with a team role
type TeamMember struct {
	TeamID int64  `json:"team_id" db:"team_id"`
	UserID int64  `json:"user_id" db:"user_id"`
	Role   string `json:"role" db:"role"`
}

// Review is a personal or team review. TemplateID never changes after creation.
type Review struct {
	ID         int64     `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	UserID     int64     `json:"user_id" db:"user_id"`
	TeamID     *int64    `json:"team_id,omitempty" db:"team_id"`
	TemplateID int64     `json:"template_id" db:"template_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// IsTeamReview reports whether the review belongs to a team
func (r *Review) IsTeamReview() bool {
	return r.TeamID != nil
}

// ReviewDetail extends Review with display names
type ReviewDetail struct {
	Review
	CreatorName string  `json:"creator_name"`
	TeamName    *string `json:"team_name,omitempty"`
}

// AnswerSet is one numbered batch of answers submitted by one user for a review
type AnswerSet struct {
	ID        int64      `json:"id" db:"id"`
	ReviewID  int64      `json:"review_id" db:"review_id"`
	UserID    int64      `json:"user_id" db:"user_id"`
	Username  string     `json:"username" db:"username"`
	SetNumber int        `json:"set_number" db:"set_number"`
	IsLocked  string     `json:"is_locked" db:"is_locked"`
	LockedAt  *time.Time `json:"locked_at" db:"locked_at"`
	LockedBy  *int64     `json:"locked_by" db:"locked_by"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	Answers   []Answer   `json:"answers"`
}

// Locked reports whether the set is frozen by its batch lock
func (s *AnswerSet) Locked() bool {
	return s.IsLocked == LockedYes
}

// Answer is the answer to one question inside an answer set
type Answer struct {
	ID             int64     `json:"id" db:"id"`
	AnswerSetID    int64     `json:"answer_set_id" db:"answer_set_id"`
	QuestionNumber int       `json:"question_number" db:"question_number"`
	Answer         *string   `json:"answer" db:"answer"`
	DatetimeValue  *string   `json:"datetime_value" db:"datetime_value"`
	DatetimeTitle  *string   `json:"datetime_title" db:"datetime_title"`
	DatetimeAnswer *string   `json:"datetime_answer" db:"datetime_answer"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// AnswerInput carries the writable fields of one answer. Nil means SQL NULL.
type AnswerInput struct {
	QuestionNumber int
	Answer         *string
	DatetimeValue  *string
	DatetimeTitle  *string
	DatetimeAnswer *string
}

// CreateAnswerSetResult is returned after a new answer set is stored
type CreateAnswerSetResult struct {
	Success   bool  `json:"success"`
	SetNumber int   `json:"set_number"`
	SetID     int64 `json:"set_id"`
}

// LockResult is returned after a batch lock transition
type LockResult struct {
	Success  bool   `json:"success"`
	IsLocked string `json:"is_locked"`
	Affected int64  `json:"affected"`
}

// AuditLog represents an audit log entry
type AuditLog struct {
	ID        int64     `json:"id" db:"id"`
	UserID    *int64    `json:"user_id,omitempty" db:"user_id"`
	UserEmail *string   `json:"user_email,omitempty" db:"user_email"`
	Action    string    `json:"action" db:"action"`
	Resource  string    `json:"resource" db:"resource"`
	Details   string    `json:"details,omitempty" db:"details"`
	IPAddress string    `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent string    `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

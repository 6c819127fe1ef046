package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Alan16168/review-system-sub000/internal/models"
	"github.com/Alan16168/review-system-sub000/internal/repository"
)

// Audit actions
const (
	AuditActionLock         = "answer_set.lock"
	AuditActionUnlock       = "answer_set.unlock"
	AuditActionReviewDelete = "review.delete"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

type clientInfoKey struct{}

// ClientInfo describes the caller's connection for audit entries
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// WithClientInfo attaches client connection details to ctx
func WithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, info)
}

// ClientInfoFrom returns the client details stored by WithClientInfo
func ClientInfoFrom(ctx context.Context) ClientInfo {
	info, _ := ctx.Value(clientInfoKey{}).(ClientInfo)
	return info
}

// AuditService handles audit logging
type AuditService struct {
	auditRepo *repository.AuditRepository
}

// NewAuditService creates a new audit service
func NewAuditService(auditRepo *repository.AuditRepository) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
	}
}

// Record writes an audit entry. When tx is non-nil the entry commits or rolls
// back together with the audited change.
func (s *AuditService) Record(ctx context.Context, tx *sql.Tx, userID int64, action, resource string, details any) error {
	encoded, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}

	info := ClientInfoFrom(ctx)
	entry := &models.AuditLog{
		UserID:    &userID,
		Action:    action,
		Resource:  resource,
		Details:   string(encoded),
		IPAddress: info.IPAddress,
		UserAgent: info.UserAgent,
	}

	repo := s.auditRepo
	if tx != nil {
		repo = repo.WithTx(tx)
	}
	return repo.Create(ctx, entry)
}

// List returns audit entries newest first. limit is clamped to [1, 200].
func (s *AuditService) List(ctx context.Context, limit, offset int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	if offset < 0 {
		offset = 0
	}

	logs, err := s.auditRepo.GetAll(ctx, limit, offset)
	if err != nil {
		return nil, internal("failed to load audit logs", err)
	}
	return logs, nil
}

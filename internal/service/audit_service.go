package service

import (
	"context"
	"fmt"

	"backoffice/internal/access"
	"backoffice/internal/model"
	"backoffice/internal/records"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuditEntry struct {
	ID        uint   `json:"id"`
	UserID    *uint  `json:"user_id"`
	Username  string `json:"username"`
	Action    string `json:"action"`
	Entity    string `json:"entity"`
	EntityID  int64  `json:"entity_id"`
	Details   string `json:"details"`
	CreatedAt string `json:"created_at"`
}

// AuditService appends a trail of logins and record mutations. Failures to
// write an audit row are logged but never fail the request that caused them.
type AuditService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAuditService(db *gorm.DB, log *zap.Logger) *AuditService {
	return &AuditService{db: db, log: log}
}

func (s *AuditService) Record(ctx context.Context, userID *uint, action, entity string, entityID int64, details string) {
	row := model.AuditLog{
		UserID:   userID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Details:  details,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		s.log.Warn("audit write failed", zap.String("action", action), zap.Error(err))
	}
}

// RecordChange is wired as the record store's change hook.
func (s *AuditService) RecordChange(ctx context.Context, ch records.Change) {
	var userID *uint
	if identity, ok := access.FromContext(ctx); ok {
		id := identity.UserID
		userID = &id
	}
	s.Record(ctx, userID, ch.Action, ch.Table, ch.ID, "")
}

func (s *AuditService) List(ctx context.Context, page, limit int) ([]AuditEntry, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&model.AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	var logs []model.AuditLog
	offset := (page - 1) * limit
	err := s.db.WithContext(ctx).Preload("User").
		Order("created_at desc").Offset(offset).Limit(limit).Find(&logs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	entries := make([]AuditEntry, 0, len(logs))
	for _, l := range logs {
		entry := AuditEntry{
			ID:        l.ID,
			UserID:    l.UserID,
			Username:  "system",
			Action:    l.Action,
			Entity:    l.Entity,
			EntityID:  l.EntityID,
			Details:   l.Details,
			CreatedAt: l.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if l.User != nil {
			entry.Username = l.User.Username
		}
		entries = append(entries, entry)
	}
	return entries, total, nil
}

package services

import (
	"gorm.io/gorm"

	"moneta/internal/logger"
	"moneta/internal/models"
)

// auditService records successful mutations. Logging is best effort and
// never fails the request that triggered it.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log appends an audit entry for a completed mutation.
func (s *auditService) Log(userID, action, resourceType, resourceID string) {
	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Warnw("audit log write failed",
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"error", err.Error(),
		)
	}
}

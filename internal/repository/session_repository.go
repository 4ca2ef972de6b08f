package repository

import (
	"context"
	"time"

	"github.com/yukikurage/projectflow-api/internal/models"
	"gorm.io/gorm"
)

// GormSessionRepository is a GORM implementation of SessionRepository
type GormSessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &GormSessionRepository{db: db}
}

// Create stores a new session
func (r *GormSessionRepository) Create(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// FindByTokenHash finds a session by token hash and preloads its user
func (r *GormSessionRepository) FindByTokenHash(ctx context.Context, hash string) (*models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("token_hash = ?", hash).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// Touch records the last time the session authenticated a request
func (r *GormSessionRepository) Touch(ctx context.Context, id uint64, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", id).
		UpdateColumn("last_used_at", now).Error
}

// Revoke marks a session revoked. Revoking twice keeps the first timestamp.
func (r *GormSessionRepository) Revoke(ctx context.Context, id uint64, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", now).Error
}

// DeleteExpired hard deletes sessions that expired or were revoked before cutoff
func (r *GormSessionRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ? OR revoked_at < ?", cutoff, cutoff).
		Delete(&models.Session{})
	return res.RowsAffected, res.Error
}

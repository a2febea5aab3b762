package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/salon-core/internal/model"
)

type ReminderLogRepository interface {
	// Добавить строку журнала отправок.
	Create(ctx context.Context, log *model.ReminderLog) error
	// Была ли успешная отправка для пары (запись, окно).
	SentExists(ctx context.Context, appointmentID uuid.UUID, window string) (bool, error)
	// Журнал по записи, свежие сверху.
	ListByAppointment(ctx context.Context, appointmentID uuid.UUID, limit int) ([]model.ReminderLog, error)
}

// Реализация на GORM.
type GormReminderLogRepository struct {
	db *gorm.DB
}

func NewGormReminderLogRepository(db *gorm.DB) *GormReminderLogRepository {
	return &GormReminderLogRepository{db: db}
}

func (r *GormReminderLogRepository) Create(ctx context.Context, log *model.ReminderLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *GormReminderLogRepository) SentExists(ctx context.Context, appointmentID uuid.UUID, window string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ReminderLog{}).
		Where("appointment_id = ? AND window_label = ? AND status = ?",
			appointmentID, window, model.ReminderStatusSent).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormReminderLogRepository) ListByAppointment(ctx context.Context, appointmentID uuid.UUID, limit int) ([]model.ReminderLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []model.ReminderLog
	err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).
		Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

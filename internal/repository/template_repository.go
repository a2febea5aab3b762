package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Leganyst/salon-core/internal/model"
)

var ErrEmptyTemplateMessage = errors.New("template message must not be empty")

type TemplateRepository interface {
	// Активный шаблон. Если шаблон не заведён — (nil, nil).
	Active(ctx context.Context) (*model.MessageTemplate, error)
	// Административное обновление: правит единственную строку
	// или создаёт её, если шаблона ещё нет.
	Upsert(ctx context.Context, message, token, numberID string) (*model.MessageTemplate, error)
}

// Реализация на GORM.
type GormTemplateRepository struct {
	db *gorm.DB
}

func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

func (r *GormTemplateRepository) Active(ctx context.Context) (*model.MessageTemplate, error) {
	var t model.MessageTemplate
	err := r.db.WithContext(ctx).Order("created_at ASC").First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormTemplateRepository) Upsert(ctx context.Context, message, token, numberID string) (*model.MessageTemplate, error) {
	if message == "" {
		return nil, ErrEmptyTemplateMessage
	}

	existing, err := r.Active(ctx)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		t := model.MessageTemplate{
			Message:  message,
			Token:    token,
			NumberID: numberID,
		}
		if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
			return nil, err
		}
		return &t, nil
	}

	update := map[string]any{
		"message":   message,
		"token":     token,
		"number_id": numberID,
	}
	if err := r.db.WithContext(ctx).
		Model(&model.MessageTemplate{}).
		Where("id = ?", existing.ID).
		Updates(update).
		Error; err != nil {
		return nil, err
	}

	return r.Active(ctx)
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// message_templates — единственный активный шаблон напоминания
// плюс учётные данные провайдера сообщений. Правится только админом,
// движок рассылки читает его один раз на запуск.
type MessageTemplate struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	// Текст с плейсхолдерами вида {$name}, {$time}, {$days}.
	Message string `gorm:"type:text;not null"`

	// Учётные данные WhatsApp Cloud API.
	Token    string `gorm:"type:text"`
	NumberID string `gorm:"type:varchar(64)"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (t *MessageTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// DefaultTemplateMessage используется, когда шаблон ещё не заведён.
const DefaultTemplateMessage = "Hello {$name}, your appointment is at {$time}."

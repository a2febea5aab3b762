package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Результат попытки отправки напоминания.
type ReminderStatus string

const (
	ReminderStatusSent   ReminderStatus = "sent"
	ReminderStatusFailed ReminderStatus = "failed"
)

// reminder_logs — append-only журнал отправок. Строка со статусом sent
// для пары (запись, окно) — ключ идемпотентности: такая запись в это окно
// больше не попадает в выборку рассылки.
type ReminderLog struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	AppointmentID uuid.UUID `gorm:"type:uuid;not null;index:idx_reminder_appt_window"`

	// Метка окна напоминания, например "3_days" или "1_day".
	// window — зарезервированное слово, колонка называется window_label.
	Window string `gorm:"column:window_label;type:varchar(32);not null;index:idx_reminder_appt_window"`

	// Отрендеренный текст сообщения.
	Message string `gorm:"type:text"`

	Status       ReminderStatus `gorm:"type:varchar(16);not null;index"`
	ErrorMessage string         `gorm:"type:text"`

	// Сырой ответ провайдера (статус, id сообщения и т.п.).
	ProviderResponse datatypes.JSON `gorm:"type:jsonb"`

	SentAt    time.Time `gorm:"type:timestamp with time zone"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (l *ReminderLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

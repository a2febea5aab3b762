package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Статус записи.
type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "Scheduled"
	AppointmentStatusConfirmed  AppointmentStatus = "Confirmed"
	AppointmentStatusCanceled   AppointmentStatus = "Canceled"
	AppointmentStatusCompleted  AppointmentStatus = "Completed"
	AppointmentStatusInProgress AppointmentStatus = "InProgress"
)

// Статус посещения.
type AttendanceStatus string

const (
	AttendancePending  AttendanceStatus = "Pending"
	AttendanceAttended AttendanceStatus = "Attended"
	AttendanceNoShow   AttendanceStatus = "NoShow"
	AttendanceCanceled AttendanceStatus = "Canceled"
)

// Канонические категории услуг. Синхронизация пишет название услуги
// из календаря как есть, прямое создание записи валидируется по списку.
const (
	ServiceHairCut      = "Hair Cut"
	ServiceBeardShaping = "Beard Shaping"
	ServiceOther        = "Other Services"
)

// appointments
type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	// Внешний id события в удалённом календаре. Ровно одна запись
	// на событие — уникальный индекс держит инвариант.
	EventID *string `gorm:"type:varchar(255);uniqueIndex"`

	ClientName  string `gorm:"type:varchar(255)"`
	ClientPhone string `gorm:"type:varchar(32)"`

	Service string `gorm:"type:varchar(255);not null"`

	StartTime   time.Time `gorm:"type:timestamp with time zone;not null;index"`
	DurationMin int       `gorm:"not null;default:60"`

	Status           AppointmentStatus `gorm:"type:varchar(32);not null;default:'Scheduled';index"`
	AttendanceStatus AttendanceStatus  `gorm:"type:varchar(32);not null;default:'Pending'"`

	Notes string `gorm:"type:text"`

	// Время первой успешной отправки напоминания. Для показа в интерфейсе;
	// идемпотентность по окнам ведётся в reminder_logs.
	ReminderSent *time.Time `gorm:"type:timestamp with time zone"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// ValidService проверяет услугу по каноническому списку.
func ValidService(s string) bool {
	switch s {
	case ServiceHairCut, ServiceBeardShaping, ServiceOther:
		return true
	}
	return false
}

// ValidAttendance проверяет статус посещения.
func ValidAttendance(s AttendanceStatus) bool {
	switch s {
	case AttendancePending, AttendanceAttended, AttendanceNoShow, AttendanceCanceled:
		return true
	}
	return false
}

// ValidStatus проверяет статус записи.
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed,
		AppointmentStatusCanceled, AppointmentStatusCompleted,
		AppointmentStatusInProgress:
		return true
	}
	return false
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/salon-core/internal/model"
)

type AppointmentRepository interface {
	// Получить запись по ID.
	GetByID(ctx context.Context, id string) (*model.Appointment, error)
	// Найти запись по внешнему id события календаря.
	FindByEventID(ctx context.Context, eventID string) (*model.Appointment, error)
	// Создать новую запись.
	Create(ctx context.Context, appt *model.Appointment) error
	// Обновить набор полей записи.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	// Удалить запись.
	Delete(ctx context.Context, id uuid.UUID) error
	// Страница записей, попадающих в окно напоминаний: статус status,
	// start_time в [from, to], нет строки sent в reminder_logs для окна
	// window. Порядок — по id, курсор afterID, не более limit штук.
	ListDueForWindow(
		ctx context.Context,
		from, to time.Time,
		status model.AppointmentStatus,
		window string,
		limit int,
		afterID string,
	) ([]model.Appointment, error)
	// Отметить время первой успешной отправки напоминания.
	MarkReminderSent(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Реализация на GORM.
type GormAppointmentRepository struct {
	db *gorm.DB
}

func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

func (r *GormAppointmentRepository) GetByID(ctx context.Context, id string) (*model.Appointment, error) {
	var a model.Appointment
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormAppointmentRepository) FindByEventID(ctx context.Context, eventID string) (*model.Appointment, error) {
	var a model.Appointment
	if err := r.db.WithContext(ctx).First(&a, "event_id = ?", eventID).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormAppointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	return r.db.WithContext(ctx).Create(appt).Error
}

func (r *GormAppointmentRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("id = ?", id).
		Updates(fields).
		Error
}

func (r *GormAppointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&model.Appointment{}, "id = ?", id).
		Error
}

func (r *GormAppointmentRepository) ListDueForWindow(
	ctx context.Context,
	from, to time.Time,
	status model.AppointmentStatus,
	window string,
	limit int,
	afterID string,
) ([]model.Appointment, error) {
	if limit <= 0 {
		limit = 200
	}

	q := r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("start_time >= ? AND start_time <= ?", from, to).
		Where("status = ?", status).
		Where(`NOT EXISTS (
			SELECT 1 FROM reminder_logs
			WHERE reminder_logs.appointment_id = appointments.id
			  AND reminder_logs.window_label = ?
			  AND reminder_logs.status = ?
		)`, window, model.ReminderStatusSent)

	if afterID != "" {
		q = q.Where("id > ?", afterID)
	}

	var appts []model.Appointment
	if err := q.Order("id ASC").Limit(limit).Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *GormAppointmentRepository) MarkReminderSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("id = ? AND reminder_sent IS NULL", id).
		Update("reminder_sent", at).
		Error
}

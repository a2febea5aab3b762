package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Leganyst/salon-core/internal/calendar"
	"github.com/Leganyst/salon-core/internal/model"
	"github.com/Leganyst/salon-core/internal/repository"
)

// Ошибки валидации входа.
var (
	ErrInvalidService    = errors.New("service must be one of the canonical list")
	ErrInvalidStatus     = errors.New("invalid appointment status")
	ErrInvalidAttendance = errors.New("invalid attendance status")
	ErrInvalidDuration   = errors.New("duration must be at least 1 minute")
	ErrStartRequired     = errors.New("start time is required")
)

// CreateAppointmentInput — параметры прямого создания записи.
type CreateAppointmentInput struct {
	ClientName  string
	ClientPhone string
	Service     string
	StartTime   time.Time
	DurationMin int
	Status      model.AppointmentStatus
	Notes       string
}

// UpdateAppointmentInput — параметры правки записи пользователем.
type UpdateAppointmentInput struct {
	ClientName       string
	ClientPhone      string
	Service          string
	StartTime        time.Time
	DurationMin      int
	Status           model.AppointmentStatus
	AttendanceStatus model.AttendanceStatus
	Notes            string
}

// AppointmentService — команды над записями, созданными пользователем:
// создание, правка, перенос, удаление. Владение удалённым событием:
// создание и правка проталкиваются в календарь, удаление пытается
// удалить событие и там.
type AppointmentService struct {
	appts   repository.AppointmentRepository
	gateway calendar.Gateway
	logger  *slog.Logger
}

func NewAppointmentService(
	appts repository.AppointmentRepository,
	gateway calendar.Gateway,
	logger *slog.Logger,
) *AppointmentService {
	return &AppointmentService{
		appts:   appts,
		gateway: gateway,
		logger:  logger,
	}
}

// Create создаёт запись. При сконфигурированном шлюзе сначала создаётся
// событие календаря с названием "Имя - Услуга - Телефон"; его ошибка
// прерывает создание. Без шлюза запись создаётся только локально.
func (s *AppointmentService) Create(ctx context.Context, in CreateAppointmentInput) (*model.Appointment, error) {
	if !model.ValidService(in.Service) {
		return nil, ErrInvalidService
	}
	if !model.ValidStatus(in.Status) {
		return nil, ErrInvalidStatus
	}
	if in.StartTime.IsZero() {
		return nil, ErrStartRequired
	}
	if in.DurationMin < 1 {
		return nil, ErrInvalidDuration
	}

	appt := model.Appointment{
		ClientName:       in.ClientName,
		ClientPhone:      in.ClientPhone,
		Service:          in.Service,
		StartTime:        in.StartTime,
		DurationMin:      in.DurationMin,
		Status:           in.Status,
		AttendanceStatus: model.AttendancePending,
		Notes:            in.Notes,
	}

	if s.gateway != nil && s.gateway.IsConfigured() {
		title := calendar.BuildEventTitle(in.ClientName, in.Service, in.ClientPhone)
		end := in.StartTime.Add(time.Duration(in.DurationMin) * time.Minute)
		ev, err := s.gateway.CreateEvent(ctx, title, in.StartTime, end)
		if err != nil {
			return nil, fmt.Errorf("create remote event: %w", err)
		}
		appt.EventID = &ev.ID
	} else {
		s.logger.Warn("calendar gateway not configured, creating local-only appointment")
	}

	if err := s.appts.Create(ctx, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

// Update правит запись и проталкивает название и время в связанное
// событие календаря. Ошибка удалённой правки не фатальна: локальная
// правка уже сохранена, расхождение выправит следующая синхронизация.
func (s *AppointmentService) Update(ctx context.Context, id uuid.UUID, in UpdateAppointmentInput) (*model.Appointment, error) {
	if !model.ValidStatus(in.Status) {
		return nil, ErrInvalidStatus
	}
	if in.AttendanceStatus != "" && !model.ValidAttendance(in.AttendanceStatus) {
		return nil, ErrInvalidAttendance
	}
	if in.StartTime.IsZero() {
		return nil, ErrStartRequired
	}
	if in.DurationMin < 1 {
		return nil, ErrInvalidDuration
	}

	appt, err := s.appts.GetByID(ctx, id.String())
	if err != nil {
		return nil, err
	}

	fields := map[string]any{
		"client_name":  in.ClientName,
		"client_phone": in.ClientPhone,
		"service":      in.Service,
		"start_time":   in.StartTime,
		"duration_min": in.DurationMin,
		"status":       in.Status,
		"notes":        in.Notes,
	}
	if in.AttendanceStatus != "" {
		fields["attendance_status"] = in.AttendanceStatus
	}
	if err := s.appts.UpdateFields(ctx, appt.ID, fields); err != nil {
		return nil, err
	}

	if appt.EventID != nil && s.gateway != nil && s.gateway.IsConfigured() {
		title := calendar.BuildEventTitle(in.ClientName, in.Service, in.ClientPhone)
		end := in.StartTime.Add(time.Duration(in.DurationMin) * time.Minute)
		if err := s.gateway.UpdateEvent(ctx, *appt.EventID, title, in.StartTime, end); err != nil {
			s.logger.Warn("failed to update remote event",
				"event_id", *appt.EventID, "err", err)
		}
	}

	return s.appts.GetByID(ctx, id.String())
}

// Reschedule меняет время и длительность записи (drag-and-drop в календаре).
// Только локально: расхождение с удалённым событием выправит синхронизация.
func (s *AppointmentService) Reschedule(ctx context.Context, id uuid.UUID, start time.Time, durationMin int) error {
	if start.IsZero() {
		return ErrStartRequired
	}
	if durationMin < 1 {
		return ErrInvalidDuration
	}
	if _, err := s.appts.GetByID(ctx, id.String()); err != nil {
		return err
	}
	return s.appts.UpdateFields(ctx, id, map[string]any{
		"start_time":   start,
		"duration_min": durationMin,
	})
}

// SetAttendance отмечает посещение.
func (s *AppointmentService) SetAttendance(ctx context.Context, id uuid.UUID, att model.AttendanceStatus) error {
	if !model.ValidAttendance(att) {
		return ErrInvalidAttendance
	}
	if _, err := s.appts.GetByID(ctx, id.String()); err != nil {
		return err
	}
	return s.appts.UpdateFields(ctx, id, map[string]any{
		"attendance_status": att,
	})
}

// Delete удаляет запись вместе с удалённым событием. "Событие уже
// удалено" — успех; прочие ошибки шлюза прерывают удаление, кроме
// несконфигурированного шлюза (тогда удаляем только локально).
func (s *AppointmentService) Delete(ctx context.Context, id uuid.UUID) error {
	appt, err := s.appts.GetByID(ctx, id.String())
	if err != nil {
		return err
	}

	if appt.EventID != nil && s.gateway != nil {
		switch err := s.gateway.DeleteEvent(ctx, *appt.EventID); {
		case err == nil:
		case errors.Is(err, calendar.ErrEventGone):
			s.logger.Info("remote event already deleted", "event_id", *appt.EventID)
		case errors.Is(err, calendar.ErrNotConfigured):
			s.logger.Warn("calendar gateway not configured, deleting locally only",
				"event_id", *appt.EventID)
		default:
			return fmt.Errorf("delete remote event %s: %w", *appt.EventID, err)
		}
	}

	return s.appts.Delete(ctx, appt.ID)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/Leganyst/salon-core/internal/calendar"
	"github.com/Leganyst/salon-core/internal/model"
	"github.com/Leganyst/salon-core/internal/repository"
)

// SyncError — ошибка обработки одного события.
// Пустой EventID означает ошибку уровня запуска (конфигурация, fetch).
type SyncError struct {
	EventID string
	Err     string
}

// SyncReport — итог одного запуска синхронизации. Не персистится,
// возвращается вызывающему.
type SyncReport struct {
	Created int
	Updated int
	Errors  []SyncError
}

// Success — запуск без единой ошибки.
func (r *SyncReport) Success() bool {
	return len(r.Errors) == 0
}

// SyncService сводит события удалённого календаря в локальный реестр
// записей. Удалённая сторона при синхронизации авторитетна: локальные
// правки синхронизируемых полей перезаписываются.
type SyncService struct {
	gateway calendar.Gateway
	appts   repository.AppointmentRepository
	loc     *time.Location
	logger  *slog.Logger
}

func NewSyncService(
	gateway calendar.Gateway,
	appts repository.AppointmentRepository,
	loc *time.Location,
	logger *slog.Logger,
) *SyncService {
	if loc == nil {
		loc = time.UTC
	}
	return &SyncService{
		gateway: gateway,
		appts:   appts,
		loc:     loc,
		logger:  logger,
	}
}

// Reconcile выполняет один проход синхронизации.
//
// Ошибки двух уровней: несконфигурированный шлюз и неудачный fetch
// прерывают запуск (отчёт с одной ошибкой запуска и ненулевой ошибкой);
// ошибка обработки отдельного события попадает в отчёт и не прерывает
// обработку остальных. Отчёт возвращается всегда.
func (s *SyncService) Reconcile(ctx context.Context) (*SyncReport, error) {
	report := &SyncReport{}

	if s.gateway == nil || !s.gateway.IsConfigured() {
		report.Errors = append(report.Errors, SyncError{Err: calendar.ErrNotConfigured.Error()})
		return report, calendar.ErrNotConfigured
	}

	events, err := s.gateway.ListEvents(ctx)
	if err != nil {
		report.Errors = append(report.Errors, SyncError{Err: fmt.Sprintf("fetch events: %v", err)})
		return report, fmt.Errorf("fetch events: %w", err)
	}

	for _, ev := range events {
		created, err := s.syncEvent(ctx, ev)
		if err != nil {
			report.Errors = append(report.Errors, SyncError{EventID: ev.ID, Err: err.Error()})
			s.logger.Warn("event sync failed", "event_id", ev.ID, "err", err)
			continue
		}
		if created {
			report.Created++
		} else {
			report.Updated++
		}
	}

	s.logger.Info("calendar sync finished",
		"created", report.Created,
		"updated", report.Updated,
		"errors", len(report.Errors),
	)

	return report, nil
}

// syncEvent обрабатывает одно событие: вычисляет время и длительность,
// разбирает название и создаёт либо перезаписывает запись по event_id.
// Каждый upsert — отдельная короткая запись в БД.
func (s *SyncService) syncEvent(ctx context.Context, ev calendar.RemoteEvent) (created bool, err error) {
	if ev.Start == nil {
		return false, errors.New("Missing start time")
	}

	start := ev.Start.In(s.loc)

	end := start.Add(time.Hour)
	if ev.End != nil {
		end = ev.End.In(s.loc)
	}

	durMin := int(end.Sub(start).Minutes())
	if durMin < 0 {
		return false, fmt.Errorf("negative duration: %d minutes", durMin)
	}
	if durMin == 0 {
		durMin = 60
	}

	parsed := calendar.ParseEventTitle(ev.Title)

	clientName := ""
	if parsed.Name != nil {
		clientName = *parsed.Name
	}
	clientPhone := ""
	if parsed.Phone != nil {
		clientPhone = *parsed.Phone
	}

	existing, err := s.appts.FindByEventID(ctx, ev.ID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		eventID := ev.ID
		appt := model.Appointment{
			EventID:          &eventID,
			ClientName:       clientName,
			ClientPhone:      clientPhone,
			Service:          parsed.Service,
			StartTime:        start,
			DurationMin:      durMin,
			Status:           model.AppointmentStatusConfirmed,
			AttendanceStatus: model.AttendancePending,
		}
		if err := s.appts.Create(ctx, &appt); err != nil {
			return false, fmt.Errorf("create appointment: %w", err)
		}
		return true, nil

	case err != nil:
		return false, fmt.Errorf("lookup appointment: %w", err)

	default:
		fields := map[string]any{
			"client_name":       clientName,
			"client_phone":      clientPhone,
			"service":           parsed.Service,
			"start_time":        start,
			"duration_min":      durMin,
			"status":            model.AppointmentStatusConfirmed,
			"attendance_status": model.AttendancePending,
		}
		if err := s.appts.UpdateFields(ctx, existing.ID, fields); err != nil {
			return false, fmt.Errorf("update appointment: %w", err)
		}
		return false, nil
	}
}

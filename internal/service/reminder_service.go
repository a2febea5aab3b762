package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Leganyst/salon-core/internal/calendar"
	"github.com/Leganyst/salon-core/internal/config"
	"github.com/Leganyst/salon-core/internal/model"
	"github.com/Leganyst/salon-core/internal/notify"
	"github.com/Leganyst/salon-core/internal/repository"
)

// Исход обработки одной записи в одном окне.
type DispatchStatus string

const (
	DispatchSent    DispatchStatus = "sent"
	DispatchSkipped DispatchStatus = "skipped"
	DispatchFailed  DispatchStatus = "failed"
	DispatchDryRun  DispatchStatus = "dry_run"
)

// DispatchOutcome — результат одной попытки отправки. Транзиентный:
// агрегируется в отчёт и лог, персистится только журнал reminder_logs.
type DispatchOutcome struct {
	AppointmentID uuid.UUID
	Window        string
	Phone         string
	Message       string
	Status        DispatchStatus
	Err           string
}

// WindowResult — итог одного окна напоминаний.
type WindowResult struct {
	Label    string
	From     time.Time
	To       time.Time
	Outcomes []DispatchOutcome

	Sent    int
	Skipped int
	Failed  int
	DryRun  int
}

// DispatchReport — итог одного запуска рассылки.
type DispatchReport struct {
	DryRun  bool
	Windows []WindowResult
}

// ReminderService рассылает напоминания по записям, попадающим
// в настроенные окна. Ключ идемпотентности — строка sent в reminder_logs
// на пару (запись, окно): неудачная отправка строки не оставляет
// и запись остаётся в выборке следующего запуска (at-least-once).
type ReminderService struct {
	appts     repository.AppointmentRepository
	logs      repository.ReminderLogRepository
	templates repository.TemplateRepository
	sender    notify.Sender
	windows   []config.WindowConfig
	batchSize int
	loc       *time.Location
	logger    *slog.Logger
}

func NewReminderService(
	appts repository.AppointmentRepository,
	logs repository.ReminderLogRepository,
	templates repository.TemplateRepository,
	sender notify.Sender,
	cfg config.RemindersConfig,
	loc *time.Location,
	logger *slog.Logger,
) *ReminderService {
	if loc == nil {
		loc = time.UTC
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 200
	}
	return &ReminderService{
		appts:     appts,
		logs:      logs,
		templates: templates,
		sender:    sender,
		windows:   cfg.Windows,
		batchSize: batch,
		loc:       loc,
		logger:    logger,
	}
}

// DispatchDue выполняет один проход рассылки по всем окнам.
//
// Шаблон и учётные данные читаются один раз на запуск. Ошибка чтения
// шаблона или выборки из БД прерывает запуск; ошибка отправки по одной
// записи — нет. В dry-run сообщения рендерятся и попадают в отчёт,
// но сеть не трогается и состояние не меняется.
func (s *ReminderService) DispatchDue(ctx context.Context, dryRun bool) (*DispatchReport, error) {
	tmpl, err := s.templates.Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("load message template: %w", err)
	}

	message := model.DefaultTemplateMessage
	creds := notify.Credentials{}
	if tmpl != nil {
		if tmpl.Message != "" {
			message = tmpl.Message
		}
		creds = notify.Credentials{Token: tmpl.Token, NumberID: tmpl.NumberID}
	}

	report := &DispatchReport{DryRun: dryRun}
	now := time.Now()

	for _, w := range s.windows {
		bounds := calendar.DayBounds(now, w.LeadDays, s.loc)
		wr := WindowResult{Label: w.Label, From: bounds.Start, To: bounds.End}

		s.logger.Info("scanning reminder window",
			"window", w.Label,
			"from", bounds.Start,
			"to", bounds.End,
			"dry_run", dryRun,
		)

		afterID := ""
		for {
			batch, err := s.appts.ListDueForWindow(
				ctx,
				bounds.Start, bounds.End,
				model.AppointmentStatusScheduled,
				w.Label,
				s.batchSize,
				afterID,
			)
			if err != nil {
				return report, fmt.Errorf("list due appointments (%s): %w", w.Label, err)
			}
			if len(batch) == 0 {
				break
			}

			for _, appt := range batch {
				outcome := s.dispatchOne(ctx, message, creds, w, appt, dryRun)
				wr.Outcomes = append(wr.Outcomes, outcome)
				switch outcome.Status {
				case DispatchSent:
					wr.Sent++
				case DispatchSkipped:
					wr.Skipped++
				case DispatchFailed:
					wr.Failed++
				case DispatchDryRun:
					wr.DryRun++
				}
			}

			afterID = batch[len(batch)-1].ID.String()
			if len(batch) < s.batchSize {
				break
			}
		}

		s.logger.Info("reminder window done",
			"window", w.Label,
			"sent", wr.Sent,
			"skipped", wr.Skipped,
			"failed", wr.Failed,
			"dry_run", wr.DryRun,
		)

		report.Windows = append(report.Windows, wr)
	}

	return report, nil
}

// dispatchOne обрабатывает одну запись. Любая ошибка здесь — per-item:
// логируется и отражается в исходе, но не прерывает проход.
func (s *ReminderService) dispatchOne(
	ctx context.Context,
	template string,
	creds notify.Credentials,
	w config.WindowConfig,
	appt model.Appointment,
	dryRun bool,
) DispatchOutcome {
	outcome := DispatchOutcome{
		AppointmentID: appt.ID,
		Window:        w.Label,
		Phone:         appt.ClientPhone,
	}

	if appt.ClientPhone == "" {
		outcome.Status = DispatchSkipped
		s.logger.Info("reminder skipped: no phone",
			"appointment_id", appt.ID, "window", w.Label)
		return outcome
	}

	name := appt.ClientName
	if name == "" {
		name = "Customer"
	}

	vars := map[string]string{
		"name": name,
		"time": calendar.FormatClock(appt.StartTime, s.loc),
		"days": w.Human,
	}
	outcome.Message = notify.Render(template, vars)

	if dryRun {
		outcome.Status = DispatchDryRun
		s.logger.Info("dry run: would send reminder",
			"appointment_id", appt.ID,
			"window", w.Label,
			"to", appt.ClientPhone,
			"message", outcome.Message,
		)
		return outcome
	}

	resp, err := s.sender.Send(ctx, creds, appt.ClientPhone, outcome.Message, vars)
	if err != nil {
		outcome.Status = DispatchFailed
		outcome.Err = err.Error()
		s.logger.Warn("reminder send failed",
			"appointment_id", appt.ID,
			"window", w.Label,
			"to", appt.ClientPhone,
			"err", err,
		)
		s.appendLog(ctx, appt.ID, w.Label, outcome.Message, model.ReminderStatusFailed, err.Error(), resp, time.Time{})
		return outcome
	}

	now := time.Now()
	s.appendLog(ctx, appt.ID, w.Label, outcome.Message, model.ReminderStatusSent, "", resp, now)
	if err := s.appts.MarkReminderSent(ctx, appt.ID, now); err != nil {
		s.logger.Warn("mark reminder_sent failed", "appointment_id", appt.ID, "err", err)
	}

	outcome.Status = DispatchSent
	s.logger.Info("reminder sent",
		"appointment_id", appt.ID,
		"window", w.Label,
		"to", appt.ClientPhone,
	)
	return outcome
}

// appendLog пишет строку журнала. Ошибка записи журнала логируется
// и глотается: при потерянной строке sent запись попадёт в следующий
// запуск ещё раз — принятый компромисс at-least-once.
func (s *ReminderService) appendLog(
	ctx context.Context,
	apptID uuid.UUID,
	window, message string,
	status model.ReminderStatus,
	errMsg string,
	resp *notify.ProviderResponse,
	sentAt time.Time,
) {
	entry := model.ReminderLog{
		AppointmentID: apptID,
		Window:        window,
		Message:       message,
		Status:        status,
		ErrorMessage:  errMsg,
		SentAt:        sentAt,
	}
	if resp != nil {
		if raw, err := json.Marshal(resp); err == nil {
			entry.ProviderResponse = datatypes.JSON(raw)
		}
	}
	if err := s.logs.Create(ctx, &entry); err != nil {
		s.logger.Warn("append reminder log failed",
			"appointment_id", apptID, "window", window, "err", err)
	}
}

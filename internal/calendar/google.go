package calendar

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/Leganyst/salon-core/internal/config"
)

// Google Calendar API отдаёт максимум 250 событий на страницу.
const maxResultsPerPage = 250

// GoogleGateway — реализация Gateway поверх Google Calendar API
// с авторизацией через файл сервисного аккаунта.
type GoogleGateway struct {
	svc         *gcal.Service
	calendarID  string
	horizonDays int
	loc         *time.Location
}

// NewGoogleGateway создаёт шлюз по конфигу. Если учётные данные не заданы
// или файла нет, возвращается несконфигурированный шлюз (не ошибка):
// решение, что с этим делать, остаётся за вызывающим кодом.
func NewGoogleGateway(ctx context.Context, cfg config.CalendarConfig, loc *time.Location) (*GoogleGateway, error) {
	g := &GoogleGateway{
		calendarID:  cfg.CalendarID,
		horizonDays: cfg.HorizonDays,
		loc:         loc,
	}

	if cfg.CredentialsFile == "" || cfg.CalendarID == "" {
		return g, nil
	}
	if _, err := os.Stat(cfg.CredentialsFile); err != nil {
		return g, nil
	}

	svc, err := gcal.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(gcal.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	g.svc = svc

	return g, nil
}

func (g *GoogleGateway) IsConfigured() bool {
	return g != nil && g.svc != nil && g.calendarID != ""
}

// ListEvents забирает события окна синхронизации с постраничным обходом.
func (g *GoogleGateway) ListEvents(ctx context.Context) ([]RemoteEvent, error) {
	if !g.IsConfigured() {
		return nil, ErrNotConfigured
	}

	window := SyncWindow(time.Now(), g.horizonDays, g.loc)

	var events []RemoteEvent
	pageToken := ""

	for {
		call := g.svc.Events.List(g.calendarID).
			Context(ctx).
			MaxResults(maxResultsPerPage).
			SingleEvents(true).
			OrderBy("startTime").
			TimeMin(window.Start.Format(time.RFC3339)).
			TimeMax(window.End.Format(time.RFC3339))
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		page, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list events: %w", mapGoogleError(err))
		}

		for _, item := range page.Items {
			events = append(events, g.toRemoteEvent(item))
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return events, nil
}

func (g *GoogleGateway) CreateEvent(ctx context.Context, title string, start, end time.Time) (*RemoteEvent, error) {
	if !g.IsConfigured() {
		return nil, ErrNotConfigured
	}

	created, err := g.svc.Events.Insert(g.calendarID, &gcal.Event{
		Summary: title,
		Start:   &gcal.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:     &gcal.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", mapGoogleError(err))
	}

	ev := g.toRemoteEvent(created)
	return &ev, nil
}

func (g *GoogleGateway) UpdateEvent(ctx context.Context, id, title string, start, end time.Time) error {
	if !g.IsConfigured() {
		return ErrNotConfigured
	}

	_, err := g.svc.Events.Patch(g.calendarID, id, &gcal.Event{
		Summary: title,
		Start:   &gcal.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:     &gcal.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("patch event %s: %w", id, mapGoogleError(err))
	}
	return nil
}

func (g *GoogleGateway) DeleteEvent(ctx context.Context, id string) error {
	if !g.IsConfigured() {
		return ErrNotConfigured
	}

	if err := g.svc.Events.Delete(g.calendarID, id).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete event %s: %w", id, mapGoogleError(err))
	}
	return nil
}

// toRemoteEvent переводит событие API в wire-тип синхронизации.
// У событий "на весь день" заполнена Date вместо DateTime.
func (g *GoogleGateway) toRemoteEvent(item *gcal.Event) RemoteEvent {
	ev := RemoteEvent{
		ID:    item.Id,
		Title: item.Summary,
	}
	if t, err := time.Parse(time.RFC3339, item.Updated); err == nil {
		ev.UpdatedAt = t
	}
	ev.Start = g.parseEventTime(item.Start)
	ev.End = g.parseEventTime(item.End)
	return ev
}

func (g *GoogleGateway) parseEventTime(edt *gcal.EventDateTime) *time.Time {
	if edt == nil {
		return nil
	}
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return &t
		}
		return nil
	}
	if edt.Date != "" {
		loc := g.loc
		if loc == nil {
			loc = time.UTC
		}
		if t, err := time.ParseInLocation("2006-01-02", edt.Date, loc); err == nil {
			return &t
		}
	}
	return nil
}

// mapGoogleError переводит 404/410 в ErrEventGone, остальное отдаёт как есть.
func mapGoogleError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == 404 || apiErr.Code == 410 {
			return ErrEventGone
		}
	}
	return err
}

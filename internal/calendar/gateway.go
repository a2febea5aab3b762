package calendar

import (
	"context"
	"errors"
	"time"
)

// Ошибки шлюза календаря.
var (
	// ErrNotConfigured — шлюз не настроен (нет учётных данных или id календаря).
	ErrNotConfigured = errors.New("calendar gateway is not configured")

	// ErrEventGone — события уже нет на удалённой стороне (404/410).
	// Для удаления вызывающий код трактует это как успех.
	ErrEventGone = errors.New("remote event is gone")
)

// RemoteEvent — событие удалённого календаря в том виде,
// в котором его потребляет синхронизация.
type RemoteEvent struct {
	ID    string
	Title string

	// Start/End — nil, если удалённая сторона не отдала время.
	Start *time.Time
	End   *time.Time

	UpdatedAt time.Time
}

// Gateway — контракт удалённого календаря.
// В реале это обёртка над Google Calendar API, в тестах — фейк.
type Gateway interface {
	// IsConfigured сообщает, можно ли вообще обращаться к календарю.
	IsConfigured() bool

	// ListEvents возвращает события окна синхронизации.
	ListEvents(ctx context.Context) ([]RemoteEvent, error)

	// CreateEvent создаёт событие и возвращает его с присвоенным id.
	CreateEvent(ctx context.Context, title string, start, end time.Time) (*RemoteEvent, error)

	// UpdateEvent правит название и время события.
	// Возвращает ErrEventGone, если события уже нет.
	UpdateEvent(ctx context.Context, id, title string, start, end time.Time) error

	// DeleteEvent удаляет событие. ErrEventGone — событие уже удалено.
	DeleteEvent(ctx context.Context, id string) error
}

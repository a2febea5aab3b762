package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Leganyst/salon-core/internal/calendar"
	"github.com/Leganyst/salon-core/internal/notify"
)

// setupDB открывает in-memory sqlite и создаёт минимальную схему
// (sqlite-friendly, без postgres-типов).
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	schema := []string{
		`CREATE TABLE appointments (
			id TEXT PRIMARY KEY,
			event_id TEXT UNIQUE,
			client_name TEXT,
			client_phone TEXT,
			service TEXT NOT NULL,
			start_time DATETIME NOT NULL,
			duration_min INTEGER NOT NULL DEFAULT 60,
			status TEXT NOT NULL,
			attendance_status TEXT NOT NULL,
			notes TEXT,
			reminder_sent DATETIME,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE message_templates (
			id TEXT PRIMARY KEY,
			message TEXT NOT NULL,
			token TEXT,
			number_id TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE reminder_logs (
			id TEXT PRIMARY KEY,
			appointment_id TEXT NOT NULL,
			window_label TEXT NOT NULL,
			message TEXT,
			status TEXT NOT NULL,
			error_message TEXT,
			provider_response TEXT,
			sent_at DATETIME,
			created_at DATETIME
		);`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}

	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ===== Фейковый шлюз календаря =====

type remoteCall struct {
	ID    string
	Title string
	Start time.Time
	End   time.Time
}

type fakeGateway struct {
	configured bool
	events     []calendar.RemoteEvent
	listErr    error

	created []remoteCall
	updated []remoteCall
	deleted []string

	createErr error
	updateErr error
	deleteErr error
}

func (g *fakeGateway) IsConfigured() bool { return g.configured }

func (g *fakeGateway) ListEvents(_ context.Context) ([]calendar.RemoteEvent, error) {
	if g.listErr != nil {
		return nil, g.listErr
	}
	return g.events, nil
}

func (g *fakeGateway) CreateEvent(_ context.Context, title string, start, end time.Time) (*calendar.RemoteEvent, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	id := fmt.Sprintf("ev-%d", len(g.created)+1)
	g.created = append(g.created, remoteCall{ID: id, Title: title, Start: start, End: end})
	return &calendar.RemoteEvent{ID: id, Title: title, Start: &start, End: &end}, nil
}

func (g *fakeGateway) UpdateEvent(_ context.Context, id, title string, start, end time.Time) error {
	if g.updateErr != nil {
		return g.updateErr
	}
	g.updated = append(g.updated, remoteCall{ID: id, Title: title, Start: start, End: end})
	return nil
}

func (g *fakeGateway) DeleteEvent(_ context.Context, id string) error {
	if g.deleteErr != nil {
		return g.deleteErr
	}
	g.deleted = append(g.deleted, id)
	return nil
}

// ===== Фейковый отправитель сообщений =====

type sentMessage struct {
	To      string
	Message string
	Vars    map[string]string
	Creds   notify.Credentials
}

type fakeSender struct {
	sent    []sentMessage
	sendErr error
}

func (s *fakeSender) ProviderID() string { return "fake" }

func (s *fakeSender) Send(_ context.Context, creds notify.Credentials, to, message string, vars map[string]string) (*notify.ProviderResponse, error) {
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	s.sent = append(s.sent, sentMessage{To: to, Message: message, Vars: vars, Creds: creds})
	return &notify.ProviderResponse{StatusCode: 200}, nil
}

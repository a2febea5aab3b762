package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Ошибки отправки.
var (
	// ErrMissingCredentials — нет токена или id номера отправителя.
	ErrMissingCredentials = errors.New("whatsapp credentials are missing")

	// ErrProviderRejected — провайдер ответил не-2xx статусом.
	ErrProviderRejected = errors.New("provider rejected the message")
)

// Credentials — учётные данные WhatsApp Cloud API на один запуск рассылки.
type Credentials struct {
	Token    string
	NumberID string
}

// ProviderResponse — диагностический ответ провайдера.
// "Принято провайдером" не означает доставку.
type ProviderResponse struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body,omitempty"`
}

// Sender отправляет отрендеренное сообщение на телефон.
// В реале — WhatsApp Cloud API, в тестах — фейк.
type Sender interface {
	Send(ctx context.Context, creds Credentials, to, message string, vars map[string]string) (*ProviderResponse, error)
	ProviderID() string
}

const (
	graphAPIBase = "https://graph.facebook.com/v23.0"

	// Имя и язык предодобренного шаблона на стороне провайдера.
	providerTemplateName = "appointment_reminder"
	providerTemplateLang = "it"
)

// WhatsAppSender — отправка через WhatsApp Cloud API.
// Провайдер подставляет имя клиента и время в свой предодобренный шаблон;
// локально отрендеренный текст идёт в журнал и dry-run.
type WhatsAppSender struct {
	base string
	http *http.Client
}

func NewWhatsAppSender() *WhatsAppSender {
	return &WhatsAppSender{
		base: graphAPIBase,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewWhatsAppSenderWithBase — для тестов против локального сервера.
func NewWhatsAppSenderWithBase(base string) *WhatsAppSender {
	s := NewWhatsAppSender()
	s.base = base
	return s
}

func (s *WhatsAppSender) ProviderID() string {
	return "whatsapp-cloud"
}

func (s *WhatsAppSender) Send(ctx context.Context, creds Credentials, to, message string, vars map[string]string) (*ProviderResponse, error) {
	if creds.Token == "" || creds.NumberID == "" {
		return nil, ErrMissingCredentials
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "template",
		"template": map[string]any{
			"name":     providerTemplateName,
			"language": map[string]string{"code": providerTemplateLang},
			"components": []map[string]any{
				{
					"type": "body",
					"parameters": []map[string]string{
						{"type": "text", "text": vars["name"]},
						{"type": "text", "text": vars["time"]},
					},
				},
			},
		},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/messages", s.base, creds.NumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+creds.Token)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	pr := &ProviderResponse{StatusCode: resp.StatusCode}
	if json.Valid(body) {
		pr.Body = body
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return pr, fmt.Errorf("%w: status %d", ErrProviderRejected, resp.StatusCode)
	}

	return pr, nil
}

// NoopSender принимает всё и никуда не шлёт. Для стендов без провайдера.
type NoopSender struct{}

func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

func (s *NoopSender) ProviderID() string {
	return "noop"
}

func (s *NoopSender) Send(_ context.Context, _ Credentials, _, _ string, _ map[string]string) (*ProviderResponse, error) {
	return &ProviderResponse{StatusCode: 200}, nil
}

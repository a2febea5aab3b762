package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWhatsAppSendRequiresCredentials(t *testing.T) {
	s := NewWhatsAppSender()
	_, err := s.Send(context.Background(), Credentials{}, "+39111", "hi", nil)
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("err = %v, want ErrMissingCredentials", err)
	}
}

func TestWhatsAppSendPayload(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	s := NewWhatsAppSenderWithBase(srv.URL)
	creds := Credentials{Token: "tok", NumberID: "12345"}
	vars := map[string]string{"name": "Jane", "time": "02:30 PM"}

	resp, err := s.Send(context.Background(), creds, "+39111", "rendered text", vars)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if resp.Body == nil {
		t.Error("provider body not captured")
	}

	if gotPath != "/12345/messages" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotBody["to"] != "+39111" || gotBody["messaging_product"] != "whatsapp" {
		t.Errorf("payload = %+v", gotBody)
	}

	tmpl, ok := gotBody["template"].(map[string]any)
	if !ok || tmpl["name"] != "appointment_reminder" {
		t.Fatalf("template block = %+v", gotBody["template"])
	}
}

func TestWhatsAppSendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"invalid recipient"}}`))
	}))
	defer srv.Close()

	s := NewWhatsAppSenderWithBase(srv.URL)
	resp, err := s.Send(context.Background(), Credentials{Token: "t", NumberID: "1"}, "bad", "hi", nil)
	if !errors.Is(err, ErrProviderRejected) {
		t.Fatalf("err = %v, want ErrProviderRejected", err)
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("response = %+v, want diagnostic 400", resp)
	}
}

func TestWhatsAppSendNonJSONBodyDropped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	s := NewWhatsAppSenderWithBase(srv.URL)
	resp, err := s.Send(context.Background(), Credentials{Token: "t", NumberID: "1"}, "+1", "hi", nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if resp.Body != nil {
		t.Errorf("non-JSON body should not be kept: %s", resp.Body)
	}
}

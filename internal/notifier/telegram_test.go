package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func testNotifier(serverURL string) *TelegramNotifier {
	tn := NewTelegramNotifier("test-token", "12345", "")
	tn.apiBase = serverURL
	return tn
}

func TestSend_PostsMessagePayload(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottest-token/sendMessage" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tn := testNotifier(srv.URL)
	if err := tn.Send("<b>hello</b>"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got["chat_id"] != "12345" || got["text"] != "<b>hello</b>" {
		t.Errorf("payload = %v", got)
	}
	if got["parse_mode"] != "HTML" {
		t.Errorf("parse_mode = %v, want HTML", got["parse_mode"])
	}
	if _, silent := got["disable_notification"]; silent {
		t.Error("plain Send should not be silent")
	}
}

func TestSendSilent_SetsDisableNotification(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := testNotifier(srv.URL).SendSilent("summary"); err != nil {
		t.Fatalf("SendSilent: %v", err)
	}
	if got["disable_notification"] != true {
		t.Errorf("disable_notification = %v, want true", got["disable_notification"])
	}
}

func TestSendWithRetry_RecoversAfterFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tn := testNotifier(srv.URL)
	tn.maxRetries = 2
	if err := tn.SendWithRetry(context.Background(), "retry me"); err != nil {
		t.Fatalf("SendWithRetry: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("calls = %d, want 2", n)
	}
}

func TestSendWithRetry_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tn := testNotifier(srv.URL)
	if err := tn.SendWithRetry(ctx, "never delivered"); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestDisabledNotifier_SendsNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("disabled notifier must not hit the network")
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("", "", "")
	tn.apiBase = srv.URL
	if tn.Enabled() {
		t.Fatal("notifier without credentials should be disabled")
	}
	if err := tn.Send("dropped"); err != nil {
		t.Errorf("Send: %v", err)
	}
	if err := tn.SendWithRetry(context.Background(), "dropped"); err != nil {
		t.Errorf("SendWithRetry: %v", err)
	}
}

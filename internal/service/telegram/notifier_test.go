package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"SignalGate/internal/domain/models"
	xlogger "SignalGate/pkg/logger"
)

func testLogger(t *testing.T) *xlogger.Logger {
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func sampleSignal() *models.Signal {
	return &models.Signal{
		ID:              "SIG-ABCD1234",
		Timestamp:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Asset:           "BTCUSD",
		Direction:       models.DirectionLong,
		EntryPrice:      50000,
		StopLoss:        49000,
		TakeProfit:      52000,
		RRRatio:         2.0,
		ConfidenceScore: 9,
		Status:          models.StatusApproved,
	}
}

func TestFormatSignal(t *testing.T) {
	msg := FormatSignal(sampleSignal())
	for _, want := range []string{
		"LONG", "BTCUSD", "APPROVED", "50000", "49000", "52000",
		"9/10", "SIG-ABCD1234", "2025-06-01T12:00:00Z",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestNotifyUnconfiguredIsNoop(t *testing.T) {
	n := New("", "-100123", time.Second, testLogger(t))
	if n.Configured() {
		t.Fatalf("empty token must not report configured")
	}
	if err := n.Notify(context.Background(), sampleSignal()); err != nil {
		t.Fatalf("unconfigured notify must be a no-op success, got %v", err)
	}

	n = New("NOT_CONFIGURED", "-100123", time.Second, testLogger(t))
	if n.Configured() {
		t.Fatalf("sentinel token must not report configured")
	}
}

func TestNotifyDelivers(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	n := New("token123", "-100456", time.Second, testLogger(t), WithAPIBase(srv.URL))
	if err := n.Notify(context.Background(), sampleSignal()); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if gotPath != "/bottoken123/sendMessage" {
		t.Fatalf("wrong path: %s", gotPath)
	}
	if gotBody["chat_id"] != "-100456" {
		t.Fatalf("wrong chat_id: %v", gotBody["chat_id"])
	}
	if gotBody["parse_mode"] != "HTML" {
		t.Fatalf("wrong parse_mode: %v", gotBody["parse_mode"])
	}
}

func TestNotifyReportsAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "description": "chat not found"})
	}))
	defer srv.Close()

	n := New("token123", "-100456", time.Second, testLogger(t), WithAPIBase(srv.URL))
	err := n.Notify(context.Background(), sampleSignal())
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("expected API failure, got %v", err)
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleYAML = `
environment: test
server:
  port: 8080
logging:
  level: info
  format: json
  output: stderr
watchlist: [BTCUSD, ETHUSD]
risk:
  confidence_auto_approve: 8
  confidence_pending: 6
  rr_auto_approve: 2.0
  rr_warn_threshold: 1.5
telegram:
  bot_token: NOT_CONFIGURED
  channel_id: ""
sink:
  backend: file
  capacity: 500
  file:
    path: signals_log.json
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Port != 8080 {
		t.Fatalf("port = %d", c.Server.Port)
	}
	if len(c.Watchlist) != 2 || c.Watchlist[0] != "BTCUSD" {
		t.Fatalf("watchlist = %v", c.Watchlist)
	}
	if c.Risk.RRWarnThreshold != 1.5 {
		t.Fatalf("rr_warn_threshold = %v", c.Risk.RRWarnThreshold)
	}
	if c.Sink.Backend != "file" {
		t.Fatalf("sink backend = %s", c.Sink.Backend)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token-from-env")
	t.Setenv("WATCHLIST", "SOLUSD,ADAUSD")
	t.Setenv("SINK_BACKEND", "redis")
	t.Setenv("PORT", "9090")

	c, err := LoadWithEnv(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Telegram.BotToken != "token-from-env" {
		t.Fatalf("token = %s", c.Telegram.BotToken)
	}
	if len(c.Watchlist) != 2 || c.Watchlist[1] != "ADAUSD" {
		t.Fatalf("watchlist = %v", c.Watchlist)
	}
	if c.Sink.Backend != "redis" || c.Server.Port != 9090 {
		t.Fatalf("overrides not applied: %s %d", c.Sink.Backend, c.Server.Port)
	}
}

func TestValidateRejectsBadBackend(t *testing.T) {
	body := strings.Replace(sampleYAML, "backend: file", "backend: sqlite", 1)
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected backend validation error")
	}
}

func TestValidateRequiresWatchlist(t *testing.T) {
	body := strings.Replace(sampleYAML, "watchlist: [BTCUSD, ETHUSD]", "watchlist: []", 1)
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected watchlist validation error")
	}
}

package engine

import "testing"

func TestNormalizeAlternateShape(t *testing.T) {
	p := Payload{
		"symbol": "BTCUSD",
		"entry":  50000.0,
		"stop":   49000.0,
		"tp1":    52000.0,
		"score":  9.0,
	}
	got := Normalize(p)

	if got["asset"] != "BTCUSD" {
		t.Fatalf("asset = %v", got["asset"])
	}
	if got["signal_type"] != "LONG" {
		t.Fatalf("expected direction to default LONG, got %v", got["signal_type"])
	}
	if got["rr_ratio"] != 2.0 {
		t.Fatalf("rr_ratio = %v, want 2.0", got["rr_ratio"])
	}
	if got["confidence_score"] != 9 {
		t.Fatalf("confidence_score = %v", got["confidence_score"])
	}
}

func TestNormalizeZeroRiskFallback(t *testing.T) {
	// stop absent: risk falls back to 1 so rr is just the reward distance.
	p := Payload{"symbol": "ETHUSD", "entry": 3000.0, "tp1": 3005.0, "side": "SHORT"}
	got := Normalize(p)

	if got["signal_type"] != "SHORT" {
		t.Fatalf("signal_type = %v", got["signal_type"])
	}
	if got["rr_ratio"] != 5.0 {
		t.Fatalf("rr_ratio = %v, want 5.0", got["rr_ratio"])
	}
	if got["stop_loss"] != 0.0 {
		t.Fatalf("stop_loss = %v", got["stop_loss"])
	}
}

func TestNormalizeCanonicalPassthrough(t *testing.T) {
	p := Payload{
		"asset":            "BTCUSD",
		"signal_type":      "LONG",
		"entry_price":      50000.0,
		"stop_loss":        49000.0,
		"take_profit":      52000.0,
		"rr_ratio":         2.0,
		"confidence_score": 8,
	}
	got := Normalize(p)
	if len(got) != len(p) {
		t.Fatalf("canonical payload should pass through unchanged")
	}
	for k, v := range p {
		if got[k] != v {
			t.Fatalf("field %s changed: %v -> %v", k, v, got[k])
		}
	}
}

func TestNormalizeSymbolAndAssetBothPresent(t *testing.T) {
	// asset present means canonical shape even if symbol also exists.
	p := Payload{"asset": "BTCUSD", "symbol": "BTCUSD"}
	if IsAlternateShape(p) {
		t.Fatalf("payload with asset field must not be treated as alternate shape")
	}
}

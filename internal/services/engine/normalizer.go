package engine

import (
	"SignalGate/pkg/util"
)

// Payload is the untrusted intake shape: a decoded JSON object with
// arbitrary keys. Normalization and validation operate on it before any
// typed entity exists.
type Payload map[string]any

// IsAlternateShape reports whether the payload uses the charting-platform
// webhook format: a `symbol` field and no `asset` field.
func IsAlternateShape(p Payload) bool {
	_, hasSymbol := p["symbol"]
	_, hasAsset := p["asset"]
	return hasSymbol && !hasAsset
}

// Normalize translates a charting-platform webhook payload into the
// canonical shape. Canonical payloads pass through unchanged. Pure
// transform, no side effects.
//
// rr_ratio is derived as round2(|tp1-entry| / |entry-stop|), with risk
// falling back to 1 when entry or stop is zero/absent to avoid dividing
// by zero. Direction defaults to LONG, score to 0.
func Normalize(p Payload) Payload {
	if !IsAlternateShape(p) {
		return p
	}

	entry, _ := util.ToFloat(p["entry"])
	stop, _ := util.ToFloat(p["stop"])
	tp1, _ := util.ToFloat(p["tp1"])

	side := "LONG"
	if s, ok := p["side"].(string); ok && s != "" {
		side = s
	}

	risk := 1.0
	if entry != 0 && stop != 0 {
		risk = abs(entry - stop)
	}
	reward := 0.0
	if tp1 != 0 && entry != 0 {
		reward = abs(tp1 - entry)
	}
	rr := 0.0
	if risk > 0 {
		rr = util.Round2(reward / risk)
	}

	score := 0
	if v, ok := util.ToInt(p["score"]); ok {
		score = v
	}

	asset := ""
	if s, ok := p["symbol"].(string); ok {
		asset = s
	}

	return Payload{
		"asset":            asset,
		"signal_type":      side,
		"entry_price":      entry,
		"stop_loss":        stop,
		"take_profit":      tp1,
		"rr_ratio":         rr,
		"confidence_score": score,
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

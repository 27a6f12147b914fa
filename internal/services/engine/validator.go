package engine

import (
	"fmt"
	"sort"
	"strings"

	"SignalGate/internal/domain/models"
	"SignalGate/pkg/util"
)

// DefaultRRWarnThreshold flags acceptable-but-thin signals. Below this the
// validator records a warning, never an error.
const DefaultRRWarnThreshold = 1.5

var requiredFields = []string{
	"asset", "signal_type", "entry_price", "stop_loss", "take_profit",
	"rr_ratio", "confidence_score",
}

// Watchlist is the static allowlist of tradable assets. Read-only after
// construction.
type Watchlist struct {
	set    map[string]struct{}
	sorted []string
}

func NewWatchlist(assets []string) *Watchlist {
	w := &Watchlist{set: make(map[string]struct{}, len(assets))}
	for _, a := range assets {
		w.set[strings.ToUpper(a)] = struct{}{}
	}
	for a := range w.set {
		w.sorted = append(w.sorted, a)
	}
	sort.Strings(w.sorted)
	return w
}

// Contains checks membership; the asset must already be uppercased.
func (w *Watchlist) Contains(asset string) bool {
	_, ok := w.set[asset]
	return ok
}

// Assets returns the allowlist in sorted order.
func (w *Watchlist) Assets() []string {
	out := make([]string, len(w.sorted))
	copy(out, w.sorted)
	return out
}

// Result accumulates the outcome of validating one payload. Input is set
// only when Errors is empty.
type Result struct {
	Input    *models.SignalInput
	Errors   []string
	Warnings []string
}

func (r *Result) Valid() bool { return len(r.Errors) == 0 }

func (r *Result) errorf(format string, a ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, a...))
}

func (r *Result) warnf(format string, a ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, a...))
}

// Validator enforces structural, domain, and directional-consistency rules
// against a canonical payload.
type Validator struct {
	watchlist *Watchlist
	rrWarnMin float64
}

func NewValidator(watchlist *Watchlist, rrWarnMin float64) *Validator {
	if rrWarnMin <= 0 {
		rrWarnMin = DefaultRRWarnThreshold
	}
	return &Validator{watchlist: watchlist, rrWarnMin: rrWarnMin}
}

// Validate runs every applicable rule and collects ALL failures rather
// than stopping at the first one. The single exception: missing required
// fields abort further checks, since every later rule needs those fields.
func (v *Validator) Validate(p Payload) *Result {
	res := &Result{}

	for _, f := range requiredFields {
		if _, ok := p[f]; !ok {
			res.errorf("missing required field: %s", f)
		}
	}
	if !res.Valid() {
		return res
	}

	asset := strings.ToUpper(str(p["asset"]))
	if !v.watchlist.Contains(asset) {
		res.errorf("asset '%s' not in approved watchlist", asset)
	}

	rawDir := strings.ToUpper(str(p["signal_type"]))
	dir, dirOK := models.ParseDirection(rawDir)
	if !dirOK {
		res.errorf("signal_type must be LONG or SHORT, got '%s'", rawDir)
	}

	entry, entryOK := util.ToFloat(p["entry_price"])
	stop, stopOK := util.ToFloat(p["stop_loss"])
	target, targetOK := util.ToFloat(p["take_profit"])
	if !entryOK || !stopOK || !targetOK {
		res.errorf("prices must be numeric")
	} else if dirOK {
		// Directional consistency. Each violation is its own error; none
		// stops the remaining checks.
		switch dir {
		case models.DirectionLong:
			if entry >= target {
				res.errorf("LONG: entry (%v) must be < target (%v)", entry, target)
			}
			if entry <= stop {
				res.errorf("LONG: entry (%v) must be > stop (%v)", entry, stop)
			}
		case models.DirectionShort:
			if entry <= target {
				res.errorf("SHORT: entry (%v) must be > target (%v)", entry, target)
			}
			if entry >= stop {
				res.errorf("SHORT: entry (%v) must be < stop (%v)", entry, stop)
			}
		}
	}

	rr, rrOK := util.ToFloat(p["rr_ratio"])
	if !rrOK {
		res.errorf("rr_ratio must be numeric")
	} else if rr < v.rrWarnMin {
		res.warnf("rr_ratio %v below minimum %v", rr, v.rrWarnMin)
	}

	conf, confOK := util.ToInt(p["confidence_score"])
	if !confOK {
		res.errorf("confidence_score must be an integer")
	} else if conf < 0 || conf > 10 {
		res.errorf("confidence_score must be 0-10, got %d", conf)
	}

	if !res.Valid() {
		return res
	}

	res.Input = &models.SignalInput{
		Asset:           asset,
		Direction:       dir,
		EntryPrice:      entry,
		StopLoss:        stop,
		TakeProfit:      target,
		RRRatio:         rr,
		ConfidenceScore: conf,
	}
	return res
}

func str(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

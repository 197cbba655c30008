// Package format renders resolved position rows as display strings.
package format

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"time"

	"fleetcard/internal/i18n"
	"fleetcard/internal/modules/attribute"
	"fleetcard/internal/modules/catalog"
	"fleetcard/internal/modules/position"
)

const (
	layout24h = "2006-01-02 15:04:05"
	layout12h = "2006-01-02 03:04:05 PM"
)

// AddressResolver turns coordinates into a human address, usually through a
// remote geocoder.
type AddressResolver interface {
	Address(ctx context.Context, lat, lng float64) (string, error)
}

// Prefs are the user's unit and clock preferences.
type Prefs struct {
	SpeedUnit    string
	DistanceUnit string
	Location     *time.Location
	TwelveHour   bool
}

type Formatter struct {
	t         i18n.Translator
	prefs     Prefs
	addresses AddressResolver
}

// NewFormatter builds a Formatter. addresses may be nil, in which case rows
// without a stored address render a placeholder.
func NewFormatter(t i18n.Translator, prefs Prefs, addresses AddressResolver) *Formatter {
	if t == nil {
		t = i18n.English
	}
	if prefs.Location == nil {
		prefs.Location = time.UTC
	}
	return &Formatter{t: t, prefs: prefs, addresses: addresses}
}

// Format never fails: missing or mistyped values render as "".
func (f *Formatter) Format(ctx context.Context, row attribute.Row, p *position.Position) string {
	v, ok := row.Value(p)
	if !ok || v == nil {
		if row.Entry.Style == catalog.StyleLocation {
			return f.lookupAddress(ctx, p)
		}
		return ""
	}

	switch row.Entry.Style {
	case catalog.StyleTime:
		return f.formatTime(v)
	case catalog.StyleLocation:
		if s, ok := v.(string); ok && s != "" {
			return s
		}
		return f.lookupAddress(ctx, p)
	case catalog.StyleSpeed:
		n, ok := toFloat(v)
		if !ok {
			return ""
		}
		value, unit := speedFromKnots(n, f.prefs.SpeedUnit)
		return strconv.FormatFloat(value, 'f', 2, 64) + " " + f.t.T(unit)
	case catalog.StyleDistance:
		n, ok := toFloat(v)
		if !ok {
			return ""
		}
		value, unit := distanceFromMeters(n, f.prefs.DistanceUnit)
		return strconv.FormatFloat(value, 'f', 2, 64) + " " + f.t.T(unit)
	case catalog.StyleGeneric:
		return f.formatGeneric(v)
	}
	return ""
}

func (f *Formatter) formatTime(v any) string {
	var t time.Time
	switch tv := v.(type) {
	case time.Time:
		t = tv
	case string:
		parsed, err := time.Parse(time.RFC3339, tv)
		if err != nil {
			return ""
		}
		t = parsed
	default:
		return ""
	}
	layout := layout24h
	if f.prefs.TwelveHour {
		layout = layout12h
	}
	return t.In(f.prefs.Location).Format(layout)
}

func (f *Formatter) lookupAddress(ctx context.Context, p *position.Position) string {
	if f.addresses == nil || p == nil {
		return f.t.T("sharedShowAddress")
	}
	addr, err := f.addresses.Address(ctx, p.Latitude, p.Longitude)
	if err != nil || addr == "" {
		if err != nil {
			log.Printf("address lookup for position %s: %v", p.ID, err)
		}
		return f.t.T("sharedShowAddress")
	}
	return addr
}

func (f *Formatter) formatGeneric(v any) string {
	switch tv := v.(type) {
	case bool:
		if tv {
			return f.t.T("sharedYes")
		}
		return f.t.T("sharedNo")
	case string:
		return tv
	}
	if n, ok := toFloat(v); ok {
		return formatNumber(n)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// formatNumber keeps at most two decimals and trims trailing zeros.
func formatNumber(n float64) string {
	s := strconv.FormatFloat(n, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

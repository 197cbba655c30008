// Package attribute turns the user's ordered position-items preference into
// the rows the status card renders.
package attribute

import (
	"strings"

	"fleetcard/internal/modules/catalog"
	"fleetcard/internal/modules/position"
)

const DefaultItems = "fixTime,address,speed,totalDistance"

// Row is one resolved field. FirstClass reports which data source the value
// is read from.
type Row struct {
	Key        string
	Source     catalog.Source
	FirstClass bool
	Entry      catalog.Entry
}

// Resolve checks first-class presence before the attribute bag, so a key
// present in both resolves as first-class.
func Resolve(key string, p *position.Position) (Row, bool) {
	if p == nil || key == "" {
		return Row{}, false
	}
	entry, _ := catalog.Lookup(key)
	if _, ok := p.Field(key); ok {
		return Row{Key: key, Source: catalog.SourceFirstClass, FirstClass: true, Entry: entry}, true
	}
	if _, ok := p.Attribute(key); ok {
		return Row{Key: key, Source: catalog.SourceAttribute, Entry: entry}, true
	}
	return Row{}, false
}

// ResolveAll is a stable filter over the comma-separated items: keys absent
// from both sources are dropped, duplicates are kept.
func ResolveAll(items string, p *position.Position) []Row {
	if p == nil {
		return nil
	}
	keys := SplitItems(items)
	rows := make([]Row, 0, len(keys))
	for _, key := range keys {
		if row, ok := Resolve(key, p); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// SplitItems splits a preference string into keys, trimming whitespace.
func SplitItems(items string) []string {
	parts := strings.Split(items, ",")
	keys := make([]string, 0, len(parts))
	for _, part := range parts {
		keys = append(keys, strings.TrimSpace(part))
	}
	return keys
}

// Value returns the raw value a row points at.
func (r Row) Value(p *position.Position) (any, bool) {
	if p == nil {
		return nil, false
	}
	if r.FirstClass {
		return p.Field(r.Key)
	}
	return p.Attribute(r.Key)
}

package attribute

import (
	"reflect"
	"testing"
	"time"

	"fleetcard/internal/modules/catalog"
	"fleetcard/internal/modules/position"
)

func keysOf(rows []Row) []string {
	keys := make([]string, len(rows))
	for i, r := range rows {
		keys[i] = r.Key
	}
	return keys
}

func samplePosition() *position.Position {
	fix := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)
	return &position.Position{
		ID:         1,
		DeviceID:   5,
		FixTime:    &fix,
		Speed:      10,
		Attributes: map[string]any{"address": "Main St 1", "ignition": true},
	}
}

func TestResolveAll_DefaultItems(t *testing.T) {
	rows := ResolveAll(DefaultItems, samplePosition())
	want := []string{"fixTime", "address", "speed"}
	if got := keysOf(rows); !reflect.DeepEqual(got, want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
	if !rows[0].FirstClass || rows[1].FirstClass || !rows[2].FirstClass {
		t.Errorf("unexpected source classes: %+v", rows)
	}
	if rows[1].Source != catalog.SourceAttribute {
		t.Errorf("address source = %v, want attribute", rows[1].Source)
	}
}

func TestResolveAll_PreservesOrderAndDuplicates(t *testing.T) {
	rows := ResolveAll("speed,ignition,missing,speed,fixTime", samplePosition())
	want := []string{"speed", "ignition", "speed", "fixTime"}
	if got := keysOf(rows); !reflect.DeepEqual(got, want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
}

func TestResolveAll_NoPosition(t *testing.T) {
	if rows := ResolveAll(DefaultItems, nil); len(rows) != 0 {
		t.Fatalf("expected no rows without a position, got %v", keysOf(rows))
	}
}

func TestResolveAll_EmptyItems(t *testing.T) {
	if rows := ResolveAll("", samplePosition()); len(rows) != 0 {
		t.Fatalf("expected no rows, got %v", keysOf(rows))
	}
}

func TestResolveAll_Idempotent(t *testing.T) {
	p := samplePosition()
	a := ResolveAll(DefaultItems+",ignition", p)
	b := ResolveAll(DefaultItems+",ignition", p)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("resolution not idempotent: %v vs %v", a, b)
	}
}

func TestResolve_FirstClassWinsOverAttribute(t *testing.T) {
	p := samplePosition()
	p.Attributes["speed"] = 99.0

	row, ok := Resolve("speed", p)
	if !ok {
		t.Fatal("speed not resolved")
	}
	if !row.FirstClass || row.Source != catalog.SourceFirstClass {
		t.Fatalf("speed resolved as %v, want first-class", row.Source)
	}
	if v, _ := row.Value(p); v != 10.0 {
		t.Errorf("value = %v, want first-class 10", v)
	}
}

func TestResolve_UnknownAttributeGetsGenericEntry(t *testing.T) {
	row, ok := Resolve("ignition", samplePosition())
	if !ok {
		t.Fatal("ignition not resolved")
	}
	if row.Entry.Style != catalog.StyleGeneric || row.Entry.Icon != "" {
		t.Errorf("unexpected entry %+v", row.Entry)
	}
}

func TestSplitItems_TrimsWhitespace(t *testing.T) {
	got := SplitItems(" fixTime , speed")
	if !reflect.DeepEqual(got, []string{"fixTime", "speed"}) {
		t.Errorf("SplitItems = %v", got)
	}
}

func TestResolveAll_NullFirstClassFieldsResolve(t *testing.T) {
	p := &position.Position{DeviceID: 5, Attributes: map[string]any{"totalDistance": 1000.0}}
	p.MarkNull("address")
	p.MarkNull("fixTime")

	got := keysOf(ResolveAll(DefaultItems, p))
	want := []string{"fixTime", "address", "speed", "totalDistance"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("keys = %v, want %v", got, want)
	}
	if row, _ := Resolve("address", p); !row.FirstClass {
		t.Error("null address should resolve as first-class")
	}
}

// README: Position is the latest telemetry snapshot reported for a device.
package position

import (
	"encoding/json"
	"time"

	"fleetcard/internal/types"
)

// nullableKeys are the optional first-class fields. The server sends them as
// null when it has no value, and a null key still counts as present.
var nullableKeys = []string{"serverTime", "deviceTime", "fixTime", "address"}

// Position mirrors the tracking server's position object. Optional
// first-class fields are pointers; a nil pointer is present only when the
// key was sent, possibly as null.
type Position struct {
	ID         types.ID       `json:"id"`
	DeviceID   types.ID       `json:"deviceId"`
	Protocol   string         `json:"protocol"`
	ServerTime *time.Time     `json:"serverTime,omitempty"`
	DeviceTime *time.Time     `json:"deviceTime,omitempty"`
	FixTime    *time.Time     `json:"fixTime,omitempty"`
	Outdated   bool           `json:"outdated"`
	Valid      bool           `json:"valid"`
	Latitude   float64        `json:"latitude"`
	Longitude  float64        `json:"longitude"`
	Altitude   float64        `json:"altitude"`
	Speed      float64        `json:"speed"` // knots
	Course     float64        `json:"course"`
	Address    *string        `json:"address,omitempty"`
	Accuracy   float64        `json:"accuracy"`
	Attributes map[string]any `json:"attributes"`

	nulls map[string]bool
}

type wirePosition Position

func (p *Position) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var w wirePosition
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = Position(w)
	p.nulls = nil
	for _, key := range nullableKeys {
		if v, ok := raw[key]; ok && string(v) == "null" {
			p.MarkNull(key)
		}
	}
	return nil
}

// MarshalJSON writes present-but-null keys back as null.
func (p Position) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(wirePosition(p))
	if err != nil || len(p.nulls) == 0 {
		return data, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for key := range p.nulls {
		if _, ok := raw[key]; !ok {
			raw[key] = json.RawMessage("null")
		}
	}
	return json.Marshal(raw)
}

// MarkNull records an optional key as sent with a null value.
func (p *Position) MarkNull(key string) {
	if p.nulls == nil {
		p.nulls = make(map[string]bool)
	}
	p.nulls[key] = true
}

// Field returns the value of a first-class field and whether the position
// carries it. Keys are the wire names.
func (p *Position) Field(key string) (any, bool) {
	switch key {
	case "id":
		return p.ID, true
	case "deviceId":
		return p.DeviceID, true
	case "protocol":
		return p.Protocol, true
	case "serverTime":
		return p.timeField(key, p.ServerTime)
	case "deviceTime":
		return p.timeField(key, p.DeviceTime)
	case "fixTime":
		return p.timeField(key, p.FixTime)
	case "outdated":
		return p.Outdated, true
	case "valid":
		return p.Valid, true
	case "latitude":
		return p.Latitude, true
	case "longitude":
		return p.Longitude, true
	case "altitude":
		return p.Altitude, true
	case "speed":
		return p.Speed, true
	case "course":
		return p.Course, true
	case "address":
		if p.Address == nil {
			return nil, p.nulls["address"]
		}
		return *p.Address, true
	case "accuracy":
		return p.Accuracy, true
	}
	return nil, false
}

// Attribute looks a key up in the free-form attribute bag.
func (p *Position) Attribute(key string) (any, bool) {
	if p.Attributes == nil {
		return nil, false
	}
	v, ok := p.Attributes[key]
	return v, ok
}

func (p *Position) Point() types.Point {
	return types.Point{Lat: p.Latitude, Lng: p.Longitude}
}

func (p *Position) timeField(key string, t *time.Time) (any, bool) {
	if t == nil {
		return nil, p.nulls[key]
	}
	return *t, true
}

// README: Geofence payloads exchanged with the tracking server.
package geofence

import (
	"strconv"

	"fleetcard/internal/types"
)

const DefaultRadius = 50.0

// Spec is the body of a geofence creation request.
type Spec struct {
	Name string `json:"name"`
	Area string `json:"area"`
}

type Geofence struct {
	ID          types.ID       `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Area        string         `json:"area"`
	Attributes  map[string]any `json:"attributes,omitempty"`
}

// PermissionLink binds a device to a geofence.
type PermissionLink struct {
	DeviceID   types.ID `json:"deviceId"`
	GeofenceID types.ID `json:"geofenceId"`
}

// CircleArea encodes a circle as the server's geometry literal,
// e.g. "CIRCLE (10 20, 50)".
func CircleArea(center types.Point, radius float64) string {
	return "CIRCLE (" + coord(center.Lat) + " " + coord(center.Lng) + ", " + coord(radius) + ")"
}

func NewSpec(name string, center types.Point, radius float64) Spec {
	return Spec{Name: name, Area: CircleArea(center, radius)}
}

func SettingsPath(id types.ID) string {
	return "/settings/geofence/" + id.String()
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// README: Device as served by the tracking server, and the full list snapshot.
package device

import (
	"time"

	"fleetcard/internal/types"
)

const imageAttribute = "deviceImage"

type Device struct {
	ID         types.ID       `json:"id"`
	UniqueID   string         `json:"uniqueId"`
	Name       string         `json:"name"`
	Status     string         `json:"status"`
	Disabled   bool           `json:"disabled"`
	LastUpdate *time.Time     `json:"lastUpdate,omitempty"`
	PositionID types.ID       `json:"positionId"`
	Attributes map[string]any `json:"attributes"`
}

// Snapshot is the complete device list returned by the server.
type Snapshot []Device

// Image returns the uploaded display image name, if any.
func (d *Device) Image() string {
	if d.Attributes == nil {
		return ""
	}
	s, _ := d.Attributes[imageAttribute].(string)
	return s
}

// MediaURL is empty when the device has no image.
func (d *Device) MediaURL() string {
	img := d.Image()
	if img == "" {
		return ""
	}
	return "/api/media/" + d.UniqueID + "/" + img
}

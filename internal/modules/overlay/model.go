// README: Overlay props, UI state and the rendered card view model.
package overlay

import (
	"errors"

	"fleetcard/internal/modules/action"
	"fleetcard/internal/modules/links"
	"fleetcard/internal/modules/position"
	"fleetcard/internal/types"
)

var (
	ErrNotFound = errors.New("overlay not found")
	ErrClosed   = errors.New("overlay closed")
	ErrBadProps = errors.New("invalid overlay props")
)

// Props are the inputs of one render call.
type Props struct {
	DeviceID       types.ID           `json:"deviceId"`
	Position       *position.Position `json:"position,omitempty"`
	DisableActions bool               `json:"disableActions"`
	DesktopPadding Padding            `json:"desktopPadding,omitempty"`
}

func (p Props) Validate() error {
	if p.DeviceID <= 0 {
		return ErrBadProps
	}
	if p.Position != nil && p.Position.DeviceID != 0 && p.Position.DeviceID != p.DeviceID {
		return ErrBadProps
	}
	if !p.DesktopPadding.Valid() {
		return ErrBadProps
	}
	return nil
}

// UIState is owned by a single overlay instance.
type UIState struct {
	MenuAnchor *action.Anchor `json:"menuAnchor,omitempty"`
	Removing   bool           `json:"removing"`
}

type Card struct {
	DeviceID       types.ID      `json:"deviceId"`
	Name           string        `json:"name"`
	MediaURL       string        `json:"mediaUrl,omitempty"`
	DirectionsURL  string        `json:"directionsUrl,omitempty"`
	Rows           []Row         `json:"rows,omitempty"`
	DetailsURL     string        `json:"detailsUrl,omitempty"`
	Actions        []ActionView  `json:"actions"`
	Menu           *Menu         `json:"menu,omitempty"`
	Confirm        *Confirmation `json:"confirm,omitempty"`
	DesktopPadding string        `json:"desktopPadding,omitempty"`
	UI             UIState       `json:"ui"`
}

type Row struct {
	Key   string `json:"key"`
	Icon  string `json:"icon,omitempty"`
	Value string `json:"value"`
}

type ActionView struct {
	Action  action.Action `json:"action"`
	Title   string        `json:"title"`
	Enabled bool          `json:"enabled"`
}

// Menu is the extra menu, present only while it is open.
type Menu struct {
	Anchor action.Anchor `json:"anchor"`
	Items  []MenuItem    `json:"items"`
}

// MenuItem either opens URL or triggers Command on the overlay.
type MenuItem struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	URL     string `json:"url,omitempty"`
	Command string `json:"command,omitempty"`
}

// Confirmation asks the user to confirm removing a resource.
type Confirmation struct {
	Resource string   `json:"resource"`
	ID       types.ID `json:"id"`
}

func menuLinks(ls []links.Link) []MenuItem {
	out := make([]MenuItem, 0, len(ls))
	for _, l := range ls {
		out = append(out, MenuItem{Name: l.Name, Title: l.Title, URL: l.URL})
	}
	return out
}

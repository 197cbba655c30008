// Package action gates and executes the status card's quick actions.
package action

import (
	"errors"

	"fleetcard/internal/types"
)

type Action string

const (
	ActionExtraMenu Action = "extra"
	ActionClose     Action = "close"
	ActionReplay    Action = "replay"
	ActionCommand   Action = "command"
	ActionEdit      Action = "edit"
	ActionRemove    Action = "remove"
	ActionShare     Action = "share"
)

// All lists the actions in card order.
var All = []Action{ActionExtraMenu, ActionClose, ActionReplay, ActionCommand, ActionEdit, ActionRemove, ActionShare}

var titles = map[Action]string{
	ActionExtraMenu: "sharedExtra",
	ActionClose:     "sharedRemoveCard",
	ActionReplay:    "reportReplay",
	ActionCommand:   "commandTitle",
	ActionEdit:      "sharedEdit",
	ActionRemove:    "sharedRemove",
	ActionShare:     "deviceShare",
}

var (
	ErrDisabled      = errors.New("action disabled")
	ErrUnknownAction = errors.New("unknown action")
)

func Parse(v string) (Action, error) {
	a := Action(v)
	if _, ok := titles[a]; !ok {
		return "", ErrUnknownAction
	}
	return a, nil
}

// TitleKey is the translation key of the action's label.
func (a Action) TitleKey() string { return titles[a] }

// Gate holds the state every action predicate is evaluated against.
type Gate struct {
	HasPosition     bool
	ActionsDisabled bool
	DeviceReadonly  bool
	ShareDisabled   bool
	TemporaryUser   bool
}

func (g Gate) Enabled(a Action) bool {
	switch a {
	case ActionExtraMenu:
		return g.HasPosition
	case ActionClose:
		return true
	case ActionReplay:
		return g.HasPosition && !g.ActionsDisabled
	case ActionCommand:
		return !g.ActionsDisabled
	case ActionEdit, ActionRemove:
		return !g.ActionsDisabled && !g.DeviceReadonly
	case ActionShare:
		return !g.ShareDisabled && !g.TemporaryUser
	}
	return false
}

type Anchor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Effects are the side effects actions can have on the hosting overlay.
type Effects interface {
	OpenMenu(a Anchor)
	Close()
	GoTo(path string)
	RequestRemoval() error
}

type Dispatcher struct {
	deviceID types.ID
	gate     Gate
	effects  Effects
}

func NewDispatcher(deviceID types.ID, gate Gate, effects Effects) *Dispatcher {
	return &Dispatcher{deviceID: deviceID, gate: gate, effects: effects}
}

// Dispatch runs the action's effect. Disabled actions do nothing and
// return ErrDisabled.
func (d *Dispatcher) Dispatch(a Action, anchor Anchor) error {
	if _, ok := titles[a]; !ok {
		return ErrUnknownAction
	}
	if !d.gate.Enabled(a) {
		return ErrDisabled
	}

	device := "/settings/device/" + d.deviceID.String()
	switch a {
	case ActionExtraMenu:
		d.effects.OpenMenu(anchor)
	case ActionClose:
		d.effects.Close()
	case ActionReplay:
		d.effects.GoTo("/replay")
	case ActionCommand:
		d.effects.GoTo(device + "/command")
	case ActionEdit:
		d.effects.GoTo(device)
	case ActionRemove:
		return d.effects.RequestRemoval()
	case ActionShare:
		d.effects.GoTo(device + "/share")
	}
	return nil
}

// Status is one action with its current availability.
type Status struct {
	Action   Action `json:"action"`
	TitleKey string `json:"titleKey"`
	Enabled  bool   `json:"enabled"`
}

func (d *Dispatcher) Statuses() []Status {
	out := make([]Status, 0, len(All))
	for _, a := range All {
		out = append(out, Status{Action: a, TitleKey: a.TitleKey(), Enabled: d.gate.Enabled(a)})
	}
	return out
}

package geofence

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fleetcard/internal/modules/position"
	"fleetcard/internal/types"
)

type State string

const (
	StateIdle                State = "idle"
	StateGeofenceSubmitted   State = "geofence_submitted"
	StatePermissionSubmitted State = "permission_submitted"
	StateNavigated           State = "navigated"
	StateFailed              State = "failed"
)

// AllowedTransitions is the creation flow as code. Navigated and Failed end a
// run; a new run starts from either of them or from Idle.
var AllowedTransitions = map[State][]State{
	StateIdle:                {StateGeofenceSubmitted},
	StateGeofenceSubmitted:   {StatePermissionSubmitted, StateFailed},
	StatePermissionSubmitted: {StateNavigated, StateFailed},
	StateNavigated:           {StateGeofenceSubmitted},
	StateFailed:              {StateGeofenceSubmitted},
}

func CanTransition(from, to State) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

var (
	ErrBusy       = errors.New("geofence creation already in progress")
	ErrNoPosition = errors.New("device has no position")
)

// PartialFailureError reports a geofence that was created but could not be
// linked to the device. The geofence is left in place.
type PartialFailureError struct {
	GeofenceID types.ID
	DeviceID   types.ID
	Err        error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("geofence %s created but linking device %s failed: %v", e.GeofenceID, e.DeviceID, e.Err)
}

func (e *PartialFailureError) Unwrap() error { return e.Err }

type Remote interface {
	CreateGeofence(ctx context.Context, spec Spec) (Geofence, error)
	CreatePermission(ctx context.Context, link PermissionLink) error
}

type Navigator interface {
	GoTo(path string)
}

// Workflow creates a geofence around a position, links it to the position's
// device and opens its settings. The two submissions are sequential since
// the link needs the server-assigned id.
type Workflow struct {
	mu     sync.Mutex
	state  State
	remote Remote
	nav    Navigator
	name   string
	radius float64
}

func NewWorkflow(remote Remote, nav Navigator, name string, radius float64) *Workflow {
	if radius <= 0 {
		radius = DefaultRadius
	}
	return &Workflow{state: StateIdle, remote: remote, nav: nav, name: name, radius: radius}
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workflow) Run(ctx context.Context, p *position.Position) (Geofence, error) {
	if p == nil {
		return Geofence{}, ErrNoPosition
	}
	if err := w.transition(StateGeofenceSubmitted); err != nil {
		return Geofence{}, err
	}

	item, err := w.remote.CreateGeofence(ctx, NewSpec(w.name, p.Point(), w.radius))
	if err != nil {
		w.fail()
		return Geofence{}, fmt.Errorf("create geofence: %w", err)
	}

	_ = w.transition(StatePermissionSubmitted)
	link := PermissionLink{DeviceID: p.DeviceID, GeofenceID: item.ID}
	if err := w.remote.CreatePermission(ctx, link); err != nil {
		w.fail()
		return item, &PartialFailureError{GeofenceID: item.ID, DeviceID: p.DeviceID, Err: err}
	}

	_ = w.transition(StateNavigated)
	w.nav.GoTo(SettingsPath(item.ID))
	return item, nil
}

func (w *Workflow) transition(to State) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !CanTransition(w.state, to) {
		if to == StateGeofenceSubmitted {
			return ErrBusy
		}
		return fmt.Errorf("geofence workflow: %s -> %s not allowed", w.state, to)
	}
	w.state = to
	return nil
}

func (w *Workflow) fail() {
	w.mu.Lock()
	w.state = StateFailed
	w.mu.Unlock()
}

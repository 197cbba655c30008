package device

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fleetcard/internal/types"
)

type RemovalState string

const (
	RemovalIdle       RemovalState = "idle"
	RemovalConfirming RemovalState = "confirming"
	RemovalDeleting   RemovalState = "deleting"
)

var removalTransitions = map[RemovalState][]RemovalState{
	RemovalIdle:       {RemovalConfirming},
	RemovalConfirming: {RemovalDeleting, RemovalIdle},
	RemovalDeleting:   {RemovalIdle},
}

func CanTransition(from, to RemovalState) bool {
	for _, s := range removalTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

var (
	ErrBusy          = errors.New("device removal already in progress")
	ErrNotConfirming = errors.New("device removal was not requested")
)

// Remote is the slice of the tracking server API removal needs.
type Remote interface {
	DeleteDevice(ctx context.Context, id types.ID) error
	ListDevices(ctx context.Context) (Snapshot, error)
}

type Refresher interface {
	Refresh(s Snapshot)
}

// RemovalWorkflow drives confirm -> delete -> refresh for one device.
type RemovalWorkflow struct {
	mu       sync.Mutex
	state    RemovalState
	deviceID types.ID
	remote   Remote
	cache    Refresher
}

func NewRemovalWorkflow(deviceID types.ID, remote Remote, cache Refresher) *RemovalWorkflow {
	return &RemovalWorkflow{state: RemovalIdle, deviceID: deviceID, remote: remote, cache: cache}
}

func (w *RemovalWorkflow) State() RemovalState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Request opens the confirmation step.
func (w *RemovalWorkflow) Request() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == RemovalConfirming {
		return nil
	}
	if !CanTransition(w.state, RemovalConfirming) {
		return ErrBusy
	}
	w.state = RemovalConfirming
	return nil
}

// Resolve applies the user's answer. Every path ends in RemovalIdle; a
// failed delete or refresh is returned to the caller.
func (w *RemovalWorkflow) Resolve(ctx context.Context, confirmed bool) error {
	w.mu.Lock()
	if w.state != RemovalConfirming {
		state := w.state
		w.mu.Unlock()
		if state == RemovalDeleting {
			return ErrBusy
		}
		return ErrNotConfirming
	}
	if !confirmed {
		w.state = RemovalIdle
		w.mu.Unlock()
		return nil
	}
	w.state = RemovalDeleting
	w.mu.Unlock()

	defer w.reset()

	if err := w.remote.DeleteDevice(ctx, w.deviceID); err != nil {
		return fmt.Errorf("delete device %s: %w", w.deviceID, err)
	}
	snapshot, err := w.remote.ListDevices(ctx)
	if err != nil {
		return fmt.Errorf("refresh devices: %w", err)
	}
	w.cache.Refresh(snapshot)
	return nil
}

func (w *RemovalWorkflow) reset() {
	w.mu.Lock()
	w.state = RemovalIdle
	w.mu.Unlock()
}

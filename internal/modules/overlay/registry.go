package overlay

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"fleetcard/internal/modules/session"
)

// SessionLoader resolves the session of the user owning a card.
type SessionLoader interface {
	Load(ctx context.Context, email string) (session.State, error)
}

// Registry tracks live overlays. Cards missing from memory are rebuilt from
// the state store on first access.
type Registry struct {
	mu       sync.Mutex
	live     map[string]*Overlay
	deps     Deps
	store    StateStore
	sessions SessionLoader
}

func NewRegistry(deps Deps, store StateStore, sessions SessionLoader) *Registry {
	return &Registry{live: make(map[string]*Overlay), deps: deps, store: store, sessions: sessions}
}

func NewID() string {
	return uuid.NewString()
}

func (r *Registry) Mount(ctx context.Context, owner string, props Props) (*Overlay, error) {
	sess, err := r.sessions.Load(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	o, err := New(NewID(), owner, sess, props, r.deps, r.remove)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.live[o.ID()] = o
	r.mu.Unlock()

	if err := r.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Get returns the caller's overlay. The state store is authoritative: a
// live overlay is resynced from it, and one whose state is gone is dropped.
// Overlays owned by someone else are reported as not found.
func (r *Registry) Get(ctx context.Context, owner, id string) (*Overlay, error) {
	st, err := r.store.Load(ctx, id)
	if errors.Is(err, ErrNotFound) {
		r.drop(id)
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if st.Owner != owner {
		return nil, ErrNotFound
	}

	r.mu.Lock()
	o, ok := r.live[id]
	r.mu.Unlock()
	if ok {
		if err := o.sync(ctx, st); err != nil {
			return nil, err
		}
		return o, nil
	}

	sess, err := r.sessions.Load(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	o, err = New(st.ID, owner, sess, st.Props, r.deps, r.remove)
	if err != nil {
		return nil, err
	}
	o.restore(st.UI)

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.live[id]; ok {
		return existing, nil
	}
	r.live[id] = o
	return o, nil
}

// drop forgets an overlay closed elsewhere without touching the store.
func (r *Registry) drop(id string) {
	r.mu.Lock()
	o, ok := r.live[id]
	delete(r.live, id)
	r.mu.Unlock()
	if ok {
		o.detach()
	}
}

// Save persists the overlay's current props and UI state.
func (r *Registry) Save(ctx context.Context, o *Overlay) error {
	if o.Closed() {
		return nil
	}
	return r.store.Save(ctx, State{ID: o.ID(), Owner: o.Owner(), Props: o.Props(), UI: o.UI()})
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	delete(r.live, id)
	r.mu.Unlock()

	if err := r.store.Delete(context.Background(), id); err != nil {
		log.Printf("overlay %s: delete state: %v", id, err)
	}
}

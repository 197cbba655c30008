package device

import (
	"context"
	"errors"
	"sync"
	"testing"

	"fleetcard/internal/types"
)

// mockRemote is an in-memory Remote recording every call.
type mockRemote struct {
	mu        sync.Mutex
	deleted   []types.ID
	listCalls int
	deleteErr error
	listErr   error
	snapshot  Snapshot
	block     chan struct{}
}

func (m *mockRemote) DeleteDevice(_ context.Context, id types.ID) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, id)
	return m.deleteErr
}

func (m *mockRemote) ListDevices(_ context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	return m.snapshot, m.listErr
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to RemovalState
		want     bool
	}{
		{RemovalIdle, RemovalConfirming, true},
		{RemovalConfirming, RemovalDeleting, true},
		{RemovalConfirming, RemovalIdle, true},
		{RemovalDeleting, RemovalIdle, true},
		{RemovalIdle, RemovalDeleting, false},
		{RemovalDeleting, RemovalConfirming, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestRemoval_ConfirmedRefreshesCache(t *testing.T) {
	cache := NewCache()
	cache.Refresh(Snapshot{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}})
	remote := &mockRemote{snapshot: Snapshot{{ID: 2, Name: "b"}}}

	w := NewRemovalWorkflow(1, remote, cache)
	if err := w.Request(); err != nil {
		t.Fatalf("request: %v", err)
	}
	if w.State() != RemovalConfirming {
		t.Fatalf("state = %s, want confirming", w.State())
	}
	if err := w.Resolve(context.Background(), true); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if w.State() != RemovalIdle {
		t.Errorf("state = %s, want idle", w.State())
	}
	if len(remote.deleted) != 1 || remote.deleted[0] != 1 {
		t.Errorf("deleted = %v", remote.deleted)
	}
	if _, ok := cache.Get(1); ok {
		t.Error("device 1 still cached after refresh")
	}
	if cache.Len() != 1 {
		t.Errorf("cache len = %d, want 1", cache.Len())
	}
}

func TestRemoval_CancelledMakesNoCalls(t *testing.T) {
	remote := &mockRemote{}
	w := NewRemovalWorkflow(1, remote, NewCache())
	_ = w.Request()

	if err := w.Resolve(context.Background(), false); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if w.State() != RemovalIdle {
		t.Errorf("state = %s, want idle", w.State())
	}
	if len(remote.deleted) != 0 || remote.listCalls != 0 {
		t.Errorf("unexpected calls: deleted=%v list=%d", remote.deleted, remote.listCalls)
	}
}

func TestRemoval_ListFailureSurfacesAndResets(t *testing.T) {
	listErr := errors.New("server says no")
	cache := NewCache()
	cache.Refresh(Snapshot{{ID: 1}})
	remote := &mockRemote{listErr: listErr}

	w := NewRemovalWorkflow(1, remote, cache)
	_ = w.Request()
	err := w.Resolve(context.Background(), true)
	if !errors.Is(err, listErr) {
		t.Fatalf("err = %v, want list error", err)
	}
	if w.State() != RemovalIdle {
		t.Errorf("state = %s, want idle", w.State())
	}
	if _, ok := cache.Get(1); !ok {
		t.Error("cache should keep the last good snapshot")
	}
}

func TestRemoval_DeleteFailureSkipsRefresh(t *testing.T) {
	remote := &mockRemote{deleteErr: errors.New("forbidden")}
	w := NewRemovalWorkflow(1, remote, NewCache())
	_ = w.Request()

	if err := w.Resolve(context.Background(), true); err == nil {
		t.Fatal("expected error")
	}
	if remote.listCalls != 0 {
		t.Errorf("list called %d times after failed delete", remote.listCalls)
	}
	if w.State() != RemovalIdle {
		t.Errorf("state = %s, want idle", w.State())
	}
}

func TestRemoval_ResolveWithoutRequest(t *testing.T) {
	w := NewRemovalWorkflow(1, &mockRemote{}, NewCache())
	if err := w.Resolve(context.Background(), true); err != ErrNotConfirming {
		t.Fatalf("err = %v, want ErrNotConfirming", err)
	}
}

func TestRemoval_BusyWhileDeleting(t *testing.T) {
	remote := &mockRemote{block: make(chan struct{})}
	w := NewRemovalWorkflow(1, remote, NewCache())
	_ = w.Request()

	done := make(chan error, 1)
	go func() { done <- w.Resolve(context.Background(), true) }()

	for w.State() != RemovalDeleting {
	}
	if err := w.Request(); err != ErrBusy {
		t.Errorf("Request during delete = %v, want ErrBusy", err)
	}
	if err := w.Resolve(context.Background(), true); err != ErrBusy {
		t.Errorf("Resolve during delete = %v, want ErrBusy", err)
	}

	close(remote.block)
	if err := <-done; err != nil {
		t.Fatalf("resolve: %v", err)
	}
}

func TestCache_RefreshReplacesEverything(t *testing.T) {
	c := NewCache()
	c.Refresh(Snapshot{{ID: 1}, {ID: 2}})
	c.Refresh(Snapshot{{ID: 3}})
	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Len())
	}
	if _, ok := c.Get(3); !ok {
		t.Error("device 3 missing")
	}
}

func TestDevice_MediaURL(t *testing.T) {
	d := Device{UniqueID: "abc", Attributes: map[string]any{"deviceImage": "truck.png"}}
	if got := d.MediaURL(); got != "/api/media/abc/truck.png" {
		t.Errorf("MediaURL = %q", got)
	}
	if got := (&Device{UniqueID: "abc"}).MediaURL(); got != "" {
		t.Errorf("MediaURL without image = %q", got)
	}
}

func TestCache_Sync(t *testing.T) {
	c := NewCache()
	if err := c.Sync(context.Background(), &mockRemote{snapshot: Snapshot{{ID: 1}, {ID: 3}}}); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("len = %d", c.Len())
	}

	if err := c.Sync(context.Background(), &mockRemote{listErr: errors.New("down")}); err == nil {
		t.Fatal("expected error")
	}
	if c.Len() != 2 {
		t.Errorf("failed sync must keep the last snapshot, len = %d", c.Len())
	}
}

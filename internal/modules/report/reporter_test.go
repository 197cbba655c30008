package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"fleetcard/internal/modules/geofence"
	"fleetcard/internal/remote"
)

type mockPublisher struct {
	mu       sync.Mutex
	exchange string
	msgs     []amqp.Publishing
	err      error
}

func (m *mockPublisher) PublishWithContext(_ context.Context, exchange, _ string, _, _ bool, msg amqp.Publishing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exchange = exchange
	m.msgs = append(m.msgs, msg)
	return m.err
}

type countingReporter struct{ n int }

func (c *countingReporter) Report(context.Context, string, error) { c.n++ }

func TestNewEvent_PartialFailureIsOrphanedGeofence(t *testing.T) {
	reqErr := &remote.RequestError{Method: "POST", Path: "/api/permissions", Status: 400, Text: "Permission denied"}
	err := &geofence.PartialFailureError{GeofenceID: 77, DeviceID: 5, Err: reqErr}

	ev := NewEvent("geofence.create", err, time.Unix(100, 0))
	if ev.Event != EventGeofenceOrphaned {
		t.Fatalf("event = %s", ev.Event)
	}
	if ev.GeofenceID == nil || *ev.GeofenceID != 77 || ev.DeviceID == nil || *ev.DeviceID != 5 {
		t.Errorf("ids = %v / %v", ev.GeofenceID, ev.DeviceID)
	}
	if ev.Status != 400 || ev.Timestamp != 100 {
		t.Errorf("status/timestamp = %d/%d", ev.Status, ev.Timestamp)
	}
}

func TestNewEvent_PlainFailure(t *testing.T) {
	ev := NewEvent("device.remove", fmt.Errorf("delete device 5: %w", errors.New("boom")), time.Unix(1, 0))
	if ev.Event != EventWorkflowFailed || ev.GeofenceID != nil || ev.Status != 0 {
		t.Errorf("event = %+v", ev)
	}
	if ev.Error != "delete device 5: boom" {
		t.Errorf("error = %q", ev.Error)
	}
}

func TestAMQPReporter_PublishesToFanout(t *testing.T) {
	pub := &mockPublisher{}
	r := NewPublisherReporter(pub)
	r.now = func() time.Time { return time.Unix(42, 0) }

	r.Report(context.Background(), "geofence.create", errors.New("boom"))

	if pub.exchange != ExchangeName || len(pub.msgs) != 1 {
		t.Fatalf("exchange=%q msgs=%d", pub.exchange, len(pub.msgs))
	}
	var ev Event
	if err := json.Unmarshal(pub.msgs[0].Body, &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Workflow != "geofence.create" || ev.Timestamp != 42 {
		t.Errorf("event = %+v", ev)
	}
	if pub.msgs[0].ContentType != "application/json" {
		t.Errorf("content type = %s", pub.msgs[0].ContentType)
	}
}

func TestAMQPReporter_IgnoresNilAndPublishErrors(t *testing.T) {
	pub := &mockPublisher{err: errors.New("channel closed")}
	r := NewPublisherReporter(pub)
	r.Report(context.Background(), "x", nil)
	if len(pub.msgs) != 0 {
		t.Fatalf("nil error published")
	}
	r.Report(context.Background(), "x", errors.New("boom"))
	if len(pub.msgs) != 1 {
		t.Fatalf("msgs = %d", len(pub.msgs))
	}
}

func TestMulti(t *testing.T) {
	a, b := &countingReporter{}, &countingReporter{}
	Multi{a, LogReporter{}, b}.Report(context.Background(), "x", errors.New("boom"))
	if a.n != 1 || b.n != 1 {
		t.Errorf("counts = %d, %d", a.n, b.n)
	}
}

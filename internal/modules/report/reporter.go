// README: Workflow failure reporting. Failures are always logged and, when a
// broker is configured, also published for operators.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"fleetcard/internal/modules/geofence"
	"fleetcard/internal/remote"
	"fleetcard/internal/types"
)

const (
	ExchangeName = "fleet.events"
	QueueName    = "fleetcard_failures"

	EventWorkflowFailed   = "workflow.failed"
	EventGeofenceOrphaned = "geofence.orphaned"
)

// Reporter receives every error a workflow surfaces.
type Reporter interface {
	Report(ctx context.Context, workflow string, err error)
}

type LogReporter struct{}

func (LogReporter) Report(_ context.Context, workflow string, err error) {
	if err == nil {
		return
	}
	var reqErr *remote.RequestError
	if errors.As(err, &reqErr) {
		log.Printf("%s failed: %s %s -> %d: %s", workflow, reqErr.Method, reqErr.Path, reqErr.Status, reqErr.Error())
		return
	}
	log.Printf("%s failed: %v", workflow, err)
}

// Publisher is the part of *amqp.Channel the reporter uses.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type AMQPReporter struct {
	pub Publisher
	now func() time.Time
}

// NewAMQPReporter declares the fanout exchange and a durable queue bound to it.
func NewAMQPReporter(conn *amqp.Connection) (*AMQPReporter, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(ExchangeName, "fanout", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(QueueName, "", ExchangeName, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue: %w", err)
	}
	return NewPublisherReporter(ch), nil
}

func NewPublisherReporter(pub Publisher) *AMQPReporter {
	return &AMQPReporter{pub: pub, now: time.Now}
}

// Event is the JSON body published for a failure.
type Event struct {
	Event      string    `json:"event"`
	Workflow   string    `json:"workflow"`
	DeviceID   *types.ID `json:"deviceId,omitempty"`
	GeofenceID *types.ID `json:"geofenceId,omitempty"`
	Status     int       `json:"status,omitempty"`
	Error      string    `json:"error"`
	Timestamp  int64     `json:"timestamp"`
}

func NewEvent(workflow string, err error, at time.Time) Event {
	ev := Event{
		Event:     EventWorkflowFailed,
		Workflow:  workflow,
		Error:     err.Error(),
		Timestamp: at.Unix(),
	}
	var partial *geofence.PartialFailureError
	if errors.As(err, &partial) {
		ev.Event = EventGeofenceOrphaned
		gid, did := partial.GeofenceID, partial.DeviceID
		ev.GeofenceID = &gid
		ev.DeviceID = &did
	}
	var reqErr *remote.RequestError
	if errors.As(err, &reqErr) {
		ev.Status = reqErr.Status
	}
	return ev
}

func (r *AMQPReporter) Report(ctx context.Context, workflow string, err error) {
	if err == nil {
		return
	}
	body, mErr := json.Marshal(NewEvent(workflow, err, r.now()))
	if mErr != nil {
		log.Printf("report marshal: %v", mErr)
		return
	}
	pubErr := r.pub.PublishWithContext(ctx, ExchangeName, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if pubErr != nil {
		log.Printf("report publish: %v", pubErr)
	}
}

// Multi fans a failure out to every reporter in order.
type Multi []Reporter

func (m Multi) Report(ctx context.Context, workflow string, err error) {
	for _, r := range m {
		r.Report(ctx, workflow, err)
	}
}

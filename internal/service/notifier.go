package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/agri-gov-api/pkg/jobs"
)

// Notification describes a completed governance action for downstream
// delivery (email, push). Dispatch is best-effort and happens after the
// owning transaction commits; a delivery failure never rolls a transition
// back.
type Notification struct {
	Event      string                 `json:"event"`
	EntityType string                 `json:"entity_type"`
	EntityID   string                 `json:"entity_id"`
	ActorID    string                 `json:"actor_id"`
	OccurredAt time.Time              `json:"occurred_at"`
	Detail     map[string]interface{} `json:"detail,omitempty"`
}

// Notifier dispatches notifications fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

const notificationTask = "notification.dispatch"

// QueueNotifier hands notifications to the background queue.
type QueueNotifier struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewQueueNotifier wires the dispatch handler into the queue.
func NewQueueNotifier(queue *jobs.Queue, logger *zap.Logger) *QueueNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &QueueNotifier{queue: queue, logger: logger}
	queue.Register(notificationTask, n.dispatch)
	return n
}

// Notify enqueues the notification. Enqueue failures are logged and
// swallowed.
func (n *QueueNotifier) Notify(ctx context.Context, notification Notification) {
	if notification.OccurredAt.IsZero() {
		notification.OccurredAt = time.Now().UTC()
	}
	task := jobs.Task{
		ID:      uuid.NewString(),
		Type:    notificationTask,
		Payload: notification,
	}
	if err := n.queue.Enqueue(task); err != nil {
		n.logger.Warn("failed to enqueue notification", zap.String("event", notification.Event), zap.Error(err))
	}
}

// dispatch is the stand-in delivery handler. Real transports (email, push)
// plug in here.
func (n *QueueNotifier) dispatch(_ context.Context, task jobs.Task) error {
	notification, ok := task.Payload.(Notification)
	if !ok {
		n.logger.Warn("notification task carried unexpected payload", zap.String("task_id", task.ID))
		return nil
	}
	n.logger.Info("notification dispatched",
		zap.String("event", notification.Event),
		zap.String("entity_type", notification.EntityType),
		zap.String("entity_id", notification.EntityID),
		zap.String("actor_id", notification.ActorID),
	)
	return nil
}

// NopNotifier drops every notification. Used in tests and when the queue is
// disabled.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(context.Context, Notification) {}

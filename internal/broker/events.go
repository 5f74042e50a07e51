package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"warehouse-service/internal/models"
	"warehouse-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher announces entity changes on the inventory topic
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishEntityEvent publishes a created/updated/deleted notification keyed
// by entity and id, so changes to one record stay ordered.
func (ep *EventPublisher) PublishEntityEvent(ctx context.Context, event *models.EntityEvent) error {
	if err := ep.producer.PublishEvent(ctx, EventKey(event), event); err != nil {
		util.EventsPublishFailedTotal.WithLabelValues(event.Entity).Inc()
		return err
	}
	util.EventsPublishedTotal.WithLabelValues(event.Entity).Inc()
	return nil
}

// EventKey is the partition key of an entity event
func EventKey(event *models.EntityEvent) string {
	return fmt.Sprintf("%s-%s", event.Entity, event.EntityID)
}

// EventHandler routes incoming messages by event type
type EventHandler struct {
	onEntityEvent func(context.Context, *models.EntityEvent) error
	logger        *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnEntityEvent registers a handler for entity change events
func (eh *EventHandler) OnEntityEvent(handler func(context.Context, *models.EntityEvent) error) {
	eh.onEntityEvent = handler
}

// HandleMessage decodes msg and dispatches it. Unknown event types are skipped.
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var base models.BaseEvent
	if err := json.Unmarshal(msg.Value, &base); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch base.EventType {
	case models.EventTypeEntityCreated, models.EventTypeEntityUpdated, models.EventTypeEntityDeleted:
		if eh.onEntityEvent == nil {
			return nil
		}
		var event models.EntityEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal entity event: %w", err)
		}
		return eh.onEntityEvent(ctx, &event)

	default:
		eh.logger.Debug("Unhandled event type",
			zap.String("event_type", base.EventType),
			zap.String("event_id", base.EventID))
	}

	return nil
}

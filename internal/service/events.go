package service

import (
	"context"
	"time"

	"warehouse-service/internal/models"
	"warehouse-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// changeNotifier records a successful write and announces it on the event stream.
type changeNotifier struct {
	publisher EventPublisher
	logger    *zap.Logger
}

func newChangeNotifier(publisher EventPublisher) changeNotifier {
	return changeNotifier{publisher: publisher, logger: util.GetLogger()}
}

func (n changeNotifier) notify(ctx context.Context, eventType, entity, entityID string) {
	util.EntityWritesTotal.WithLabelValues(entity, eventType).Inc()

	if n.publisher == nil {
		return
	}

	event := &models.EntityEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: eventType,
			Timestamp: time.Now(),
		},
		Entity:   entity,
		EntityID: entityID,
	}

	if err := n.publisher.PublishEntityEvent(ctx, event); err != nil {
		n.logger.Error("Failed to publish entity event",
			zap.String("entity", entity),
			zap.String("entity_id", entityID),
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}

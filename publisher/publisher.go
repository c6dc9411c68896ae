package publisher

import (
	"encoding/json"

	"go.uber.org/zap"

	"ideas-service/events"
	natsClient "ideas-service/nats"
)

// EventPublisher signals the notification collaborator after successful
// mutations. Fire and forget: there are no delivery guarantees and a
// publish failure never fails the mutation. A nil *EventPublisher is valid
// and publishes nothing.
type EventPublisher struct {
	nats   *natsClient.Client
	logger *zap.Logger
}

func NewEventPublisher(nats *natsClient.Client, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{nats: nats, logger: logger}
}

func (p *EventPublisher) publish(subject string, event interface{}) {
	if p == nil || p.nats == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("failed to encode event", zap.String("subject", subject), zap.Error(err))
		return
	}

	if err := p.nats.Publish(subject, data); err != nil {
		p.logger.Warn("failed to publish event", zap.String("subject", subject), zap.Error(err))
		return
	}

	p.logger.Debug("published event", zap.String("subject", subject))
}

func (p *EventPublisher) PublishIdeaCreated(event events.IdeaCreatedEvent) {
	p.publish(events.IdeaCreated, event)
}

func (p *EventPublisher) PublishFollowRequested(event events.FollowRequestedEvent) {
	p.publish(events.FollowRequested, event)
}

func (p *EventPublisher) PublishFollowApproved(event events.FollowApprovedEvent) {
	p.publish(events.FollowApproved, event)
}

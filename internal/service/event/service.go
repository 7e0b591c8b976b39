package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/pkg/messaging"
	"github.com/jwalitptl/hospital-scheduling/pkg/metrics"
)

// Payload is what subscribers receive inside messaging.Message.
type Payload struct {
	EntityID int64       `json:"entity_id"`
	ActorID  int64       `json:"actor_id,omitempty"`
	Data     interface{} `json:"data,omitempty"`
}

type EventService struct {
	broker  messaging.Broker
	channel string
	metrics *metrics.Metrics
	logger  zerolog.Logger
	now     func() time.Time
}

func NewEventService(broker messaging.Broker, channel string, m *metrics.Metrics, logger zerolog.Logger) *EventService {
	return &EventService{
		broker:  broker,
		channel: channel,
		metrics: m,
		logger:  logger.With().Str("component", "events").Logger(),
		now:     time.Now,
	}
}

// Emit writes an audit line for the change and publishes it to the broker.
// Call it after the transaction commits; publish failures are logged only.
func (s *EventService) Emit(ctx context.Context, eventType EventType, entityID int64, payload interface{}) {
	var actorID int64
	if p := model.PrincipalFromContext(ctx); p != nil {
		actorID = p.UserID
	}

	msg := messaging.Message{
		ID:         uuid.NewString(),
		Type:       string(eventType),
		OccurredAt: s.now().UTC(),
		Payload:    Payload{EntityID: entityID, ActorID: actorID, Data: payload},
	}

	s.logger.Info().
		Str("event_id", msg.ID).
		Str("event_type", msg.Type).
		Int64("entity_id", entityID).
		Int64("actor_id", actorID).
		Msg("audit")

	if err := s.broker.Publish(ctx, s.channel, msg); err != nil {
		if s.metrics != nil {
			s.metrics.EventsFailed.WithLabelValues(msg.Type).Inc()
		}
		s.logger.Warn().Err(err).Str("event_type", msg.Type).Msg("failed to publish event")
		return
	}
	if s.metrics != nil {
		s.metrics.EventsPublished.WithLabelValues(msg.Type).Inc()
	}
}

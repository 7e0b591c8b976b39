package event

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/pkg/messaging"
	"github.com/jwalitptl/hospital-scheduling/pkg/metrics"
)

type recordingBroker struct {
	messaging.NoopBroker
	channel string
	sent    []messaging.Message
	err     error
}

func (b *recordingBroker) Publish(_ context.Context, channel string, message interface{}) error {
	if b.err != nil {
		return b.err
	}
	b.channel = channel
	b.sent = append(b.sent, message.(messaging.Message))
	return nil
}

func TestEmitPublishesEnvelope(t *testing.T) {
	broker := &recordingBroker{}
	m := metrics.NewMetrics("test", "events", prometheus.NewRegistry())
	var buf bytes.Buffer
	svc := NewEventService(broker, "hospital.events", m, zerolog.New(&buf))

	ctx := model.WithPrincipal(context.Background(), &model.Principal{UserID: 4, Role: model.RoleAdmin})
	svc.Emit(ctx, ProcedureCreated, 12, map[string]string{"status": "PLANNED"})

	require.Len(t, broker.sent, 1)
	assert.Equal(t, "hospital.events", broker.channel)
	msg := broker.sent[0]
	assert.Equal(t, "procedure.created", msg.Type)
	assert.NotEmpty(t, msg.ID)
	payload := msg.Payload.(Payload)
	assert.Equal(t, int64(12), payload.EntityID)
	assert.Equal(t, int64(4), payload.ActorID)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.EventsPublished.WithLabelValues("procedure.created")))
	assert.Contains(t, buf.String(), `"event_type":"procedure.created"`)
}

func TestEmitSwallowsBrokerFailure(t *testing.T) {
	broker := &recordingBroker{err: errors.New("redis down")}
	m := metrics.NewMetrics("test", "events", prometheus.NewRegistry())
	svc := NewEventService(broker, "hospital.events", m, zerolog.Nop())

	assert.NotPanics(t, func() { svc.Emit(context.Background(), PatientDeleted, 3, nil) })
	assert.Equal(t, float64(1), testutil.ToFloat64(m.EventsFailed.WithLabelValues("patient.deleted")))
}

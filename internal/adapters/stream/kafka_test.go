package stream

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_OneMessagePerOpportunity(t *testing.T) {
	fw := &fakeWriter{}
	p := &KafkaPublisher{w: fw, topic: DefaultTopic}
	created := time.Date(2026, 10, 16, 18, 30, 0, 0, time.UTC)

	err := p.Notify(context.Background(), []domain.Opportunity{
		{ID: "a", Ticker: "NBA-LAK", EventName: "Lakers", MarketPrice: 0.45, EdgePct: 33.3, CreatedAt: created},
		{ID: "b", Ticker: "NFL-KC", EventName: "Chiefs", MarketPrice: 0.5, EdgePct: 20},
	})
	require.NoError(t, err)
	require.Len(t, fw.msgs, 2)

	assert.Equal(t, "NBA-LAK", string(fw.msgs[0].Key))
	assert.Equal(t, created, fw.msgs[0].Time)

	var ev opportunityEvent
	require.NoError(t, json.Unmarshal(fw.msgs[0].Value, &ev))
	assert.Equal(t, "a", ev.ID)
	assert.Equal(t, "Lakers", ev.EventName)
	assert.InDelta(t, 33.3, ev.EdgePct, 1e-9)
}

func TestKafkaPublisher_EmptyBatch(t *testing.T) {
	fw := &fakeWriter{}
	p := &KafkaPublisher{w: fw, topic: DefaultTopic}
	require.NoError(t, p.Notify(context.Background(), nil))
	assert.Empty(t, fw.msgs)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	p := &KafkaPublisher{w: &fakeWriter{err: errors.New("broker down")}, topic: "t"}
	err := p.Notify(context.Background(), []domain.Opportunity{{Ticker: "X"}})
	assert.ErrorContains(t, err, "broker down")
}

func TestNewKafkaPublisher(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "")
	assert.Error(t, err)

	p, err := NewKafkaPublisher([]string{"localhost:9092"}, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultTopic, p.topic)
	assert.NoError(t, p.Close())
}

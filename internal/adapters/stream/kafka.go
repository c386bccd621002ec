// Package stream publica las oportunidades en Kafka para consumidores externos.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// DefaultTopic es el topic usado si no se configura otro.
const DefaultTopic = "edgescan.opportunities"

// messageWriter es el subconjunto de *kafka.Writer que usa el publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// opportunityEvent es el payload JSON de cada mensaje.
type opportunityEvent struct {
	ID                    string    `json:"id"`
	Ticker                string    `json:"ticker"`
	EventName             string    `json:"event_name"`
	MarketPrice           float64   `json:"market_price"`
	SportsbookOdds        float64   `json:"sportsbook_odds"`
	SportsbookImpliedProb float64   `json:"sportsbook_implied_prob"`
	EdgePct               float64   `json:"edge_pct"`
	ExpectedValue         float64   `json:"expected_value"`
	Stake                 float64   `json:"stake"`
	Recommendation        string    `json:"recommendation"`
	CreatedAt             time.Time `json:"created_at"`
}

// KafkaPublisher implementa ports.Notifier escribiendo un mensaje por
// oportunidad, con el ticker como key.
type KafkaPublisher struct {
	w     messageWriter
	topic string
}

// NewKafkaPublisher crea un publisher sobre los brokers dados.
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("stream.NewKafkaPublisher: no brokers configured")
	}
	if topic == "" {
		topic = DefaultTopic
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           100 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{w: w, topic: topic}, nil
}

// Notify implementa ports.Notifier.
func (p *KafkaPublisher) Notify(ctx context.Context, opportunities []domain.Opportunity) error {
	if len(opportunities) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(opportunities))
	for _, opp := range opportunities {
		value, err := json.Marshal(toEvent(opp))
		if err != nil {
			return fmt.Errorf("stream.Notify: marshal %s: %w", opp.Ticker, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(opp.Ticker),
			Value: value,
			Time:  opp.CreatedAt,
		})
	}

	if err := p.w.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("stream.Notify: write %d messages to %s: %w", len(msgs), p.topic, err)
	}
	return nil
}

// Close vacía el buffer y cierra el writer.
func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

func toEvent(opp domain.Opportunity) opportunityEvent {
	return opportunityEvent{
		ID:                    opp.ID,
		Ticker:                opp.Ticker,
		EventName:             opp.EventName,
		MarketPrice:           opp.MarketPrice,
		SportsbookOdds:        opp.SportsbookOdds,
		SportsbookImpliedProb: opp.SportsbookImpliedProb,
		EdgePct:               opp.EdgePct,
		ExpectedValue:         opp.ExpectedValue,
		Stake:                 opp.Stake,
		Recommendation:        opp.Recommendation,
		CreatedAt:             opp.CreatedAt,
	}
}

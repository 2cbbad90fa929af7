package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/trogers1052/paisabuddy/internal/models"
)

// Event types published by the service
const (
	EventTradeExecuted = "TRADE_EXECUTED"
	EventPricesUpdated = "PRICES_UPDATED"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer handles publishing events to Kafka
type Producer struct {
	writer      messageWriter
	tradesTopic string
	pricesTopic string
	now         func() time.Time
}

// NewProducer creates a new Kafka producer. The topic is set per message.
func NewProducer(brokers []string, tradesTopic, pricesTopic string) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer:      writer,
		tradesTopic: tradesTopic,
		pricesTopic: pricesTopic,
		now:         time.Now,
	}
}

// TradeExecuted publishes a trade executed event keyed by portfolio
func (p *Producer) TradeExecuted(ctx context.Context, entry *models.LedgerEntry, balance decimal.Decimal) error {
	event := models.TradeEvent{
		EventID:   uuid.NewString(),
		EventType: EventTradeExecuted,
		Entry:     entry,
		Balance:   balance.StringFixed(2),
		Timestamp: p.now(),
	}
	return p.publish(ctx, p.tradesTopic, strconv.FormatInt(entry.PortfolioID, 10), event)
}

// PricesUpdated publishes one event carrying every refreshed quote
func (p *Producer) PricesUpdated(ctx context.Context, quotes []models.PriceQuote) error {
	if len(quotes) == 0 {
		return nil
	}
	event := models.PricesEvent{
		EventID:   uuid.NewString(),
		EventType: EventPricesUpdated,
		Quotes:    quotes,
		Timestamp: p.now(),
	}
	return p.publish(ctx, p.pricesTopic, EventPricesUpdated, event)
}

func (p *Producer) publish(ctx context.Context, topic, key string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}

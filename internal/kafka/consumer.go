package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/trogers1052/paisabuddy/internal/models"
	"github.com/trogers1052/paisabuddy/internal/portfolio"
)

// EventOrderPlaced is the only event type the consumer acts on
const EventOrderPlaced = "ORDER_PLACED"

// OrderExecutor executes orders read from Kafka
type OrderExecutor interface {
	Buy(ctx context.Context, req portfolio.TradeRequest) (*portfolio.TradeResult, error)
	Sell(ctx context.Context, req portfolio.TradeRequest) (*portfolio.TradeResult, error)
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
	Config() kafka.ReaderConfig
}

// Consumer executes orders placed on the orders topic.
// Orders are idempotent by order id; a redelivered order is skipped.
type Consumer struct {
	reader   messageReader
	executor OrderExecutor
	logger   *slog.Logger
}

// NewConsumer creates a new Kafka consumer for order events
func NewConsumer(brokers []string, topic, groupID string, executor OrderExecutor, logger *slog.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{
		reader:   reader,
		executor: executor,
		logger:   logger,
	}
}

// Start begins consuming messages from Kafka
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("starting kafka consumer", slog.String("topic", c.reader.Config().Topic))

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("kafka consumer shutting down")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return c.reader.Close()
				}
				c.logger.Error("error reading message", slog.Any("error", err))
				continue
			}

			if err := c.processMessage(ctx, msg); err != nil {
				c.logger.Error("error processing message",
					slog.Int("partition", msg.Partition),
					slog.Int64("offset", msg.Offset),
					slog.Any("error", err))
			}
		}
	}
}

// processMessage handles a single Kafka message. Orders the portfolio rejects
// are logged and dropped; only infrastructure failures are returned.
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) error {
	c.logger.Debug("received message",
		slog.Int("partition", msg.Partition),
		slog.Int64("offset", msg.Offset),
		slog.String("key", string(msg.Key)))

	var event models.OrderEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal order event: %w", err)
	}

	if event.EventType != EventOrderPlaced {
		c.logger.Debug("ignoring event type", slog.String("event_type", event.EventType))
		return nil
	}

	side, req, err := convertEventToTradeRequest(event)
	if err != nil {
		return fmt.Errorf("failed to convert order event: %w", err)
	}

	var result *portfolio.TradeResult
	if side == models.TradeTypeBuy {
		result, err = c.executor.Buy(ctx, req)
	} else {
		result, err = c.executor.Sell(ctx, req)
	}

	switch {
	case errors.Is(err, portfolio.ErrDuplicateOrder):
		c.logger.Info("order already executed, skipping",
			slog.String("order_id", req.OrderID),
			slog.String("source", event.Source))
		return nil
	case isRejection(err):
		c.logger.Warn("order rejected",
			slog.String("order_id", req.OrderID),
			slog.String("symbol", req.Symbol),
			slog.String("reason", err.Error()))
		return nil
	case err != nil:
		return fmt.Errorf("failed to execute order %s: %w", req.OrderID, err)
	}

	c.logger.Info("executed order",
		slog.String("order_id", req.OrderID),
		slog.String("side", side),
		slog.Int64("quantity", req.Quantity),
		slog.String("symbol", req.Symbol),
		slog.String("price", result.Entry.Price.StringFixed(2)))
	return nil
}

// convertEventToTradeRequest maps an OrderEvent to a side and a TradeRequest
func convertEventToTradeRequest(event models.OrderEvent) (string, portfolio.TradeRequest, error) {
	data := event.Data
	req := portfolio.TradeRequest{
		PortfolioID: data.PortfolioID,
		Symbol:      strings.ToUpper(strings.TrimSpace(data.Symbol)),
		OrderID:     data.OrderID,
	}
	if req.PortfolioID < 0 {
		return "", req, fmt.Errorf("invalid portfolio_id %d", data.PortfolioID)
	}
	if req.PortfolioID == 0 {
		req.PortfolioID = portfolio.DefaultPortfolioID
	}
	if req.OrderID == "" {
		return "", req, errors.New("missing order_id")
	}

	side := strings.ToUpper(data.Side)
	if side != models.TradeTypeBuy && side != models.TradeTypeSell {
		return "", req, fmt.Errorf("invalid order side: %s", data.Side)
	}

	quantity, err := decimal.NewFromString(data.Quantity)
	if err != nil {
		return "", req, fmt.Errorf("invalid quantity %s: %w", data.Quantity, err)
	}
	if !quantity.IsInteger() {
		return "", req, fmt.Errorf("fractional quantity %s", data.Quantity)
	}
	req.Quantity = quantity.IntPart()

	req.Price, err = decimal.NewFromString(data.Price)
	if err != nil {
		return "", req, fmt.Errorf("invalid price %s: %w", data.Price, err)
	}

	return side, req, nil
}

func isRejection(err error) bool {
	return errors.Is(err, portfolio.ErrStockNotFound) ||
		errors.Is(err, portfolio.ErrInvalidQuantity) ||
		errors.Is(err, portfolio.ErrInvalidPrice) ||
		errors.Is(err, portfolio.ErrInsufficientFunds) ||
		errors.Is(err, portfolio.ErrInsufficientShares) ||
		errors.Is(err, portfolio.ErrBalanceLimit) ||
		errors.Is(err, portfolio.ErrNoPosition)
}

// Close closes the Kafka consumer
func (c *Consumer) Close() error {
	return c.reader.Close()
}

package cli

import (
	"context"
	"log/slog"

	"github.com/trogers1052/paisabuddy/internal/cache"
	"github.com/trogers1052/paisabuddy/internal/kafka"
	"github.com/trogers1052/paisabuddy/internal/portfolio"
	"github.com/trogers1052/paisabuddy/internal/pricing"
)

// outbound holds the optional Redis cache and Kafka producer
type outbound struct {
	cache    *cache.QuoteCache
	producer *kafka.Producer
	logger   *slog.Logger
}

func newOutbound(ctx context.Context, e *env) *outbound {
	o := &outbound{logger: e.logger}

	if e.cfg.Redis.Enabled {
		c := cache.NewQuoteCache(e.cfg.Redis.Addr, e.cfg.Redis.Password, e.cfg.Redis.DB, e.cfg.Redis.Key)
		if err := c.Ping(ctx); err != nil {
			e.logger.Warn("quote cache disabled", slog.Any("error", err))
			c.Close()
		} else {
			o.cache = c
		}
	}

	if e.cfg.Kafka.Enabled {
		o.producer = kafka.NewProducer(e.cfg.Kafka.Brokers, e.cfg.Kafka.TradesTopic, e.cfg.Kafka.PricesTopic)
	}
	return o
}

func (o *outbound) priceNotifiers() []pricing.Notifier {
	var notifiers []pricing.Notifier
	if o.cache != nil {
		notifiers = append(notifiers, o.cache)
	}
	if o.producer != nil {
		notifiers = append(notifiers, o.producer)
	}
	return notifiers
}

func (o *outbound) tradeNotifier() portfolio.TradeNotifier {
	if o.producer == nil {
		return nil
	}
	return o.producer
}

func (o *outbound) close() {
	if o.cache != nil {
		if err := o.cache.Close(); err != nil {
			o.logger.Warn("failed to close quote cache", slog.Any("error", err))
		}
	}
	if o.producer != nil {
		if err := o.producer.Close(); err != nil {
			o.logger.Warn("failed to close kafka producer", slog.Any("error", err))
		}
	}
}

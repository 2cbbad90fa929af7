package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/trogers1052/paisabuddy/internal/database"
	"github.com/trogers1052/paisabuddy/internal/pricing"
)

type refreshPricesCmd struct {
	times int
}

func (*refreshPricesCmd) Name() string     { return "refresh-prices" }
func (*refreshPricesCmd) Synopsis() string { return "moves every stock price by a random step" }
func (*refreshPricesCmd) Usage() string {
	return `paisabuddy refresh-prices [-n N]

Runs the price random walk N times (default 1) against the database and
prints the resulting quotes. Quotes are also pushed to the Redis cache and
Kafka when those are enabled.
`
}

func (c *refreshPricesCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.times, "n", 1, "Number of refresh rounds.")
}

func (c *refreshPricesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.times < 1 {
		return fail(fmt.Errorf("-n must be at least 1"))
	}

	e, err := setup()
	if err != nil {
		return fail(err)
	}
	defer e.db.Close()

	deps := newOutbound(ctx, e)
	defer deps.close()

	feed := pricing.NewFeed(database.NewPriceStore(e.db), pricing.Options{
		MinPrice:  e.cfg.Pricing.MinPriceDecimal(),
		Notifiers: deps.priceNotifiers(),
		Logger:    e.logger,
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for i := 0; i < c.times; i++ {
		quotes, err := feed.Refresh(ctx)
		if err != nil {
			return fail(err)
		}
		for _, q := range quotes {
			fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, q.Symbol, q.Price.StringFixed(2))
		}
	}
	w.Flush()
	return subcommands.ExitSuccess
}

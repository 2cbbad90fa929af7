package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/trogers1052/paisabuddy/internal/seeder"
)

type seedCmd struct{}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "loads sample stocks and budget categories" }
func (*seedCmd) Usage() string {
	return `paisabuddy seed

Inserts the sample stocks when the stock table is empty and the default
budget categories when no category exists. Running it twice is harmless.
`
}

func (*seedCmd) SetFlags(*flag.FlagSet) {}

func (*seedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := setup()
	if err != nil {
		return fail(err)
	}
	defer e.db.Close()

	result, err := seeder.NewSeeder(e.db, e.logger).Seed(ctx)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("seeded %d stock(s) and %d categor(ies)\n", result.Stocks, result.Categories)
	return subcommands.ExitSuccess
}

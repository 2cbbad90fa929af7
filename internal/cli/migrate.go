package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type migrateCmd struct {
	down int
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "applies or rolls back database migrations" }
func (*migrateCmd) Usage() string {
	return `paisabuddy migrate [-down N]

Applies every pending migration to the configured PostgreSQL database.
With -down, rolls back the last N migrations instead.
`
}

func (c *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.down, "down", 0, "Number of migrations to roll back.")
}

func (c *migrateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := setup()
	if err != nil {
		return fail(err)
	}
	defer e.db.Close()

	if c.down > 0 {
		if err := e.db.MigrateDown(c.down); err != nil {
			return fail(err)
		}
		fmt.Printf("rolled back %d migration(s)\n", c.down)
		return subcommands.ExitSuccess
	}

	version, err := e.db.Migrate()
	if err != nil {
		return fail(err)
	}
	fmt.Printf("database at version %d\n", version)
	return subcommands.ExitSuccess
}

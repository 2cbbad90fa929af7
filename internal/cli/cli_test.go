package cli

import (
	"context"
	"flag"
	"testing"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
)

func TestCommands(t *testing.T) {
	commands := []subcommands.Command{&serveCmd{}, &migrateCmd{}, &seedCmd{}, &refreshPricesCmd{}}
	names := []string{"serve", "migrate", "seed", "refresh-prices"}

	for i, c := range commands {
		assert.Equal(t, names[i], c.Name())
		assert.NotEmpty(t, c.Synopsis())
		assert.Contains(t, c.Usage(), names[i])
	}
}

func TestServeFlagsDefaultOn(t *testing.T) {
	c := &serveCmd{}
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	c.SetFlags(fs)

	assert.NoError(t, fs.Parse(nil))
	assert.True(t, c.migrate)
	assert.True(t, c.seed)

	assert.NoError(t, fs.Parse([]string{"-seed=false"}))
	assert.False(t, c.seed)
}

func TestRefreshPricesRejectsZeroRounds(t *testing.T) {
	c := &refreshPricesCmd{times: 0}
	status := c.Execute(context.Background(), flag.NewFlagSet("refresh-prices", flag.ContinueOnError))
	assert.Equal(t, subcommands.ExitFailure, status)
}

func TestRegister(t *testing.T) {
	fs := flag.NewFlagSet("paisabuddy", flag.ContinueOnError)
	commander := subcommands.NewCommander(fs, "paisabuddy")
	Register(commander)

	var got []string
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		got = append(got, c.Name())
	})
	assert.Subset(t, got, []string{"serve", "migrate", "seed", "refresh-prices", "help"})
}

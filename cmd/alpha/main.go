// Command alpha runs one-shot operations against the Alpha database:
// summaries, simulations, statistics, backups and exports.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// register adds every alpha subcommand, grouped for the help output
func register(c *subcommands.Commander) {
	c.Register(&summaryCmd{}, "reports")
	c.Register(&financeCmd{}, "reports")
	c.Register(&statsCmd{}, "reports")

	c.Register(&simulateCmd{}, "simulations")

	c.Register(&backupCmd{}, "maintenance")
	c.Register(&exportCmd{}, "maintenance")
}

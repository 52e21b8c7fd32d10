package main

import (
	"fmt"

	"github.com/urfave/cli"
)

var batchOpts = struct {
	schema  string
	workers int
}{}

func batch() cli.Command {
	return cli.Command{
		Name:  "batch",
		Usage: "Validate many brim stores against one schema",
		Description: `Validate every given store against the schema named by -s, printing
	one line per store in the order given.

	Stores are validated concurrently, and independently of each other.  Exits with 1
	if any store is invalid.`,
		ArgsUsage: "store...",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:        "schema, s",
				Usage:       "json schema to validate against",
				Destination: &batchOpts.schema,
			},
			cli.IntFlag{
				Name:        "workers, w",
				Usage:       "Number of stores to validate at once",
				Value:       4,
				Destination: &batchOpts.workers,
			},
		},
		Action: batchAction,
	}
}

func batchAction(c *cli.Context) error {
	stores := c.Args()
	if batchOpts.schema == "" {
		return fmt.Errorf("no schema given (-schema)")
	}
	if len(stores) == 0 {
		return fmt.Errorf("no stores given")
	}

	v, err := newValidator()
	if err != nil {
		return err
	}

	ctx, cancel := newContext()
	defer cancel()

	reports, err := v.ValidateAll(ctx, stores, batchOpts.schema, batchOpts.workers)
	if err != nil {
		return err
	}

	invalid := 0
	for _, r := range reports {
		fmt.Fprintf(c.App.Writer, "%s: %s\n", r.Store, r.Outcome)
		if !r.Outcome.Valid() {
			invalid++
		}
	}

	if invalid > 0 {
		return cli.NewExitError(fmt.Sprintf("%d of %d stores invalid", invalid, len(reports)), 1)
	}
	return nil
}

package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

func consolidate() cli.Command {
	return cli.Command{
		Name:  "consolidate",
		Usage: "Consolidate the metadata of brim stores",
		Description: `Given a list of stores, gather the zarr.json of every node in each
	store into the consolidated_metadata of the store's root zarr.json.

	A local store may be named by any path inside of it; the store root is
	found by crawling upwards.  Nothing is validated.`,
		ArgsUsage: "store...",
		Action: func(c *cli.Context) error {
			return consolidateAction(c.Args())
		},
	}
}

func consolidateAction(stores []string) error {
	if len(stores) == 0 {
		return fmt.Errorf("no stores given")
	}

	ctx, cancel := newContext()
	defer cancel()

	d := newDriver()
	logger := newLogger()

	for _, store := range stores {
		if err := d.Consolidate(ctx, store); err != nil {
			return errors.Wrapf(err, "could not consolidate %s", store)
		}
		logger.Info("consolidated", "store", store)
	}
	return nil
}

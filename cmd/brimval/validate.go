package main

import (
	"fmt"

	"github.com/urfave/cli"
)

func validateAction(c *cli.Context) error {
	args := c.Args()
	if len(args) != 2 {
		return fmt.Errorf("expected two arguments (STORE SCHEMA), got %d", len(args))
	}

	v, err := newValidator()
	if err != nil {
		return err
	}

	ctx, cancel := newContext()
	defer cancel()

	o := v.Validate(ctx, args[0], args[1])
	fmt.Fprintln(c.App.Writer, o)

	if !o.Valid() {
		return cli.NewExitError("", 1)
	}
	return nil
}

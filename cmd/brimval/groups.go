package main

import (
	"github.com/birkland/brimval/shape"
	"github.com/urfave/cli"
)

func groups() cli.Command {
	return cli.Command{
		Name:  "groups",
		Usage: "Print the reference groups in effect",
		Description: `Print the reference groups used for checking array shapes, in the yaml
	format read by -groups.  Without -groups, these are the brim defaults.`,
		Action: func(c *cli.Context) error {
			gs := shape.DefaultGroups
			if mainOpts.groups != "" {
				var err error
				if gs, err = shape.ReadGroups(mainOpts.groups); err != nil {
					return err
				}
			}
			return gs.Serialize(c.App.Writer)
		},
	}
}

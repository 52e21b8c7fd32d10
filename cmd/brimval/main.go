package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/birkland/brimval"
	"github.com/birkland/brimval/drivers/fs"
	"github.com/birkland/brimval/drivers/s3"
	"github.com/birkland/brimval/resolv"
	"github.com/birkland/brimval/shape"
	"github.com/birkland/brimval/validate"
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

var mainOpts = struct {
	groups        string
	noConsolidate bool
	debug         bool
	s3            s3.Config
}{}

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		newLogger().Fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "brimval"
	app.Usage = "Validate brim stores against a json schema"
	app.UsageText = "brimval [global options] STORE SCHEMA\n   brimval [global options] command [command options] [arguments...]"
	app.Description = `Given a brim store and a json schema, consolidate the metadata of every
	node of the store into its root zarr.json, check that the leading dimension
	of every dependent array matches its reference array, then check the
	consolidated metadata against the schema.

	Stores and schemas are local paths, or s3://bucket/prefix locations.
	Exits with 0 if the store is valid, and 1 otherwise.`
	app.EnableBashCompletion = true
	app.Action = validateAction
	app.Commands = []cli.Command{
		consolidate(),
		batch(),
		groups(),
	}
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:        "groups, g",
			Usage:       "yaml file of reference groups to check array shapes with",
			EnvVar:      "BRIMVAL_GROUPS",
			Destination: &mainOpts.groups,
		},
		cli.BoolFlag{
			Name:        "no-consolidate",
			Usage:       "Validate already consolidated metadata, without rewriting it",
			Destination: &mainOpts.noConsolidate,
		},
		cli.BoolFlag{
			Name:        "debug",
			Usage:       "Log every validation stage",
			Destination: &mainOpts.debug,
		},
		cli.StringFlag{
			Name:        "s3-endpoint",
			Usage:       "S3 endpoint (host:port) for s3:// locations",
			EnvVar:      "BRIMVAL_S3_ENDPOINT",
			Destination: &mainOpts.s3.Endpoint,
		},
		cli.StringFlag{
			Name:        "s3-access-key",
			Usage:       "S3 access key",
			EnvVar:      "BRIMVAL_S3_ACCESS_KEY",
			Destination: &mainOpts.s3.AccessKey,
		},
		cli.StringFlag{
			Name:        "s3-secret-key",
			Usage:       "S3 secret key",
			EnvVar:      "BRIMVAL_S3_SECRET_KEY",
			Destination: &mainOpts.s3.SecretKey,
		},
		cli.StringFlag{
			Name:        "s3-region",
			Usage:       "S3 region",
			EnvVar:      "BRIMVAL_S3_REGION",
			Destination: &mainOpts.s3.Region,
		},
		cli.BoolTFlag{
			Name:        "s3-secure",
			Usage:       "Use TLS for S3 connections",
			EnvVar:      "BRIMVAL_S3_SECURE",
			Destination: &mainOpts.s3.Secure,
		},
	}

	return app
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "brimval",
		Level:  log.WarnLevel,
	})
	if mainOpts.debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func newDriver() brimval.Driver {
	return resolv.NewResolver(fs.NewDriver(fs.Config{}), func() (brimval.Driver, error) {
		d, err := s3.NewDriver(mainOpts.s3)
		if err != nil {
			return nil, err
		}
		return d, nil
	})
}

func newValidator() (*validate.Validator, error) {
	var groups shape.Groups
	if mainOpts.groups != "" {
		var err error
		groups, err = shape.ReadGroups(mainOpts.groups)
		if err != nil {
			return nil, errors.Wrapf(err, "could not read reference groups")
		}
	}

	d := newDriver()
	return validate.NewValidator(validate.Config{
		Metadata:        d,
		Schemas:         d,
		Groups:          groups,
		SkipConsolidate: mainOpts.noConsolidate,
		Logger:          newLogger(),
	}), nil
}

// Cancelled on interrupt, so that long consolidations stop between nodes
func newContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// Command drmprop inspects and sets the properties of the KMS objects of a
// DRM card.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/urfave/cli.v1"

	"github.com/NeowayLabs/drmresource/config"
	"github.com/NeowayLabs/drmresource/property"
)

var (
	app = cli.NewApp()

	cfg    = config.Default()
	logger = slog.Default()

	cardFlag = cli.IntFlag{
		Name:  "card",
		Usage: "index of the /dev/dri/cardN device",
	}
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "YAML configuration file",
	}
	logLevelFlag = cli.StringFlag{
		Name:  "log-level",
		Usage: "debug, info, warn or error",
	}
	atomicFlag = cli.BoolFlag{
		Name:  "atomic",
		Usage: "enable the atomic client cap to see atomic-only properties",
	}
	typeFlag = cli.StringFlag{
		Name:  "type",
		Usage: "object type: plane, crtc, connector or any",
		Value: "any",
	}
)

func init() {
	app.Name = "drmprop"
	app.Usage = "inspect and set DRM object properties"
	app.Flags = []cli.Flag{cardFlag, configFlag, logLevelFlag, atomicFlag}
	app.Before = setup
	app.Commands = []cli.Command{
		{
			Name:   "version",
			Usage:  "print the driver version",
			Action: versionAction,
		},
		{
			Name:   "list",
			Usage:  "list crtcs, connectors and planes with their properties",
			Action: listAction,
		},
		{
			Name:      "get",
			Usage:     "print one property",
			ArgsUsage: "<object-id> <property>",
			Flags:     []cli.Flag{typeFlag},
			Action:    getAction,
		},
		{
			Name:      "set",
			Usage:     "validate and write a property value",
			ArgsUsage: "<object-id> <property> <value|enum-name>",
			Flags:     []cli.Flag{typeFlag},
			Action:    setAction,
		},
		{
			Name:      "snapshot",
			Usage:     "write the properties of an object as CBOR",
			ArgsUsage: "<object-id> <file>",
			Flags:     []cli.Flag{typeFlag},
			Action:    snapshotAction,
		},
		{
			Name:      "enums",
			Usage:     "translate the configured HAL enum tables for an object",
			ArgsUsage: "<object-id>",
			Flags:     []cli.Flag{typeFlag},
			Action:    enumsAction,
		},
	}
}

func setup(ctx *cli.Context) error {
	if path := ctx.GlobalString(configFlag.Name); path != "" {
		c, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = c
	}
	if ctx.GlobalIsSet(cardFlag.Name) {
		cfg.Card = ctx.GlobalInt(cardFlag.Name)
	}
	if ctx.GlobalIsSet(logLevelFlag.Name) {
		cfg.LogLevel = ctx.GlobalString(logLevelFlag.Name)
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	property.SetLogger(logger)
	return nil
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %+v\n", err)
		os.Exit(1)
	}
}

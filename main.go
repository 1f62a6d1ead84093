// i18n-tools maintains the translation files of the uranus web application.
//
// Usage:
//
//	i18n-tools [--config file] [--log-level level] <subcommand> [flags] [args]
//
// Run "i18n-tools help" for a list of subcommands.
package main

import (
	"fmt"
	"os"

	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"
)

var log = logging.Logger("i18n-tools")

func newApp() *cli.App {
	return &cli.App{
		Name:  "i18n-tools",
		Usage: "Generate, audit and convert translation data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "TOML config file (default: i18n-tools.toml in the repository root)",
				EnvVars: []string{"I18N_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "debug, info, warn or error",
			},
		},
		Before: func(cctx *cli.Context) error {
			lvl, err := logging.LevelFromString(cctx.String("log-level"))
			if err != nil {
				return err
			}
			logging.SetAllLoggers(lvl)
			return nil
		},
		Commands: []*cli.Command{
			generateFlagsCmd,
			auditCmd,
			missingCmd,
			unusedCmd,
			referencesCmd,
			checkCmd,
			csvSQLCmd,
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"github.com/urfave/cli/v2"
)

var unusedCmd = &cli.Command{
	Name:  "unused",
	Usage: "Keys declared in locale files but never used in source code",
	Flags: append([]cli.Flag{
		&cli.StringFlag{Name: "format", Value: "text", Usage: "Output format: text, json"},
	}, scanFlags...),
	Action: runUnused,
}

func runUnused(cctx *cli.Context) error {
	res, _, _, err := scan(cctx)
	if err != nil {
		return err
	}
	return outputStrings(cctx.App.Writer, res.Unused(), cctx.String("format"), "unused keys")
}

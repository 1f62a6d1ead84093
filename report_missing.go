package main

import (
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/oklabflensburg/uranus-i18n-tools/internal/audit"
)

var missingCmd = &cli.Command{
	Name:  "missing",
	Usage: "Keys used in source code but declared in no locale file",
	Flags: append([]cli.Flag{
		&cli.StringFlag{Name: "format", Value: "text", Usage: "Output format: text, json, yaml (json/yaml print the patch)"},
	}, scanFlags...),
	Action: runMissing,
}

func runMissing(cctx *cli.Context) error {
	format := cctx.String("format")
	switch format {
	case "text", "json", "yaml":
	default:
		return xerrors.Errorf("unknown format %q", format)
	}

	res, _, _, err := scan(cctx)
	if err != nil {
		return err
	}

	if format == "text" {
		return outputStrings(cctx.App.Writer, res.Missing(), format, "missing keys")
	}
	return audit.Encode(cctx.App.Writer, res.Patch(), format)
}

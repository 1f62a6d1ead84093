package main

import (
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/oklabflensburg/uranus-i18n-tools/internal/csvsql"
)

var csvSQLCmd = &cli.Command{
	Name:      "csv-sql",
	Usage:     "Print INSERT statements for event types and genres from a CSV file",
	ArgsUsage: "[csv_file]",
	Description: `Columns: type_id, da, de, en, ... Rows with a type_id below the
   threshold (default 1000) go to event_type, the others to genre_type with
   event_type_id = type_id / 1000 whatever the threshold. Output is SQL text for manual review.`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "table",
			Value: string(csvsql.All),
			Usage: "all, event_type or genre_type",
		},
	},
	Action: runCSVSQL,
}

func runCSVSQL(cctx *cli.Context) error {
	if cctx.NArg() > 1 {
		return cli.Exit("Usage: i18n-tools csv-sql [--table all|event_type|genre_type] [csv_file]", 1)
	}
	table, err := csvsql.ParseTable(cctx.String("table"))
	if err != nil {
		return err
	}

	cfg, _, err := loadConfig(cctx)
	if err != nil {
		return err
	}

	input := cfg.CSV.Input
	if cctx.NArg() == 1 {
		input = cctx.Args().First()
	}
	f, err := os.Open(input)
	if err != nil {
		return xerrors.Errorf("opening csv: %w", err)
	}
	defer f.Close()

	conv := &csvsql.Converter{
		Schema:    cfg.CSV.Schema,
		Threshold: cfg.CSV.GenreThreshold,
		Table:     table,
		Now:       time.Now(),
	}
	n, err := conv.Convert(f, cctx.App.Writer)
	if err != nil {
		return err
	}
	log.Infow("converted csv", "input", input, "statements", n)
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"

	"github.com/oklabflensburg/uranus-i18n-tools/internal/flagsdb"
	"github.com/oklabflensburg/uranus-i18n-tools/internal/flagsgen"
)

const generateFlagsUsage = "Usage: i18n-tools generate-flags <flag_table> <topic_table> <base_name> <output_file_path>"

var generateFlagsCmd = &cli.Command{
	Name:      "generate-flags",
	Usage:     "Write a TypeScript translations/flags module from a topic and a flag table",
	ArgsUsage: "<flag_table> <topic_table> <base_name> <output_file_path>",
	Description: `Example:

   i18n-tools generate-flags uranus.accessibility_flag uranus.accessibility_topic \
       uranusI18nAccessibility src/i18n/uranus-i18n-accessibility.ts`,
	Action: runGenerateFlags,
}

func runGenerateFlags(cctx *cli.Context) error {
	if cctx.NArg() != 4 {
		return cli.Exit(generateFlagsUsage, 1)
	}
	req := flagsgen.Request{
		FlagTable:  cctx.Args().Get(0),
		TopicTable: cctx.Args().Get(1),
		BaseName:   cctx.Args().Get(2),
		Output:     cctx.Args().Get(3),
	}

	cfg, _, err := loadConfig(cctx)
	if err != nil {
		return err
	}

	db, err := flagsdb.Open(cctx.Context, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	g := &flagsgen.Generator{
		Source:    db,
		Fs:        afero.NewOsFs(),
		Languages: cfg.Languages,
		HeaderDir: cfg.Generator.HeaderDir,
		MinID:     cfg.Generator.MinID,
	}
	if err := g.Generate(cctx.Context, req); err != nil {
		return err
	}

	fmt.Fprintf(cctx.App.Writer, "✔ TypeScript i18n file generated successfully at %s\n", req.Output)
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"

	"github.com/oklabflensburg/uranus-i18n-tools/internal/audit"
	"github.com/oklabflensburg/uranus-i18n-tools/internal/config"
)

// scanFlags are shared by every subcommand that scans locale and source files.
var scanFlags = []cli.Flag{
	&cli.StringFlag{Name: "locale-dir", Usage: "directory of generated locale files (default from config)"},
	&cli.StringFlag{Name: "source-dir", Usage: "directory of application sources (default from config)"},
	&cli.StringFlag{Name: "function", Usage: "name of the translation lookup function (default from config)"},
}

var auditCmd = &cli.Command{
	Name:  "audit",
	Usage: "Write a report of missing and unused translation keys",
	Flags: append([]cli.Flag{
		&cli.StringFlag{Name: "output", Usage: "report path; .yaml/.yml writes YAML (default from config)"},
	}, scanFlags...),
	Action: runAudit,
}

// scan loads the config, applies scan flag overrides and runs the auditor.
func scan(cctx *cli.Context) (*audit.Result, *config.Config, string, error) {
	cfg, root, err := loadConfig(cctx)
	if err != nil {
		return nil, nil, "", err
	}
	if v := cctx.String("locale-dir"); v != "" {
		cfg.Audit.LocaleDir = v
	}
	if v := cctx.String("source-dir"); v != "" {
		cfg.Audit.SourceDir = v
	}
	if v := cctx.String("function"); v != "" {
		cfg.Audit.Function = v
	}

	a, err := audit.New(afero.NewOsFs(), audit.Options{
		LocaleDir:     config.Resolve(root, cfg.Audit.LocaleDir),
		SourceDir:     config.Resolve(root, cfg.Audit.SourceDir),
		LocalePattern: cfg.Audit.LocalePattern,
		SourcePattern: cfg.Audit.SourcePattern,
		Function:      cfg.Audit.Function,
		Languages:     cfg.Languages,
		Ignore:        cfg.Audit.Ignore,
	})
	if err != nil {
		return nil, nil, "", err
	}
	return a.Run(), cfg, root, nil
}

func runAudit(cctx *cli.Context) error {
	res, cfg, root, err := scan(cctx)
	if err != nil {
		return err
	}

	out := cfg.Audit.Output
	if v := cctx.String("output"); v != "" {
		out = v
	}
	out = config.Resolve(root, out)

	rep := res.Report()
	if err := audit.WriteReport(afero.NewOsFs(), out, rep); err != nil {
		return err
	}

	w := cctx.App.Writer
	fmt.Fprintf(w, "Analysis complete. %s written to %s\n", formatLabel(audit.FormatFor(out)), out)
	fmt.Fprintf(w, "Missing translations: %d\n", rep.MissingCount())
	fmt.Fprintf(w, "Unused translations: %d\n", len(rep.UnusedTranslations))
	fmt.Fprintf(w, "Scanned %d locale files\n", len(rep.ScannedLocaleFiles))
	fmt.Fprintf(w, "Scanned %d code files\n", len(rep.ScannedCodeFiles))
	return nil
}

func formatLabel(format string) string {
	if format == "yaml" {
		return "YAML"
	}
	return "JSON"
}

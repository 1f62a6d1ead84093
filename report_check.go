package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"
)

var checkCmd = &cli.Command{
	Name:   "check",
	Usage:  "Lint check: fails when source code uses undeclared keys",
	Flags:  scanFlags,
	Action: runCheck,
}

func runCheck(cctx *cli.Context) error {
	res, _, _, err := scan(cctx)
	if err != nil {
		return err
	}

	missingCount := len(res.Missing())
	unusedCount := len(res.Unused())

	w := cctx.App.Writer
	printResult := func(label string, count int, status string) {
		fmt.Fprintf(w, "  %-30s %3d  %s\n", label+":", count, status)
	}

	if missingCount > 0 {
		printResult("keys missing from locales", missingCount, color.RedString("FAIL"))
	} else {
		printResult("keys missing from locales", missingCount, color.GreenString("OK"))
	}
	// unused keys never fail the check
	if unusedCount > 0 {
		printResult("unused keys", unusedCount, color.YellowString("INFO"))
	} else {
		printResult("unused keys", unusedCount, color.GreenString("OK"))
	}

	if missingCount > 0 {
		return xerrors.New("checks failed")
	}
	fmt.Fprintln(w, "All checks passed.")
	return nil
}

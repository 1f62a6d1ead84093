package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"github.com/oklabflensburg/uranus-i18n-tools/internal/audit"
)

var referencesCmd = &cli.Command{
	Name:  "references",
	Usage: "Where each used key is looked up (file:line)",
	Flags: append([]cli.Flag{
		&cli.StringFlag{Name: "format", Value: "text", Usage: "Output format: text, json"},
	}, scanFlags...),
	Action: runReferences,
}

func runReferences(cctx *cli.Context) error {
	res, _, root, err := scan(cctx)
	if err != nil {
		return err
	}

	refs := make(map[string][]audit.KeyReference, len(res.Used))
	for k, locations := range res.Used {
		rel := make([]audit.KeyReference, len(locations))
		for i, loc := range locations {
			rel[i] = loc
			if p, err := filepath.Rel(root, loc.File); err == nil {
				rel[i].File = p
			}
		}
		refs[k] = rel
	}

	w := cctx.App.Writer
	if cctx.String("format") == "json" {
		return audit.Encode(w, refs, "json")
	}

	keys := lo.Keys(refs)
	sort.Strings(keys)
	for _, k := range keys {
		marker := ""
		if !res.Declared[k] {
			marker = " (missing)"
		}
		fmt.Fprintf(w, "%s%s:\n", k, marker)
		for _, loc := range refs[k] {
			fmt.Fprintf(w, "  %s:%d\n", loc.File, loc.Line)
		}
	}
	return nil
}

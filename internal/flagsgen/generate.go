// Package flagsgen turns a topic table and a flag table into a TypeScript
// module with a translation record and a nested topic/flag array.
package flagsgen

import (
	"context"
	"path"
	"path/filepath"
	"regexp"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/oklabflensburg/uranus-i18n-tools/internal/i18n"
)

var log = logging.Logger("flagsgen")

// RowSource loads the raw language rows of both tables.
type RowSource interface {
	TopicRows(ctx context.Context, table string) ([]TopicRow, error)
	FlagRows(ctx context.Context, table string) ([]FlagRow, error)
}

type Generator struct {
	Source    RowSource
	Fs        afero.Fs
	Languages i18n.Languages
	HeaderDir string
	MinID     int64
	Now       func() time.Time
}

type Request struct {
	FlagTable  string
	TopicTable string
	BaseName   string
	Output     string
}

var baseNameRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Build loads both tables and assembles the document without writing it.
func (g *Generator) Build(ctx context.Context, req Request) (Document, error) {
	if !baseNameRe.MatchString(req.BaseName) {
		return Document{}, xerrors.Errorf("base name %q is not a valid TypeScript identifier", req.BaseName)
	}

	topicRows, err := g.Source.TopicRows(ctx, req.TopicTable)
	if err != nil {
		return Document{}, xerrors.Errorf("fetching topics from %s: %w", req.TopicTable, err)
	}
	flagRows, err := g.Source.FlagRows(ctx, req.FlagTable)
	if err != nil {
		return Document{}, xerrors.Errorf("fetching flags from %s: %w", req.FlagTable, err)
	}
	log.Debugw("fetched rows", "topics", len(topicRows), "flags", len(flagRows))

	topics := GroupTopics(topicRows, g.Languages, g.MinID)
	flags := GroupFlags(flagRows, g.Languages, g.MinID)

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}

	doc := Document{
		BaseName:   req.BaseName,
		HeaderPath: path.Join(g.HeaderDir, filepath.Base(req.Output)),
		Date:       now(),
		Languages:  g.Languages,
		Entries:    BuildTable(topics, flags).Entries(),
		Tree:       BuildTree(topics, flags),
	}
	log.Infow("built translation table", "topics", len(topics), "flags", len(flags), "keys", len(doc.Entries))
	return doc, nil
}

// Generate builds the document and writes it to req.Output, replacing any
// existing file. Nothing is written when loading fails.
func (g *Generator) Generate(ctx context.Context, req Request) error {
	doc, err := g.Build(ctx, req)
	if err != nil {
		return err
	}

	fs := g.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if err := fs.MkdirAll(filepath.Dir(req.Output), 0755); err != nil {
		return xerrors.Errorf("creating output directory: %w", err)
	}
	if err := afero.WriteFile(fs, req.Output, []byte(Render(doc)), 0644); err != nil {
		return xerrors.Errorf("writing %s: %w", req.Output, err)
	}
	return nil
}

// Package csvsql turns rows of the event type / genre spreadsheet into
// INSERT statements for the event_type and genre_type lookup tables.
package csvsql

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"
)

var log = logging.Logger("csvsql")

// TimeFormat is the layout of the modified_at literal.
const TimeFormat = "2006-01-02 15:04:05"

// Table selects which statements are emitted.
type Table string

const (
	All       Table = "all"
	EventType Table = "event_type"
	GenreType Table = "genre_type"
)

func ParseTable(s string) (Table, error) {
	switch t := Table(s); t {
	case All, EventType, GenreType:
		return t, nil
	}
	return "", xerrors.Errorf("unknown table %q (want all, event_type or genre_type)", s)
}

// columnLanguages is the order of the name columns after the identifier.
var columnLanguages = []string{"da", "de", "en"}

// Row is one usable CSV record.
type Row struct {
	ID    int
	Names [3]string // da, de, en
}

// ParseRow returns false for records with fewer than four fields or a
// non-integer identifier, which includes the header line.
func ParseRow(record []string) (Row, bool) {
	if len(record) < 4 {
		return Row{}, false
	}
	id, err := strconv.Atoi(strings.TrimSpace(record[0]))
	if err != nil {
		return Row{}, false
	}
	return Row{ID: id, Names: [3]string{record[1], record[2], record[3]}}, true
}

type Converter struct {
	Schema    string
	Threshold int
	Table     Table
	Now       time.Time
}

// DefaultThreshold separates event types (below) from genres.
const DefaultThreshold = 1000

// ParentDivisor derives a genre's event type: event_type_id = id / 1000.
// It does not follow a configured threshold.
const ParentDivisor = 1000

func (c *Converter) threshold() int {
	if c.Threshold <= 0 {
		return DefaultThreshold
	}
	return c.Threshold
}

// Target reports the table a row belongs to.
func (c *Converter) Target(r Row) Table {
	if r.ID < c.threshold() {
		return EventType
	}
	return GenreType
}

// Statements returns the INSERTs for one row, one per non-blank name.
// Genres carry their event type, the identifier divided by ParentDivisor.
// Negative identifiers produce nothing.
func (c *Converter) Statements(r Row) []string {
	if r.ID < 0 {
		return nil
	}
	target := c.Target(r)
	if c.Table != "" && c.Table != All && c.Table != target {
		return nil
	}

	ts := c.Now.Format(TimeFormat)
	var out []string
	for i, lang := range columnLanguages {
		name := r.Names[i]
		if strings.TrimSpace(name) == "" {
			continue
		}
		if target == EventType {
			out = append(out, fmt.Sprintf(
				"INSERT INTO %s (type_id, name, iso_639_1, modified_at) VALUES (%d, %s, '%s', '%s');",
				c.qualified(EventType), r.ID, quote(name), lang, ts))
			continue
		}
		out = append(out, fmt.Sprintf(
			"INSERT INTO %s (type_id, name, iso_639_1, modified_at, event_type_id) VALUES (%d, %s, '%s', '%s', %d);",
			c.qualified(GenreType), r.ID, quote(name), lang, ts, r.ID/ParentDivisor))
	}
	return out
}

func (c *Converter) qualified(t Table) string {
	if c.Schema == "" {
		return string(t)
	}
	return c.Schema + "." + string(t)
}

// Convert reads CSV from r and writes one statement per line to w. Records
// that cannot be parsed or used are skipped. It returns the number of
// statements written.
func (c *Converter) Convert(r io.Reader, w io.Writer) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	// bare quotes inside unquoted fields are kept as text
	cr.LazyQuotes = true

	n := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				log.Debugw("skipping malformed record", "line", perr.Line, "error", perr.Err)
				continue
			}
			return n, xerrors.Errorf("reading csv: %w", err)
		}

		row, ok := ParseRow(record)
		if !ok {
			continue
		}
		for _, stmt := range c.Statements(row) {
			if _, err := fmt.Fprintln(w, stmt); err != nil {
				return n, xerrors.Errorf("writing statement: %w", err)
			}
			n++
		}
	}
	return n, nil
}

// quote renders s as a SQL string literal.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Package flagsdb reads topic and flag tables from Postgres.
package flagsdb

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	logging "github.com/ipfs/go-log/v2"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/xerrors"

	"github.com/oklabflensburg/uranus-i18n-tools/internal/config"
	"github.com/oklabflensburg/uranus-i18n-tools/internal/flagsgen"
)

var log = logging.Logger("flagsdb")

type DB struct {
	pool *pgxpool.Pool
}

type tracer struct{}

type ctxkey string

var sqlStart = ctxkey("sqlStart")

func (tracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	log.Debugw("query", "sql", data.SQL)
	return context.WithValue(ctx, sqlStart, time.Now())
}

func (tracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, _ := ctx.Value(sqlStart).(time.Time)
	log.Debugw("query done", "took", time.Since(start), "rows", data.CommandTag.RowsAffected(), "error", data.Err)
}

// Open connects to the database described by cfg and verifies the
// connection with a ping.
func Open(ctx context.Context, cfg config.DB) (*DB, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.ConnString())
	if err != nil {
		return nil, xerrors.Errorf("parsing connection settings: %w", err)
	}
	pcfg.ConnConfig.Tracer = tracer{}
	pcfg.ConnConfig.OnNotice = func(_ *pgconn.PgConn, n *pgconn.Notice) {
		log.Warnw("database notice", "message", n.Message, "detail", n.Detail)
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, xerrors.Errorf("connecting to %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Database, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, xerrors.Errorf("connecting to %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Database, err)
	}
	log.Infow("connected", "host", cfg.Host, "port", cfg.Port, "database", cfg.Database)
	return &DB{pool: pool}, nil
}

func (db *DB) Close() {
	db.pool.Close()
}

// TopicRows returns every row of a topic table.
func (db *DB) TopicRows(ctx context.Context, table string) ([]flagsgen.TopicRow, error) {
	ident, err := QuoteTable(table)
	if err != nil {
		return nil, err
	}
	var rows []flagsgen.TopicRow
	err = pgxscan.Select(ctx, db.pool, &rows, "SELECT topic_id, iso_639_1, name, key FROM "+ident)
	if err != nil {
		return nil, explain(table, err)
	}
	return rows, nil
}

// FlagRows returns every row of a flag table.
func (db *DB) FlagRows(ctx context.Context, table string) ([]flagsgen.FlagRow, error) {
	ident, err := QuoteTable(table)
	if err != nil {
		return nil, err
	}
	var rows []flagsgen.FlagRow
	err = pgxscan.Select(ctx, db.pool, &rows, "SELECT flag, iso_639_1, name, topic_id, key FROM "+ident)
	if err != nil {
		return nil, explain(table, err)
	}
	return rows, nil
}

// QuoteTable turns "schema.table" or "table" into a quoted identifier.
func QuoteTable(table string) (string, error) {
	parts := strings.Split(table, ".")
	if len(parts) > 2 {
		return "", xerrors.Errorf("table name %q has too many parts", table)
	}
	for _, p := range parts {
		if p == "" {
			return "", xerrors.Errorf("table name %q has an empty part", table)
		}
	}
	return pgx.Identifier(parts).Sanitize(), nil
}

func explain(table string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UndefinedTable:
			return xerrors.Errorf("table %s does not exist: %w", table, err)
		case pgerrcode.UndefinedColumn:
			return xerrors.Errorf("table %s lacks an expected column (%s): %w", table, pgErr.Message, err)
		}
	}
	return xerrors.Errorf("querying %s: %w", table, err)
}

var _ flagsgen.RowSource = (*DB)(nil)

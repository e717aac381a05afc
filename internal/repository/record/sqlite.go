package record

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	dom "github.com/kailas-cloud/taxodex/internal/domain/record"
)

// Schema is the table layout read by SQLiteLoader.
const Schema = `CREATE TABLE IF NOT EXISTS records (
	kind    TEXT NOT NULL,
	id      TEXT NOT NULL,
	payload TEXT NOT NULL,
	PRIMARY KEY (kind, id)
)`

// SQLiteLoader reads records(kind, id, payload) in insertion (rowid) order.
// payload holds one JSON record.
type SQLiteLoader struct {
	path   string
	logger *zap.Logger
}

// NewSQLiteLoader creates a SQLiteLoader for the database at path.
func NewSQLiteLoader(path string, logger *zap.Logger) *SQLiteLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLiteLoader{path: path, logger: logger}
}

// Name implements Loader.
func (l *SQLiteLoader) Name() string { return "sqlite" }

// Load implements Loader.
func (l *SQLiteLoader) Load(ctx context.Context) (dom.Collections, error) {
	conn, err := sql.Open("sqlite", l.path)
	if err != nil {
		return dom.Collections{}, fmt.Errorf("open sqlite %s: %w", l.path, err)
	}
	defer func() { _ = conn.Close() }()

	rows, err := conn.QueryContext(ctx, `SELECT kind, id, payload FROM records ORDER BY rowid`)
	if err != nil {
		return dom.Collections{}, fmt.Errorf("query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	lists := make(map[dom.Kind][]dom.Record, len(dom.Kinds))
	for rows.Next() {
		var kindName, id, payload string
		if err := rows.Scan(&kindName, &id, &payload); err != nil {
			return dom.Collections{}, fmt.Errorf("scan record: %w", err)
		}
		kind, err := dom.ParseKind(kindName)
		if err != nil {
			l.logger.Warn("skipping record of unknown kind", zap.String("kind", kindName), zap.String("id", id))
			continue
		}
		rec, err := dom.DecodeOne(kind, []byte(payload))
		if err != nil {
			return dom.Collections{}, fmt.Errorf("record %s: %w", id, err)
		}
		lists[kind] = append(lists[kind], rec)
	}
	if err := rows.Err(); err != nil {
		return dom.Collections{}, fmt.Errorf("iterate records: %w", err)
	}

	var cols dom.Collections
	for _, k := range dom.Kinds {
		if err := cols.Set(k, lists[k]); err != nil {
			return dom.Collections{}, err //nolint:wrapcheck // kind mismatch is self-describing
		}
	}
	return cols, nil
}

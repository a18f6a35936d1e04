package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/w-h-a/demo/storer"
	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS collections (
		name TEXT PRIMARY KEY
	);
	CREATE TABLE IF NOT EXISTS records (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		document TEXT NOT NULL,
		metadata TEXT NOT NULL,
		embedding BLOB,
		UNIQUE (collection, id)
	);
	CREATE INDEX IF NOT EXISTS idx_records_collection ON records (collection);
`

type sqliteStorer struct {
	options storer.Options
	db      *sql.DB
}

func (s *sqliteStorer) CreateCollection(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO collections (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, name)
	return err
}

func (s *sqliteStorer) DeleteCollection(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE name = ?`, name)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("%w: %s", storer.ErrCollectionNotFound, name)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE collection = ?`, name); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *sqliteStorer) Add(ctx context.Context, name string, records []storer.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.ensureCollection(ctx, tx, name); err != nil {
		return err
	}

	var lookupErr error
	exists := func(id string) bool {
		var one int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM records WHERE collection = ? AND id = ?`, name, id).Scan(&one)
		if err != nil && err != sql.ErrNoRows {
			lookupErr = err
		}
		return err == nil
	}

	if err := storer.CheckUnique(records, exists); err != nil {
		return err
	}
	if lookupErr != nil {
		return lookupErr
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records (collection, id, document, metadata, embedding) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		meta, err := json.Marshal(storer.CopyMetadata(rec.Metadata))
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, name, rec.Id, rec.Document, string(meta), storer.EncodeEmbedding(rec.Embedding)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *sqliteStorer) Search(ctx context.Context, name string, vector []float32, limit int) ([]storer.Record, error) {
	if limit < 1 {
		return nil, nil
	}

	if err := s.ensureCollection(ctx, s.db, name); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document, metadata, embedding
		FROM records
		WHERE collection = ?
		ORDER BY seq ASC
	`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []storer.Record
	for rows.Next() {
		var rec storer.Record
		var meta string
		var blob []byte

		if err := rows.Scan(&rec.Id, &rec.Document, &meta, &blob); err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(meta), &rec.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata of %s: %w", rec.Id, err)
		}
		rec.Metadata = storer.CopyMetadata(rec.Metadata)

		if rec.Embedding, err = storer.DecodeEmbedding(blob); err != nil {
			return nil, err
		}

		candidates = append(candidates, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return storer.Rank(candidates, vector, limit), nil
}

func (s *sqliteStorer) Count(ctx context.Context, name string) (int, error) {
	if err := s.ensureCollection(ctx, s.db, name); err != nil {
		return 0, err
	}

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE collection = ?`, name).Scan(&n); err != nil {
		return 0, err
	}

	return n, nil
}

func (s *sqliteStorer) Close() error {
	return s.db.Close()
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *sqliteStorer) ensureCollection(ctx context.Context, q querier, name string) error {
	var found string
	err := q.QueryRowContext(ctx, `SELECT name FROM collections WHERE name = ?`, name).Scan(&found)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", storer.ErrCollectionNotFound, name)
	}
	return err
}

func NewStorer(opts ...storer.Option) storer.Storer {
	options := storer.NewOptions(opts...)

	if len(options.Location) == 0 {
		options.Location = ":memory:"
	}

	db, err := sql.Open("sqlite", options.Location)
	if err != nil {
		detail := "failed to open sqlite storer"
		slog.ErrorContext(options.Context, detail, "location", options.Location, "error", err)
		panic(detail)
	}

	// every pooled connection to :memory: would otherwise see its own database
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(options.Context, schema); err != nil {
		detail := "failed to create sqlite storer schema"
		slog.ErrorContext(options.Context, detail, "location", options.Location, "error", err)
		panic(detail)
	}

	return &sqliteStorer{
		options: options,
		db:      db,
	}
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a Store keeping every collection in the documents table.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool}
}

func (s *postgresStore) Collection(name string) Collection {
	return &postgresCollection{pool: s.pool, name: name}
}

func (s *postgresStore) Ping(ctx context.Context) error {
	if s.pool == nil {
		return errors.New("postgres pool not configured")
	}
	return s.pool.Ping(ctx)
}

type postgresCollection struct {
	pool *pgxpool.Pool
	name string
}

func (c *postgresCollection) Find(ctx context.Context, filter Filter) ([]Document, error) {
	const query = `
        SELECT doc FROM documents
        WHERE collection=$1 AND doc @> $2::jsonb
        ORDER BY created_at, id`

	filterJSON, err := encodeJSON(filter)
	if err != nil {
		return nil, err
	}
	rows, err := c.pool.Query(ctx, query, c.name, filterJSON)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []Document{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		doc, err := decodeDocument(raw)
		if err != nil {
			return nil, err
		}
		result = append(result, doc)
	}
	return result, rows.Err()
}

func (c *postgresCollection) FindOne(ctx context.Context, filter Filter) (Document, error) {
	const query = `
        SELECT doc FROM documents
        WHERE collection=$1 AND doc @> $2::jsonb
        ORDER BY created_at, id
        LIMIT 1`

	filterJSON, err := encodeJSON(filter)
	if err != nil {
		return nil, err
	}
	var raw []byte
	if err := c.pool.QueryRow(ctx, query, c.name, filterJSON).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeDocument(raw)
}

func (c *postgresCollection) InsertOne(ctx context.Context, doc Document) (*InsertResult, error) {
	const query = `
        INSERT INTO documents (collection, id, doc)
        VALUES ($1, $2, $3::jsonb)`

	prepared, err := prepareInsert(doc)
	if err != nil {
		return nil, err
	}
	docJSON, err := encodeJSON(prepared)
	if err != nil {
		return nil, err
	}
	if _, err := c.pool.Exec(ctx, query, c.name, prepared.ID(), docJSON); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicateID
		}
		return nil, err
	}
	return &InsertResult{Acknowledged: true, InsertedID: prepared.ID()}, nil
}

func (c *postgresCollection) UpdateOne(ctx context.Context, filter Filter, set Document, opts UpdateOptions) (*UpdateResult, error) {
	// Fields compare whole, matching the top-level replace done by ||.
	const selectQuery = `
        SELECT id, NOT EXISTS (
            SELECT 1 FROM jsonb_each($3::jsonb) AS s(k, v)
            WHERE doc->s.k IS DISTINCT FROM s.v
        )
        FROM documents
        WHERE collection=$1 AND doc @> $2::jsonb
        ORDER BY created_at, id
        LIMIT 1
        FOR UPDATE`
	// Serializes upserts on the same filter; FOR UPDATE locks nothing when no row matches.
	const lockQuery = `SELECT pg_advisory_xact_lock(hashtext($1::text || ':' || $2::text))`
	const updateQuery = `
        UPDATE documents SET doc = doc || $3::jsonb, updated_at=NOW()
        WHERE collection=$1 AND id=$2`
	const insertQuery = `
        INSERT INTO documents (collection, id, doc)
        VALUES ($1, $2, $3::jsonb)`

	prepared, err := prepareSet(set)
	if err != nil {
		return nil, err
	}
	filterJSON, err := encodeJSON(filter)
	if err != nil {
		return nil, err
	}
	setJSON, err := encodeJSON(prepared)
	if err != nil {
		return nil, err
	}

	result := &UpdateResult{Acknowledged: true}
	err = pgx.BeginFunc(ctx, c.pool, func(tx pgx.Tx) error {
		if opts.Upsert {
			if _, err := tx.Exec(ctx, lockQuery, c.name, filterJSON); err != nil {
				return err
			}
		}

		var (
			id        string
			unchanged bool
		)
		err := tx.QueryRow(ctx, selectQuery, c.name, filterJSON, setJSON).Scan(&id, &unchanged)
		if errors.Is(err, pgx.ErrNoRows) {
			if !opts.Upsert {
				return nil
			}
			doc, err := upsertDocument(filter, prepared)
			if err != nil {
				return err
			}
			docJSON, err := encodeJSON(doc)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, insertQuery, c.name, doc.ID(), docJSON); err != nil {
				return err
			}
			upsertedID := doc.ID()
			result.UpsertedCount = 1
			result.UpsertedID = &upsertedID
			return nil
		}
		if err != nil {
			return err
		}

		result.MatchedCount = 1
		if unchanged {
			return nil
		}
		if _, err := tx.Exec(ctx, updateQuery, c.name, id, setJSON); err != nil {
			return err
		}
		result.ModifiedCount = 1
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *postgresCollection) DeleteOne(ctx context.Context, filter Filter) (*DeleteResult, error) {
	const query = `
        DELETE FROM documents
        WHERE collection=$1 AND id = (
            SELECT id FROM documents
            WHERE collection=$1 AND doc @> $2::jsonb
            ORDER BY created_at, id
            LIMIT 1
        )`

	filterJSON, err := encodeJSON(filter)
	if err != nil {
		return nil, err
	}
	cmd, err := c.pool.Exec(ctx, query, c.name, filterJSON)
	if err != nil {
		return nil, err
	}
	return &DeleteResult{Acknowledged: true, DeletedCount: cmd.RowsAffected()}, nil
}

func encodeJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	// nil filters match everything
	if string(raw) == "null" {
		return "{}", nil
	}
	return string(raw), nil
}

func decodeDocument(raw []byte) (Document, error) {
	doc := Document{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

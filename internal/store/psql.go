package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/mapty/internal/telemetry/tracing"
	"github.com/2beens/mapty/internal/workout"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

// querier is satisfied by *pgxpool.Pool (and pgxmock pools in tests)
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PsqlStore keeps the serialized collection in a key/value table:
//
//	CREATE TABLE kv_store (key TEXT PRIMARY KEY, value TEXT NOT NULL);
type PsqlStore struct {
	db  querier
	key string
}

func NewPsqlStore(db querier, key string) *PsqlStore {
	if key == "" {
		key = DefaultKey
	}
	return &PsqlStore{
		db:  db,
		key: key,
	}
}

const createTableSQL = `CREATE TABLE IF NOT EXISTS kv_store
(
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`

// EnsureSchema creates the key/value table if it does not exist yet.
func (s *PsqlStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create kv_store table: %w", err)
	}
	return nil
}

func (s *PsqlStore) Save(ctx context.Context, workouts []*workout.Workout) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.psql.save")
	defer span.End()

	data, err := Encode(workouts)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if _, err := s.db.Exec(
		ctx,
		`INSERT INTO kv_store (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value;`,
		s.key, string(data),
	); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("upsert %s: %w", s.key, err)
	}

	return nil
}

func (s *PsqlStore) Load(ctx context.Context) []*workout.Workout {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.psql.load")
	defer span.End()

	var value string
	err := s.db.QueryRow(
		ctx,
		`SELECT value FROM kv_store WHERE key = $1;`,
		s.key,
	).Scan(&value)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Errorf("psql store: select %s: %s", s.key, err)
			span.SetStatus(codes.Error, err.Error())
		}
		return []*workout.Workout{}
	}

	return decodeOrEmpty("psql", []byte(value))
}

func (s *PsqlStore) Clear(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM kv_store WHERE key = $1;`, s.key); err != nil {
		return fmt.Errorf("delete %s: %w", s.key, err)
	}
	return nil
}

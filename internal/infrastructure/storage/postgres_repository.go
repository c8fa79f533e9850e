package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"trendscout/internal/domain"
	"trendscout/internal/ports"
)

// PostgresRepository persists research sessions and raw item batches.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ScoutRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// CreateSession inserts a new research session row.
func (r *PostgresRepository) CreateSession(ctx context.Context, session domain.ResearchSession) error {
	if r.db == nil {
		return fmt.Errorf("storage not configured")
	}

	query, args, err := r.builder.
		Insert("research_sessions").
		Columns("id", "topic", "status").
		Values(session.ID, session.Topic, string(session.Status)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build session insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

// SaveItems writes the whole batch in a single statement inside one
// transaction; callers never invoke it with an empty batch, but an empty
// batch is a no-op regardless.
func (r *PostgresRepository) SaveItems(ctx context.Context, items []domain.RawItem) error {
	if r.db == nil {
		return fmt.Errorf("storage not configured")
	}
	if len(items) == 0 {
		return nil
	}

	insert := r.builder.
		Insert("raw_news").
		Columns("session_id", "source", "title", "url", "summary")
	for _, item := range items {
		insert = insert.Values(item.SessionID, string(item.Source), item.Title, item.URL, item.Summary)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build items insert: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert items: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit items: %w", err)
	}

	return nil
}

// UpdateSessionStatus records the terminal state of a scouting run.
func (r *PostgresRepository) UpdateSessionStatus(ctx context.Context, id uuid.UUID, status domain.SessionStatus) error {
	if r.db == nil {
		return fmt.Errorf("storage not configured")
	}

	query, args, err := r.builder.
		Update("research_sessions").
		Set("status", string(status)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build status update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update session status: %w", err)
	}

	return nil
}

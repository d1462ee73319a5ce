package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"dealchecker/internal/compliance"
	"dealchecker/internal/task"
	"dealchecker/pkg/platform/sentinel"
	txcontext "dealchecker/pkg/platform/tx"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

// PostgresStore persists tasks in PostgreSQL. It is pure I/O; lifecycle rules
// live in the task service.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the table and indexes if they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate review_tasks: %w", err)
	}
	return nil
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// RunInTx runs fn with a transaction carried in its context. Store calls made
// with that context join the transaction.
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return txcontext.Run(ctx, s.db, fn)
}

const taskColumns = `id, deal_id, status, check_type, resolution_type, resolution_comment,
	category, issue, idempotency_key, actor_id, created_at, resolved_at`

func (s *PostgresStore) Create(ctx context.Context, t *task.Task) error {
	var resType, resComment sql.NullString
	if t.Resolution != nil {
		resType = nullString(string(t.Resolution.Type))
		resComment = nullString(t.Resolution.Comment)
	}
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO review_tasks (`+taskColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.ID,
		t.DealID,
		string(t.Status),
		string(t.CheckType),
		resType,
		resComment,
		nullString(string(t.Category)),
		nullString(t.Issue),
		nullString(t.IdempotencyKey),
		nullString(t.ActorID),
		t.CreatedAt,
		nullTime(t.ResolvedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*task.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, sentinel.ErrNotFound
	}
	row := s.execer(ctx).QueryRowContext(ctx, `SELECT `+taskColumns+` FROM review_tasks WHERE id = $1`, id)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find task by id: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) ListByDeal(ctx context.Context, dealID string) ([]*task.Task, error) {
	return s.list(ctx, `SELECT `+taskColumns+` FROM review_tasks WHERE deal_id = $1 ORDER BY seq`, dealID)
}

func (s *PostgresStore) FindByIdempotencyKey(ctx context.Context, dealID, key string) (*task.Task, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `
		SELECT `+taskColumns+` FROM review_tasks
		WHERE deal_id = $1 AND idempotency_key = $2`, dealID, key)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find task by idempotency key: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) ListOpenSystemChecks(ctx context.Context, dealID string) ([]*task.Task, error) {
	return s.list(ctx, `
		SELECT `+taskColumns+` FROM review_tasks
		WHERE deal_id = $1 AND status = 'OPEN' AND check_type = 'SYSTEM_CHECK'
		ORDER BY seq`, dealID)
}

// Resolve locks the row, checks it is still OPEN and marks it DONE.
func (s *PostgresStore) Resolve(ctx context.Context, id string, res task.Resolution, actorID string, at time.Time) (*task.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, sentinel.ErrNotFound
	}
	var resolved *task.Task
	err := s.RunInTx(ctx, func(ctx context.Context) error {
		row := s.execer(ctx).QueryRowContext(ctx,
			`SELECT `+taskColumns+` FROM review_tasks WHERE id = $1 FOR UPDATE`, id)
		current, err := scanTask(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return sentinel.ErrNotFound
			}
			return fmt.Errorf("lock task: %w", err)
		}
		if current.Status != task.StatusOpen {
			return sentinel.ErrInvalidState
		}

		_, err = s.execer(ctx).ExecContext(ctx, `
			UPDATE review_tasks
			SET status = 'DONE', resolution_type = $2, resolution_comment = $3, actor_id = $4, resolved_at = $5
			WHERE id = $1 AND status = 'OPEN'`,
			id, string(res.Type), nullString(res.Comment), nullString(actorID), at)
		if err != nil {
			return fmt.Errorf("resolve task: %w", err)
		}

		current.Status = task.StatusDone
		current.Resolution = &task.Resolution{Type: res.Type, Comment: res.Comment}
		current.ActorID = actorID
		resolvedAt := at
		current.ResolvedAt = &resolvedAt
		resolved = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]*task.Task, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*task.Task, error) {
	var (
		t                              task.Task
		status, checkType              string
		resType, resComment, category  sql.NullString
		issue, idempotencyKey, actorID sql.NullString
		resolvedAt                     sql.NullTime
	)
	err := row.Scan(
		&t.ID,
		&t.DealID,
		&status,
		&checkType,
		&resType,
		&resComment,
		&category,
		&issue,
		&idempotencyKey,
		&actorID,
		&t.CreatedAt,
		&resolvedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Status = task.Status(status)
	t.CheckType = task.CheckType(checkType)
	if resType.Valid {
		t.Resolution = &task.Resolution{Type: task.ResolutionType(resType.String), Comment: resComment.String}
	}
	t.Category = compliance.Category(category.String)
	t.Issue = issue.String
	t.IdempotencyKey = idempotencyKey.String
	t.ActorID = actorID.String
	if resolvedAt.Valid {
		at := resolvedAt.Time
		t.ResolvedAt = &at
	}
	return &t, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/project-service/internal/domain"
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation. The time_logs (task_id, author_id) index relies on this to
// turn a racing duplicate insert into a conflict.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// TimeLogWithTask carries a log together with its task title for
// listing responses.
type TimeLogWithTask struct {
	domain.TimeLog
	TaskTitle string
}

// TimeLogRepository manages persistence for time logs.
type TimeLogRepository interface {
	Create(ctx context.Context, log *domain.TimeLog) error
	ExistsByTaskAndAuthor(ctx context.Context, taskID, authorID string) (bool, error)
	ListByAuthor(ctx context.Context, authorID string) ([]TimeLogWithTask, error)
}

type timeLogRepository struct {
	pool *pgxpool.Pool
}

// NewTimeLogRepository constructs repository.
func NewTimeLogRepository(pool *pgxpool.Pool) TimeLogRepository {
	return &timeLogRepository{pool: pool}
}

func (r *timeLogRepository) Create(ctx context.Context, log *domain.TimeLog) error {
	const query = `
        INSERT INTO time_logs (task_id, author_id, hours, description)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		log.TaskID,
		log.AuthorID,
		log.Hours,
		log.Description,
	).Scan(&log.ID, &log.CreatedAt)
}

func (r *timeLogRepository) ExistsByTaskAndAuthor(ctx context.Context, taskID, authorID string) (bool, error) {
	const query = `SELECT 1 FROM time_logs WHERE task_id=$1 AND author_id=$2 LIMIT 1`
	var one int
	err := r.pool.QueryRow(ctx, query, taskID, authorID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *timeLogRepository) ListByAuthor(ctx context.Context, authorID string) ([]TimeLogWithTask, error) {
	const query = `
        SELECT l.id, l.task_id, l.author_id, l.hours, l.description, l.created_at, t.title
        FROM time_logs l
        JOIN tasks t ON t.id = l.task_id
        WHERE l.author_id=$1 ORDER BY l.created_at DESC`
	rows, err := r.pool.Query(ctx, query, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TimeLogWithTask
	for rows.Next() {
		var log TimeLogWithTask
		if err := rows.Scan(&log.ID, &log.TaskID, &log.AuthorID, &log.Hours, &log.Description, &log.CreatedAt, &log.TaskTitle); err != nil {
			return nil, err
		}
		result = append(result, log)
	}
	return result, rows.Err()
}

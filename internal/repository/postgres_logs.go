package repository

import (
	"context"
	"database/sql"
	"fmt"

	"mineq-data/internal/domain"
)

// PostgresLogsRepo 日志仓库 postgres 实现
type PostgresLogsRepo struct {
	db *sql.DB
}

func NewPostgresLogsRepo(db *sql.DB) *PostgresLogsRepo {
	return &PostgresLogsRepo{db: db}
}

var _ LogsRepo = (*PostgresLogsRepo)(nil)

const logColumns = `id, eq_id, log_type, log_date, operator, details`

func (r *PostgresLogsRepo) List(ctx context.Context) ([]domain.Log, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+logColumns+` FROM logs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	logs := []domain.Log{}
	for rows.Next() {
		var l domain.Log
		if err := rows.Scan(&l.ID, &l.EqID, &l.LogType, &l.LogDate, &l.Operator, &l.Details); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *PostgresLogsRepo) Create(ctx context.Context, l domain.Log) (domain.Log, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO logs (id, eq_id, log_type, log_date, operator, details)
		 VALUES ((SELECT COALESCE(MAX(id), 0) + 1 FROM logs), $1, $2, $3, $4, $5)
		 RETURNING id`,
		l.EqID, l.LogType, l.LogDate, l.Operator, l.Details,
	).Scan(&l.ID)
	if err != nil {
		return domain.Log{}, fmt.Errorf("create log: %w", err)
	}
	return l, nil
}

func (r *PostgresLogsRepo) Replace(ctx context.Context, id int, l domain.Log) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE logs SET eq_id = $2, log_type = $3, log_date = $4, operator = $5, details = $6
		 WHERE id = $1`,
		id, l.EqID, l.LogType, l.LogDate, l.Operator, l.Details,
	)
	if err != nil {
		return fmt.Errorf("replace log: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresLogsRepo) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM logs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete log: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mineq-data/internal/domain"

	"github.com/lib/pq"
)

// PostgresUsersRepo 用户仓库 postgres 实现
type PostgresUsersRepo struct {
	db *sql.DB
}

func NewPostgresUsersRepo(db *sql.DB) *PostgresUsersRepo {
	return &PostgresUsersRepo{db: db}
}

var _ UsersRepo = (*PostgresUsersRepo)(nil)

const userColumns = `username, password_hash, role, status, fullname, team, contact`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.Username, &u.PasswordHash, &u.Role, &u.Status, &u.Fullname, &u.Team, &u.Contact); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresUsersRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *PostgresUsersRepo) Get(ctx context.Context, username string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *PostgresUsersRepo) Create(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.Username, u.PasswordHash, string(u.Role), string(u.Status), u.Fullname, u.Team, u.Contact,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *PostgresUsersRepo) Replace(ctx context.Context, username string, u domain.User) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET password_hash = $2, role = $3, status = $4, fullname = $5, team = $6, contact = $7
		 WHERE username = $1`,
		username, u.PasswordHash, string(u.Role), string(u.Status), u.Fullname, u.Team, u.Contact,
	)
	if err != nil {
		return fmt.Errorf("replace user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresUsersRepo) Delete(ctx context.Context, username string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE username = $1`, username); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (r *PostgresUsersRepo) GetByCredentials(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE username = $1 AND password_hash = $2 AND status = 'active'`,
		username, passwordHash))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("match credentials: %w", err)
	}
	return u, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"mineq-data/internal/domain"
)

// EnsureSchema 建表（幂等）
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			username      TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL,
			status        TEXT NOT NULL,
			fullname      TEXT NOT NULL DEFAULT '',
			team          TEXT NOT NULL DEFAULT '',
			contact       TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS equipment (
			id                   INTEGER PRIMARY KEY,
			name                 TEXT NOT NULL,
			model                TEXT NOT NULL DEFAULT '',
			serial_number        TEXT NOT NULL DEFAULT '',
			status               TEXT NOT NULL,
			category             TEXT NOT NULL DEFAULT '',
			is_special           BOOLEAN NOT NULL DEFAULT FALSE,
			team                 TEXT NOT NULL DEFAULT '',
			manufacturer         TEXT NOT NULL DEFAULT '',
			production_date      TEXT NOT NULL DEFAULT '',
			commission_date      TEXT NOT NULL DEFAULT '',
			next_inspection_date TEXT NOT NULL DEFAULT '',
			last_inspection_date TEXT NOT NULL DEFAULT '',
			inspection_cycle     INTEGER NOT NULL DEFAULT 0,
			inspector            TEXT NOT NULL DEFAULT '',
			special_license      TEXT NOT NULL DEFAULT '',
			notes                TEXT NOT NULL DEFAULT '',
			motor_model          TEXT NOT NULL DEFAULT '',
			power_rating         TEXT NOT NULL DEFAULT '',
			ma_ex_code           TEXT NOT NULL DEFAULT '',
			reducer_model        TEXT NOT NULL DEFAULT '',
			location             TEXT NOT NULL DEFAULT '',
			"usage"              TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS logs (
			id       INTEGER PRIMARY KEY,
			eq_id    INTEGER NOT NULL,
			log_type TEXT NOT NULL,
			log_date TEXT NOT NULL DEFAULT '',
			operator TEXT NOT NULL DEFAULT '',
			details  TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_logs_eq_id ON logs (eq_id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SeedDefaultUsers 写入两个默认账号（已存在则跳过）
func SeedDefaultUsers(ctx context.Context, db *sql.DB) error {
	for _, u := range domain.SeedUsers() {
		_, err := db.ExecContext(ctx,
			`INSERT INTO users (username, password_hash, role, status, fullname, team, contact)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (username) DO NOTHING`,
			u.Username, u.PasswordHash, string(u.Role), string(u.Status), u.Fullname, u.Team, u.Contact,
		)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}
	return nil
}

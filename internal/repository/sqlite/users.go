package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/garnizeh/jobhunt/internal/apperr"
	"github.com/garnizeh/jobhunt/pkg/models"
)

func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) (string, error) {
	if u == nil {
		return "", fmt.Errorf("user is nil")
	}

	prefs := u.JobPreferences
	if prefs == nil {
		prefs = []string{}
	}
	pb, err := json.Marshal(prefs)
	if err != nil {
		return "", fmt.Errorf("encode job preferences: %w", err)
	}

	id := uuid.NewString()
	_, err = r.conn.Exec(ctx, `INSERT INTO users (id, email, full_name, hashed_password, disabled, created_at, job_preferences) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, u.Email, u.FullName, u.HashedPassword, boolInt(u.Disabled), u.CreatedAt.UTC().Format(time.RFC3339Nano), string(pb))
	if isUniqueViolation(err) {
		return "", fmt.Errorf("%w: email already registered", apperr.ErrConflict)
	}
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}

	return id, nil
}

func (r *SQLiteRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, email, full_name, hashed_password, disabled, created_at, last_login, job_preferences FROM users WHERE email = ?`, email)

	var (
		u         models.User
		createdAt string
		lastLogin sql.NullString
		prefs     string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.HashedPassword, &u.Disabled, &createdAt, &lastLogin, &prefs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	var err error
	if u.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if lastLogin.Valid {
		t, err := time.Parse(time.RFC3339Nano, lastLogin.String)
		if err != nil {
			return nil, fmt.Errorf("parse last_login: %w", err)
		}
		u.LastLogin = &t
	}
	if err := json.Unmarshal([]byte(prefs), &u.JobPreferences); err != nil {
		return nil, fmt.Errorf("decode job preferences: %w", err)
	}

	return &u, nil
}

func (r *SQLiteRepo) UpdateLastLogin(ctx context.Context, email string, at time.Time) error {
	res, err := r.conn.Exec(ctx, `UPDATE users SET last_login = ? WHERE email = ?`, at.UTC().Format(time.RFC3339Nano), email)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ShinaSIT/Helix-Telebot/internal/domain"
	"github.com/rs/zerolog"
)

// ErrUserNotFound reports a lookup for an unregistered telegram id or
// unknown username.
var ErrUserNotFound = errors.New("user not found")

const userColumns = "telegram_id, name, username, role, alliance, grp, hp, active, created_at, updated_at"

type UserRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewUserRepository(db *sql.DB, logger zerolog.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

func (r *UserRepository) Get(ctx context.Context, telegramID int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE telegram_id = ?", telegramID)
	return scanUser(row)
}

// GetByUsername resolves a username to a user, first by exact match and
// then case-insensitively, mirroring how sheet-maintained rosters mix
// capitalization.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return nil, ErrUserNotFound
	}

	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = ?", username)
	user, err := scanUser(row)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	row = r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE LOWER(username) = LOWER(?)", username)
	return scanUser(row)
}

func (r *UserRepository) Upsert(ctx context.Context, user *domain.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (telegram_id, name, username, role, alliance, grp, hp, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (telegram_id) DO UPDATE SET
			name = excluded.name,
			username = excluded.username,
			role = excluded.role,
			alliance = excluded.alliance,
			grp = excluded.grp,
			hp = excluded.hp,
			active = excluded.active,
			updated_at = excluded.updated_at`,
		user.TelegramID, user.Name, user.Username, user.Role, user.Alliance,
		user.Group, user.HP, user.Active, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert user %d: %w", user.TelegramID, err)
	}
	return nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, telegramID int64, role string) error {
	return r.updateField(ctx, telegramID, "role = ?", role)
}

func (r *UserRepository) UpdateHP(ctx context.Context, telegramID int64, hp int) error {
	return r.updateField(ctx, telegramID, "hp = ?", hp)
}

func (r *UserRepository) SetActive(ctx context.Context, telegramID int64, active bool) error {
	return r.updateField(ctx, telegramID, "active = ?", active)
}

func (r *UserRepository) updateField(ctx context.Context, telegramID int64, assignment string, value any) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET "+assignment+", updated_at = ? WHERE telegram_id = ?",
		value, time.Now(), telegramID)
	if err != nil {
		return fmt.Errorf("failed to update user %d: %w", telegramID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.query(ctx, "SELECT "+userColumns+" FROM users ORDER BY name")
}

func (r *UserRepository) ListByRole(ctx context.Context, role string) ([]domain.User, error) {
	return r.query(ctx, "SELECT "+userColumns+" FROM users WHERE role = ? ORDER BY name", role)
}

func (r *UserRepository) query(ctx context.Context, q string, args ...any) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.TelegramID, &u.Name, &u.Username, &u.Role, &u.Alliance,
			&u.Group, &u.HP, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.TelegramID, &u.Name, &u.Username, &u.Role, &u.Alliance,
		&u.Group, &u.HP, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

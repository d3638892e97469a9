package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/konvff/taxi-api/internal/apperrors"
)

type UserRepo interface {
	CreateUser(ctx context.Context, u *User) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, upd *UserUpdate) (*User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	UpdateUserStatus(ctx context.Context, id uuid.UUID, status int) (*User, error)
	UpdateUserRating(ctx context.Context, id uuid.UUID, rating float64, ratingCount int) (*User, error)
	SetUserActive(ctx context.Context, id uuid.UUID, isActive int) (*User, error)
	SetFCMToken(ctx context.Context, id uuid.UUID, token string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	FirstAdmin(ctx context.Context) (*User, error)
	AdminsWithToken(ctx context.Context) ([]*User, error)
	SavePasswordReset(ctx context.Context, email, code string) error
	CheckPasswordReset(ctx context.Context, email, code string) (bool, error)
	DeletePasswordReset(ctx context.Context, email string) error
}

const userColumns = `id, name, email, phone, password, role, category, location, photo_url,
	car_name, car_model, car_color, rating, rating_count, is_active, status, fcm_token,
	created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.Password, &u.Role, &u.Category, &u.Location, &u.PhotoURL,
		&u.CarName, &u.CarModel, &u.CarColor, &u.Rating, &u.RatingCount, &u.IsActive, &u.Status, &u.FCMToken,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user")
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (pg *PostgresRepo) CreateUser(ctx context.Context, u *User) (*User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now()
	row := pg.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, phone, password, role, category, location, photo_url,
			car_name, car_model, car_color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
		RETURNING `+userColumns,
		u.ID, u.Name, u.Email, u.Phone, u.Password, u.Role, u.Category, u.Location, u.PhotoURL,
		u.CarName, u.CarModel, u.CarColor, now,
	)
	return scanUser(row)
}

func (pg *PostgresRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return scanUser(pg.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (pg *PostgresRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(pg.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (pg *PostgresRepo) ListUsers(ctx context.Context) ([]*User, error) {
	rows, err := pg.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (pg *PostgresRepo) UpdateUser(ctx context.Context, id uuid.UUID, upd *UserUpdate) (*User, error) {
	// COALESCE keeps the stored value wherever the payload left a field out.
	row := pg.pool.QueryRow(ctx, `
		UPDATE users
		SET name = COALESCE($2, name),
			email = COALESCE($3, email),
			phone = COALESCE($4, phone),
			role = COALESCE($5, role),
			category = COALESCE($6, category),
			location = COALESCE($7, location),
			photo_url = COALESCE($8, photo_url),
			car_name = COALESCE($9, car_name),
			car_model = COALESCE($10, car_model),
			car_color = COALESCE($11, car_color),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		id, upd.Name, upd.Email, upd.Phone, upd.Role, upd.Category,
		upd.Location, upd.PhotoURL, upd.CarName, upd.CarModel, upd.CarColor,
	)
	return scanUser(row)
}

func (pg *PostgresRepo) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tag, err := pg.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("user")
	}
	return nil
}

func (pg *PostgresRepo) UpdateUserStatus(ctx context.Context, id uuid.UUID, status int) (*User, error) {
	row := pg.pool.QueryRow(ctx, `
		UPDATE users SET status = $2, updated_at = NOW() WHERE id = $1
		RETURNING `+userColumns, id, status)
	return scanUser(row)
}

func (pg *PostgresRepo) UpdateUserRating(ctx context.Context, id uuid.UUID, rating float64, ratingCount int) (*User, error) {
	row := pg.pool.QueryRow(ctx, `
		UPDATE users SET rating = $2, rating_count = $3, updated_at = NOW() WHERE id = $1
		RETURNING `+userColumns, id, rating, ratingCount)
	return scanUser(row)
}

func (pg *PostgresRepo) SetUserActive(ctx context.Context, id uuid.UUID, isActive int) (*User, error) {
	row := pg.pool.QueryRow(ctx, `
		UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1
		RETURNING `+userColumns, id, isActive)
	return scanUser(row)
}

func (pg *PostgresRepo) SetFCMToken(ctx context.Context, id uuid.UUID, token string) error {
	_, err := pg.pool.Exec(ctx, `
		UPDATE users SET fcm_token = $2, updated_at = NOW() WHERE id = $1`, id, token)
	if err != nil {
		return fmt.Errorf("set fcm token: %w", err)
	}
	return nil
}

func (pg *PostgresRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	_, err := pg.pool.Exec(ctx, `
		UPDATE users SET password = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (pg *PostgresRepo) FirstAdmin(ctx context.Context) (*User, error) {
	return scanUser(pg.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at ASC LIMIT 1`, RoleAdmin))
}

func (pg *PostgresRepo) AdminsWithToken(ctx context.Context) ([]*User, error) {
	rows, err := pg.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE role = $1 AND fcm_token IS NOT NULL AND fcm_token <> ''`, RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("admins with token: %w", err)
	}
	defer rows.Close()

	admins := []*User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		admins = append(admins, u)
	}
	return admins, rows.Err()
}

func (pg *PostgresRepo) SavePasswordReset(ctx context.Context, email, code string) error {
	_, err := pg.pool.Exec(ctx, `
		INSERT INTO password_reset_tokens (email, token, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (email) DO UPDATE SET token = $2, created_at = NOW()`, email, code)
	if err != nil {
		return fmt.Errorf("save password reset: %w", err)
	}
	return nil
}

func (pg *PostgresRepo) CheckPasswordReset(ctx context.Context, email, code string) (bool, error) {
	var n int
	err := pg.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM password_reset_tokens WHERE email = $1 AND token = $2`,
		email, code).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check password reset: %w", err)
	}
	return n > 0, nil
}

func (pg *PostgresRepo) DeletePasswordReset(ctx context.Context, email string) error {
	_, err := pg.pool.Exec(ctx, `DELETE FROM password_reset_tokens WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("delete password reset: %w", err)
	}
	return nil
}

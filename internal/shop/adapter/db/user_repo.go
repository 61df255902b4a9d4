package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"veggie-orders/internal/shop/app/core"
	"veggie-orders/internal/shop/domain/models"
	xdb "veggie-orders/internal/xpkg/db"
	"veggie-orders/pkg/logger"
)

type UserRepo struct {
	db  *xdb.DB
	log logger.Logger
}

func NewUserRepo(db *xdb.DB, log logger.Logger) *UserRepo {
	return &UserRepo{db: db, log: log}
}

const userColumns = `
	id, uid, username, email, COALESCE(display_name, ''), COALESCE(phone, ''),
	password_hash, role, created_at, updated_at`

func (ur *UserRepo) Create(ctx context.Context, user models.User) (models.User, error) {
	err := ur.db.GetPool().QueryRow(ctx, `
		INSERT INTO users (uid, username, email, display_name, phone, password_hash, role)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7)
		RETURNING id, created_at, updated_at
	`,
		user.UID, user.Username, user.Email, user.DisplayName,
		user.Phone, user.PasswordHash, string(user.Role),
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, core.ErrUsernameTaken
		}
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

func (ur *UserRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return ur.get(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (ur *UserRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	return ur.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (ur *UserRepo) get(ctx context.Context, q string, arg any) (models.User, error) {
	var u models.User
	var role string
	err := ur.db.GetPool().QueryRow(ctx, q, arg).Scan(
		&u.ID, &u.UID, &u.Username, &u.Email, &u.DisplayName, &u.Phone,
		&u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, core.ErrUserNotFound
		}
		return models.User{}, err
	}
	u.Role = models.Role(role)
	return u, nil
}

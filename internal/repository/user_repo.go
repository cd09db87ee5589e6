package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"ecopulse/internal/crypto"
	"ecopulse/internal/models"
)

// ErrUserNotFound represents missing user rows.
var ErrUserNotFound = errors.New("user not found")

// UserRepository handles CRUD for the users table. Personal fields pass
// through the injected cipher on the way in and out.
type UserRepository struct {
	db     *sql.DB
	cipher *crypto.FieldCipher
}

// NewUserRepository returns repository instance.
func NewUserRepository(db *sql.DB, cipher *crypto.FieldCipher) *UserRepository {
	return &UserRepository{db: db, cipher: cipher}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	fullName, err := r.cipher.EncryptString(user.FullName)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO users (email, password_hash, role, full_name_enc)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query, user.Email, user.PasswordHash, user.Role, fullName).
		Scan(&user.ID, &user.CreatedAt)
}

// GetByEmail fetches a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `
		SELECT id, email, password_hash, role, full_name_enc, created_at
		FROM users
		WHERE email = $1
		LIMIT 1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email))))
}

// GetByID fetches a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const query = `
		SELECT id, email, password_hash, role, full_name_enc, created_at
		FROM users
		WHERE id = $1
		LIMIT 1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var fullName sql.NullString
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &fullName, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if fullName.Valid {
		user.FullName = r.cipher.DecryptString(fullName.String)
	}
	return &user, nil
}

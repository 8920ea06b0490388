package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const userColumns = `id, first_name, last_name, email, phone, qualification, password_hash, domains, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	var domains []byte
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.Qualification,
		&u.PasswordHash, &domains, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := u.Domains.Scan(domains); err != nil {
		return nil, fmt.Errorf("failed to decode domains: %w", err)
	}
	return &u, nil
}

// CreateUser inserts a user and returns its ID. Emails are stored lower-cased.
// Returns ErrEmailTaken when the email is already registered.
func (db *DB) CreateUser(ctx context.Context, u NewUser) (uuid.UUID, error) {
	id := uuid.New()
	_, err := db.pool.Exec(ctx,
		`INSERT INTO users (id, first_name, last_name, email, phone, qualification, password_hash)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, u.FirstName, u.LastName, strings.ToLower(u.Email), u.Phone, u.Qualification, u.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, ErrEmailTaken
		}
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// GetUser retrieves a user by ID
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := scanUser(db.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scanUser(db.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email)))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// CheckEmailExists reports whether a user with the email exists
func (db *DB) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`,
		strings.ToLower(email),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// UpdateProfile applies the non-empty fields of upd in a single statement
func (db *DB) UpdateProfile(ctx context.Context, id uuid.UUID, upd ProfileUpdate) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE users SET
			phone = COALESCE(NULLIF($1, ''), phone),
			password_hash = COALESCE(NULLIF($2, ''), password_hash),
			updated_at = NOW()
		WHERE id = $3`,
		upd.Phone, upd.PasswordHash, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddUserDomain adds a domain to the user's selected set. Adding a domain that
// is already selected is a no-op.
func (db *DB) AddUserDomain(ctx context.Context, id uuid.UUID, domain string) error {
	entry, err := StringArray{domain}.Value()
	if err != nil {
		return err
	}
	tag, err := db.pool.Exec(ctx,
		`UPDATE users
		 SET domains = CASE WHEN domains @> $1::jsonb THEN domains ELSE domains || $1::jsonb END,
		     updated_at = NOW()
		 WHERE id = $2`,
		entry, id,
	)
	if err != nil {
		return fmt.Errorf("failed to add domain: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes a user and everything it owns
func (db *DB) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

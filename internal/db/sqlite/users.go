package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/lernify/internal/db"
)

const userColumns = `id, first_name, last_name, email, phone, qualification, password_hash, domains, created_at, updated_at`

func scanUser(row rowScanner) (*db.User, error) {
	var u db.User
	var domains, createdAt, updatedAt string
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.Qualification,
		&u.PasswordHash, &domains, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if err := u.Domains.Scan(domains); err != nil {
		return nil, fmt.Errorf("failed to decode domains: %w", err)
	}
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a user and returns its ID. Returns db.ErrEmailTaken on a duplicate email.
func (s *Store) CreateUser(ctx context.Context, u db.NewUser) (uuid.UUID, error) {
	id := uuid.New()
	now := formatTime(s.now())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, '[]', ?, ?)`,
		id, u.FirstName, u.LastName, strings.ToLower(u.Email), u.Phone, u.Qualification, u.PasswordHash, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, db.ErrEmailTaken
		}
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// GetUser retrieves a user by ID, or nil when absent.
func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*db.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*db.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, strings.ToLower(email)))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// CheckEmailExists reports whether a user with the email exists.
func (s *Store) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, strings.ToLower(email)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return n > 0, nil
}

// UpdateProfile applies the non-empty fields of upd in a single statement.
func (s *Store) UpdateProfile(ctx context.Context, id uuid.UUID, upd db.ProfileUpdate) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET
			phone = COALESCE(NULLIF(?, ''), phone),
			password_hash = COALESCE(NULLIF(?, ''), password_hash),
			updated_at = ?
		WHERE id = ?`,
		upd.Phone, upd.PasswordHash, formatTime(s.now()), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if n == 0 {
		return db.ErrNotFound
	}
	return nil
}

// AddUserDomain adds a domain to the user's selected set.
func (s *Store) AddUserDomain(ctx context.Context, id uuid.UUID, domain string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var raw string
	if err := tx.QueryRowContext(ctx, `SELECT domains FROM users WHERE id = ?`, id).Scan(&raw); err != nil {
		if isNoRows(err) {
			return db.ErrNotFound
		}
		return fmt.Errorf("failed to read domains: %w", err)
	}

	var domains []string
	if err := json.Unmarshal([]byte(raw), &domains); err != nil {
		return fmt.Errorf("failed to decode domains: %w", err)
	}
	if slices.Contains(domains, domain) {
		return nil
	}

	encoded, err := json.Marshal(append(domains, domain))
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET domains = ?, updated_at = ? WHERE id = ?`,
		string(encoded), formatTime(s.now()), id,
	); err != nil {
		return fmt.Errorf("failed to add domain: %w", err)
	}
	return tx.Commit()
}

// DeleteUser removes a user and everything it owns.
func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

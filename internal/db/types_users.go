package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrEmailTaken is returned when a user is created with an email that is already registered.
var ErrEmailTaken = errors.New("email already registered")

// ErrNotFound is returned by updates that target a missing row.
var ErrNotFound = errors.New("record not found")

// User represents a registered learner
type User struct {
	ID            uuid.UUID   `json:"id"`
	FirstName     string      `json:"first_name"`
	LastName      string      `json:"last_name"`
	Email         string      `json:"email"`
	Phone         string      `json:"phone"`
	Qualification string      `json:"qualification"`
	PasswordHash  string      `json:"-" db:"password_hash"` // Never serialize to JSON
	Domains       StringArray `json:"domains"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// NewUser holds the fields required to create a user.
type NewUser struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	Qualification string
	PasswordHash  string
}

// ProfileUpdate lists the user fields to change. Empty fields are left as they are.
type ProfileUpdate struct {
	Phone        string
	PasswordHash string
}

// Empty reports whether the update changes nothing.
func (u ProfileUpdate) Empty() bool {
	return u.Phone == "" && u.PasswordHash == ""
}

// StringArray handles JSON-encoded string arrays
type StringArray []string

// Scan implements the Scanner interface for StringArray
func (a *StringArray) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = []string{}
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return errors.New("StringArray: unsupported source type")
	}
}

// Value implements the Valuer interface for StringArray
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}

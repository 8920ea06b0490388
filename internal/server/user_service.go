package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/lernify/internal/config"
	"github.com/jonathan/lernify/internal/db"
	"github.com/jonathan/lernify/internal/types"
)

// UserService provides business logic for user accounts.
type UserService struct {
	db             DBClient
	passwordConfig *config.PasswordConfig
}

// NewUserService creates a new UserService with the given dependencies
func NewUserService(db DBClient, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{
		db:             db,
		passwordConfig: passwordConfig,
	}
}

// convertDBUserToTypesUser converts db.User to types.User, excluding password hash
func convertDBUserToTypesUser(dbUser *db.User) *types.User {
	if dbUser == nil {
		return nil
	}
	domains := []string(dbUser.Domains)
	if domains == nil {
		domains = []string{}
	}
	return &types.User{
		ID:            dbUser.ID,
		FirstName:     dbUser.FirstName,
		LastName:      dbUser.LastName,
		Email:         dbUser.Email,
		Phone:         dbUser.Phone,
		Qualification: dbUser.Qualification,
		Domains:       domains,
		CreatedAt:     dbUser.CreatedAt,
		UpdatedAt:     dbUser.UpdatedAt,
	}
}

func (s *UserService) hash(password string) (string, error) {
	hash, err := s.passwordConfig.HashPassword(password)
	if errors.Is(err, config.ErrPasswordTooLong) {
		return "", &ErrValidation{Field: "password", Message: "is too long"}
	}
	return hash, err
}

// Register creates a new user with password authentication
func (s *UserService) Register(ctx context.Context, req *types.RegisterRequest) (*types.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.db.CheckEmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, &ErrEmailAlreadyExists{Email: email}
	}

	passwordHash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	userID, err := s.db.CreateUser(ctx, db.NewUser{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         email,
		Phone:         req.Phone,
		Qualification: strings.TrimSpace(req.Qualification),
		PasswordHash:  passwordHash,
	})
	if err != nil {
		// A concurrent registration can win between the check and the insert.
		if errors.Is(err, db.ErrEmailTaken) {
			return nil, &ErrEmailAlreadyExists{Email: email}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	dbUser, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created user: %w", err)
	}
	if dbUser == nil {
		return nil, fmt.Errorf("created user not found: %s", userID)
	}

	return convertDBUserToTypesUser(dbUser), nil
}

// Login authenticates a user and returns user data
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	dbUser, err := s.db.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	// Same error for unknown email and wrong password.
	if dbUser == nil || !s.passwordConfig.VerifyPassword(req.Password, dbUser.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	return convertDBUserToTypesUser(dbUser), nil
}

// Profile returns the user's public profile.
func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	dbUser, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if dbUser == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}
	return convertDBUserToTypesUser(dbUser), nil
}

// UpdateProfile applies a phone and/or password change. A password change
// requires the current password. Both fields are written together or not at all.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*types.User, error) {
	dbUser, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if dbUser == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}

	var upd db.ProfileUpdate
	if req.NewPassword != "" {
		if req.CurrentPassword == "" {
			return nil, &ErrValidation{Field: "current_password", Message: "is required"}
		}
		if !s.passwordConfig.VerifyPassword(req.CurrentPassword, dbUser.PasswordHash) {
			return nil, &ErrPasswordMismatch{}
		}
		if upd.PasswordHash, err = s.hash(req.NewPassword); err != nil {
			return nil, err
		}
	}
	if req.Phone != "" && req.Phone != dbUser.Phone {
		upd.Phone = req.Phone
	}

	if !upd.Empty() {
		if err := s.db.UpdateProfile(ctx, userID, upd); err != nil {
			return nil, s.userWriteError(userID, "profile", err)
		}
	}

	return s.Profile(ctx, userID)
}

// SelectDomain records a domain in the user's selected set.
func (s *UserService) SelectDomain(ctx context.Context, userID uuid.UUID, domain string) error {
	if err := s.db.AddUserDomain(ctx, userID, domain); err != nil {
		return s.userWriteError(userID, "domains", err)
	}
	return nil
}

func (s *UserService) userWriteError(userID uuid.UUID, field string, err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return &ErrUserNotFound{UserID: userID}
	}
	return fmt.Errorf("failed to update %s: %w", field, err)
}

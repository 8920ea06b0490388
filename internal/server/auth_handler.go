package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/lernify/internal/logging"
	"github.com/jonathan/lernify/internal/types"
)

// AuthHandler handles registration and login requests.
type AuthHandler struct {
	userService *UserService
	jwtService  *JWTService
	validator   *validator.Validate
	logger      *logging.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService, v *validator.Validate, logger *logging.Logger) *AuthHandler {
	if v == nil {
		v = types.NewValidator()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		validator:   v,
		logger:      logger,
	}
}

// Register handles user registration requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.respondWithToken(w, http.StatusCreated, user)
}

// Login handles user login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.respondWithToken(w, http.StatusOK, user)
}

func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON request body"}
	}
	if err := h.validator.Struct(dst); err != nil {
		field, message := types.DescribeValidationError(err)
		return &ErrValidation{Field: field, Message: message}
	}
	return nil
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, user *types.User) {
	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		h.logger.Error("token generation failed", "user_id", user.ID.String(), "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to generate token",
			"code":  "internal_error",
		})
		return
	}
	writeJSON(w, status, types.LoginResponse{User: user, Token: token})
}

// writeError reports err with its mapped status. Internal failures are logged, not described.
func (h *AuthHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	message := err.Error()
	if status >= 500 {
		h.logger.Error("auth request failed", "path", r.URL.Path, "error", err)
		message = "internal server error"
	}
	writeJSON(w, status, map[string]string{"error": message, "code": code})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

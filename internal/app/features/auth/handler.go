// internal/app/features/auth/handler.go

// Package auth implements self-service registration and login. Both
// endpoints are unauthenticated and return a bearer token on success.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/taskdeck/taskdeck/internal/app/features/errors"
	userstore "github.com/taskdeck/taskdeck/internal/app/store/users"
	sysauth "github.com/taskdeck/taskdeck/internal/app/system/auth"
	"github.com/taskdeck/taskdeck/internal/app/system/authutil"
	"github.com/taskdeck/taskdeck/internal/app/system/inputval"
	"github.com/taskdeck/taskdeck/internal/app/system/timeouts"
	"github.com/taskdeck/taskdeck/internal/domain/models"
)

// Handler owns the registration and login handlers.
type Handler struct {
	Users  *userstore.Store
	Tokens *sysauth.TokenManager
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs an auth Handler bound to the user store and token
// manager.
func NewHandler(users *userstore.Store, tokens *sysauth.TokenManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Tokens: tokens, Log: logger, ErrLog: errLog}
}

type registerInput struct {
	Email    string `json:"email" validate:"required,email,max=254" label:"Email"`
	Password string `json:"password" validate:"required,min=6" label:"Password"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin" label:"Role"`
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email,max=254" label:"Email"`
	Password string `json:"password" validate:"required,min=6" label:"Password"`
}

// userBody is the client-facing account shape; it never includes the
// password hash.
type userBody struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toUserBody(u *models.User) userBody {
	return userBody{ID: u.ID.Hex(), Email: u.Email, Role: u.Role}
}

// HandleRegister handles POST /auth/register. The role is optional and
// defaults to the plain user role.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "register: decode body failed", err, "Invalid request body")
		return
	}
	if result := inputval.Validate(in); result.HasErrors() {
		uierrors.WriteValidation(w, "Validation failed", result.First())
		return
	}

	hash, err := authutil.HashPassword(in.Password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "register: hash password failed", err, "Registration failed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Users.Create(ctx, models.User{
		Email:    in.Email,
		Password: hash,
		Role:     in.Role,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			uierrors.WriteExists(w, "User already exists")
			return
		}
		h.ErrLog.LogServerError(w, r, "register: create user failed", err, "Registration failed")
		return
	}

	token, err := h.Tokens.Issue(created.ID.Hex())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "register: issue token failed", err, "Registration failed")
		return
	}

	h.Log.Info("user registered", zap.String("user_id", created.ID.Hex()))
	uierrors.WriteSuccess(w, http.StatusCreated, uierrors.Payload{
		"token": token,
		"user":  toUserBody(&created),
	})
}

// HandleLogin handles POST /auth/login. Unknown emails and wrong passwords
// produce the same response.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "login: decode body failed", err, "Invalid request body")
		return
	}
	if result := inputval.Validate(in); result.HasErrors() {
		uierrors.WriteValidation(w, "Validation failed", result.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.WriteInvalidCredentials(w)
			return
		}
		h.ErrLog.LogServerError(w, r, "login: lookup user failed", err, "Login failed")
		return
	}
	if !authutil.CheckPassword(user.Password, in.Password) {
		uierrors.WriteInvalidCredentials(w)
		return
	}

	token, err := h.Tokens.Issue(user.ID.Hex())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "login: issue token failed", err, "Login failed")
		return
	}

	h.Log.Info("user logged in", zap.String("user_id", user.ID.Hex()))
	uierrors.WriteSuccess(w, http.StatusOK, uierrors.Payload{
		"token": token,
		"user":  toUserBody(user),
	})
}

// internal/app/features/users/actions.go
package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/taskdeck/taskdeck/internal/app/features/errors"
	"github.com/taskdeck/taskdeck/internal/app/policy/userpolicy"
	userstore "github.com/taskdeck/taskdeck/internal/app/store/users"
	"github.com/taskdeck/taskdeck/internal/app/system/authutil"
	"github.com/taskdeck/taskdeck/internal/app/system/authz"
	"github.com/taskdeck/taskdeck/internal/app/system/inputval"
	"github.com/taskdeck/taskdeck/internal/app/system/paging"
	"github.com/taskdeck/taskdeck/internal/app/system/timeouts"
	"github.com/taskdeck/taskdeck/internal/domain/models"
)

// HandleList handles GET /users (admin only).
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}
	if !userpolicy.CanList(role) {
		uierrors.WriteForbidden(w, "Not authorized as an admin")
		return
	}

	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	users, err := h.Users.List(ctx, page.Skip(), int64(page.Limit))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list users failed", err, "Failed to fetch users")
		return
	}
	total, err := h.Users.Count(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count users failed", err, "Failed to fetch users")
		return
	}

	bodies := make([]userBody, 0, len(users))
	for i := range users {
		bodies = append(bodies, toUserBody(&users[i]))
	}
	uierrors.WriteSuccess(w, http.StatusOK, uierrors.Payload{
		"users":       bodies,
		"count":       len(bodies),
		"total":       total,
		"totalPages":  page.TotalPages(total),
		"currentPage": page.Page,
	})
}

type createUserInput struct {
	Email    string `json:"email" validate:"required,email,max=254" label:"Email"`
	Password string `json:"password" validate:"required,min=6" label:"Password"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin" label:"Role"`
}

// HandleCreate handles POST /users (admin only). Unlike self-service
// registration, admins may set the role at creation.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}
	if !userpolicy.CanCreate(role) {
		uierrors.WriteForbidden(w, "Not authorized as an admin")
		return
	}

	var in createUserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "create user: decode body failed", err, "Invalid request body")
		return
	}
	if result := inputval.Validate(in); result.HasErrors() {
		uierrors.WriteValidation(w, "Validation failed", result.First())
		return
	}

	hash, err := authutil.HashPassword(in.Password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create user: hash password failed", err, "Failed to create user")
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
		h.ErrLog.LogServerError(w, r, "create user failed", err, "Failed to create user")
		return
	}

	h.Log.Info("user created by admin", zap.String("user_id", created.ID.Hex()))
	uierrors.WriteSuccess(w, http.StatusCreated, uierrors.Payload{"user": toUserBody(&created)})
}

// HandleGet handles GET /users/{id}. Admins may read anyone; users may read
// themselves.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	role, _, callerID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}
	id, ok := targetID(w, r)
	if !ok {
		return
	}
	if !userpolicy.CanView(role, callerID, id) {
		uierrors.WriteForbidden(w, "Not authorized to view this user")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.WriteNotFound(w, "User not found")
			return
		}
		h.ErrLog.LogServerError(w, r, "get user failed", err, "Failed to fetch user")
		return
	}
	uierrors.WriteSuccess(w, http.StatusOK, uierrors.Payload{"user": toUserBody(user)})
}

type updateUserInput struct {
	Email    *string `json:"email" validate:"omitempty,email,max=254" label:"Email"`
	Password *string `json:"password" validate:"omitempty,min=6" label:"Password"`
	Role     *string `json:"role" validate:"omitempty,oneof=user admin" label:"Role"`
}

// HandleUpdate handles PUT /users/{id}. Users may change their own email
// and password; only admins may change roles.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	role, _, callerID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}
	id, ok := targetID(w, r)
	if !ok {
		return
	}
	if !userpolicy.CanUpdate(role, callerID, id) {
		uierrors.WriteForbidden(w, "Not authorized to update this user")
		return
	}

	var in updateUserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "update user: decode body failed", err, "Invalid request body")
		return
	}
	if result := inputval.Validate(in); result.HasErrors() {
		uierrors.WriteValidation(w, "Validation failed", result.First())
		return
	}
	if in.Role != nil && !userpolicy.CanSetRole(role) {
		uierrors.WriteForbidden(w, "Not authorized to change roles")
		return
	}

	upd := userstore.Update{Email: in.Email, Role: in.Role}
	if in.Password != nil {
		hash, err := authutil.HashPassword(*in.Password)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "update user: hash password failed", err, "Failed to update user")
			return
		}
		upd.Password = &hash
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	updated, err := h.Users.Update(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			uierrors.WriteNotFound(w, "User not found")
		case errors.Is(err, userstore.ErrDuplicateEmail):
			uierrors.WriteExists(w, "Email already in use")
		default:
			h.ErrLog.LogServerError(w, r, "update user failed", err, "Failed to update user")
		}
		return
	}

	h.Log.Info("user updated",
		zap.String("user_id", id.Hex()),
		zap.String("updated_by", callerID.Hex()))
	uierrors.WriteSuccess(w, http.StatusOK, uierrors.Payload{"user": toUserBody(updated)})
}

// HandleDelete handles DELETE /users/{id} (admin only). Admins cannot
// delete their own account, so the system always keeps at least one.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	role, _, callerID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}
	id, ok := targetID(w, r)
	if !ok {
		return
	}
	if !userpolicy.CanDelete(role) {
		uierrors.WriteForbidden(w, "Not authorized as an admin")
		return
	}
	if id == callerID {
		uierrors.WriteValidation(w, "Validation failed", "You cannot delete your own account.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := h.Users.Delete(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete user failed", err, "Failed to delete user")
		return
	}
	if n == 0 {
		uierrors.WriteNotFound(w, "User not found")
		return
	}

	h.Log.Info("user deleted",
		zap.String("user_id", id.Hex()),
		zap.String("deleted_by", callerID.Hex()))
	uierrors.WriteSuccess(w, http.StatusOK, uierrors.Payload{"message": "User deleted"})
}

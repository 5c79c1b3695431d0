// internal/app/features/users/handler.go

// Package users implements account management. Listing, creating, and
// deleting accounts are admin operations; reading and updating a profile is
// allowed for its owner too.
package users

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/taskdeck/taskdeck/internal/app/features/errors"
	userstore "github.com/taskdeck/taskdeck/internal/app/store/users"
	"github.com/taskdeck/taskdeck/internal/domain/models"
)

// Handler owns the account management handlers.
type Handler struct {
	Users  *userstore.Store
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs a users Handler bound to the given database and
// logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Users: userstore.New(db), Log: logger, ErrLog: errLog}
}

// userBody is the client-facing account shape; it never includes the
// password hash.
type userBody struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserBody(u *models.User) userBody {
	return userBody{
		ID:        u.ID.Hex(),
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// targetID parses the {id} route parameter. A malformed ID behaves like a
// missing user.
func targetID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.WriteNotFound(w, "User not found")
		return primitive.NilObjectID, false
	}
	return id, true
}

// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Valid user roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account that can sign in and own or be assigned tasks.
//
// Password holds a bcrypt hash and is never serialized to JSON. Stores that
// hand users to HTTP handlers additionally project the field away so the
// hash never leaves the persistence layer.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password,omitempty" json:"-"`
	Role     string             `bson:"role" json:"role"` // user | admin

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether role is one of the allowed role values.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

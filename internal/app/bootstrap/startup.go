// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/taskdeck/taskdeck/internal/app/system/authutil"
	"github.com/taskdeck/taskdeck/internal/app/system/normalize"
	"github.com/taskdeck/taskdeck/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. TaskDeck
// creates the document upload directory and, when admin_email is configured,
// promotes or creates that admin account.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := os.MkdirAll(appCfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("create upload dir %s: %w", appCfg.UploadDir, err)
	}

	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg.AdminEmail, logger); err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
	}

	return nil
}

// ensureAdmin makes sure a user with the given email exists and has the
// admin role. An existing user is promoted in place; a missing user is
// created with a random password that must be reset out of band.
func ensureAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	users := deps.MongoDatabase.Collection("users")
	email = normalize.Email(email)

	var existing models.User
	err := users.FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	switch {
	case err == nil:
		if existing.Role == models.RoleAdmin {
			return nil
		}
		_, err := users.UpdateOne(ctx,
			bson.M{"_id": existing.ID},
			bson.M{"$set": bson.M{"role": models.RoleAdmin, "updated_at": time.Now().UTC()}})
		if err != nil {
			return err
		}
		logger.Info("promoted existing user to admin", zap.String("email", email))
		return nil

	case err == mongo.ErrNoDocuments:
		password, err := randomPassword()
		if err != nil {
			return err
		}
		hash, err := authutil.HashPassword(password)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		_, err = users.InsertOne(ctx, models.User{
			ID:        primitive.NewObjectID(),
			Email:     email,
			Password:  hash,
			Role:      models.RoleAdmin,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}
		logger.Info("created admin user with generated password; reset it before use",
			zap.String("email", email))
		return nil

	default:
		return err
	}
}

func randomPassword() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

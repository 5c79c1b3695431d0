// Command taskdeck-admin creates an admin user, or promotes an existing
// user to admin, directly against MongoDB. It is meant for one-off
// bootstrap and recovery, not day-to-day user management.
//
// Usage:
//
//	taskdeck-admin -email admin@example.com -password secret123
//
// Connection settings come from flags, falling back to the same
// TASKDECK_MONGO_URI and TASKDECK_MONGO_DATABASE environment variables
// the server uses.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	userstore "github.com/taskdeck/taskdeck/internal/app/store/users"
	"github.com/taskdeck/taskdeck/internal/app/system/authutil"
	"github.com/taskdeck/taskdeck/internal/app/system/indexes"
	"github.com/taskdeck/taskdeck/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func main() {
	var (
		uri      = flag.String("mongo-uri", envOr("TASKDECK_MONGO_URI", "mongodb://localhost:27017"), "MongoDB connection URI")
		database = flag.String("database", envOr("TASKDECK_MONGO_DATABASE", "taskdeck"), "MongoDB database name")
		email    = flag.String("email", "", "email of the admin account (required)")
		password = flag.String("password", "", "password for a newly created account (required unless the user exists)")
	)
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "error: -email is required")
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, *uri, *database, *email, *password); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, uri, database, email, password string) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(database)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	store := userstore.New(db)

	existing, err := store.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == models.RoleAdmin {
			fmt.Printf("%s is already an admin\n", existing.Email)
			return nil
		}
		role := models.RoleAdmin
		if _, err := store.Update(ctx, existing.ID, userstore.Update{Role: &role}); err != nil {
			return fmt.Errorf("promote user: %w", err)
		}
		fmt.Printf("promoted %s to admin\n", existing.Email)
		return nil

	case errors.Is(err, mongo.ErrNoDocuments):
		if password == "" {
			return fmt.Errorf("user %s does not exist; -password is required to create one", email)
		}
		if len(password) < 6 {
			return fmt.Errorf("password must be at least 6 characters")
		}
		hash, err := authutil.HashPassword(password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		created, err := store.Create(ctx, models.User{
			Email:    email,
			Password: hash,
			Role:     models.RoleAdmin,
		})
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		fmt.Printf("created admin %s (%s)\n", created.Email, created.ID.Hex())
		return nil

	default:
		return fmt.Errorf("look up user: %w", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

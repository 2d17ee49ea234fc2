// Command createadmin creates an admin account, or promotes an existing one.
//
//	createadmin --email admin@example.com --password secret --first-name Ada --last-name Admin
//
// Flags may also be given as environment variables (ADMIN_EMAIL, ADMIN_PASSWORD, ...).
// MONGODB_URI and MONGODB_DATABASE select the database, as for the server.
package main

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/bookstore/bookstore-api/internal/config"
	"github.com/bookstore/bookstore-api/internal/database"
	"github.com/bookstore/bookstore-api/internal/password"
	"github.com/bookstore/bookstore-api/internal/users"
	"github.com/bookstore/bookstore-api/pkg/logger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	if err := run(context.Background(), os.Args[1:]); err != nil {
		logger.Fatalf("createadmin: %v", err)
	}
}

func run(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("createadmin", pflag.ContinueOnError)
	fs.String("email", "", "admin email (ADMIN_EMAIL)")
	fs.String("password", "", "admin password, ignored when the user already exists (ADMIN_PASSWORD)")
	fs.String("first-name", "Admin", "first name (ADMIN_FIRST_NAME)")
	fs.String("last-name", "User", "last name (ADMIN_LAST_NAME)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := viper.New()
	v.SetEnvPrefix("ADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return err
	}

	cfg := config.Load()
	if cfg.MongoDB.URI == "" {
		return errors.New("MONGODB_URI is required")
	}

	client, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(ctx) }()

	repo := users.NewMongoRepository(client.Database(cfg.MongoDB.Database).Collection("users"))
	if err := repo.EnsureIndexes(ctx); err != nil {
		return err
	}
	svc := users.NewService(repo, password.NewBcryptHasher(cfg.Password.BcryptCost))

	return ensureAdmin(ctx, svc, adminInput{
		Email:     v.GetString("email"),
		Password:  v.GetString("password"),
		FirstName: v.GetString("first-name"),
		LastName:  v.GetString("last-name"),
	})
}

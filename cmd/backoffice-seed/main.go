// The backoffice-seed tool creates test user profiles directly in the
// database for local development: one platform admin and one regular user.
// Credential management lives in the hosted auth provider, not here; the
// tool only seeds profile rows so the backoffice API has data to serve.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/oasishq/backoffice/pkg/auth"
	"github.com/oasishq/backoffice/pkg/backoffice"
	"github.com/oasishq/backoffice/pkg/config"
	"github.com/oasishq/backoffice/pkg/database"
	"github.com/oasishq/backoffice/pkg/observability"
)

type seedUser struct {
	email           string
	fullName        string
	isPlatformAdmin bool
}

var seedUsers = []seedUser{
	{email: "admin@oasis.dev", fullName: "Platform Admin", isPlatformAdmin: true},
	{email: "participante@oasis.dev", fullName: "Test Participante", isPlatformAdmin: false},
}

func main() {
	dbURL := flag.String("db-url", os.Getenv("BACKOFFICE_DATABASE_URL"), "PostgreSQL connection URL")
	migrate := flag.Bool("migrate", true, "Run schema migrations before seeding")
	flag.Parse()

	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)

	if *dbURL == "" {
		logger.Error("database URL is required (set BACKOFFICE_DATABASE_URL or pass -db-url)")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, config.DatabaseConfig{
		URL:             *dbURL,
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	})
	if err != nil {
		logger.WithError(err).Error("failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	if *migrate {
		if err := backoffice.RunMigrations(ctx, db, logger); err != nil {
			logger.WithError(err).Error("failed to run migrations")
			os.Exit(1)
		}
	}

	profiles := auth.NewProfileStore(db)

	for _, user := range seedUsers {
		// Deterministic IDs so reruns upsert instead of duplicating
		id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://oasis.dev/seed/"+user.email))
		fullName := user.fullName

		profile := &auth.Profile{
			ID:       id,
			Email:    user.email,
			FullName: &fullName,
		}
		if err := profiles.UpsertProfile(ctx, profile); err != nil {
			logger.WithError(err).WithField("email", user.email).Error("failed to seed profile")
			os.Exit(1)
		}

		if user.isPlatformAdmin {
			if err := profiles.SetPlatformAdmin(ctx, id, true); err != nil {
				logger.WithError(err).WithField("email", user.email).Error("failed to set platform admin flag")
				os.Exit(1)
			}
		}

		logger.WithFields(map[string]interface{}{
			"email":             user.email,
			"user_id":           id.String(),
			"is_platform_admin": user.isPlatformAdmin,
		}).Info("seeded profile")
	}
}

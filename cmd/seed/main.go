// Command seed creates the bootstrap accounts. Self-registration cannot
// create administrators, so the first admin comes from here.
//
//	seed                                   # default admin and faculty accounts
//	seed -email dean@college.edu -name Dean -password s3cret -role admin
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/campusboard/notice-board/internal/core/domain"
	"github.com/campusboard/notice-board/internal/core/service"
	"github.com/campusboard/notice-board/internal/infrastructure/db/mongo"
	"github.com/campusboard/notice-board/internal/pkg/config"
	"github.com/campusboard/notice-board/pkg/logger"
)

type seedConfig struct {
	LogLevel string `env:"LOG_LEVEL, default=info"`
	Mongo    config.MongoConfig
}

type account struct {
	name     string
	email    string
	password string
	role     domain.Role
}

var defaultAccounts = []account{
	{name: "Admin", email: "admin@college.edu", password: "admin123", role: domain.RoleAdmin},
	{name: "Faculty", email: "faculty@college.edu", password: "faculty123", role: domain.RoleFaculty},
}

func main() {
	name := flag.String("name", "", "display name of the account")
	email := flag.String("email", "", "account email; when empty the default accounts are seeded")
	password := flag.String("password", "", "account password")
	role := flag.String("role", string(domain.RoleAdmin), "admin, faculty or student")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var cfg seedConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "seed"})

	accounts := defaultAccounts
	if *email != "" {
		r, ok := domain.ParseRole(*role)
		if !ok {
			log.Fatal().Str("role", *role).Msg("unknown role")
		}
		accounts = []account{{name: *name, email: *email, password: *password, role: r}}
	}

	store, err := mongo.Open(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo unavailable")
	}
	defer func() { _ = store.Close(context.Background()) }()

	auth := service.NewAuthService(store.Users, nil, log)
	failed := false
	for _, a := range accounts {
		u, created, err := auth.EnsureUser(ctx, a.name, a.email, a.password, a.role)
		if err != nil {
			log.Error().Err(err).Str("email", a.email).Msg("seeding account failed")
			failed = true
			continue
		}
		if created {
			log.Info().Str("email", u.Email).Str("role", string(u.Role)).Msg("account created")
		} else {
			log.Info().Str("email", u.Email).Str("role", string(u.Role)).Msg("account already exists")
		}
	}
	if failed {
		os.Exit(1)
	}
}

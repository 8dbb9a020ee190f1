package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/api-sage/banking-ledger/src/internal/adapter/repository/postgres"
	"github.com/api-sage/banking-ledger/src/internal/config"
	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/api-sage/banking-ledger/src/internal/logger"
	"github.com/api-sage/banking-ledger/src/internal/usecase/services"
)

// seed-user provisions a login for local environments. Identity management
// proper lives outside this service.
func main() {
	var (
		username = flag.String("username", "", "Login name")
		password = flag.String("password", "", "Plain-text password, stored as a bcrypt hash")
		role     = flag.String("role", string(domain.RoleCustomer), "customer|staff|manager")
	)
	flag.Parse()

	if *username == "" || *password == "" {
		log.Fatal("username and password are required")
	}
	if !domain.Role(*role).Valid() {
		log.Fatalf("unknown role %q", *role)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := postgres.RunMigrations(ctx, cfg.DatabaseDSN); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	hash, err := services.HashPassword(*password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	user, err := postgres.NewUserRepository(db).Create(ctx, domain.User{
		Username:     *username,
		PasswordHash: hash,
		Role:         domain.Role(*role),
	})
	if err != nil {
		log.Fatalf("create user: %v", err)
	}

	log.Printf("created %s user %s (%s)", user.Role, user.Username, user.ID)
}

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/oksasatya/factory-erp/config"
	"github.com/oksasatya/factory-erp/internal/domain/entity"
	"github.com/oksasatya/factory-erp/internal/domain/repository"
	"github.com/oksasatya/factory-erp/internal/infrastructure/persistence"
	"github.com/oksasatya/factory-erp/pkg/helpers"
)

// seed creates the first administrator, or promotes and reactivates an
// existing account with the same email.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	email := flag.String("email", os.Getenv("SEED_ADMIN_EMAIL"), "admin email")
	name := flag.String("name", "Administrator", "admin display name")
	flag.Parse()

	if *email == "" {
		logger.Fatal("admin email is required (-email or SEED_ADMIN_EMAIL)")
	}

	password, err := readPassword()
	if err != nil {
		logger.Fatalf("read password: %v", err)
	}
	if len(password) < 8 {
		logger.Fatal("password must be at least 8 characters")
	}

	ctx := context.Background()
	db, err := persistence.Open(ctx, persistence.Options{
		Driver:      cfg.DBDriver,
		DSN:         cfg.PostgresDSN(),
		MaxConns:    2,
		MinConns:    1,
		MaxConnLife: cfg.DBMaxConnLife,
		SQLitePath:  cfg.SQLitePath,
	})
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := persistence.Migrate(db, cfg.PostgresDSN(), logger); err != nil {
		logger.Fatalf("migration failed: %v", err)
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		logger.Fatalf("hash password: %v", err)
	}

	users := persistence.NewUserRepository(db.DB)
	addr := strings.ToLower(strings.TrimSpace(*email))

	existing, err := users.GetByEmail(ctx, addr)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		u := &entity.User{Email: addr, Password: hash, Name: *name, Role: entity.RoleAdmin, IsActive: true}
		if err := users.Create(ctx, u); err != nil {
			logger.Fatalf("create admin: %v", err)
		}
		logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("admin created")
	case err != nil:
		logger.Fatalf("lookup admin: %v", err)
	default:
		existing.Password = hash
		if err := users.Update(ctx, existing); err != nil {
			logger.Fatalf("update admin: %v", err)
		}
		if err := users.SetRole(ctx, existing.ID, entity.RoleAdmin); err != nil {
			logger.Fatalf("promote admin: %v", err)
		}
		if err := users.SetActive(ctx, existing.ID, true); err != nil {
			logger.Fatalf("activate admin: %v", err)
		}
		logger.WithFields(logrus.Fields{"user_id": existing.ID, "email": existing.Email}).Info("existing user promoted to admin")
	}
}

// readPassword takes SEED_ADMIN_PASSWORD, then prompts without echo on a
// terminal, then falls back to one line of stdin.
func readPassword() (string, error) {
	if p := os.Getenv("SEED_ADMIN_PASSWORD"); p != "" {
		return p, nil
	}
	fd := int(syscall.Stdin)
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "admin password: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		return string(b), err
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

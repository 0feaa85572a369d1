package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/placasapp/placas-server/config"
	"github.com/placasapp/placas-server/pkg/helpers"
)

// Seeds the initial admin account so the user-administration module is
// reachable on a fresh database. Idempotent: an existing username only has
// its role and active flag restored.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	username := envOr("SEED_ADMIN_USER", "admin")
	email := envOr("SEED_ADMIN_EMAIL", "admin@localhost")
	password := envOr("SEED_ADMIN_PASSWORD", "trocar-senha")

	hash, salt, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (username, email, role, is_active, password_hash, password_salt)
		VALUES ($1, $2, 'admin', TRUE, $3, $4)
		ON CONFLICT (username) DO UPDATE SET role = 'admin', is_active = TRUE
		RETURNING id
	`, username, email, hash, salt).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s username=%s\n", id, username)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

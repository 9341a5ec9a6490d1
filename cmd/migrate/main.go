// Command migrate applies the embedded schema migrations.
//
// Usage: migrate [up|down|status|version]
package main

import (
	"database/sql"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/wapio/backend/internal/config"
	"github.com/wapio/backend/internal/logging"
	"github.com/wapio/backend/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("INFO")
		logging.Fatal("failed to load config", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to open database", "error", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		logging.Fatal("failed to set dialect", "error", err)
	}

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "up":
		err = goose.Up(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "status":
		err = goose.Status(db, ".")
	case "version":
		err = goose.Version(db, ".")
	default:
		logging.Fatal("unknown command", "command", command)
	}
	if err != nil {
		logging.Fatal("migration failed", "command", command, "error", err)
	}
}

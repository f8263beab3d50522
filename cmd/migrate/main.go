package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/config"
)

const usage = `metastitch-migrate: manage the metastitch Postgres schema

Commands:
  up         apply all pending migrations
  down       revert all migrations
  steps N    apply N migrations (negative N reverts)
  version    print current schema version
  force N    mark version N as applied without running it (dirty recovery)

The migrations directory defaults to db/migrations and can be overridden
with METASTITCH_MIGRATIONS_DIR.`

func migrationsDir() string {
	if dir := os.Getenv("METASTITCH_MIGRATIONS_DIR"); dir != "" {
		return dir
	}
	return "db/migrations"
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("migrate: loading config: %v", err)
	}

	m, err := migrate.New("file://"+migrationsDir(), cfg.DB.DSN())
	if err != nil {
		log.Fatalf("migrate: opening %s: %v", migrationsDir(), err)
	}
	defer m.Close()

	switch cmd := os.Args[1]; cmd {
	case "up":
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("migrate: up: %v", err)
		}
		log.Println("migrate: schema is up to date")

	case "down":
		if err := m.Down(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("migrate: down: %v", err)
		}
		log.Println("migrate: all migrations reverted")

	case "steps":
		n := intArg("steps")
		if err := m.Steps(n); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("migrate: steps %d: %v", n, err)
		}
		log.Printf("migrate: moved %d steps", n)

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("migrate: version: %v", err)
		}
		fmt.Printf("version=%d dirty=%v\n", version, dirty)

	case "force":
		n := intArg("force")
		if err := m.Force(n); err != nil {
			log.Fatalf("migrate: force %d: %v", n, err)
		}
		log.Printf("migrate: forced version to %d", n)

	default:
		fmt.Printf("unknown command %q\n\n%s\n", cmd, usage)
		os.Exit(1)
	}
}

func intArg(cmd string) int {
	if len(os.Args) < 3 {
		log.Fatalf("migrate: %s requires a numeric argument", cmd)
	}
	n, err := strconv.Atoi(os.Args[2])
	if err != nil {
		log.Fatalf("migrate: %s: %v", cmd, err)
	}
	return n
}

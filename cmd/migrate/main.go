package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/ManuelReschke/BlockHolder/internal/pkg/env"
	"github.com/ManuelReschke/BlockHolder/internal/pkg/logger"
)

func main() {
	env.SetupEnvFile()
	log := logger.Setup().With().Str("component", "migrate").Logger()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	dbURL := fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s?multiStatements=true&parseTime=true",
		env.GetEnv("DB_USER", "blockholder"),
		env.GetEnv("DB_PASSWORD", "blockholder"),
		env.GetEnv("DB_HOST", "db"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", "blockholder_db"),
	)

	log.Info().
		Str("user", env.GetEnv("DB_USER", "blockholder")).
		Str("host", env.GetEnv("DB_HOST", "db")).
		Str("port", env.GetEnv("DB_PORT", "3306")).
		Str("database", env.GetEnv("DB_NAME", "blockholder_db")).
		Msg("connecting to database")

	m, err := migrate.New(
		"file://"+env.GetEnv("MIGRATIONS_PATH", "migrations"),
		dbURL,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize migrations")
	}

	defer func() {
		if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
			log.Error().AnErr("source", sourceErr).AnErr("database", dbErr).Msg("close migration resources")
		}
	}()

	switch command {
	case "up":
		err := m.Up()
		switch {
		case errors.Is(err, migrate.ErrNoChange):
			log.Info().Msg("no change: database is up to date")
		case err != nil:
			log.Fatal().Err(err).Msg("apply migrations")
		default:
			log.Info().Msg("migrations applied")
		}

	case "down":
		if err := m.Steps(-1); err != nil {
			log.Fatal().Err(err).Msg("roll back last migration")
		}
		log.Info().Msg("last migration rolled back")

	case "goto":
		if len(os.Args) < 3 {
			log.Fatal().Msg("please pass a version number")
		}
		version, err := strconv.ParseUint(os.Args[2], 10, 64)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid version number")
		}

		err = m.Migrate(uint(version))
		switch {
		case errors.Is(err, migrate.ErrNoChange):
			log.Info().Uint64("version", version).Msg("no change: database already at version")
		case err != nil:
			log.Fatal().Err(err).Uint64("version", version).Msg("migrate to version")
		default:
			log.Info().Uint64("version", version).Msg("migrated")
		}

	case "status":
		version, dirty, err := m.Version()
		switch {
		case errors.Is(err, migrate.ErrNilVersion):
			log.Info().Msg("no migrations applied yet")
		case err != nil:
			log.Fatal().Err(err).Msg("read migration version")
		default:
			log.Info().Uint("version", version).Bool("dirty", dirty).Msg("current migration version")
		}

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: go run cmd/migrate/main.go [command]")
	fmt.Println("Commands:")
	fmt.Println("  up     - apply all pending migrations")
	fmt.Println("  down   - roll back the last migration")
	fmt.Println("  goto N - migrate to version N")
	fmt.Println("  status - show the current migration version")
}

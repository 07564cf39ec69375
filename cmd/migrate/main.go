package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"staffing-api/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// One-time initialization: create the database if it does not exist, then
// apply db/migrations in order. Safe to re-run.
func main() {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if err := ensureDatabase(cfg.Database); err != nil {
		log.Fatal("Failed to ensure database exists:", err)
	}

	db, err := sql.Open("pgx", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	fmt.Printf("Connected to %s\n", cfg.Database.Name)

	if err := applyMigrations(db, "db/migrations"); err != nil {
		log.Fatal(err)
	}

	fmt.Println("All migrations applied successfully")
}

// ensureDatabase connects to the maintenance database and creates the
// target database when absent. CREATE DATABASE cannot run inside a
// transaction or take bind parameters, hence the quoted identifier.
func ensureDatabase(dbCfg config.DatabaseConfig) error {
	admin, err := sql.Open("pgx", dbCfg.AdminDSN())
	if err != nil {
		return err
	}
	defer admin.Close()

	var exists bool
	err = admin.QueryRow("SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", dbCfg.Name).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		fmt.Printf("Database %s already exists\n", dbCfg.Name)
		return nil
	}

	quoted := `"` + strings.ReplaceAll(dbCfg.Name, `"`, `""`) + `"`
	if _, err := admin.Exec("CREATE DATABASE " + quoted); err != nil {
		return err
	}
	fmt.Printf("Database %s created\n", dbCfg.Name)
	return nil
}

func applyMigrations(db *sql.DB, migrationsDir string) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id BIGSERIAL PRIMARY KEY,
			filename TEXT NOT NULL UNIQUE,
			checksum TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrationFiles []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".sql") {
			migrationFiles = append(migrationFiles, file.Name())
		}
	}
	sort.Strings(migrationFiles)

	fmt.Printf("Found %d migration files\n", len(migrationFiles))

	for _, filename := range migrationFiles {
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE filename = $1", filename).Scan(&count); err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			fmt.Printf("Skipping %s (already applied)\n", filename)
			continue
		}

		content, err := os.ReadFile(filepath.Join(migrationsDir, filename))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", filename, err)
		}

		fmt.Printf("Applying %s...\n", filename)
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", filename, err)
		}

		checksum := fmt.Sprintf("%x", len(content))
		if _, err := db.Exec("INSERT INTO schema_migrations (filename, checksum) VALUES ($1, $2)", filename, checksum); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", filename, err)
		}
	}

	return nil
}

package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Connect opens the backing store. A non-empty url selects PostgreSQL;
// otherwise a SQLite file under dataDir is created on first use.
func Connect(url, dataDir string) (*sqlx.DB, error) {
	if url != "" {
		return Open("postgres", url)
	}

	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %v", err)
	}

	return Open("sqlite3", filepath.Join(dataDir, "vocabbot.db"))
}

// Open connects with an explicit driver and DSN and initializes the schema.
func Open(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	if driver == "sqlite3" {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %v", err)
		}

		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	usersTable := `
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			telegram_id INTEGER UNIQUE,
			username TEXT,
			created_by_teacher BOOLEAN DEFAULT false,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	cardsTable := `
		CREATE TABLE IF NOT EXISTS cards (
			id TEXT PRIMARY KEY,
			owner_id INTEGER,
			pending_owner TEXT,
			word TEXT NOT NULL,
			translation TEXT NOT NULL,
			mastery_count INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`

	if db.DriverName() == "postgres" {
		usersTable = `
			CREATE TABLE IF NOT EXISTS users (
				id BIGSERIAL PRIMARY KEY,
				telegram_id BIGINT UNIQUE,
				username TEXT,
				created_by_teacher BOOLEAN DEFAULT false,
				created_at TIMESTAMP DEFAULT NOW(),
				updated_at TIMESTAMP DEFAULT NOW()
			)
		`
		cardsTable = `
			CREATE TABLE IF NOT EXISTS cards (
				id TEXT PRIMARY KEY,
				owner_id BIGINT,
				pending_owner TEXT,
				word TEXT NOT NULL,
				translation TEXT NOT NULL,
				mastery_count INTEGER DEFAULT 0,
				created_at TIMESTAMP DEFAULT NOW(),
				updated_at TIMESTAMP DEFAULT NOW()
			)
		`
	}

	if _, err := db.Exec(usersTable); err != nil {
		return fmt.Errorf("failed to create users table: %v", err)
	}
	if _, err := db.Exec(cardsTable); err != nil {
		return fmt.Errorf("failed to create cards table: %v", err)
	}

	_, err := db.Exec("CREATE INDEX IF NOT EXISTS idx_cards_owner ON cards(owner_id)")
	if err != nil {
		return fmt.Errorf("failed to create cards index: %v", err)
	}

	return nil
}

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

func Connect(dsn string) (*sql.DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return conn, nil
}

// CreateTables creates the schema if it does not exist yet. Contacts,
// audiences and memberships are relational rows; campaign send state lives
// as columns on the campaign row.
func CreateTables(conn *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS contacts (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS audiences (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS audience_contacts (
			audience_id INT NOT NULL REFERENCES audiences(id) ON DELETE CASCADE,
			contact_id INT NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
			PRIMARY KEY (audience_id, contact_id)
		)`,
		`CREATE TABLE IF NOT EXISTS campaigns (
			id SERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			blocks JSONB NOT NULL DEFAULT '[]',
			status TEXT NOT NULL DEFAULT 'draft',
			published BOOLEAN NOT NULL DEFAULT FALSE,
			locked BOOLEAN NOT NULL DEFAULT FALSE,
			sent_count INT NOT NULL DEFAULT 0,
			sent_at TIMESTAMPTZ,
			audience_id INT REFERENCES audiences(id),
			failed_recipients TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ
		)`,
	}
	for _, stmt := range stmts {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}

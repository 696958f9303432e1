package main

import (
	"database/sql"
	"fmt"
)

func dbInit(db *sql.DB) error {
	var dbVersion int
	err := db.QueryRow("SELECT version FROM db_version WHERE name='gcaltimetable'").Scan(&dbVersion)
	if err != nil {
		_, err = db.Exec(`CREATE TABLE IF NOT EXISTS db_version (
			name TEXT PRIMARY KEY,
			version INTEGER
		)`)
		if err != nil {
			return fmt.Errorf("error creating db_version table: %w", err)
		}
		_, err = db.Exec(`INSERT OR IGNORE INTO db_version (name, version) VALUES ('gcaltimetable', 0)`)
		if err != nil {
			return fmt.Errorf("error initializing db_version table: %w", err)
		}
		dbVersion = 0
	}

	if dbVersion == 0 {
		_, err = db.Exec(`CREATE TABLE IF NOT EXISTS tokens (
		account_name TEXT PRIMARY KEY,
		token TEXT)`)
		if err != nil {
			return fmt.Errorf("error creating tokens table: %w", err)
		}

		_, err = db.Exec(`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			action TEXT NOT NULL,
			calendar_id TEXT,
			range_from TEXT,
			range_to TEXT,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			count INTEGER DEFAULT 0,
			error TEXT DEFAULT ''
		)`)
		if err != nil {
			return fmt.Errorf("error creating runs table: %w", err)
		}

		_, err = db.Exec(`UPDATE db_version SET version = 1 WHERE name = 'gcaltimetable'`)
		if err != nil {
			return fmt.Errorf("error updating db_version table: %w", err)
		}
	}
	return nil
}

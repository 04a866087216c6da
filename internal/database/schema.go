package database

import (
	"context"
	"database/sql"
	"fmt"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS seat_maps (
		event_id    INTEGER PRIMARY KEY,
		name        TEXT    NOT NULL,
		layout_data BLOB    NOT NULL,
		fingerprint TEXT    NOT NULL,
		total_seats INTEGER NOT NULL DEFAULT 0,
		owner_id    INTEGER NOT NULL DEFAULT 0,
		updated_at  INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS seats (
		event_id    INTEGER NOT NULL,
		id          TEXT    NOT NULL,
		row_label   TEXT    NOT NULL,
		seat_number TEXT    NOT NULL,
		seat_type   TEXT    NOT NULL,
		section_id  TEXT    NOT NULL,
		x           REAL    NOT NULL,
		y           REAL    NOT NULL,
		is_occupied INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (event_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS ticket_types (
		id          TEXT    PRIMARY KEY,
		event_id    INTEGER NOT NULL,
		name        TEXT    NOT NULL,
		price_cents INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ticket_types_event ON ticket_types (event_id)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS seat_maps (
		event_id    BIGINT UNSIGNED NOT NULL PRIMARY KEY,
		name        VARCHAR(255)    NOT NULL,
		layout_data LONGBLOB        NOT NULL,
		fingerprint CHAR(64)        NOT NULL,
		total_seats INT             NOT NULL DEFAULT 0,
		owner_id    BIGINT UNSIGNED NOT NULL DEFAULT 0,
		updated_at  BIGINT          NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS seats (
		event_id    BIGINT UNSIGNED NOT NULL,
		id          VARCHAR(64)     NOT NULL,
		row_label   VARCHAR(16)     NOT NULL,
		seat_number VARCHAR(16)     NOT NULL,
		seat_type   VARCHAR(16)     NOT NULL,
		section_id  VARCHAR(64)     NOT NULL,
		x           DOUBLE          NOT NULL,
		y           DOUBLE          NOT NULL,
		is_occupied TINYINT(1)      NOT NULL DEFAULT 0,
		PRIMARY KEY (event_id, id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS ticket_types (
		id          VARCHAR(64)     NOT NULL PRIMARY KEY,
		event_id    BIGINT UNSIGNED NOT NULL,
		name        VARCHAR(255)    NOT NULL,
		price_cents BIGINT          NOT NULL,
		KEY idx_ticket_types_event (event_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates the seat-map tables when they are missing.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	stmts := mysqlSchema
	if driver == DriverSQLite {
		stmts = sqliteSchema
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

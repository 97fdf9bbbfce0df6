package db

import (
	"database/sql"
	"fmt"
)

// Migrate applies the schema. Every statement is IF NOT EXISTS, so the
// full set re-runs safely on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tenants (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL,
		slug       TEXT NOT NULL UNIQUE,
		email      TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'active'
		           CHECK(status IN ('active','suspended','inactive')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tenants_slug ON tenants(slug)`,

	`CREATE TABLE IF NOT EXISTS ivr_flows (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		tenant_id   INTEGER NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		flow_json   TEXT NOT NULL,
		is_default  INTEGER NOT NULL DEFAULT 0,
		status      TEXT NOT NULL DEFAULT 'active'
		            CHECK(status IN ('active','inactive')),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_ivr_flows_tenant ON ivr_flows(tenant_id)`,

	`CREATE TABLE IF NOT EXISTS extensions (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		tenant_id   INTEGER NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
		extension   TEXT NOT NULL,
		name        TEXT NOT NULL,
		type        TEXT NOT NULL DEFAULT 'user'
		            CHECK(type IN ('user','queue','ivr','voicemail')),
		destination TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'active'
		            CHECK(status IN ('active','inactive')),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_extensions_tenant ON extensions(tenant_id)`,

	`CREATE TABLE IF NOT EXISTS call_records (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		tenant_id      INTEGER NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
		unique_id      TEXT NOT NULL,
		call_date      TEXT NOT NULL,
		src            TEXT NOT NULL DEFAULT '',
		dst            TEXT NOT NULL DEFAULT '',
		channel        TEXT NOT NULL DEFAULT '',
		last_app       TEXT NOT NULL DEFAULT '',
		duration       INTEGER NOT NULL DEFAULT 0,
		billsec        INTEGER NOT NULL DEFAULT 0,
		disposition    TEXT NOT NULL DEFAULT 'answered'
		               CHECK(disposition IN ('answered','no_answer','busy','failed')),
		recording_file TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_call_records_tenant ON call_records(tenant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_call_records_date ON call_records(call_date)`,
	`CREATE INDEX IF NOT EXISTS idx_call_records_unique ON call_records(unique_id)`,
}

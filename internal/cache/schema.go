package cache

import (
	"database/sql"
	"fmt"
)

// schema holds every table the durable transaction cache needs (spec.md
// §4.3): one row per known transaction summary, and one sync cursor per
// (network, address) pair.
const schema = `
CREATE TABLE IF NOT EXISTS summaries (
	network TEXT NOT NULL,
	address TEXT NOT NULL,
	digest  TEXT NOT NULL,
	data    BLOB NOT NULL,
	PRIMARY KEY (network, address, digest)
);

CREATE INDEX IF NOT EXISTS idx_summaries_scope ON summaries(network, address);

CREATE TABLE IF NOT EXISTS sync_point (
	network TEXT NOT NULL,
	address TEXT NOT NULL,
	epoch   INTEGER NOT NULL,
	PRIMARY KEY (network, address)
);

CREATE TABLE IF NOT EXISTS schema_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

INSERT OR IGNORE INTO schema_meta (key, value) VALUES ('schema_version', '1');
`

// migrations maps a schema version to the statements that bring a store up
// to it. Only one version exists today; future migrations are added here
// the way certenIO's liteclient grows its Migrations map.
var migrations = map[string]string{
	"1": schema,
}

const currentSchemaVersion = "1"

func initSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("initialize cache schema: %w", err)
	}
	version, err := schemaVersion(db)
	if err != nil {
		return err
	}
	if version != currentSchemaVersion {
		migration, ok := migrations[currentSchemaVersion]
		if !ok {
			return fmt.Errorf("no migration registered for schema version %s", currentSchemaVersion)
		}
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("apply cache migration %s: %w", currentSchemaVersion, err)
		}
	}
	return nil
}

func schemaVersion(db *sql.DB) (string, error) {
	var version string
	err := db.QueryRow(`SELECT value FROM schema_meta WHERE key = 'schema_version'`).Scan(&version)
	if err != nil {
		return "", fmt.Errorf("read cache schema version: %w", err)
	}
	return version, nil
}

package storage

import "database/sql"

// migrateV001 creates the urls table. The id column is the only index;
// duplicate url/date pairs are allowed.
func migrateV001(tx *sql.Tx) error {
	_, err := tx.Exec(`CREATE TABLE IF NOT EXISTS urls (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		date        DATETIME NOT NULL,
		url         TEXT NOT NULL,
		host        TEXT NOT NULL,
		description TEXT
	)`)
	return err
}

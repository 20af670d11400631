package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/tezgains/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

// InitDB opens (or creates) the sqlite download cache. Indexer responses
// are immutable for past years, so re-runs can skip the network.
func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS tzkt_cache (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		account TEXT NOT NULL,
		year INTEGER NOT NULL,
		kind TEXT NOT NULL,
		payload TEXT NOT NULL,
		fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(account, year, kind)
	);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.", "databasePath", databasePath)
	} else {
		stdlog.Println("Database tables ensured/created:", databasePath)
	}
}

// GetCachedPayload returns the cached payload for an account/year/kind
// triple, with found=false on a cache miss.
func GetCachedPayload(account string, year int, kind string) ([]byte, bool, error) {
	var payload []byte
	err := DB.QueryRow(
		"SELECT payload FROM tzkt_cache WHERE account = ? AND year = ? AND kind = ?",
		account, year, kind,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

// PutCachedPayload stores (or replaces) the payload for an
// account/year/kind triple.
func PutCachedPayload(account string, year int, kind string, payload []byte) error {
	_, err := DB.Exec(
		`INSERT INTO tzkt_cache (account, year, kind, payload) VALUES (?, ?, ?, ?)
		 ON CONFLICT(account, year, kind) DO UPDATE SET payload = excluded.payload, fetched_at = CURRENT_TIMESTAMP`,
		account, year, kind, payload,
	)
	return err
}

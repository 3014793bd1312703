package migrations

func init() {
	Register(Migration{
		Timestamp:   "20260801-000000",
		Description: "Initial schema",
		Up: []string{
			// Bookmarks - one row per saved link
			// user_id is an identity-provider user ID (no FK, users live upstream)
			// tags is a JSON array serialized to TEXT
			`CREATE TABLE IF NOT EXISTS bookmarks (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				url TEXT NOT NULL,
				title TEXT,
				description TEXT,
				thumbnail TEXT,
				category TEXT,
				tags TEXT NOT NULL DEFAULT '[]',
				platform TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_bookmarks_user_id ON bookmarks(user_id)`,
			`CREATE INDEX IF NOT EXISTS idx_bookmarks_created_at ON bookmarks(created_at)`,

			// API keys - for self-hosted programmatic access
			`CREATE TABLE IF NOT EXISTS api_keys (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				name TEXT NOT NULL,
				key_hash TEXT UNIQUE NOT NULL,
				key_prefix TEXT NOT NULL,
				created_at TEXT NOT NULL,
				last_used_at TEXT,
				revoked_at TEXT
			)`,
			`CREATE INDEX IF NOT EXISTS idx_api_keys_user_id ON api_keys(user_id)`,
			`CREATE INDEX IF NOT EXISTS idx_api_keys_key_hash ON api_keys(key_hash)`,
		},
	})
}

package migrations

func init() {
	Register(Migration{
		Timestamp:   "20260815-000000",
		Description: "Index bookmarks by user and URL for import dedupe",
		Up: []string{
			`CREATE INDEX IF NOT EXISTS idx_bookmarks_user_url ON bookmarks(user_id, url)`,
		},
	})
}

package repos

import (
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  ship_name   TEXT NOT NULL DEFAULT '',
  ship_street TEXT NOT NULL DEFAULT '',
  ship_city   TEXT NOT NULL DEFAULT '',
  ship_state  TEXT NOT NULL DEFAULT '',
  ship_zip    TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

-- Books
CREATE TABLE IF NOT EXISTS books(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  title TEXT NOT NULL,
  author TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  condition TEXT NOT NULL DEFAULT 'used',
  image_url TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'current' CHECK (status IN ('current','previous')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_books_user   ON books(user_id);
CREATE INDEX IF NOT EXISTS idx_books_status ON books(status);

-- Trades
CREATE TABLE IF NOT EXISTS trades(
  id TEXT PRIMARY KEY,
  from_user_id TEXT NOT NULL REFERENCES users(id),
  to_user_id   TEXT NOT NULL REFERENCES users(id),
  from_book_id TEXT REFERENCES books(id),   -- NULL means "any current book of the sender's"
  to_book_id   TEXT NOT NULL REFERENCES books(id),
  message TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'pending'
    CHECK (status IN ('pending','accepted','declined','cancelled','completed')),
  from_user_mailed   INTEGER NOT NULL DEFAULT 0,
  to_user_mailed     INTEGER NOT NULL DEFAULT 0,
  from_user_received INTEGER NOT NULL DEFAULT 0,
  to_user_received   INTEGER NOT NULL DEFAULT 0,
  created_at  TEXT DEFAULT CURRENT_TIMESTAMP,
  accepted_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_trades_from_user ON trades(from_user_id);
CREATE INDEX IF NOT EXISTS idx_trades_to_user   ON trades(to_user_id);
CREATE INDEX IF NOT EXISTS idx_trades_to_book   ON trades(to_book_id);
CREATE INDEX IF NOT EXISTS idx_trades_status    ON trades(status);
`
	_, err := db.Exec(schema)
	return err
}

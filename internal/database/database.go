package database

import (
	"database/sql"
	"fmt"

	"steam-deals-bot/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite connection shared by all workers. A single open
// connection serializes writes, which is enough at this write volume.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath and creates the schema.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS deals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		normal_price REAL,
		sale_price REAL,
		savings REAL,
		url TEXT
	);
	CREATE TABLE IF NOT EXISTS catalog (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		normal_price REAL,
		sale_price REAL,
		savings REAL,
		url TEXT
	);
	CREATE TABLE IF NOT EXISTS watermark (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		value INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS subscribers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_id TEXT NOT NULL UNIQUE
	);
	CREATE TABLE IF NOT EXISTS wishlist (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_id TEXT NOT NULL,
		game_name TEXT NOT NULL
	);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		return err
	}

	_, err := db.conn.Exec("INSERT OR IGNORE INTO watermark (id, value) VALUES (1, 0)")
	return err
}

// RecordDeal appends one deal event. Deal rows are never updated.
func (db *DB) RecordDeal(d models.Deal) error {
	_, err := db.conn.Exec(
		"INSERT INTO deals (title, normal_price, sale_price, savings, url) VALUES (?, ?, ?, ?, ?)",
		d.Title, d.NormalPrice, d.SalePrice, d.Savings, d.URL,
	)
	return err
}

// LatestWatermark returns the highest upstream change-timestamp already
// processed by the deal poller.
func (db *DB) LatestWatermark() (int64, error) {
	var value int64
	err := db.conn.QueryRow("SELECT value FROM watermark WHERE id = 1").Scan(&value)
	return value, err
}

// AdvanceWatermark raises the watermark to newValue. No-op unless newValue
// is strictly greater than the stored value, so the watermark never
// decreases.
func (db *DB) AdvanceWatermark(newValue int64) error {
	_, err := db.conn.Exec("UPDATE watermark SET value = ? WHERE id = 1 AND value < ?", newValue, newValue)
	return err
}

// UpsertCatalogEntries inserts one fetched page of catalog entries.
// Duplicate titles are resolved afterwards by DedupCatalogByTitle.
func (db *DB) UpsertCatalogEntries(entries []models.CatalogEntry) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := tx.Exec(
			"INSERT INTO catalog (title, normal_price, sale_price, savings, url) VALUES (?, ?, ?, ?, ?)",
			e.Title, e.NormalPrice, e.SalePrice, e.Savings, e.URL,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// DedupCatalogByTitle keeps only the most recently inserted row per title.
func (db *DB) DedupCatalogByTitle() error {
	_, err := db.conn.Exec(
		"DELETE FROM catalog WHERE id NOT IN (SELECT MAX(id) FROM catalog GROUP BY title)",
	)
	return err
}

// FindCatalogByFragment returns catalog entries whose title contains
// fragment, case-insensitively.
func (db *DB) FindCatalogByFragment(fragment string) ([]models.CatalogEntry, error) {
	rows, err := db.conn.Query(
		"SELECT id, title, normal_price, sale_price, savings, url FROM catalog WHERE title LIKE ?",
		"%"+fragment+"%",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.CatalogEntry
	for rows.Next() {
		var e models.CatalogEntry
		if err := rows.Scan(&e.ID, &e.Title, &e.NormalPrice, &e.SalePrice, &e.Savings, &e.URL); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// FindDealsByFragment returns deal events whose title contains fragment,
// case-insensitively.
func (db *DB) FindDealsByFragment(fragment string) ([]models.Deal, error) {
	rows, err := db.conn.Query(
		"SELECT id, title, normal_price, sale_price, savings, url FROM deals WHERE title LIKE ?",
		"%"+fragment+"%",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deals []models.Deal
	for rows.Next() {
		var d models.Deal
		if err := rows.Scan(&d.ID, &d.Title, &d.NormalPrice, &d.SalePrice, &d.Savings, &d.URL); err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

// AddSubscriber registers a chat. Idempotent.
func (db *DB) AddSubscriber(chatID string) error {
	_, err := db.conn.Exec("INSERT OR IGNORE INTO subscribers (chat_id) VALUES (?)", chatID)
	return err
}

// CountSubscribers returns the number of registered chats.
func (db *DB) CountSubscribers() (int, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM subscribers").Scan(&n)
	return n, err
}

// AddWishlistEntry stores a pending notification request for chatID.
func (db *DB) AddWishlistEntry(chatID, gameName string) error {
	_, err := db.conn.Exec("INSERT INTO wishlist (chat_id, game_name) VALUES (?, ?)", chatID, gameName)
	return err
}

// AllWishlistEntries returns every pending wishlist entry.
func (db *DB) AllWishlistEntries() ([]models.WishlistEntry, error) {
	rows, err := db.conn.Query("SELECT id, chat_id, game_name FROM wishlist")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.WishlistEntry
	for rows.Next() {
		var e models.WishlistEntry
		if err := rows.Scan(&e.ID, &e.ChatID, &e.GameName); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RemoveWishlistEntry deletes one entry by id.
func (db *DB) RemoveWishlistEntry(id int64) error {
	_, err := db.conn.Exec("DELETE FROM wishlist WHERE id = ?", id)
	return err
}

// ClearWishlist deletes every wishlist entry belonging to chatID and
// returns how many were removed.
func (db *DB) ClearWishlist(chatID string) (int64, error) {
	res, err := db.conn.Exec("DELETE FROM wishlist WHERE chat_id = ?", chatID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

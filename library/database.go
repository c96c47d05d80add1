package library

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/govalues/decimal"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

// Database provides high-level helpers around a SQLite connection. It owns
// the three tables: the catalog (book), the accounts (users), and the
// append-only borrow/return ledger (borrowed_books).
type Database struct {
	db     *sqlx.DB
	logger *slog.Logger

	addBookStmt    *sql.Stmt
	addAccountStmt *sql.Stmt
}

// NewDatabase opens (or creates) the SQLite database at dbPath, applies schema
// migrations, and prepares common statements.
//
// Foreign keys are declared in the schema but the pragma is left off on
// purpose: DeleteBook removes catalog rows unconditionally and any ledger
// rows referencing them stay behind as history.
func NewDatabase(dbPath string, logger *slog.Logger) (*Database, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	database := &Database{db: db, logger: logger}
	if err := database.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return database, nil
}

// Close releases prepared statements and closes the DB.
func (d *Database) Close() error {
	if d.addBookStmt != nil {
		d.addBookStmt.Close()
	}
	if d.addAccountStmt != nil {
		d.addAccountStmt.Close()
	}
	return d.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sqlx.DB) error {
	// WAL improves write concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            username TEXT UNIQUE NOT NULL,
            password_digest TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS book (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            price TEXT NOT NULL,
            available_copies INTEGER NOT NULL,
            category TEXT NOT NULL,
            publisher TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS borrowed_books (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL REFERENCES users(id),
            book_id INTEGER NOT NULL REFERENCES book(id),
            borrow_return TEXT NOT NULL CHECK (borrow_return IN ('B','R')),
            date_time DATETIME NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_borrowed_books_pair ON borrowed_books(user_id, book_id);`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Prepared statements
// ---------------------------------------------------------------------------

func (d *Database) prepareStatements() error {
	var err error
	if d.addBookStmt, err = d.db.Prepare(`INSERT INTO book(title,author,price,available_copies,category,publisher) VALUES(?,?,?,?,?,?)`); err != nil {
		return err
	}
	if d.addAccountStmt, err = d.db.Prepare(`INSERT INTO users(username,password_digest) VALUES(?,?)`); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Catalog store
// ---------------------------------------------------------------------------

type rowScanner interface {
	Scan(dest ...any) error
}

// scanBook reads one catalog row. Price is stored as its canonical decimal
// string and parsed back on the way out.
func scanBook(row rowScanner) (*Book, error) {
	var (
		b     Book
		price string
	)
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &price, &b.AvailableCopies, &b.Category, &b.Publisher); err != nil {
		return nil, err
	}
	p, err := decimal.Parse(price)
	if err != nil {
		return nil, fmt.Errorf("parse stored price %q: %w", price, err)
	}
	b.Price = p
	return &b, nil
}

// InsertBook inserts a catalog row and returns its id.
func (d *Database) InsertBook(b *Book) (int64, error) {
	res, err := d.addBookStmt.Exec(b.Title, b.Author, b.Price.String(), b.AvailableCopies, b.Category, b.Publisher)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetBook fetches a single catalog row by id.
func (d *Database) GetBook(id int64) (*Book, error) {
	book, err := scanBook(d.db.QueryRow(`SELECT id,title,author,price,available_copies,category,publisher FROM book WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return book, err
}

// GetAllBooks returns the whole catalog in insertion order.
func (d *Database) GetAllBooks() ([]*Book, error) {
	rows, err := d.db.Query(`SELECT id,title,author,price,available_copies,category,publisher FROM book ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// DeleteBookRow removes a catalog row unconditionally. Ledger rows that
// reference the book are left in place; a Warn records how many went dangling.
func (d *Database) DeleteBookRow(id int64) error {
	res, err := d.db.Exec(`DELETE FROM book WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	var dangling int64
	if err := d.db.Get(&dangling, `SELECT COUNT(*) FROM borrowed_books WHERE book_id=?`, id); err == nil && dangling > 0 {
		d.logger.Warn("deleted book leaves dangling ledger entries", "book_id", id, "entries", dangling)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Account store
// ---------------------------------------------------------------------------

// InsertAccount creates an account row. The unique constraint on username is
// the store-level guarantee; a violation surfaces as ErrDuplicateUsername.
func (d *Database) InsertAccount(username, digest string) (int64, error) {
	res, err := d.addAccountStmt.Exec(username, digest)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return 0, ErrDuplicateUsername
		}
		return 0, err
	}
	return res.LastInsertId()
}

// GetAccountByUsername fetches one account. Callers map sql.ErrNoRows to
// whatever their flow needs.
func (d *Database) GetAccountByUsername(username string) (*Account, error) {
	var a Account
	if err := d.db.Get(&a, `SELECT id, username, password_digest FROM users WHERE username=?`, username); err != nil {
		return nil, err
	}
	return &a, nil
}

// ---------------------------------------------------------------------------
// Ledger
// ---------------------------------------------------------------------------

// LedgerEntries returns a user's full borrow/return history, oldest first.
func (d *Database) LedgerEntries(userID int64) ([]LedgerEntry, error) {
	var entries []LedgerEntry
	err := d.db.Select(&entries, `SELECT id, user_id, book_id, borrow_return, date_time FROM borrowed_books WHERE user_id=? ORDER BY id`, userID)
	return entries, err
}

// OpenBorrows reports how many unmatched borrow entries the user holds for
// the book: borrows minus returns for the pair.
func (d *Database) OpenBorrows(userID, bookID int64) (int64, error) {
	var n int64
	err := d.db.Get(&n, `
        SELECT COALESCE(SUM(CASE WHEN borrow_return = 'B' THEN 1 ELSE -1 END), 0)
        FROM borrowed_books
        WHERE user_id = ? AND book_id = ?`, userID, bookID)
	return n, err
}

package library

import (
	"database/sql"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/govalues/decimal"
)

// Manager is a thin façade over the Database, keeping front-end code simple.
// It owns input coercion and validation; the Database owns SQL.
type Manager struct {
	db *Database
}

// NewManager opens (or creates) the SQLite database at dbPath.
func NewManager(dbPath string, logger *slog.Logger) (*Manager, error) {
	db, err := NewDatabase(dbPath, logger)
	if err != nil {
		return nil, err
	}
	return &Manager{db: db}, nil
}

// Close closes the underlying database.
func (m *Manager) Close() error { return m.db.Close() }

// ------------------ Session ------------------

// Register creates an account. The password must match its confirmation and
// the username must be unused.
func (m *Manager) Register(username, password, confirm string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, &ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if password == "" {
		return 0, &ValidationError{Field: "password", Reason: "must not be empty"}
	}
	if password != confirm {
		return 0, ErrPasswordMismatch
	}

	digest, err := hashPassword(password)
	if err != nil {
		return 0, err
	}
	return m.db.InsertAccount(username, digest)
}

// Login verifies the credentials and returns the account id.
func (m *Manager) Login(username, password string) (int64, error) {
	account, err := m.db.GetAccountByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrInvalidCredentials
		}
		return 0, err
	}
	if !checkPassword(account.PasswordDigest, password) {
		return 0, ErrInvalidCredentials
	}
	return account.ID, nil
}

// ------------------ Circulation ------------------

// Borrow resolves the identifier across id, title, category, and publisher,
// then claims a copy for the user. The returned book carries the title,
// category, and publisher for confirmation display.
func (m *Manager) Borrow(userID int64, identifier string) (*Book, error) {
	book, err := m.db.ResolveBook(identifier)
	if err != nil {
		return nil, err
	}
	if err := m.db.BorrowBook(userID, book.ID); err != nil {
		return nil, err
	}
	return book, nil
}

// BorrowBy is the field-scoped variant used by the console menu. Category and
// publisher lookups skip rows with no copies left.
func (m *Manager) BorrowBy(userID int64, field Field, value string) (*Book, error) {
	book, err := m.db.ResolveBookBy(field, value, true)
	if err != nil {
		return nil, err
	}
	if err := m.db.BorrowBook(userID, book.ID); err != nil {
		return nil, err
	}
	return book, nil
}

// Return resolves the identifier and hands a copy back.
func (m *Manager) Return(userID int64, identifier string) (*Book, error) {
	book, err := m.db.ResolveBook(identifier)
	if err != nil {
		return nil, err
	}
	if err := m.db.ReturnBook(userID, book.ID); err != nil {
		return nil, err
	}
	return book, nil
}

// ReturnBy is the field-scoped variant used by the console menu.
func (m *Manager) ReturnBy(userID int64, field Field, value string) (*Book, error) {
	book, err := m.db.ResolveBookBy(field, value, false)
	if err != nil {
		return nil, err
	}
	if err := m.db.ReturnBook(userID, book.ID); err != nil {
		return nil, err
	}
	return book, nil
}

// ------------------ Catalog maintenance ------------------

// AddBook validates and coerces the raw form input, then inserts the catalog
// row. The first violated constraint is reported.
func (m *Manager) AddBook(title, author, price, copies, category, publisher string) (int64, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	category = strings.TrimSpace(category)
	publisher = strings.TrimSpace(publisher)

	if title == "" {
		return 0, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if author == "" {
		return 0, &ValidationError{Field: "author", Reason: "must not be empty"}
	}
	if category == "" {
		return 0, &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if publisher == "" {
		return 0, &ValidationError{Field: "publisher", Reason: "must not be empty"}
	}

	p, err := decimal.Parse(strings.TrimSpace(price))
	if err != nil {
		return 0, &ValidationError{Field: "price", Reason: "must be a decimal number"}
	}
	n, err := strconv.ParseInt(strings.TrimSpace(copies), 10, 64)
	if err != nil || n < 0 {
		return 0, &ValidationError{Field: "available_copies", Reason: "must be a non-negative integer"}
	}

	return m.db.InsertBook(&Book{
		Title:           title,
		Author:          author,
		Price:           p,
		AvailableCopies: n,
		Category:        category,
		Publisher:       publisher,
	})
}

// DeleteBook removes a catalog row, matching by numeric id or exact title
// only. Ledger history referencing the book stays behind. Returns the deleted
// book for confirmation display.
func (m *Manager) DeleteBook(identifier string) (*Book, error) {
	book, err := m.db.ResolveBookStrict(identifier)
	if err != nil {
		return nil, err
	}
	if err := m.db.DeleteBookRow(book.ID); err != nil {
		return nil, err
	}
	return book, nil
}

// DeleteBookBy is the field-scoped variant used by the console menu; only id
// and title are accepted.
func (m *Manager) DeleteBookBy(field Field, value string) (*Book, error) {
	if field != FieldID && field != FieldTitle {
		return nil, ErrNotFound
	}
	book, err := m.db.ResolveBookBy(field, value, false)
	if err != nil {
		return nil, err
	}
	if err := m.db.DeleteBookRow(book.ID); err != nil {
		return nil, err
	}
	return book, nil
}

// ------------------ Lookups ------------------

func (m *Manager) GetBook(id int64) (*Book, error)  { return m.db.GetBook(id) }
func (m *Manager) GetAllBooks() ([]*Book, error)    { return m.db.GetAllBooks() }
func (m *Manager) Resolve(id string) (*Book, error) { return m.db.ResolveBook(id) }

// History returns a user's borrow/return ledger, oldest first.
func (m *Manager) History(userID int64) ([]LedgerEntry, error) {
	return m.db.LedgerEntries(userID)
}

package library

import (
	"time"

	"github.com/govalues/decimal"
)

// Direction marks a ledger entry as a borrow or a return.
type Direction string

const (
	DirectionBorrow Direction = "B"
	DirectionReturn Direction = "R"
)

// Book represents one catalog row. AvailableCopies is the only field mutated
// after creation, and only by the circulation engine.
type Book struct {
	ID              int64
	Title           string
	Author          string
	Price           decimal.Decimal
	AvailableCopies int64
	Category        string
	Publisher       string
}

// Account is a registered user. Rows are immutable after registration.
type Account struct {
	ID             int64  `db:"id"`
	Username       string `db:"username"`
	PasswordDigest string `db:"password_digest"`
}

// LedgerEntry is one row of the append-only borrow/return log. Whether a user
// currently holds a book is derived from these rows, not stored anywhere.
type LedgerEntry struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	BookID    int64     `db:"book_id"`
	Direction Direction `db:"borrow_return"`
	Timestamp time.Time `db:"date_time"`
}

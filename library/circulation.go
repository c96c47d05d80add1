package library

import (
	"database/sql"
	"errors"
	"time"
)

// The circulation engine mutates the catalog and the ledger together. Each
// effect (copy-count change plus ledger append) runs in one transaction so a
// crash cannot leave the two halves inconsistent.

// BorrowBook claims one copy of the book for the user. Nothing stops the same
// user borrowing the same book again while copies remain; each borrow opens
// another ledger entry to be matched by its own return.
func (d *Database) BorrowBook(userID, bookID int64) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var copies int64
	if err := tx.QueryRow(`SELECT available_copies FROM book WHERE id=?`, bookID).Scan(&copies); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if copies <= 0 {
		return ErrUnavailable
	}

	if _, err := tx.Exec(`UPDATE book SET available_copies = available_copies - 1 WHERE id=?`, bookID); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO borrowed_books(user_id,book_id,borrow_return,date_time) VALUES(?,?,?,?)`,
		userID, bookID, string(DirectionBorrow), time.Now()); err != nil {
		return err
	}
	return tx.Commit()
}

// ReturnBook hands a copy back. The guard requires an unmatched borrow entry
// for this exact (user, book) pair, so a return by anyone but the borrower is
// rejected even while some other user holds the book.
func (d *Database) ReturnBook(userID, bookID int64) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var open int64
	if err := tx.QueryRow(`
        SELECT COALESCE(SUM(CASE WHEN borrow_return = 'B' THEN 1 ELSE -1 END), 0)
        FROM borrowed_books
        WHERE user_id = ? AND book_id = ?`, userID, bookID).Scan(&open); err != nil {
		return err
	}
	if open <= 0 {
		return ErrNotBorrowedByUser
	}

	if _, err := tx.Exec(`UPDATE book SET available_copies = available_copies + 1 WHERE id=?`, bookID); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO borrowed_books(user_id,book_id,borrow_return,date_time) VALUES(?,?,?,?)`,
		userID, bookID, string(DirectionReturn), time.Now()); err != nil {
		return err
	}
	return tx.Commit()
}

package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func copiesOf(t *testing.T, db *Database, bookID int64) int64 {
	t.Helper()
	b, err := db.GetBook(bookID)
	require.NoError(t, err)
	return b.AvailableCopies
}

func TestBorrowUnavailableLeavesCountUnchanged(t *testing.T) {
	db := tempDB(t)
	bookID := addBook(t, db, "Atlas", "Rand", "10.00", 0, "Fiction", "Signet")

	err := db.BorrowBook(7, bookID)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int64(0), copiesOf(t, db, bookID))

	entries, err := db.LedgerEntries(7)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBorrowMissingBook(t *testing.T) {
	db := tempDB(t)
	assert.ErrorIs(t, db.BorrowBook(7, 42), ErrNotFound)
}

func TestBorrowThenReturnRestoresCount(t *testing.T) {
	db := tempDB(t)
	bookID := addBook(t, db, "Atlas", "Rand", "10.00", 3, "Fiction", "Signet")

	require.NoError(t, db.BorrowBook(7, bookID))
	assert.Equal(t, int64(2), copiesOf(t, db, bookID))

	require.NoError(t, db.ReturnBook(7, bookID))
	assert.Equal(t, int64(3), copiesOf(t, db, bookID))
}

func TestReturnWithoutBorrowRejected(t *testing.T) {
	db := tempDB(t)
	bookID := addBook(t, db, "Atlas", "Rand", "10.00", 3, "Fiction", "Signet")

	assert.ErrorIs(t, db.ReturnBook(7, bookID), ErrNotBorrowedByUser)
	assert.Equal(t, int64(3), copiesOf(t, db, bookID))
}

func TestReturnByDifferentUserRejected(t *testing.T) {
	db := tempDB(t)
	bookID := addBook(t, db, "Atlas", "Rand", "10.00", 2, "Fiction", "Signet")

	require.NoError(t, db.BorrowBook(7, bookID))

	// User 8 never borrowed it, even though user 7 holds a copy.
	assert.ErrorIs(t, db.ReturnBook(8, bookID), ErrNotBorrowedByUser)
	assert.Equal(t, int64(1), copiesOf(t, db, bookID))
}

// The single-copy walkthrough: borrow empties the shelf, a second borrower is
// turned away, the return restocks it, and a second return is rejected.
func TestSingleCopyBorrowReturnCycle(t *testing.T) {
	db := tempDB(t)
	bookID := addBook(t, db, "Atlas", "Rand", "10.00", 1, "Fiction", "Signet")

	book, err := db.ResolveBook("Atlas")
	require.NoError(t, err)
	require.NoError(t, db.BorrowBook(7, book.ID))
	assert.Equal(t, int64(0), copiesOf(t, db, bookID))

	entries, err := db.LedgerEntries(7)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, DirectionBorrow, entries[0].Direction)

	assert.ErrorIs(t, db.BorrowBook(8, bookID), ErrUnavailable)

	require.NoError(t, db.ReturnBook(7, bookID))
	assert.Equal(t, int64(1), copiesOf(t, db, bookID))

	entries, err = db.LedgerEntries(7)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, DirectionReturn, entries[1].Direction)

	// No unmatched borrow remains for the pair.
	assert.ErrorIs(t, db.ReturnBook(7, bookID), ErrNotBorrowedByUser)
}

// A user may hold several copies of the same book at once; each borrow needs
// its own return.
func TestRepeatedBorrowBySameUser(t *testing.T) {
	db := tempDB(t)
	bookID := addBook(t, db, "Atlas", "Rand", "10.00", 3, "Fiction", "Signet")

	require.NoError(t, db.BorrowBook(7, bookID))
	require.NoError(t, db.BorrowBook(7, bookID))
	assert.Equal(t, int64(1), copiesOf(t, db, bookID))

	open, err := db.OpenBorrows(7, bookID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), open)

	require.NoError(t, db.ReturnBook(7, bookID))
	require.NoError(t, db.ReturnBook(7, bookID))
	assert.Equal(t, int64(3), copiesOf(t, db, bookID))

	assert.ErrorIs(t, db.ReturnBook(7, bookID), ErrNotBorrowedByUser)
}

package library

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mgr, err := NewManager(filepath.Join(t.TempDir(), "lib.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })
	return mgr
}

func TestRegisterAndLogin(t *testing.T) {
	mgr := newManager(t)

	id, err := mgr.Register("alice", "s3cret", "s3cret")
	require.NoError(t, err)

	got, err := mgr.Login("alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	// Login is deterministic.
	again, err := mgr.Login("alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, id, again)

	_, err = mgr.Login("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = mgr.Login("nobody", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	mgr := newManager(t)

	_, err := mgr.Register("bob", "one", "two")
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	var vErr *ValidationError
	_, err = mgr.Register("", "pw", "pw")
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "username", vErr.Field)

	_, err = mgr.Register("bob", "", "")
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "password", vErr.Field)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	mgr := newManager(t)

	_, err := mgr.Register("alice", "pw1", "pw1")
	require.NoError(t, err)

	_, err = mgr.Register("alice", "pw2", "pw2")
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	// The first registration remains valid for login.
	_, err = mgr.Login("alice", "pw1")
	assert.NoError(t, err)
}

func TestAddBookValidation(t *testing.T) {
	mgr := newManager(t)

	cases := []struct {
		name  string
		args  [6]string // title, author, price, copies, category, publisher
		field string
	}{
		{"empty title", [6]string{"", "Herbert", "499.00", "3", "SciFi", "Ace"}, "title"},
		{"empty author", [6]string{"Dune", "", "499.00", "3", "SciFi", "Ace"}, "author"},
		{"empty category", [6]string{"Dune", "Herbert", "499.00", "3", "", "Ace"}, "category"},
		{"empty publisher", [6]string{"Dune", "Herbert", "499.00", "3", "SciFi", ""}, "publisher"},
		{"bad price", [6]string{"Dune", "Herbert", "cheap", "3", "SciFi", "Ace"}, "price"},
		{"bad copies", [6]string{"Dune", "Herbert", "499.00", "many", "SciFi", "Ace"}, "available_copies"},
		{"negative copies", [6]string{"Dune", "Herbert", "499.00", "-1", "SciFi", "Ace"}, "available_copies"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := mgr.AddBook(tc.args[0], tc.args[1], tc.args[2], tc.args[3], tc.args[4], tc.args[5])
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestAddThenDeleteBook(t *testing.T) {
	mgr := newManager(t)

	_, err := mgr.AddBook("Dune", "Herbert", "499.00", "3", "SciFi", "Ace")
	require.NoError(t, err)

	deleted, err := mgr.DeleteBook("Dune")
	require.NoError(t, err)
	assert.Equal(t, "Dune", deleted.Title)

	_, err = mgr.Resolve("Dune")
	assert.ErrorIs(t, err, ErrNotFound)

	books, err := mgr.GetAllBooks()
	require.NoError(t, err)
	for _, b := range books {
		assert.NotEqual(t, "Dune", b.Title)
	}
}

func TestDeleteBookByRejectsBroadFields(t *testing.T) {
	mgr := newManager(t)

	_, err := mgr.AddBook("Dune", "Herbert", "499.00", "3", "SciFi", "Ace")
	require.NoError(t, err)

	_, err = mgr.DeleteBookBy(FieldCategory, "SciFi")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = mgr.DeleteBookBy(FieldPublisher, "Ace")
	assert.ErrorIs(t, err, ErrNotFound)

	// The catalog row is untouched.
	_, err = mgr.Resolve("Dune")
	assert.NoError(t, err)
}

func TestBorrowAndReturnThroughManager(t *testing.T) {
	mgr := newManager(t)

	userID, err := mgr.Register("alice", "pw", "pw")
	require.NoError(t, err)
	bookID, err := mgr.AddBook("Dune", "Herbert", "499.00", "1", "SciFi", "Ace")
	require.NoError(t, err)

	book, err := mgr.Borrow(userID, "Dune")
	require.NoError(t, err)
	assert.Equal(t, bookID, book.ID)
	assert.Equal(t, "SciFi", book.Category)
	assert.Equal(t, "Ace", book.Publisher)

	book, err = mgr.Return(userID, "Dune")
	require.NoError(t, err)
	assert.Equal(t, bookID, book.ID)

	history, err := mgr.History(userID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, DirectionBorrow, history[0].Direction)
	assert.Equal(t, DirectionReturn, history[1].Direction)
}

func TestBorrowByCategorySkipsExhaustedRows(t *testing.T) {
	mgr := newManager(t)

	userID, err := mgr.Register("alice", "pw", "pw")
	require.NoError(t, err)
	_, err = mgr.AddBook("Rome I", "Jones", "30.00", "0", "History", "Penguin")
	require.NoError(t, err)
	stocked, err := mgr.AddBook("Rome II", "Jones", "30.00", "2", "History", "Penguin")
	require.NoError(t, err)

	book, err := mgr.BorrowBy(userID, FieldCategory, "History")
	require.NoError(t, err)
	assert.Equal(t, stocked, book.ID)
}

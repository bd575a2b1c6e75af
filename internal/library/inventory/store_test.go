package inventory

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysql "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/db"
)

func newMockStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewStore(sqlx.NewDb(conn, "mysql")), mock
}

var bookCols = []string{"book_id", "isbn", "title", "author", "publisher", "publication_year", "pages",
	"category_id", "description", "price", "status", "total_copies", "available_copies", "created_at", "updated_at"}

func TestLockAndSaveInsideTx(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM books WHERE book_id = ? FOR UPDATE")).
		WithArgs("B1").
		WillReturnRows(sqlmock.NewRows(bookCols).
			AddRow("B1", "9780000000001", "Go", "Pike", "", nil, nil, "", "", nil, "available", 1, 1, now, now))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE books")).
		WithArgs(0, StatusBorrowed, now, "B1", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.RunInTx(context.Background(), func(ctx context.Context, tx Tx) error {
		b, err := tx.LockBook(ctx, "B1")
		if err != nil {
			return err
		}
		if err := NewLedger(nil).Apply(b, -1); err != nil {
			return err
		}
		b.UpdatedAt = now
		return tx.SaveBookStock(ctx, b)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveGuardRollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE books")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.RunInTx(context.Background(), func(ctx context.Context, tx Tx) error {
		return tx.SaveBookStock(ctx, &Book{ID: "B1", AvailableCopies: 9, Status: StatusAvailable})
	})
	assert.ErrorIs(t, err, apierr.ErrInvariantViolation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockMissingBook(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnRows(sqlmock.NewRows(bookCols))
	mock.ExpectRollback()

	err := s.RunInTx(context.Background(), func(ctx context.Context, tx Tx) error {
		_, err := tx.LockBook(ctx, "nope")
		return err
	})
	assert.Equal(t, apierr.CodeNotFound, apierr.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBooksBuildsFilteredQuery(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()
	const cat, author = "01HZX0CATEGORY000000000000", "01HZX0AUTHOR00000000000000"

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM `books` WHERE ((`title` LIKE ?)")).
		WithArgs("%go%", "%go%", "%go%", "%go%", cat, author).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("IN (SELECT `book_id` FROM `book_authors` WHERE")).
		WillReturnRows(sqlmock.NewRows(bookCols).
			AddRow("B1", "9780000000001", "Go", "Pike", "", 2015, 380, cat, "", "39.99", "available", 2, 1, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM `book_authors` WHERE")).
		WithArgs("B1").
		WillReturnRows(sqlmock.NewRows([]string{"book_id", "author_id"}).
			AddRow("B1", author).
			AddRow("B1", "01HZX0AUTHOR00000000000001"))

	items, total, err := s.ListBooks(context.Background(),
		BookQuery{Q: "go", CategoryID: cat, AuthorID: author}, db.Page{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "39.99", items[0].Price.Decimal.StringFixed(2))
	require.NotNil(t, items[0].PublicationYear)
	assert.Equal(t, 2015, *items[0].PublicationYear)
	require.NotNil(t, items[0].CategoryID)
	assert.Equal(t, cat, *items[0].CategoryID)
	assert.Equal(t, []string{author, "01HZX0AUTHOR00000000000001"}, items[0].AuthorIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookWritesAuthorLinksInOneTx(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	cat := "01HZX0CATEGORY000000000000"
	b := &Book{
		ID: "B1", ISBN: "9780000000001", Title: "Go", Author: "Pike", CategoryID: &cat,
		Status: StatusAvailable, TotalCopies: 1, AvailableCopies: 1, CreatedAt: now, UpdatedAt: now,
		AuthorIDs: []string{"A1", "A2"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO books")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO book_authors")).WithArgs("B1", "A1", 0).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO book_authors")).WithArgs("B1", "A2", 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.CreateBook(context.Background(), b))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookUnknownCategoryRollsBack(t *testing.T) {
	s, mock := newMockStore(t)
	cat := "01HZX0CATEGORY000000000000"

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO books")).
		WillReturnError(&mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"})
	mock.ExpectRollback()

	err := s.CreateBook(context.Background(), &Book{ID: "B1", ISBN: "9780000000001", CategoryID: &cat, TotalCopies: 1})
	assert.Equal(t, apierr.CodeInvalidArgument, apierr.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

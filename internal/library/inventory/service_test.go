package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readify-backend/internal/library/authors"
	"readify-backend/internal/library/categories"
	"readify-backend/internal/library/inventory"
	"readify-backend/internal/library/librarytest"
	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/db"
	"readify-backend/internal/platform/ids"
)

func intp(v int) *int { return &v }

func TestCreateBookValidation(t *testing.T) {
	env := librarytest.New(nil)
	ctx := context.Background()

	cases := []struct {
		name string
		in   inventory.CreateBookRequest
	}{
		{"bad isbn", inventory.CreateBookRequest{ISBN: "12345", Title: "T", Author: "A", TotalCopies: 1}},
		{"no title", inventory.CreateBookRequest{ISBN: "9780000000001", Author: "A", TotalCopies: 1}},
		{"zero copies", inventory.CreateBookRequest{ISBN: "9780000000001", Title: "T", Author: "A"}},
		{"negative price", inventory.CreateBookRequest{ISBN: "9780000000001", Title: "T", Author: "A", TotalCopies: 1,
			Price: func() *decimal.Decimal { d := decimal.NewFromInt(-1); return &d }()}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.Books.CreateBook(ctx, tc.in)
			assert.Equal(t, apierr.CodeInvalidArgument, apierr.CodeOf(err))
		})
	}
}

func TestCreateBookNormalizesIsbnAndClamps(t *testing.T) {
	env := librarytest.New(nil)
	ctx := context.Background()

	b, err := env.Books.CreateBook(ctx, inventory.CreateBookRequest{
		ISBN: "978-4-87311-000-0", Title: "Go", Author: "Pike", TotalCopies: 2, AvailableCopies: intp(5),
	})
	require.NoError(t, err)
	assert.Equal(t, "9784873110000", b.ISBN)
	assert.Equal(t, 2, b.AvailableCopies)

	_, err = env.Books.CreateBook(ctx, inventory.CreateBookRequest{
		ISBN: "9784873110000", Title: "Dup", Author: "X", TotalCopies: 1,
	})
	assert.Equal(t, apierr.CodeConflict, apierr.CodeOf(err))
}

func TestCreateBookWithNoAvailableCopiesIsBorrowed(t *testing.T) {
	env := librarytest.New(nil)
	b, err := env.Books.CreateBook(context.Background(), inventory.CreateBookRequest{
		ISBN: "9780000000002", Title: "Out", Author: "A", TotalCopies: 1, AvailableCopies: intp(0),
	})
	require.NoError(t, err)
	assert.Equal(t, inventory.StatusBorrowed, b.Status)
}

func TestSetStatusMaintenanceBlocksCheckout(t *testing.T) {
	env := librarytest.New(nil)
	ctx := context.Background()
	book, err := env.AddBook(ctx, "Go", 1)
	require.NoError(t, err)
	alice, err := env.AddBorrower(ctx, "alice")
	require.NoError(t, err)

	got, err := env.Books.SetStatus(ctx, book, inventory.StatusMaintenance)
	require.NoError(t, err)
	assert.Equal(t, inventory.StatusMaintenance, got.Status)

	_, err = env.Checkout(ctx, alice, book)
	assert.ErrorIs(t, err, apierr.ErrBookUnavailable)

	_, err = env.Books.SetStatus(ctx, book, "lost")
	assert.Equal(t, apierr.CodeInvalidArgument, apierr.CodeOf(err))
}

func TestListBooksSearchAndPaging(t *testing.T) {
	env := librarytest.New(nil)
	ctx := context.Background()
	for _, title := range []string{"Go in Action", "Learning Go", "Rust Book"} {
		_, err := env.AddBook(ctx, title, 1)
		require.NoError(t, err)
	}

	res, err := env.Books.ListBooks(ctx, inventory.BookQuery{Q: "go"}, db.Page{Order: "asc"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Go in Action", res.Items[0].Title)

	res, err = env.Books.ListBooks(ctx, inventory.BookQuery{}, db.Page{Limit: 1, Offset: 2, Order: "asc"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Rust Book", res.Items[0].Title)

	_, err = env.Books.ListBooks(ctx, inventory.BookQuery{Status: "lost"}, db.Page{})
	assert.Equal(t, apierr.CodeInvalidArgument, apierr.CodeOf(err))
}

func TestListBooksByCategoryAndAuthor(t *testing.T) {
	env := librarytest.New(nil)
	ctx := context.Background()

	novels, err := env.Categories.Create(ctx, categories.CreateRequest{Name: "小説"})
	require.NoError(t, err)
	tech, err := env.Categories.Create(ctx, categories.CreateRequest{Name: "Tech"})
	require.NoError(t, err)
	soseki, err := env.Authors.Create(ctx, authors.AuthorRequest{FirstName: "漱石", LastName: "夏目"})
	require.NoError(t, err)
	pike, err := env.Authors.Create(ctx, authors.AuthorRequest{FirstName: "Rob", LastName: "Pike"})
	require.NoError(t, err)

	neko, err := env.Books.CreateBook(ctx, inventory.CreateBookRequest{
		ISBN: "9784101010014", Title: "吾輩は猫である", Author: "夏目漱石", TotalCopies: 1,
		CategoryID: &novels.CategoryID, AuthorIDs: []string{soseki.AuthorID, soseki.AuthorID},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{soseki.AuthorID}, neko.AuthorIDs)

	_, err = env.Books.CreateBook(ctx, inventory.CreateBookRequest{
		ISBN: "9780134190440", Title: "The Go Programming Language", Author: "Donovan, Kernighan", TotalCopies: 1,
		CategoryID: &tech.CategoryID, AuthorIDs: []string{pike.AuthorID},
	})
	require.NoError(t, err)

	res, err := env.Books.ListBooks(ctx, inventory.BookQuery{CategoryID: novels.CategoryID}, db.Page{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, neko.BookID, res.Items[0].BookID)

	res, err = env.Books.ListBooks(ctx, inventory.BookQuery{AuthorID: pike.AuthorID}, db.Page{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "The Go Programming Language", res.Items[0].Title)

	_, err = env.Books.ListBooks(ctx, inventory.BookQuery{CategoryID: "tech"}, db.Page{})
	assert.Equal(t, apierr.CodeInvalidArgument, apierr.CodeOf(err))
}

func TestCreateBookRejectsUnknownReferences(t *testing.T) {
	env := librarytest.New(nil)
	ctx := context.Background()
	missing := ids.NewULID().NewULID(env.Now())

	_, err := env.Books.CreateBook(ctx, inventory.CreateBookRequest{
		ISBN: "9780000000001", Title: "T", Author: "A", TotalCopies: 1, CategoryID: &missing,
	})
	assert.Equal(t, apierr.CodeInvalidArgument, apierr.CodeOf(err))

	_, err = env.Books.CreateBook(ctx, inventory.CreateBookRequest{
		ISBN: "9780000000001", Title: "T", Author: "A", TotalCopies: 1, AuthorIDs: []string{missing},
	})
	assert.Equal(t, apierr.CodeInvalidArgument, apierr.CodeOf(err))

	_, err = env.Books.CreateBook(ctx, inventory.CreateBookRequest{
		ISBN: "9780000000001", Title: "T", Author: "A", TotalCopies: 1, AuthorIDs: []string{"not-an-id"},
	})
	assert.Equal(t, apierr.CodeInvalidArgument, apierr.CodeOf(err))
}

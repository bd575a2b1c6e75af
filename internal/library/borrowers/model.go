package borrowers

import "time"

const DefaultMaxBooksAllowed = 5

// Borrower は borrowers テーブルの1行。auth_accounts とは account_id で 1:1
type Borrower struct {
	ID              string    `db:"borrower_id"`
	AccountID       string    `db:"account_id"`
	LibraryID       string    `db:"library_id"`
	Name            string    `db:"name"`
	Email           string    `db:"email"`
	Phone           string    `db:"phone"`
	Address         string    `db:"address"`
	MembershipDate  time.Time `db:"membership_date"`
	Active          bool      `db:"is_active"`
	MaxBooksAllowed int       `db:"max_books_allowed"`
}

type Query struct {
	Q      string // name / library_id / email
	Active *bool
}

package dashboard

import (
	"time"

	"github.com/shopspring/decimal"
)

type Stats struct {
	TotalBooks          int64           `json:"total_books" db:"total_books"`
	ActiveBorrowers     int64           `json:"active_borrowers" db:"active_borrowers"`
	ActiveBorrowings    int64           `json:"active_borrowings" db:"active_borrowings"`
	OverdueBorrowings   int64           `json:"overdue_borrowings" db:"overdue_borrowings"`
	BorrowingsLast7Days int64           `json:"borrowings_last_7_days" db:"borrowings_recent"`
	ReturnsLast7Days    int64           `json:"returns_last_7_days" db:"returns_recent"`
	TotalFines          decimal.Decimal `json:"total_fines" db:"total_fines"`
	PendingFines        decimal.Decimal `json:"pending_fines" db:"pending_fines"`
}

type PopularBook struct {
	BookID      string `json:"book_id" db:"book_id"`
	Title       string `json:"title" db:"title"`
	Author      string `json:"author" db:"author"`
	BorrowCount int64  `json:"borrow_count" db:"borrow_count"`
}

type OverdueItem struct {
	BorrowingID  string          `json:"borrowing_id" db:"borrowing_id"`
	BorrowerID   string          `json:"borrower_id" db:"borrower_id"`
	BorrowerName string          `json:"borrower_name" db:"borrower_name"`
	LibraryID    string          `json:"library_id" db:"library_id"`
	BookID       string          `json:"book_id" db:"book_id"`
	Title        string          `json:"title" db:"title"`
	BorrowedAt   time.Time       `json:"borrowed_at" db:"borrowed_at"`
	DueAt        time.Time       `json:"due_at" db:"due_at"`
	DaysOverdue  int             `json:"days_overdue" db:"-"`
	AccruedFine  decimal.Decimal `json:"accrued_fine" db:"-"`
}

type Activity struct {
	BorrowingID  string     `json:"borrowing_id" db:"borrowing_id"`
	BorrowerName string     `json:"borrower_name" db:"borrower_name"`
	Title        string     `json:"title" db:"title"`
	BorrowedAt   time.Time  `json:"borrowed_at" db:"borrowed_at"`
	ReturnedAt   *time.Time `json:"returned_at,omitempty" db:"returned_at"`
	Status       string     `json:"status" db:"status"`
}

type Summary struct {
	GeneratedAt    time.Time     `json:"generated_at"`
	Stats          Stats         `json:"stats"`
	PopularBooks   []PopularBook `json:"popular_books"`
	Overdue        []OverdueItem `json:"overdue"`
	RecentActivity []Activity    `json:"recent_activity"`
}

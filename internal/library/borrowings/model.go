package borrowings

import (
	"time"

	"github.com/shopspring/decimal"

	"readify-backend/internal/library/fines"
	"readify-backend/internal/library/policy"
)

type Status string

const (
	StatusBorrowed Status = "borrowed"
	StatusReturned Status = "returned"
	// overdue は読み取り時に導出する。保存されるのは延滞金を確定したときだけ
	StatusOverdue Status = "overdue"
)

// Borrowing は borrowings テーブルの1行を表す
type Borrowing struct {
	ID         string     `db:"borrowing_id"`
	BorrowerID string     `db:"borrower_id"`
	BookID     string     `db:"book_id"`
	BorrowedAt time.Time  `db:"borrowed_at"`
	DueAt      time.Time  `db:"due_at"`
	ReturnedAt *time.Time `db:"returned_at"`
	Status     Status     `db:"status"`
	Notes      string     `db:"notes"`
}

func (b *Borrowing) IsOpen() bool { return b.ReturnedAt == nil }

func (b *Borrowing) IsOverdue(now time.Time) bool {
	return fines.IsOverdue(b.DueAt, b.ReturnedAt, now)
}

func (b *Borrowing) DaysOverdue(now time.Time) int {
	return fines.DaysOverdue(b.DueAt, b.ReturnedAt, now)
}

func (b *Borrowing) FineAmount(now time.Time, p policy.Policy) decimal.Decimal {
	return fines.Compute(b.DueAt, b.ReturnedAt, now, p)
}

// EffectiveStatus は now 時点の見かけのステータス
func (b *Borrowing) EffectiveStatus(now time.Time) Status {
	switch {
	case !b.IsOpen():
		return StatusReturned
	case b.IsOverdue(now):
		return StatusOverdue
	default:
		return StatusBorrowed
	}
}

func (b *Borrowing) appendNotes(notes string) {
	if notes == "" {
		return
	}
	if b.Notes == "" {
		b.Notes = notes
		return
	}
	b.Notes += "\n" + notes
}

// Filter は一覧の検索条件
type Filter struct {
	BorrowerID string
	BookID     string
	Open       *bool
	// OverdueAt を指定すると、その時刻に延滞している未返却のものに絞る
	OverdueAt *time.Time
}

package borrowings

import (
	"time"

	"github.com/shopspring/decimal"

	"readify-backend/internal/library/fines"
	"readify-backend/internal/library/policy"
)

type BorrowRequest struct {
	DueAt *time.Time `json:"due_at,omitempty"`
	Notes string     `json:"notes"`
}

// 職員による代理貸出
type CheckoutRequest struct {
	BorrowerID string     `json:"borrower_id" binding:"required"`
	BookID     string     `json:"book_id" binding:"required"`
	DueAt      *time.Time `json:"due_at,omitempty"`
	Notes      string     `json:"notes"`
}

type ReturnRequest struct {
	Notes string `json:"notes"`
}

type BorrowingResponse struct {
	BorrowingID string          `json:"borrowing_id"`
	BorrowerID  string          `json:"borrower_id"`
	BookID      string          `json:"book_id"`
	BorrowedAt  time.Time       `json:"borrowed_at"`
	DueAt       time.Time       `json:"due_at"`
	ReturnedAt  *time.Time      `json:"returned_at,omitempty"`
	Status      Status          `json:"status"`
	IsOverdue   bool            `json:"is_overdue"`
	DaysOverdue int             `json:"days_overdue"`
	AccruedFine decimal.Decimal `json:"accrued_fine"`
	Notes       string          `json:"notes,omitempty"`
}

// ToResponse は now 時点の延滞状況を付けて返す
func ToResponse(b *Borrowing, now time.Time, p policy.Policy) BorrowingResponse {
	return BorrowingResponse{
		BorrowingID: b.ID,
		BorrowerID:  b.BorrowerID,
		BookID:      b.BookID,
		BorrowedAt:  b.BorrowedAt,
		DueAt:       b.DueAt,
		ReturnedAt:  b.ReturnedAt,
		Status:      b.EffectiveStatus(now),
		IsOverdue:   b.IsOverdue(now),
		DaysOverdue: b.DaysOverdue(now),
		AccruedFine: b.FineAmount(now, p),
		Notes:       b.Notes,
	}
}

func toResponses(items []Borrowing, now time.Time, p policy.Policy) []BorrowingResponse {
	out := make([]BorrowingResponse, 0, len(items))
	for i := range items {
		out = append(out, ToResponse(&items[i], now, p))
	}
	return out
}

type ReturnResponse struct {
	Borrowing BorrowingResponse   `json:"borrowing"`
	Fine      *fines.FineResponse `json:"fine,omitempty"`
}

type MyBorrowingsResponse struct {
	Current []BorrowingResponse `json:"current"`
	Past    []BorrowingResponse `json:"past"`
	// 現在の貸出冊数と上限は /me で見る
	OpenCount int `json:"open_count"`
}

type BorrowingListResponse struct {
	Items []BorrowingResponse `json:"items"`
	Total int64               `json:"total"`
}

type EnsureFineResponse struct {
	Created bool                `json:"created"`
	Fine    *fines.FineResponse `json:"fine,omitempty"`
}

package fines

import (
	"time"

	"github.com/shopspring/decimal"
)

type SettleRequest struct {
	Notes string `json:"notes"`
}

type FineResponse struct {
	FineID      string          `json:"fine_id"`
	BorrowingID string          `json:"borrowing_id"`
	BorrowerID  string          `json:"borrower_id"`
	Amount      decimal.Decimal `json:"amount"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

func ToResponse(f *Fine) FineResponse {
	return FineResponse{
		FineID:      f.ID,
		BorrowingID: f.BorrowingID,
		BorrowerID:  f.BorrowerID,
		Amount:      f.Amount,
		Status:      f.Status,
		CreatedAt:   f.CreatedAt,
		PaidAt:      f.PaidAt,
		Notes:       f.Notes,
	}
}

type FineListResponse struct {
	Items  []FineResponse `json:"items"`
	Total  int64          `json:"total"`
	Totals *Totals        `json:"totals,omitempty"`
}

func toList(items []Fine, total int64) FineListResponse {
	out := FineListResponse{Items: make([]FineResponse, 0, len(items)), Total: total}
	for i := range items {
		out.Items = append(out.Items, ToResponse(&items[i]))
	}
	return out
}

package reservations

import "time"

type ReserveRequest struct {
	Notes string `json:"notes"`
}

type ReservationResponse struct {
	ReservationID string    `json:"reservation_id"`
	BorrowerID    string    `json:"borrower_id"`
	BookID        string    `json:"book_id"`
	RequestedAt   time.Time `json:"requested_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	Status        Status    `json:"status"`
	IsExpired     bool      `json:"is_expired"`
	Notes         string    `json:"notes,omitempty"`
}

func ToResponse(r *Reservation, now time.Time) ReservationResponse {
	return ReservationResponse{
		ReservationID: r.ID,
		BorrowerID:    r.BorrowerID,
		BookID:        r.BookID,
		RequestedAt:   r.RequestedAt,
		ExpiresAt:     r.ExpiresAt,
		Status:        r.Status,
		IsExpired:     r.IsExpired(now),
		Notes:         r.Notes,
	}
}

type ReservationListResponse struct {
	Items []ReservationResponse `json:"items"`
	Total int64                 `json:"total"`
}

package borrowers

import "time"

type RegisterRequest struct {
	// 職員が代理登録するときのみ使う
	AccountID string `json:"account_id,omitempty"`
	LibraryID string `json:"library_id,omitempty"`
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

type UpdateRequest struct {
	Name            *string `json:"name,omitempty"`
	Email           *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone           *string `json:"phone,omitempty"`
	Address         *string `json:"address,omitempty"`
	Active          *bool   `json:"is_active,omitempty"`
	MaxBooksAllowed *int    `json:"max_books_allowed,omitempty"`
}

type BorrowerResponse struct {
	BorrowerID      string    `json:"borrower_id"`
	AccountID       string    `json:"account_id"`
	LibraryID       string    `json:"library_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Address         string    `json:"address,omitempty"`
	MembershipDate  time.Time `json:"membership_date"`
	Active          bool      `json:"is_active"`
	MaxBooksAllowed int       `json:"max_books_allowed"`
}

func ToResponse(b *Borrower) BorrowerResponse {
	return BorrowerResponse{
		BorrowerID:      b.ID,
		AccountID:       b.AccountID,
		LibraryID:       b.LibraryID,
		Name:            b.Name,
		Email:           b.Email,
		Phone:           b.Phone,
		Address:         b.Address,
		MembershipDate:  b.MembershipDate,
		Active:          b.Active,
		MaxBooksAllowed: b.MaxBooksAllowed,
	}
}

type BorrowerListResponse struct {
	Items  []BorrowerResponse `json:"items"`
	Total  int64              `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateBookRequest struct {
	ISBN            string           `json:"isbn" binding:"required"`
	Title           string           `json:"title" binding:"required"`
	Author          string           `json:"author" binding:"required"`
	Publisher       string           `json:"publisher"`
	PublicationYear *int             `json:"publication_year,omitempty"`
	Pages           *int             `json:"pages,omitempty"`
	CategoryID      *string          `json:"category_id,omitempty"`
	AuthorIDs       []string         `json:"author_ids,omitempty"`
	Description     string           `json:"description"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	TotalCopies     int              `json:"total_copies" binding:"required,min=1"`
	// 省略時は total_copies と同じ
	AvailableCopies *int `json:"available_copies,omitempty"`
}

type SetStatusRequest struct {
	Status Status `json:"status" binding:"required"`
}

type BookResponse struct {
	BookID          string           `json:"book_id"`
	ISBN            string           `json:"isbn"`
	Title           string           `json:"title"`
	Author          string           `json:"author"`
	Publisher       string           `json:"publisher,omitempty"`
	PublicationYear *int             `json:"publication_year,omitempty"`
	Pages           *int             `json:"pages,omitempty"`
	CategoryID      *string          `json:"category_id,omitempty"`
	AuthorIDs       []string         `json:"author_ids,omitempty"`
	Description     string           `json:"description,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Status          Status           `json:"status"`
	TotalCopies     int              `json:"total_copies"`
	AvailableCopies int              `json:"available_copies"`
	Available       bool             `json:"available"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func ToResponse(b *Book) BookResponse {
	r := BookResponse{
		BookID:          b.ID,
		ISBN:            b.ISBN,
		Title:           b.Title,
		Author:          b.Author,
		Publisher:       b.Publisher,
		PublicationYear: b.PublicationYear,
		Pages:           b.Pages,
		CategoryID:      b.CategoryID,
		AuthorIDs:       b.AuthorIDs,
		Description:     b.Description,
		Status:          b.Status,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		Available:       b.IsAvailable(),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if b.Price.Valid {
		p := b.Price.Decimal
		r.Price = &p
	}
	return r
}

type BookListResponse struct {
	Items  []BookResponse `json:"items"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

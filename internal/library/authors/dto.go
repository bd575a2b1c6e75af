package authors

import "time"

const dateLayout = "2006-01-02"

// AuthorRequest は作成・更新で共通。birth_date は YYYY-MM-DD
type AuthorRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Bio       string `json:"bio"`
	BirthDate string `json:"birth_date"`
}

type AuthorResponse struct {
	AuthorID  string    `json:"author_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	Bio       string    `json:"bio,omitempty"`
	BirthDate string    `json:"birth_date,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func ToResponse(a *Author) AuthorResponse {
	r := AuthorResponse{
		AuthorID:  a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		FullName:  a.FullName(),
		Bio:       a.Bio,
		CreatedAt: a.CreatedAt,
	}
	if a.BirthDate != nil {
		r.BirthDate = a.BirthDate.Format(dateLayout)
	}
	return r
}

type AuthorListResponse struct {
	Items  []AuthorResponse `json:"items"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

package categories

import "time"

type CreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsDisabled  bool   `json:"is_disabled"`
}

type CategoryResponse struct {
	CategoryID  string    `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsDisabled  bool      `json:"is_disabled"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToResponse(c *Category) CategoryResponse {
	return CategoryResponse{
		CategoryID:  c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsDisabled:  c.IsDisabled,
		CreatedAt:   c.CreatedAt,
	}
}

package categories

import "time"

// Category は本の分類。削除は is_disabled を立てるだけ
type Category struct {
	ID          string    `db:"category_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	IsDisabled  bool      `db:"is_disabled"`
	CreatedAt   time.Time `db:"created_at"`
}

package authors

import "time"

type Author struct {
	ID        string     `db:"author_id"`
	FirstName string     `db:"first_name"`
	LastName  string     `db:"last_name"`
	Bio       string     `db:"bio"`
	BirthDate *time.Time `db:"birth_date"`
	CreatedAt time.Time  `db:"created_at"`
}

func (a *Author) FullName() string { return a.FirstName + " " + a.LastName }

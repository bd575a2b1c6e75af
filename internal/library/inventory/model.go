package inventory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"readify-backend/internal/platform/apierr"
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusBorrowed    Status = "borrowed"
	StatusReserved    Status = "reserved"
	StatusMaintenance Status = "maintenance"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusBorrowed, StatusReserved, StatusMaintenance:
		return true
	}
	return false
}

// Book は books テーブルの1行を表す
type Book struct {
	ID              string              `db:"book_id"`
	ISBN            string              `db:"isbn"`
	Title           string              `db:"title"`
	Author          string              `db:"author"`
	Publisher       string              `db:"publisher"`
	PublicationYear *int                `db:"publication_year"`
	Pages           *int                `db:"pages"`
	CategoryID      *string             `db:"category_id"`
	Description     string              `db:"description"`
	Price           decimal.NullDecimal `db:"price"`
	Status          Status              `db:"status"`
	TotalCopies     int                 `db:"total_copies"`
	AvailableCopies int                 `db:"available_copies"`
	CreatedAt       time.Time           `db:"created_at"`
	UpdatedAt       time.Time           `db:"updated_at"`

	// book_authors の並び順。books の列ではない
	AuthorIDs []string `db:"-"`
}

// IsAvailable: 在庫があり、かつステータスが available
func (b *Book) IsAvailable() bool {
	return b.AvailableCopies > 0 && b.Status == StatusAvailable
}

// AdjustAvailability は available_copies を delta 動かす。
// 0 を下回る減算は不変条件違反として何も変更しない。
// total を超える加算は total に丸め、corrected=true を返す
func (b *Book) AdjustAvailability(delta int) (corrected bool, err error) {
	next := b.AvailableCopies + delta
	if next < 0 {
		return false, apierr.New(apierr.CodeInvariantViolation,
			fmt.Sprintf("book %s: available copies would become %d", b.ID, next))
	}
	if next > b.TotalCopies {
		b.AvailableCopies = b.TotalCopies
		return true, nil
	}
	b.AvailableCopies = next
	return false, nil
}

// SetStatusOnExhaustion: 在庫0で available→borrowed、在庫が戻れば borrowed→available。
// reserved / maintenance は上書きしない
func (b *Book) SetStatusOnExhaustion() {
	switch {
	case b.AvailableCopies == 0 && b.Status == StatusAvailable:
		b.Status = StatusBorrowed
	case b.AvailableCopies > 0 && b.Status == StatusBorrowed:
		b.Status = StatusAvailable
	}
}

// Clamp は書き込み前に available を [0, total] に収める
func (b *Book) Clamp() {
	if b.AvailableCopies > b.TotalCopies {
		b.AvailableCopies = b.TotalCopies
	}
	if b.AvailableCopies < 0 {
		b.AvailableCopies = 0
	}
}

// BookQuery は一覧・検索条件
type BookQuery struct {
	Q             string // title / isbn / author / publisher の部分一致
	CategoryID    string
	AuthorID      string
	Status        Status
	AvailableOnly bool
}

package dashboard

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type Encoding string

const (
	EncodingUTF8 Encoding = "utf8"
	// Excel (Windows) でそのまま開ける CP932
	EncodingShiftJIS Encoding = "sjis"
)

func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "", "utf8", "utf-8":
		return EncodingUTF8, nil
	case "sjis", "shift_jis", "cp932":
		return EncodingShiftJIS, nil
	}
	return "", fmt.Errorf("unknown encoding %q", s)
}

func (e Encoding) encoder() *encoding.Encoder {
	if e == EncodingShiftJIS {
		return japanese.ShiftJIS.NewEncoder()
	}
	// BOM 付き UTF-8
	return unicode.UTF8BOM.NewEncoder()
}

var overdueHeader = []string{
	"borrowing_id", "library_id", "borrower_name", "book_id", "title",
	"borrowed_at", "due_at", "days_overdue", "accrued_fine",
}

// WriteOverdueCSV は延滞一覧を全件 CSV で書き出す
func (s *Service) WriteOverdueCSV(ctx context.Context, w io.Writer, now time.Time, enc Encoding) error {
	items, err := s.OverdueList(ctx, now, 0)
	if err != nil {
		return err
	}

	tw := transform.NewWriter(w, encoding.ReplaceUnsupported(enc.encoder()))
	cw := csv.NewWriter(tw)
	if err := cw.Write(overdueHeader); err != nil {
		return err
	}
	for _, it := range items {
		rec := []string{
			it.BorrowingID,
			it.LibraryID,
			it.BorrowerName,
			it.BookID,
			it.Title,
			it.BorrowedAt.Format(time.RFC3339),
			it.DueAt.Format(time.RFC3339),
			strconv.Itoa(it.DaysOverdue),
			it.AccruedFine.StringFixed(2),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return tw.Close()
}

package inventory

import (
	"go.uber.org/zap"
)

// Ledger は在庫数を書き換える唯一の経路。貸出・返却のTxの中から呼ぶ
type Ledger struct {
	log *zap.Logger
}

func NewLedger(log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{log: log}
}

func (l *Ledger) Apply(b *Book, delta int) error {
	before := b.AvailableCopies
	corrected, err := b.AdjustAvailability(delta)
	if err != nil {
		l.log.Error("inventory invariant violated",
			zap.String("book_id", b.ID),
			zap.Int("available", before),
			zap.Int("delta", delta),
		)
		return err
	}
	if corrected {
		l.log.Warn("available copies clamped to total",
			zap.String("book_id", b.ID),
			zap.Int("available_before", before),
			zap.Int("delta", delta),
			zap.Int("total", b.TotalCopies),
		)
	}
	b.SetStatusOnExhaustion()
	return nil
}

package ids

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type IDGen interface {
	NewULID(t time.Time) string
}

// ULID は単調増加エントロピーを共有する。複数goroutineから呼ばれるのでロックする
type ULID struct {
	mu      sync.Mutex
	entropy io.Reader
}

func NewULID() *ULID {
	return &ULID{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *ULID) NewULID(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), g.entropy).String()
}

func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}

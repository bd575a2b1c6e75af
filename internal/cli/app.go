package cli

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"readify-backend/internal/library/authors"
	"readify-backend/internal/library/borrowers"
	"readify-backend/internal/library/borrowings"
	"readify-backend/internal/library/categories"
	"readify-backend/internal/library/dashboard"
	"readify-backend/internal/library/fines"
	"readify-backend/internal/library/inventory"
	"readify-backend/internal/library/memstore"
	"readify-backend/internal/library/reservations"
	"readify-backend/internal/platform/auth"
	"readify-backend/internal/platform/clock"
	"readify-backend/internal/platform/config"
	"readify-backend/internal/platform/db"
	"readify-backend/internal/platform/ids"
)

// app は1プロセス分の依存をまとめる
type app struct {
	conn  *sqlx.DB
	clock clock.Clock

	auth         *auth.Service
	categories   *categories.Service
	authors      *authors.Service
	books        *inventory.Service
	borrowers    *borrowers.Service
	borrowings   *borrowings.Service
	reservations *reservations.Service
	fines        *fines.Service
	dashboard    *dashboard.Service
}

func newApp(ctx context.Context, c *config.Config, log *zap.Logger) (*app, error) {
	p, err := c.Policy()
	if err != nil {
		return nil, err
	}
	secret, err := jwtSecret(c, log)
	if err != nil {
		return nil, err
	}

	a := &app{clock: clock.Real{}}
	id := ids.NewULID()

	switch c.Database.Driver {
	case "memory":
		st := memstore.New()
		a.auth = auth.NewService(auth.NewMemStore(), secret, c.Auth.TokenTTL)
		a.categories = categories.NewService(st, a.clock, id, log)
		a.authors = authors.NewService(st, a.clock, id, log)
		a.books = inventory.NewService(st.Inventory(), a.clock, id, log)
		a.borrowers = borrowers.NewService(st, a.clock, id, log)
		a.borrowings = borrowings.NewService(st.Borrowings(), p, id, log)
		a.reservations = reservations.NewService(st.Reservations(), p, id, log)
		a.fines = fines.NewService(st.Fines(), log)
		a.dashboard = dashboard.NewService(st, p, log)
		log.Warn("using in-memory storage; data is lost on exit")
	default:
		conn, err := db.Connect(ctx, c.Database)
		if err != nil {
			return nil, err
		}
		a.conn = conn
		a.auth = auth.NewService(auth.NewStore(conn), secret, c.Auth.TokenTTL)
		a.categories = categories.NewService(categories.NewStore(conn), a.clock, id, log)
		a.authors = authors.NewService(authors.NewStore(conn), a.clock, id, log)
		a.books = inventory.NewService(inventory.NewStore(conn), a.clock, id, log)
		a.borrowers = borrowers.NewService(borrowers.NewStore(conn), a.clock, id, log)
		a.borrowings = borrowings.NewService(borrowings.NewStore(conn), p, id, log)
		a.reservations = reservations.NewService(reservations.NewStore(conn), p, id, log)
		a.fines = fines.NewService(fines.NewStore(conn), log)
		a.dashboard = dashboard.NewService(dashboard.NewStore(conn), p, log)
		log.Info("connected to database", zap.String("dbname", c.Database.DBName))
	}
	return a, nil
}

func (a *app) Close() error {
	if a.conn != nil {
		return a.conn.Close()
	}
	return nil
}

// jwtSecret: dev で未設定ならプロセス限りの鍵を作る
func jwtSecret(c *config.Config, log *zap.Logger) ([]byte, error) {
	if c.Auth.JWTSecret != "" {
		return []byte(c.Auth.JWTSecret), nil
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generating jwt secret: %w", err)
	}
	log.Warn("auth.jwt_secret is empty; tokens are valid only for this process")
	return b, nil
}

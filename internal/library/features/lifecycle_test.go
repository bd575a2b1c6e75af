package features

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"readify-backend/internal/library/fines"
	"readify-backend/internal/library/librarytest"
	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/db"
)

type lifecycleContext struct {
	env          *librarytest.Env
	ctx          context.Context
	books        map[string]string
	borrowers    map[string]string
	borrowings   map[string]string
	reservations map[string]string
	err          error
}

func key(name, title string) string { return name + "|" + title }

func (l *lifecycleContext) reset() {
	l.env = librarytest.New(nil)
	l.ctx = context.Background()
	l.books = map[string]string{}
	l.borrowers = map[string]string{}
	l.borrowings = map[string]string{}
	l.reservations = map[string]string{}
	l.err = nil
}

func (l *lifecycleContext) aBookWithCopies(title string, copies int) error {
	id, err := l.env.AddBook(l.ctx, title, copies)
	if err != nil {
		return err
	}
	l.books[title] = id
	return nil
}

func (l *lifecycleContext) aBorrower(name string) error {
	id, err := l.env.AddBorrower(l.ctx, name)
	if err != nil {
		return err
	}
	l.borrowers[name] = id
	return nil
}

func (l *lifecycleContext) mayBorrowAtMost(name string, n int) error {
	return l.env.SetMaxBooks(l.ctx, l.borrowers[name], n)
}

func (l *lifecycleContext) isDeactivated(name string) error {
	return l.env.Deactivate(l.ctx, l.borrowers[name])
}

func (l *lifecycleContext) daysPass(n int) error {
	l.env.Clock.Advance(time.Duration(n) * 24 * time.Hour)
	return nil
}

func (l *lifecycleContext) borrows(name, title string) error {
	b, err := l.env.Checkout(l.ctx, l.borrowers[name], l.books[title])
	l.err = err
	if err == nil {
		l.borrowings[key(name, title)] = b.ID
	}
	return nil
}

func (l *lifecycleContext) returns(name, title string) error {
	_, l.err = l.env.Borrowings.ReturnBook(l.ctx, l.borrowings[key(name, title)], l.env.Now(), "")
	return nil
}

func (l *lifecycleContext) reserves(name, title string) error {
	r, err := l.env.Reservations.Reserve(l.ctx, l.borrowers[name], l.books[title], l.env.Now(), "")
	l.err = err
	if err == nil {
		l.reservations[key(name, title)] = r.ID
	}
	return nil
}

func (l *lifecycleContext) cancels(requester, owner, title string) error {
	_, l.err = l.env.Reservations.Cancel(l.ctx, l.reservations[key(owner, title)], l.borrowers[requester])
	return nil
}

func (l *lifecycleContext) staffFulfills(owner, title string) error {
	_, l.err = l.env.Reservations.Fulfill(l.ctx, l.reservations[key(owner, title)], l.env.Now())
	return nil
}

func (l *lifecycleContext) paysTheFine(name string) error {
	items, _, err := l.env.Fines.List(l.ctx, fines.Filter{BorrowerID: l.borrowers[name]}, db.Page{})
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("%s has no fines", name)
	}
	_, l.err = l.env.Fines.Pay(l.ctx, items[0].ID, l.env.Now(), "")
	return nil
}

func (l *lifecycleContext) theRequestSucceeds() error {
	if l.err != nil {
		return fmt.Errorf("expected success, got %v", l.err)
	}
	return nil
}

func (l *lifecycleContext) theRequestFailsWith(code string) error {
	if l.err == nil {
		return fmt.Errorf("expected %s, got success", code)
	}
	if got := apierr.CodeOf(l.err); string(got) != code {
		return fmt.Errorf("expected %s, got %s (%v)", code, got, l.err)
	}
	return nil
}

func (l *lifecycleContext) hasAvailableCopies(title string, n int) error {
	got, err := l.env.Available(l.ctx, l.books[title])
	if err != nil {
		return err
	}
	if got != n {
		return fmt.Errorf("%s: expected %d available, got %d", title, n, got)
	}
	return nil
}

func (l *lifecycleContext) hasOpenBorrowings(name string, n int) error {
	got, err := l.env.Borrowings.CurrentOpenBorrowingsCount(l.ctx, l.borrowers[name])
	if err != nil {
		return err
	}
	if got != n {
		return fmt.Errorf("%s: expected %d open borrowings, got %d", name, n, got)
	}
	return nil
}

func (l *lifecycleContext) hasPendingFine(name, amount string) error {
	t, err := l.env.Fines.Totals(l.ctx, l.borrowers[name])
	if err != nil {
		return err
	}
	if got := t.Pending.StringFixed(2); got != amount {
		return fmt.Errorf("%s: expected pending %s, got %s", name, amount, got)
	}
	return nil
}

func (l *lifecycleContext) hasNoPendingFines(name string) error {
	return l.hasPendingFine(name, "0.00")
}

func (l *lifecycleContext) reservationIs(owner, title, status string) error {
	r, err := l.env.Reservations.Get(l.ctx, l.reservations[key(owner, title)])
	if err != nil {
		return err
	}
	if string(r.Status) != status {
		return fmt.Errorf("expected reservation %s, got %s", status, r.Status)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	lc := &lifecycleContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		lc.reset()
		return ctx, nil
	})

	// Given
	ctx.Step(`^a book "([^"]*)" with (\d+) cop(?:y|ies)$`, lc.aBookWithCopies)
	ctx.Step(`^a borrower "([^"]*)"$`, lc.aBorrower)
	ctx.Step(`^"([^"]*)" may borrow at most (\d+) books?$`, lc.mayBorrowAtMost)
	ctx.Step(`^"([^"]*)" is deactivated$`, lc.isDeactivated)
	ctx.Step(`^(\d+) days pass$`, lc.daysPass)

	// When
	ctx.Step(`^"([^"]*)" borrows "([^"]*)"$`, lc.borrows)
	ctx.Step(`^"([^"]*)" returns "([^"]*)"$`, lc.returns)
	ctx.Step(`^"([^"]*)" reserves "([^"]*)"$`, lc.reserves)
	ctx.Step(`^"([^"]*)" cancels the reservation of "([^"]*)" for "([^"]*)"$`, lc.cancels)
	ctx.Step(`^staff fulfills the reservation of "([^"]*)" for "([^"]*)"$`, lc.staffFulfills)
	ctx.Step(`^"([^"]*)" pays the fine$`, lc.paysTheFine)

	// Then
	ctx.Step(`^the request succeeds$`, lc.theRequestSucceeds)
	ctx.Step(`^the request fails with "([^"]*)"$`, lc.theRequestFailsWith)
	ctx.Step(`^"([^"]*)" has (\d+) available copies$`, lc.hasAvailableCopies)
	ctx.Step(`^"([^"]*)" has (\d+) open borrowings?$`, lc.hasOpenBorrowings)
	ctx.Step(`^"([^"]*)" has a pending fine of "([^"]*)"$`, lc.hasPendingFine)
	ctx.Step(`^"([^"]*)" has no pending fines$`, lc.hasNoPendingFines)
	ctx.Step(`^the reservation of "([^"]*)" for "([^"]*)" is "([^"]*)"$`, lc.reservationIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"lifecycle.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

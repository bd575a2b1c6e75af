package borrowings

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"readify-backend/internal/library/fines"
	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/auth"
	"readify-backend/internal/platform/clock"
	"readify-backend/internal/platform/db"
	"readify-backend/internal/platform/ids"
)

const recentForBookLimit = 10

type borrowerLookup interface {
	BorrowerIDForAccount(ctx context.Context, accountID string) (string, error)
}

type Handler struct {
	svc       *Service
	borrowers borrowerLookup
	clock     clock.Clock
	log       *zap.Logger
}

func NewHandler(svc *Service, borrowers borrowerLookup, clk clock.Clock, log *zap.Logger) *Handler {
	return &Handler{svc: svc, borrowers: borrowers, clock: clk, log: log}
}

// RegisterRoutes はログイン済み利用者向け
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/books/:book_id/borrow", h.Borrow)
	r.GET("/me/borrowings", h.MyBorrowings)
	r.POST("/borrowings/:borrowing_id/return", h.Return)
}

func (h *Handler) RegisterStaffRoutes(r gin.IRoutes) {
	r.POST("/borrowings", h.Checkout)
	r.GET("/borrowings", h.List)
	r.GET("/borrowings/:borrowing_id", h.Get)
	r.POST("/borrowings/:borrowing_id/fine", h.EnsureFine)
	r.GET("/books/:book_id/borrowings", h.RecentForBook)
}

// Borrow godoc
// @Summary  Borrow a book as the current borrower
// @Tags     borrowings
// @Accept   json
// @Produce  json
// @Param    book_id path string true "book id"
// @Param    body body BorrowRequest false "options"
// @Success  201 {object} BorrowingResponse
// @Failure  403 {object} apierr.ErrorResponse
// @Failure  409 {object} apierr.ErrorResponse
// @Failure  422 {object} apierr.ErrorResponse
// @Security Bearer
// @Router   /books/{book_id}/borrow [post]
func (h *Handler) Borrow(c *gin.Context) {
	bookID, ok := ids.Param(c, "book_id")
	if !ok {
		return
	}
	var req BorrowRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierr.BadRequest(c, "invalid json")
			return
		}
	}
	ctx := c.Request.Context()
	borrowerID, err := h.borrowers.BorrowerIDForAccount(ctx, auth.UserID(c))
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	now := h.clock.Now()
	b, err := h.svc.Checkout(ctx, borrowerID, bookID, now, CheckoutOptions{DueAt: req.DueAt, Notes: req.Notes})
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.Header("Location", "/borrowings/"+b.ID)
	c.JSON(http.StatusCreated, ToResponse(b, now, h.svc.Policy()))
}

func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "invalid json or missing required fields")
		return
	}
	now := h.clock.Now()
	b, err := h.svc.Checkout(c.Request.Context(), req.BorrowerID, req.BookID, now, CheckoutOptions{DueAt: req.DueAt, Notes: req.Notes})
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.Header("Location", "/borrowings/"+b.ID)
	c.JSON(http.StatusCreated, ToResponse(b, now, h.svc.Policy()))
}

// Return は借りた本人か職員のみ
func (h *Handler) Return(c *gin.Context) {
	id, ok := ids.Param(c, "borrowing_id")
	if !ok {
		return
	}
	var req ReturnRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierr.BadRequest(c, "invalid json")
			return
		}
	}
	ctx := c.Request.Context()
	if !auth.IsStaff(auth.Role(c)) {
		b, err := h.svc.Get(ctx, id)
		if err != nil {
			apierr.Respond(c, h.log, err)
			return
		}
		borrowerID, err := h.borrowers.BorrowerIDForAccount(ctx, auth.UserID(c))
		if err != nil {
			apierr.Respond(c, h.log, err)
			return
		}
		if b.BorrowerID != borrowerID {
			apierr.Respond(c, h.log, apierr.ErrNotOwner)
			return
		}
	}

	now := h.clock.Now()
	res, err := h.svc.ReturnBook(ctx, id, now, req.Notes)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	out := ReturnResponse{Borrowing: ToResponse(&res.Borrowing, now, h.svc.Policy())}
	if res.Fine != nil {
		f := fines.ToResponse(res.Fine)
		out.Fine = &f
	}
	c.JSON(http.StatusOK, out)
}

// MyBorrowings godoc
// @Summary  Current and past borrowings of the current borrower
// @Description Overdue open borrowings get their fine created on this call.
// @Tags     borrowings
// @Produce  json
// @Success  200 {object} MyBorrowingsResponse
// @Security Bearer
// @Router   /me/borrowings [get]
func (h *Handler) MyBorrowings(c *gin.Context) {
	ctx := c.Request.Context()
	borrowerID, err := h.borrowers.BorrowerIDForAccount(ctx, auth.UserID(c))
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	now := h.clock.Now()
	view, err := h.svc.ListForBorrower(ctx, borrowerID, now)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	p := h.svc.Policy()
	c.JSON(http.StatusOK, MyBorrowingsResponse{
		Current:   toResponses(view.Current, now, p),
		Past:      toResponses(view.Past, now, p),
		OpenCount: len(view.Current),
	})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := ids.Param(c, "borrowing_id")
	if !ok {
		return
	}
	b, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ToResponse(b, h.clock.Now(), h.svc.Policy()))
}

func (h *Handler) List(c *gin.Context) {
	now := h.clock.Now()
	f := Filter{BorrowerID: c.Query("borrower_id"), BookID: c.Query("book_id")}
	if v, err := strconv.ParseBool(c.Query("open")); err == nil {
		f.Open = &v
	}
	if v, _ := strconv.ParseBool(c.Query("overdue")); v {
		f.OverdueAt = &now
	}
	p := db.ParsePage(c.Query("limit"), c.Query("offset"), c.DefaultQuery("order", "desc"))
	items, total, err := h.svc.List(c.Request.Context(), f, p)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, BorrowingListResponse{Items: toResponses(items, now, h.svc.Policy()), Total: total})
}

func (h *Handler) EnsureFine(c *gin.Context) {
	id, ok := ids.Param(c, "borrowing_id")
	if !ok {
		return
	}
	f, created, err := h.svc.EnsureFine(c.Request.Context(), id, h.clock.Now())
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	res := EnsureFineResponse{Created: created}
	if f != nil {
		fr := fines.ToResponse(f)
		res.Fine = &fr
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, res)
}

func (h *Handler) RecentForBook(c *gin.Context) {
	bookID, ok := ids.Param(c, "book_id")
	if !ok {
		return
	}
	items, err := h.svc.RecentForBook(c.Request.Context(), bookID, recentForBookLimit)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": toResponses(items, h.clock.Now(), h.svc.Policy())})
}

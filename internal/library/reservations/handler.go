package reservations

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/auth"
	"readify-backend/internal/platform/clock"
	"readify-backend/internal/platform/db"
	"readify-backend/internal/platform/ids"
)

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

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/books/:book_id/reserve", h.Reserve)
	r.GET("/me/reservations", h.MyReservations)
	r.POST("/reservations/:reservation_id/cancel", h.Cancel)
}

func (h *Handler) RegisterStaffRoutes(r gin.IRoutes) {
	r.GET("/reservations", h.List)
	r.POST("/reservations/:reservation_id/fulfill", h.Fulfill)
	r.POST("/reservations/expire", h.ExpireStale)
}

// Reserve godoc
// @Summary  Reserve a book for the current borrower
// @Tags     reservations
// @Accept   json
// @Produce  json
// @Param    book_id path string true "book id"
// @Success  201 {object} ReservationResponse
// @Failure  409 {object} apierr.ErrorResponse
// @Security Bearer
// @Router   /books/{book_id}/reserve [post]
func (h *Handler) Reserve(c *gin.Context) {
	bookID, ok := ids.Param(c, "book_id")
	if !ok {
		return
	}
	var req ReserveRequest
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
	r, err := h.svc.Reserve(ctx, borrowerID, bookID, now, req.Notes)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, ToResponse(r, now))
}

func (h *Handler) MyReservations(c *gin.Context) {
	ctx := c.Request.Context()
	borrowerID, err := h.borrowers.BorrowerIDForAccount(ctx, auth.UserID(c))
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	h.list(c, Filter{BorrowerID: borrowerID, Status: Status(c.Query("status"))})
}

// Cancel: 利用者は自分の予約のみ。職員は誰の予約でも取り消せる
func (h *Handler) Cancel(c *gin.Context) {
	id, ok := ids.Param(c, "reservation_id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var requesterID string
	if auth.IsStaff(auth.Role(c)) {
		r, err := h.svc.Get(ctx, id)
		if err != nil {
			apierr.Respond(c, h.log, err)
			return
		}
		requesterID = r.BorrowerID
	} else {
		bid, err := h.borrowers.BorrowerIDForAccount(ctx, auth.UserID(c))
		if err != nil {
			apierr.Respond(c, h.log, err)
			return
		}
		requesterID = bid
	}

	r, err := h.svc.Cancel(ctx, id, requesterID)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ToResponse(r, h.clock.Now()))
}

func (h *Handler) Fulfill(c *gin.Context) {
	id, ok := ids.Param(c, "reservation_id")
	if !ok {
		return
	}
	now := h.clock.Now()
	r, err := h.svc.Fulfill(c.Request.Context(), id, now)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ToResponse(r, now))
}

func (h *Handler) ExpireStale(c *gin.Context) {
	n, err := h.svc.ExpireStale(c.Request.Context(), h.clock.Now())
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expired": n})
}

func (h *Handler) List(c *gin.Context) {
	h.list(c, Filter{
		BorrowerID: c.Query("borrower_id"),
		BookID:     c.Query("book_id"),
		Status:     Status(c.Query("status")),
	})
}

func (h *Handler) list(c *gin.Context, f Filter) {
	p := db.ParsePage(c.Query("limit"), c.Query("offset"), c.DefaultQuery("order", "desc"))
	items, total, err := h.svc.List(c.Request.Context(), f, p)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	now := h.clock.Now()
	out := ReservationListResponse{Items: make([]ReservationResponse, 0, len(items)), Total: total}
	for i := range items {
		out.Items = append(out.Items, ToResponse(&items[i], now))
	}
	c.JSON(http.StatusOK, out)
}

package fines

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

// RegisterRoutes はログイン済み利用者向け
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/me/fines", h.MyFines)
	r.POST("/fines/:fine_id/pay", h.Pay)
}

func (h *Handler) RegisterStaffRoutes(r gin.IRoutes) {
	r.GET("/fines", h.List)
	r.POST("/fines/:fine_id/waive", h.Waive)
}

// MyFines godoc
// @Summary  Fines of the current borrower with totals
// @Tags     fines
// @Produce  json
// @Param    status query string false "pending | paid | waived"
// @Success  200 {object} FineListResponse
// @Security Bearer
// @Router   /me/fines [get]
func (h *Handler) MyFines(c *gin.Context) {
	ctx := c.Request.Context()
	borrowerID, err := h.borrowers.BorrowerIDForAccount(ctx, auth.UserID(c))
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	p := db.ParsePage(c.Query("limit"), c.Query("offset"), c.DefaultQuery("order", "desc"))
	items, total, err := h.svc.List(ctx, Filter{BorrowerID: borrowerID, Status: Status(c.Query("status"))}, p)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	totals, err := h.svc.Totals(ctx, borrowerID)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	res := toList(items, total)
	res.Totals = &totals
	c.JSON(http.StatusOK, res)
}

// Pay は本人か職員のみ
func (h *Handler) Pay(c *gin.Context) {
	fineID, ok := ids.Param(c, "fine_id")
	if !ok {
		return
	}
	var req SettleRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierr.BadRequest(c, "invalid json")
			return
		}
	}

	ctx := c.Request.Context()
	if !auth.IsStaff(auth.Role(c)) {
		f, err := h.svc.Get(ctx, fineID)
		if err != nil {
			apierr.Respond(c, h.log, err)
			return
		}
		borrowerID, err := h.borrowers.BorrowerIDForAccount(ctx, auth.UserID(c))
		if err != nil {
			apierr.Respond(c, h.log, err)
			return
		}
		if f.BorrowerID != borrowerID {
			apierr.Respond(c, h.log, apierr.ErrNotOwner)
			return
		}
	}

	f, err := h.svc.Pay(ctx, fineID, h.clock.Now(), req.Notes)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ToResponse(f))
}

func (h *Handler) Waive(c *gin.Context) {
	fineID, ok := ids.Param(c, "fine_id")
	if !ok {
		return
	}
	var req SettleRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierr.BadRequest(c, "invalid json")
			return
		}
	}

	f, err := h.svc.Waive(c.Request.Context(), fineID, req.Notes)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ToResponse(f))
}

func (h *Handler) List(c *gin.Context) {
	f := Filter{BorrowerID: c.Query("borrower_id"), Status: Status(c.Query("status"))}
	p := db.ParsePage(c.Query("limit"), c.Query("offset"), c.DefaultQuery("order", "desc"))
	items, total, err := h.svc.List(c.Request.Context(), f, p)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toList(items, total))
}

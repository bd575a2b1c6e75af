package borrowers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/auth"
	"readify-backend/internal/platform/db"
	"readify-backend/internal/platform/ids"
)

type Handler struct {
	svc *Service
	log *zap.Logger
}

// RegisterRoutes はログイン済み利用者向け
func RegisterRoutes(r gin.IRoutes, svc *Service, log *zap.Logger) {
	h := &Handler{svc: svc, log: log}
	r.GET("/me", h.Me)
	r.POST("/me/borrower", h.RegisterSelf)
}

func RegisterStaffRoutes(r gin.IRoutes, svc *Service, log *zap.Logger) {
	h := &Handler{svc: svc, log: log}
	r.POST("/borrowers", h.RegisterOnBehalf)
	r.GET("/borrowers", h.List)
	r.GET("/borrowers/:borrower_id", h.Get)
	r.PATCH("/borrowers/:borrower_id", h.Update)
}

// Me godoc
// @Summary  Current account's borrower profile
// @Tags     borrowers
// @Produce  json
// @Success  200 {object} BorrowerResponse
// @Failure  404 {object} apierr.ErrorResponse
// @Security Bearer
// @Router   /me [get]
func (h *Handler) Me(c *gin.Context) {
	res, err := h.svc.GetByAccount(c.Request.Context(), auth.UserID(c))
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) RegisterSelf(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "invalid json or missing required fields")
		return
	}
	// 自分のプロフィールは library_id を選べない
	req.LibraryID = ""
	res, err := h.svc.Register(c.Request.Context(), auth.UserID(c), req)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) RegisterOnBehalf(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "invalid json or missing required fields")
		return
	}
	res, err := h.svc.Register(c.Request.Context(), req.AccountID, req)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.Header("Location", "/borrowers/"+res.BorrowerID)
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) List(c *gin.Context) {
	q := Query{Q: c.Query("q")}
	if v, err := strconv.ParseBool(c.Query("active")); err == nil {
		q.Active = &v
	}
	p := db.ParsePage(c.Query("limit"), c.Query("offset"), c.DefaultQuery("order", "asc"))
	res, err := h.svc.List(c.Request.Context(), q, p)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := ids.Param(c, "borrower_id")
	if !ok {
		return
	}
	res, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := ids.Param(c, "borrower_id")
	if !ok {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "invalid json")
		return
	}
	res, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

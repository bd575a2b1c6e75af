package categories

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/ids"
)

type Handler struct {
	svc *Service
	log *zap.Logger
}

func RegisterRoutes(r gin.IRoutes, svc *Service, log *zap.Logger) {
	h := &Handler{svc: svc, log: log}
	r.GET("/categories", h.List)
	r.GET("/categories/:category_id", h.Get)
}

func RegisterStaffRoutes(r gin.IRoutes, svc *Service, log *zap.Logger) {
	h := &Handler{svc: svc, log: log}
	r.POST("/categories", h.Create)
	r.PUT("/categories/:category_id", h.Update)
	r.DELETE("/categories/:category_id", h.Delete)
}

// List godoc
// @Summary  List book categories
// @Tags     categories
// @Produce  json
// @Param    all query bool false "include disabled categories"
// @Success  200 {array} CategoryResponse
// @Router   /categories [get]
func (h *Handler) List(c *gin.Context) {
	all, _ := strconv.ParseBool(c.Query("all"))
	res, err := h.svc.List(c.Request.Context(), all)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": res})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := ids.Param(c, "category_id")
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

// Create godoc
// @Summary  Add a category
// @Tags     categories
// @Accept   json
// @Produce  json
// @Param    body body CreateRequest true "category"
// @Success  201 {object} CategoryResponse
// @Failure  409 {object} apierr.ErrorResponse
// @Security Bearer
// @Router   /categories [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "invalid json or missing required fields")
		return
	}
	res, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := ids.Param(c, "category_id")
	if !ok {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "invalid json or missing required fields")
		return
	}
	res, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := ids.Param(c, "category_id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

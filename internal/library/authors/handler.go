package authors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/db"
	"readify-backend/internal/platform/ids"
)

type Handler struct {
	svc *Service
	log *zap.Logger
}

func RegisterRoutes(r gin.IRoutes, svc *Service, log *zap.Logger) {
	h := &Handler{svc: svc, log: log}
	r.GET("/authors", h.List)
	r.GET("/authors/:author_id", h.Get)
}

func RegisterStaffRoutes(r gin.IRoutes, svc *Service, log *zap.Logger) {
	h := &Handler{svc: svc, log: log}
	r.POST("/authors", h.Create)
	r.PUT("/authors/:author_id", h.Update)
}

// List godoc
// @Summary  List authors by last name
// @Tags     authors
// @Produce  json
// @Param    q query string false "first or last name"
// @Success  200 {object} AuthorListResponse
// @Router   /authors [get]
func (h *Handler) List(c *gin.Context) {
	p := db.ParsePage(c.Query("limit"), c.Query("offset"), "asc")
	res, err := h.svc.List(c.Request.Context(), c.Query("q"), p)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := ids.Param(c, "author_id")
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
// @Summary  Add an author
// @Tags     authors
// @Accept   json
// @Produce  json
// @Param    body body AuthorRequest true "author"
// @Success  201 {object} AuthorResponse
// @Security Bearer
// @Router   /authors [post]
func (h *Handler) Create(c *gin.Context) {
	var req AuthorRequest
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
	id, ok := ids.Param(c, "author_id")
	if !ok {
		return
	}
	var req AuthorRequest
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

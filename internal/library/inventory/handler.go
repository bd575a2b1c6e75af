package inventory

import (
	"net/http"
	"strconv"

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
	r.GET("/books", h.ListBooks)
	r.GET("/books/:book_id", h.GetBook)
}

func RegisterStaffRoutes(r gin.IRoutes, svc *Service, log *zap.Logger) {
	h := &Handler{svc: svc, log: log}
	r.POST("/books", h.CreateBook)
	r.PUT("/books/:book_id/status", h.SetStatus)
}

// CreateBook godoc
// @Summary  Add a book to the catalog
// @Tags     books
// @Accept   json
// @Produce  json
// @Param    body body CreateBookRequest true "book"
// @Success  201 {object} BookResponse
// @Failure  400 {object} apierr.ErrorResponse
// @Failure  409 {object} apierr.ErrorResponse
// @Security Bearer
// @Router   /books [post]
func (h *Handler) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "invalid json or missing required fields")
		return
	}
	res, err := h.svc.CreateBook(c.Request.Context(), req)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.Header("Location", "/books/"+res.BookID)
	c.JSON(http.StatusCreated, res)
}

// GetBook godoc
// @Summary  Get a book with its availability flag
// @Tags     books
// @Produce  json
// @Param    book_id path string true "book id"
// @Success  200 {object} BookResponse
// @Failure  404 {object} apierr.ErrorResponse
// @Router   /books/{book_id} [get]
func (h *Handler) GetBook(c *gin.Context) {
	id, ok := ids.Param(c, "book_id")
	if !ok {
		return
	}
	res, err := h.svc.GetBook(c.Request.Context(), id)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListBooks godoc
// @Summary  Search the catalog
// @Tags     books
// @Produce  json
// @Param    q         query string false "title / isbn / author / publisher"
// @Param    category_id query string false "category id"
// @Param    author_id   query string false "author id"
// @Param    status    query string false "status"
// @Param    available query bool   false "only borrowable books"
// @Param    limit     query int    false "limit"
// @Param    offset    query int    false "offset"
// @Success  200 {object} BookListResponse
// @Router   /books [get]
func (h *Handler) ListBooks(c *gin.Context) {
	q := BookQuery{
		Q:          c.Query("q"),
		CategoryID: c.Query("category_id"),
		AuthorID:   c.Query("author_id"),
		Status:     Status(c.Query("status")),
	}
	if v, err := strconv.ParseBool(c.Query("available")); err == nil {
		q.AvailableOnly = v
	}
	res, err := h.svc.ListBooks(c.Request.Context(), q, pageFromQuery(c))
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) SetStatus(c *gin.Context) {
	id, ok := ids.Param(c, "book_id")
	if !ok {
		return
	}
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "invalid json")
		return
	}
	res, err := h.svc.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		apierr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ---------- helpers ----------

func pageFromQuery(c *gin.Context) db.Page {
	return db.ParsePage(c.Query("limit"), c.Query("offset"), c.DefaultQuery("order", "desc"))
}

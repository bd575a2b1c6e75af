package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"readify-backend/internal/platform/apierr"
)

type AuthHandler struct {
	svc AuthService
	log *zap.Logger
}

// RegisterRoutes は公開ルート（login / register）
func RegisterRoutes(r gin.IRoutes, svc AuthService, log *zap.Logger) {
	h := &AuthHandler{svc: svc, log: log}
	r.POST("/login", h.Login)
	r.POST("/register", h.Register)
}

// RegisterAdminRoutes は admin 権限のグループに載せる
func RegisterAdminRoutes(r gin.IRoutes, svc AuthService, log *zap.Logger) {
	h := &AuthHandler{svc: svc, log: log}
	r.POST("/accounts", h.CreateAccount)
	r.DELETE("/accounts/:id", h.DeleteAccount)
}

type LoginRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary  Issue a bearer token
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body LoginRequest true "credentials"
// @Success  200 {object} map[string]string
// @Failure  401 {object} apierr.ErrorResponse
// @Router   /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "invalid request")
		return
	}

	token, err := h.svc.Login(c.Request.Context(), req.ID, req.Password)
	if err != nil {
		if errors.Is(err, ErrAuthFailed) {
			c.JSON(http.StatusUnauthorized, apierr.Body("UNAUTHENTICATED", "invalid id or password"))
			return
		}
		apierr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"message": "Login successful",
	})
}

type RegisterRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// 自己登録は常に user ロール
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "invalid request")
		return
	}

	if err := h.svc.Register(c.Request.Context(), req.ID, req.Password, RoleUser); err != nil {
		apierr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "registered"})
}

type CreateAccountRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

func (h *AuthHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.BadRequest(c, "invalid request")
		return
	}

	if err := h.svc.Register(c.Request.Context(), req.ID, req.Password, req.Role); err != nil {
		apierr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "registered", "role": req.Role})
}

func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		apierr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

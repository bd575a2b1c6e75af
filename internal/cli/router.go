package cli

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"readify-backend/docs"
	"readify-backend/internal/library/authors"
	"readify-backend/internal/library/borrowers"
	"readify-backend/internal/library/borrowings"
	"readify-backend/internal/library/categories"
	"readify-backend/internal/library/dashboard"
	"readify-backend/internal/library/fines"
	"readify-backend/internal/library/inventory"
	"readify-backend/internal/library/reservations"
	"readify-backend/internal/platform/auth"
	"readify-backend/internal/platform/config"
	"readify-backend/internal/platform/logger"
)

func newRouter(c *config.Config, a *app, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(logger.Middleware(log), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if c.Mode == "dev" {
		// CORS（開発中のみ必要）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     c.Server.CORSOrigins,
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	docs.SwaggerInfo.Version = c.Version
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// /api/v1
	api := r.Group("/api/v1")
	auth.RegisterRoutes(api, a.auth, log)
	inventory.RegisterRoutes(api, a.books, log)
	categories.RegisterRoutes(api, a.categories, log)
	authors.RegisterRoutes(api, a.authors, log)

	authed := api.Group("", auth.RequireAuth(a.auth.Secret()))
	borrowers.RegisterRoutes(authed, a.borrowers, log)

	borrowingH := borrowings.NewHandler(a.borrowings, a.borrowers, a.clock, log)
	reservationH := reservations.NewHandler(a.reservations, a.borrowers, a.clock, log)
	fineH := fines.NewHandler(a.fines, a.borrowers, a.clock, log)
	borrowingH.RegisterRoutes(authed)
	reservationH.RegisterRoutes(authed)
	fineH.RegisterRoutes(authed)

	staff := authed.Group("", auth.RequireRole(auth.RoleStaff, auth.RoleAdmin))
	inventory.RegisterStaffRoutes(staff, a.books, log)
	categories.RegisterStaffRoutes(staff, a.categories, log)
	authors.RegisterStaffRoutes(staff, a.authors, log)
	borrowers.RegisterStaffRoutes(staff, a.borrowers, log)
	borrowingH.RegisterStaffRoutes(staff)
	reservationH.RegisterStaffRoutes(staff)
	fineH.RegisterStaffRoutes(staff)
	dashboard.RegisterRoutes(staff, a.dashboard, a.clock, log)

	admin := authed.Group("", auth.RequireRole(auth.RoleAdmin))
	auth.RegisterAdminRoutes(admin, a.auth, log)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "no such route"}})
	})
	return r
}

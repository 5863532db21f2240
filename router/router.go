package router

import (
	"net/http"

	"nnact/api"
	"nnact/config"
	"nnact/metrics"
	"nnact/middleware"

	"github.com/gin-gonic/gin"
	"github.com/juju/clock"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, h *api.Handlers, clk clock.Clock) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(metrics.Middleware())
	r.Use(CORSMiddleware(cfg.Server.CORSOrigins))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	base := r.Group(cfg.Server.APIPrefix)

	// 无需登录
	authLimit := middleware.LoginRateLimit(cfg.RateLimit.LoginAttempts, cfg.RateLimit.LoginWindow, clk)
	auth := base.Group("/auth", authLimit)
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
	}
	base.POST("/service-requests", h.ServiceRequests.Create)
	base.GET("/service-requests/slots/:date", h.ServiceRequests.Slots)
	base.GET("/services/types", h.Services.Types)

	// 需要 JWT 认证的路由
	authorized := base.Group("", middleware.JWTAuth())
	{
		authorized.GET("/me", h.Auth.Me)

		h.Clients.Register(authorized.Group("/clients"))
		h.Technicians.Register(authorized.Group("/technicians"))
		h.Parts.Register(authorized.Group("/parts"))
		h.Projects.Register(authorized.Group("/projects"))
		h.Services.Register(authorized.Group("/services"))
		h.Payments.Register(authorized.Group("/payments"))
		h.Feedback.Register(authorized.Group("/feedback"))

		requests := authorized.Group("/service-requests")
		{
			requests.GET("", h.ServiceRequests.List)
			requests.GET("/:id", h.ServiceRequests.Get)
			requests.PATCH("/:id", h.ServiceRequests.Update)
			requests.DELETE("/:id", h.ServiceRequests.Delete)
		}

		expenses := authorized.Group("/expenses")
		{
			expenses.POST("", h.Expenses.Create)
			expenses.GET("", h.Expenses.List)
			expenses.GET("/analytics", h.Expenses.Analytics)
			expenses.GET("/categories", h.Expenses.Categories)
			expenses.GET("/total", h.Expenses.Total)
			expenses.GET("/search", h.Expenses.Search)
			expenses.GET("/category/:category", h.Expenses.ByCategory)
			expenses.GET("/date-range", h.Expenses.DateRange)
			expenses.GET("/export/csv", h.Export.ExportCSV)
			expenses.GET("/export/excel", h.Export.ExportExcel)
			expenses.POST("/bulk", h.Expenses.BulkCreate)
			expenses.DELETE("/bulk", h.Expenses.BulkDelete)
			expenses.GET("/:id", h.Expenses.Get)
			expenses.PUT("/:id", h.Expenses.Update)
			expenses.PATCH("/:id", h.Expenses.Update)
			expenses.DELETE("/:id", h.Expenses.Delete)
		}
	}

	return r
}

// CORSMiddleware CORS 跨域中间件，origins 含 "*" 时放行所有来源
func CORSMiddleware(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowed["*"] || allowed[origin]) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
			c.Writer.Header().Add("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"boilerfunnel/internal/infra/config"
	"boilerfunnel/internal/infra/obs"
)

type FormHTTP interface {
	Submit(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	SelectProduct(c *gin.Context)
	ConfirmInstallDate(c *gin.Context)
	Export(c *gin.Context)
	QuoteDocument(c *gin.Context)
}

type ProductHTTP interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type PaymentHTTP interface {
	CreateIntent(c *gin.Context)
	Confirm(c *gin.Context)
}

type FinanceHTTP interface {
	Options(c *gin.Context)
	Quote(c *gin.Context)
}

type BookingHTTP interface {
	Calendar(c *gin.Context)
	Total(c *gin.Context)
}

// FunnelRecorder counts customers reaching each funnel step.
type FunnelRecorder interface {
	FunnelStep(step string)
}

type Handlers struct {
	Forms    FormHTTP
	Products ProductHTTP
	Payments PaymentHTTP
	Finance  FinanceHTTP
	Booking  BookingHTTP
	Metrics  *obs.Metrics
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg, obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter builds the gin engine without touching the global gin mode.
func NewRouter(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	if h.Metrics != nil {
		router.Use(h.Metrics.HTTPMiddleware())
	}
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	registerAPIDocs(router)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "API is running"})
	})
	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)
	if h.Metrics != nil {
		router.GET("/metrics", h.Metrics.Handler())
	}

	api := router.Group("/api")
	api.GET("/health", health.Health)
	if h.Forms != nil {
		forms := api.Group("/forms")
		forms.POST("/submit", h.Forms.Submit)
		forms.GET("/all", h.Forms.List)
		forms.GET("/export", h.Forms.Export)
		forms.GET("/:id", h.Forms.Get)
		forms.PUT("/:id", h.Forms.Update)
		forms.DELETE("/:id", h.Forms.Delete)
		forms.POST("/:id/select-product", h.Forms.SelectProduct)
		forms.POST("/:id/install-date", h.Forms.ConfirmInstallDate)
		forms.GET("/:id/quote.pdf", h.Forms.QuoteDocument)
	}
	if h.Products != nil {
		products := api.Group("/products")
		products.GET("/all", h.Products.List)
		products.POST("/create", h.Products.Create)
		products.GET("/:id", h.Products.Get)
		products.PUT("/:id", h.Products.Update)
		products.DELETE("/:id", h.Products.Delete)
	}
	if h.Payments != nil {
		api.POST("/payments/create-intent", h.Payments.CreateIntent)
		api.POST("/payments/confirm", h.Payments.Confirm)
	}
	if h.Finance != nil {
		api.GET("/finance/options", h.Finance.Options)
		api.GET("/finance/quote", h.Finance.Quote)
	}
	if h.Booking != nil {
		api.GET("/booking/calendar", h.Booking.Calendar)
		api.GET("/booking/total", h.Booking.Total)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Route not found",
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"message": "The route " + c.Request.Method + " " + c.Request.URL.Path + " was not found on this server",
		})
	})
	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"Content-Disposition",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}
	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func recordStep(r FunnelRecorder, step string) {
	if r != nil {
		r.FunnelStep(step)
	}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}

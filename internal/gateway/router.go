package gateway

import (
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/helmhq/helm/ai-gateway/internal/auth"
	"github.com/helmhq/helm/ai-gateway/internal/ratelimit"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// RouterConfig wires the HTTP surface
type RouterConfig struct {
	Handler    *Handler
	JWTManager *auth.JWTManager
	Limiter    *ratelimit.Limiter // nil disables rate limiting
	Readiness  *Readiness         // nil reports ready unconditionally
	Logger     *zap.Logger
	Swagger    bool
}

var registerTagNames sync.Once

// NewRouter builds the gin engine with health, docs and the protected AI routes
func NewRouter(cfg RouterConfig) *gin.Engine {
	useJSONFieldNames()

	router := gin.New()
	router.Use(requestContext(cfg.Logger), structuredLogging(), recovery())

	// Health checks live at the root
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		if cfg.Readiness == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ready"})
			return
		}
		cfg.Readiness.Handle(c)
	})

	if cfg.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := router.Group("/api")

	protected := api.Group("/ai")
	protected.Use(auth.RequireAuth(cfg.JWTManager), ratelimit.Middleware(cfg.Limiter, userKey))

	protected.POST("/validate", cfg.Handler.Validate)
	protected.POST("/answer-question", cfg.Handler.AnswerQuestion)
	protected.POST("/proposals/accept", cfg.Handler.AcceptProposal)
	protected.POST("/proposals/reject", cfg.Handler.RejectProposal)

	return router
}

// useJSONFieldNames makes validation errors name fields as clients send them
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
}

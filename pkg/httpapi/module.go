package httpapi

import (
	"net/http"

	"cashback-ledger/pkg/config"
	"cashback-ledger/pkg/health"
	"cashback-ledger/pkg/middleware"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/fx"
)

var Module = fx.Module("httpapi",
	fx.Provide(NewEngine),
	fx.Invoke(registerHealthEndpoint),
)

const Banner = "Free-xchanged Master System API"

type EngineParams struct {
	fx.In
	Config *config.Config
}

// NewEngine builds the gin engine shared by every service's routes.
func NewEngine(p EngineParams) (*gin.Engine, error) {
	if p.Config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	node, err := snowflake.NewNode(p.Config.Snowflake.Node)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestIDFrom(node),
		middleware.CORS(middleware.ParseOrigins(p.Config.Cors.Origins)),
	)
	if p.Config.Otel.Addr != "" {
		r.Use(otelgin.Middleware(p.Config.AppName))
	}
	r.Use(middleware.Logger(), middleware.Error())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "route not found"}})
	})

	return r, nil
}

func registerHealthEndpoint(r *gin.Engine, h health.HealthService) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": Banner, "status": "running"})
	})
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)
}

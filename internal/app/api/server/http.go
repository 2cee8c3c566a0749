package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/blancosphere/streamvault/internal/app/api/handlers"
	mw "github.com/blancosphere/streamvault/internal/app/api/middleware"
	"github.com/blancosphere/streamvault/internal/app/service/account"
	"github.com/blancosphere/streamvault/internal/app/service/activation"
	"github.com/blancosphere/streamvault/internal/app/service/checkout"
	"github.com/blancosphere/streamvault/internal/app/service/webhookflow"
	"github.com/blancosphere/streamvault/internal/platform/payment"
	cfgpkg "github.com/blancosphere/streamvault/pkg/config"
	metrics "github.com/blancosphere/streamvault/pkg/metrics"
	"github.com/blancosphere/streamvault/pkg/response"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Tracing and CORS cover every route, including OPTIONS preflights for
	// paths that have no registered handler. Request logger & access log
	// are attached per group in registerRoutes.
	r.Use(mw.TraceMiddleware())
	r.Use(mw.CORSMiddleware())
	return r
}

func registerRoutes(
	r *gin.Engine,
	log *zap.SugaredLogger,
	cfg *cfgpkg.Config,
	checkoutMgr checkout.Manager,
	activationMgr activation.Manager,
	webhookProc webhookflow.Processor,
	accounts account.Manager,
	payments payment.Client,
) {
	// Prometheus metrics
	if cfg != nil && cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: log,
		})
		p.SetListenAddress(cfg.MetricsAddr)
		p.Use(r)

		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Err(c, http.StatusNotFound,
			fmt.Sprintf("Not Found: %s with method %s", c.Request.URL.Path, c.Request.Method))
	})

	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub, cfg)
	handlers.RegisterCheckoutRoutes(pub, checkoutMgr)
	handlers.RegisterActivationRoutes(pub, activationMgr)
	handlers.RegisterWebhookRoutes(pub, webhookProc)
	handlers.RegisterInstructionRoutes(pub)
	handlers.RegisterSessionLookupRoutes(pub, payments)

	// Admin group: same logging plus the static api key gate
	admin := r.Group("/")
	admin.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(), mw.APIKeyAuth(cfg.AdminAPIKey))
	handlers.RegisterStatusRoutes(admin, accounts)
	handlers.RegisterDebugRoutes(admin, cfg)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)

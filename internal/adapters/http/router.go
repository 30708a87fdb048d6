package http

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/labwatch/internal/adapters/signal"
	"github.com/dkeye/labwatch/internal/app/orch"
	"github.com/dkeye/labwatch/internal/config"
)

const (
	cookieStoreName = "LabwatchSession"
	clientTokenKey  = "client_token"
)

func genClientToken() string {
	return uuid.NewString()
}

// ClientTokenMiddleware tags every browser with a long-lived id, used to
// correlate log lines of the same kiosk or dashboard.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set(clientTokenKey, token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 12, HttpOnly: true})
	r.Use(sessions.Sessions(cookieStoreName, store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	h := &handlers{orch: o, cfg: cfg}
	ctrl := signal.NewSignalWSController(o, cfg)

	api := r.Group("/api")
	api.POST("/student-login", h.studentLogin)
	api.POST("/student-logout", h.studentLogout)
	api.GET("/active-sessions/:labId", h.activeSessions)
	api.POST("/clear-all-sessions", h.clearAllSessions)
	api.POST("/start-lab-session", h.startLabSession)
	api.POST("/end-lab-session", h.endLabSession)
	api.POST("/force-clear-all", h.forceClearAll)
	api.GET("/active-lab-session", h.activeLabSession)
	api.GET("/session-history", h.sessionHistory)
	api.GET("/live", h.live)
	api.GET("/ice-servers", h.iceServers)

	api.GET("/ws/signal", func(c *gin.Context) {
		log.Debug().Str("module", "adapters.http").Str("client", c.GetString(clientTokenKey)).Msg("ws signal endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})

	return r
}

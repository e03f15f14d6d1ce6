package rest

import (
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kawasemi/dungeon-crawler/server/audit"
	"github.com/kawasemi/dungeon-crawler/server/config"
	mw "github.com/kawasemi/dungeon-crawler/server/middleware"
	"github.com/kawasemi/dungeon-crawler/server/save"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// NewRouter assembles the full HTTP surface. The audit service may be nil.
func NewRouter(cfg *config.Config, store *save.Store, aud *audit.Service, rng *rand.Rand, logger *zap.Logger) *gin.Engine {
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	if cfg.Security.RateLimitRPS > 0 {
		r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	session := NewSessionHandler(cfg.Security)
	r.POST("/api/session", session.Create)

	saves := NewSaveHandler(store, aud, logger)
	actions := NewActionHandler(store, aud, cfg.Game, rng, logger)

	api := r.Group("/api/saves", mw.Auth(cfg.Security))
	{
		api.GET("", saves.List)
		api.POST("/:slot", saves.Create)
		api.GET("/:slot", saves.GetFull)
		api.PUT("/:slot", saves.PutFull)
		api.DELETE("/:slot", mw.AdminKey(cfg.Security), saves.Delete)

		api.GET("/:slot/player", saves.GetPlayer)
		api.PATCH("/:slot/player", saves.PatchPlayer)

		api.GET("/:slot/items", saves.GetItems)
		api.PUT("/:slot/items/:type", saves.PutItem)

		api.GET("/:slot/progress", saves.GetProgress)
		api.PATCH("/:slot/progress", saves.PatchProgress)

		api.GET("/:slot/settings", saves.GetSettings)
		api.GET("/:slot/settings/:key", saves.GetSetting)
		api.PUT("/:slot/settings/:key", saves.PutSetting)
		api.DELETE("/:slot/settings/:key", saves.DeleteSetting)

		api.POST("/:slot/step", actions.Step)
		api.POST("/:slot/camp", actions.Camp)
		api.POST("/:slot/battle/attack", actions.Attack)
		api.POST("/:slot/battle/result", actions.BattleResult)
	}

	return r
}

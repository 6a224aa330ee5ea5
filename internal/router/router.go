package router

import (
	"net/http"

	"github.com/carbonlog/internal/handler"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config 路由层需要的配置
type Config struct {
	SessionSecret string
	CORSOrigins   []string
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, cfg Config) *gin.Engine {
	r := gin.Default()

	r.Use(corsMiddleware(cfg.CORSOrigins))

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{Path: "/", MaxAge: 86400, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions("carbonlog_session", store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/signup", api.Signup)
	r.POST("/login", api.Login)
	r.POST("/logout", api.Logout)

	// 需要认证的路由
	auth := r.Group("")
	auth.Use(api.AuthRequired())
	{
		auth.GET("/dashboard", api.Dashboard)
		auth.GET("/rewards", api.GetRewards)

		footprints := auth.Group("/footprint")
		{
			footprints.POST("/:category", api.SubmitFootprint)
			footprints.GET("/summary", api.GetSummary)
			footprints.GET("/weekly-chart", api.GetWeeklyChart)
			footprints.GET("/category-breakdown", api.GetCategoryBreakdown)
			footprints.GET("/insights", api.GetInsights)
			footprints.GET("/tips", api.GetTips)
		}
	}

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	})
}

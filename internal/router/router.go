package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unstoppable/internal/handler"
	"gorm.io/gorm"
)

// SetupRouter 配置 Gin 引擎和路由
// pin 非空时 /api 路由组挂载解锁中间件
func SetupRouter(gdb *gorm.DB, sessionSecret, pin string) (*gin.Engine, error) {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("unstoppable_session", store))

	api, err := handler.NewAPI(gdb, pin)
	if err != nil {
		return nil, err
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	r.POST("/login", api.Login)
	r.POST("/logout", api.Logout)

	group := r.Group("/api")
	if api.PinConfigured() {
		group.Use(handler.AuthRequired())
	}
	{
		group.GET("/habits", api.ListHabits)
		group.POST("/habits", api.CreateHabit)
		group.GET("/habits/:id", api.GetHabit)
		group.PUT("/habits/:id", api.UpdateHabit)
		group.POST("/habits/:id/archive", api.ArchiveHabit)
		group.DELETE("/habits/:id", api.DeleteHabit)
		group.POST("/habits/:id/toggle", api.ToggleHabit)

		group.GET("/today", api.GetToday)
		group.GET("/stats", api.GetStats)

		group.GET("/settings", api.GetSettings)
		group.PUT("/settings", api.UpdateSettings)

		group.GET("/export", api.ExportData)
	}

	return r, nil
}

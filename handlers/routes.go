package handlers

import (
	"github.com/gin-gonic/gin"

	"shortlink-admin/config"
)

// BasePath is where the admin API is mounted.
const BasePath = "/api/short-link/admin/v1"

// RegisterRoutes sets up every route of the mock admin API.
// Login, registration, username lookup, session checks, health and redirects
// are public; everything else needs a live session.
func RegisterRoutes(r *gin.Engine, handler AdminHandlerInterface, config *config.Config) {
	r.Use(RequestIDMiddleware())
	r.Use(CORSMiddleware())

	var limited []gin.HandlerFunc
	if !config.DisableRateLimit {
		limited = append(limited, handler.RateLimitMiddleware())
	}

	v1 := r.Group(BasePath, limited...)
	{
		v1.POST("/user/login", handler.Login)
		v1.POST("/user", handler.Register)
		v1.GET("/user/has-username", handler.HasUsername)
		v1.GET("/user/check-login", handler.CheckLogin)

		auth := v1.Group("", handler.AuthMiddleware())
		{
			auth.DELETE("/user/logout", handler.Logout)
			auth.GET("/user/:username", handler.UserInfo)
			auth.PUT("/user", handler.UpdateUser)

			auth.GET("/group", handler.ListGroups)
			auth.POST("/group", handler.CreateGroup)
			auth.PUT("/group", handler.RenameGroup)
			auth.DELETE("/group", handler.DeleteGroup)
			auth.POST("/group/sort", handler.SortGroups)

			auth.GET("/page", handler.PageLinks)
			auth.POST("/create", handler.CreateLink)
			auth.POST("/create/batch", handler.BatchCreateLinks)
			auth.POST("/update", handler.UpdateLink)
			auth.GET("/title", handler.FetchTitle)

			auth.POST("/recycle-bin/save", handler.RecycleLink)
			auth.GET("/recycle-bin/page", handler.PageRecycleBin)
			auth.POST("/recycle-bin/recover", handler.RestoreLink)
			auth.POST("/recycle-bin/remove", handler.PurgeLink)

			auth.GET("/stats", handler.LinkStats)
			auth.GET("/stats/group", handler.GroupStats)
			auth.GET("/stats/access-record", handler.AccessRecords)
		}
	}

	chain := func(final gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, limited...), final)
	}

	r.GET("/health", chain(handler.HealthCheck)...)

	// Redirection route (not under the API prefix as it's user-facing)
	r.GET("/:short_uri", chain(handler.RedirectURL)...)
}

package api

import (
	"log"
	stdhttp "net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"offsetsdb/internal/cache"
	"offsetsdb/internal/config"
	h "offsetsdb/internal/http/handlers"
	"offsetsdb/internal/http/middleware"
)

func NewRouter(env config.Env, api h.API, health h.Health, store cache.Store) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-API-KEY", "X-Request-ID"}
	r.Use(cors.New(corsCfg))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	// Health status stays open; the authorized_user probe exercises the key
	// check on purpose.
	healthGroup := r.Group("/health")
	healthGroup.GET("/", health.Status)
	healthGroup.GET("/authorized_user", middleware.APIKey(env.APIKey), health.AuthorizedUser)

	authed := r.Group("", middleware.APIKey(env.APIKey), middleware.ResponseCache(store))
	{
		projects := authed.Group("/projects")
		projects.GET("/", api.GetProjects)
		projects.GET("/:project_id", api.GetProjectByID)

		credits := authed.Group("/credits")
		credits.GET("/", api.GetCredits)

		clips := authed.Group("/clips")
		clips.GET("/", api.GetClips)

		files := authed.Group("/files")
		files.GET("/", api.GetFiles)
		files.POST("/", api.SubmitFiles)
		files.GET("/:file_id", api.GetFileByID)

		charts := authed.Group("/charts")
		charts.GET("/projects_by_listing_date", api.GetProjectsByListingDate)
		charts.GET("/credits_by_transaction_date", api.GetCreditsByTransactionDate)
		charts.GET("/credits_by_transaction_date/:project_id", api.GetCreditsByProjectID)
		charts.GET("/projects_by_credit_totals", api.GetProjectsByCreditTotals)
		charts.GET("/projects_by_category", api.GetProjectsByCategory)
		charts.GET("/credits_by_category", api.GetCreditsByCategory)
	}

	return r
}

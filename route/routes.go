package route

import (
	"net/http"
	"time"

	"cafeapi/config"
	"cafeapi/controller"
	"cafeapi/service"
	"cafeapi/utils"
	"cafeapi/view"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// New builds the engine with middleware and every route registered.
func New(cfg *config.Config, cafes *controller.CafeController, db *gorm.DB) *gin.Engine {
	router := gin.New()
	metrics := utils.NewMetrics()

	router.Use(
		utils.RequestID(),
		utils.RequestLogger(),
		metrics.Middleware(),
		// Recovery sits inside the logger and metrics so panics are counted as 500s.
		gin.CustomRecovery(recoverJSON),
		cors.New(cors.Config{
			AllowOrigins:     cfg.Server.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			ExposeHeaders:    []string{"Content-Length", utils.RequestIDHeader},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}),
	)
	router.SetHTMLTemplate(view.Templates())

	health := &controller.HealthController{DB: db}
	router.GET("/healthz", health.Health)
	router.GET("/metrics", metrics.Handler())

	CafeRoutes(router, cafes)
	return router
}

// recoverJSON keeps panics from reaching clients as anything but the
// standard error envelope.
func recoverJSON(c *gin.Context, recovered any) {
	log.Ctx(c.Request.Context()).Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("recovered from panic")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"response": gin.H{"error": service.MsgInternal}})
}

func CafeRoutes(router *gin.Engine, ctl *controller.CafeController) {
	router.GET("/", ctl.Home)
	router.GET("/random", ctl.GetRandomCafe)
	router.GET("/all", ctl.GetAllCafes)
	router.GET("/search", ctl.Search)
	router.GET("/add", ctl.AddForm)
	router.POST("/add", ctl.AddCafe)
	router.POST("/add/excel", ctl.BulkAddCafes)
	router.PATCH("/update-price/:id", ctl.UpdatePrice)
	router.DELETE("/delete/:id", ctl.DeleteCafe)
}

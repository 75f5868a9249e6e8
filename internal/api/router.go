package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/places-backend-go/internal/config"
	"github.com/jengzang/places-backend-go/internal/handler"
	"github.com/jengzang/places-backend-go/internal/middleware"
)

// Handlers 聚合所有 HTTP handler
type Handlers struct {
	Places    *handler.PlaceHandler
	Location  *handler.LocationHandler
	Discovery *handler.DiscoveryHandler
	Routines  *handler.RoutineHandler
	Triggers  *handler.TriggerHandler
	Tags      *handler.TagHandler
	Lists     *handler.ListHandler
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.RateLimit(300, time.Minute))

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Places Backend API is running",
		})
	})

	// API 路由组
	api := r.Group("/api/v1")
	api.Use(middleware.OwnerResolver(cfg.JWTSecret, cfg.DefaultOwner))
	{
		// 位置上报
		api.POST("/location", h.Location.Observe)

		// 地点接口
		places := api.Group("/places")
		{
			places.GET("", h.Places.ListPlaces)
			places.POST("", h.Places.CreatePlace)
			places.POST("/quick-add", h.Places.QuickAdd)
			places.GET("/current", h.Places.CurrentPlace)
			places.GET("/nearby", h.Places.FindNearby)
			places.GET("/most-visited", h.Places.MostVisited)
			places.GET("/context", h.Location.GetContext)
			places.GET("/discover", h.Discovery.Discover)
			places.POST("/discover/confirm", h.Discovery.ConfirmDiscovery)
			places.GET("/routines", h.Routines.GetRoutines)
			places.GET("/routines/deviation", h.Routines.CheckDeviation)
			places.GET("/:id", h.Places.GetPlace)
			places.PUT("/:id", h.Places.UpdatePlace)
			places.DELETE("/:id", h.Places.DeletePlace)
			places.GET("/:id/stats", h.Places.GetPlaceStats)
			places.GET("/:id/visits", h.Places.GetPlaceVisits)
			places.GET("/:id/tags", h.Tags.GetPlaceTags)
			places.POST("/:id/tags/:tagID", h.Tags.AddTagToPlace)
			places.DELETE("/:id/tags/:tagID", h.Tags.RemoveTagFromPlace)
			places.GET("/:id/lists", h.Lists.GetPlaceLists)
			places.GET("/:id/triggers", h.Triggers.GetTriggers)
			places.POST("/:id/triggers", h.Triggers.CreateTrigger)
			places.PUT("/:id/triggers/:triggerID", h.Triggers.UpdateTrigger)
			places.DELETE("/:id/triggers/:triggerID", h.Triggers.DeleteTrigger)
		}

		// 标签接口
		tags := api.Group("/tags")
		{
			tags.GET("", h.Tags.ListTags)
			tags.POST("", h.Tags.CreateTag)
			tags.DELETE("/:id", h.Tags.DeleteTag)
		}

		// 地点列表接口
		lists := api.Group("/lists")
		{
			lists.GET("", h.Lists.ListLists)
			lists.POST("", h.Lists.CreateList)
			lists.DELETE("/:id", h.Lists.DeleteList)
			lists.GET("/:id/places", h.Lists.GetListPlaces)
			lists.POST("/:id/places/:placeID", h.Lists.AddPlaceToList)
			lists.DELETE("/:id/places/:placeID", h.Lists.RemovePlaceFromList)
		}
	}

	return r
}

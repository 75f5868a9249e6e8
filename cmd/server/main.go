package main

import (
	"log"
	"time"

	"github.com/jengzang/places-backend-go/internal/api"
	"github.com/jengzang/places-backend-go/internal/config"
	"github.com/jengzang/places-backend-go/internal/database"
	"github.com/jengzang/places-backend-go/internal/dispatch"
	"github.com/jengzang/places-backend-go/internal/engine"
	"github.com/jengzang/places-backend-go/internal/handler"
	"github.com/jengzang/places-backend-go/internal/repository"
	"github.com/jengzang/places-backend-go/internal/service"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化数据库
	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	db := database.GetDB()
	if err := database.NewMigrationManager(db, cfg.MigrationsPath).Run(); err != nil {
		log.Fatal("Failed to apply migrations:", err)
	}

	// 仓储层
	places := repository.NewPlaceRepository(db)
	visits := repository.NewVisitRepository(db)
	triggers := repository.NewTriggerRepository(db)
	tags := repository.NewTagRepository(db)
	lists := repository.NewListRepository(db)

	// 引擎层
	loc := time.Local
	triggerEngine := engine.NewTriggerEngine(triggers, dispatch.NewLogDispatcher())
	discoverer := engine.NewPlaceDiscoverer(places, cfg.Engine)
	routines := engine.NewRoutineAnalyzer(visits, places, cfg.Engine, loc)
	tracker := engine.NewVisitTracker(places, visits, triggerEngine, discoverer, cfg.Engine, loc)
	contextBuilder := engine.NewPlaceContextBuilder(places, visits, tags, lists, routines, cfg.Engine, loc)

	placeService := service.NewPlaceService(places, visits, tags, cfg.Engine)

	// 初始化路由
	router := api.SetupRouter(cfg, api.Handlers{
		Places:    handler.NewPlaceHandler(placeService),
		Location:  handler.NewLocationHandler(tracker, contextBuilder),
		Discovery: handler.NewDiscoveryHandler(discoverer),
		Routines:  handler.NewRoutineHandler(routines),
		Triggers:  handler.NewTriggerHandler(triggers, places, cfg.Engine),
		Tags:      handler.NewTagHandler(tags, places),
		Lists:     handler.NewListHandler(lists, places),
	})

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

package main

import (
	"flag"
	"time"

	"autobot/config"
	"autobot/controllers"
	"autobot/db"
	"autobot/dedup"
	"autobot/logger"
	"autobot/relay"
	"autobot/router"
	"autobot/tools"
	"autobot/workers"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "config/config.json", "path to the config file")
	flag.Parse()

	cfg := config.Get(*configPath)

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db.SetConfigurations(cfg)
	database, err := db.Connect()
	if err != nil {
		log.Fatal("database connection failed", "error", err)
	}
	defer database.Close()

	// dedup window: shared via redis when configured, in-process otherwise
	var window dedup.Store
	if cfg.RedisAddr != "" {
		rd, err := dedup.NewRedis(log, cfg.RedisAddr, dedup.DefaultTTL)
		if err != nil {
			log.Fatal("redis connection failed", "addr", cfg.RedisAddr, "error", err)
		}
		window = rd
	} else {
		log.Warn("redis not configured, using in-process dedup window")
		window = dedup.NewMemory(dedup.DefaultTTL)
	}

	ai := tools.NewAIClient(cfg.AI.BaseURL, cfg.AI.Model, time.Duration(cfg.AI.TimeoutSeconds)*time.Second)
	engine := relay.New(database, ai, log)

	controllers.Setup(engine, window, cfg, log)

	workers.StartWebhookProcessor(database, engine, log)

	r := gin.New()
	r.Use(db.SetDBtoContext(database))
	router.Initialize(r, log)

	log.Info("autobot listening", "port", cfg.ApiPort)
	if err := r.Run(":" + cfg.ApiPort); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}

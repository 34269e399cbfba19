package main // SchoolConnect API server entry point

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/schoolconnect/schoolconnect/internal/assistant"
	"github.com/schoolconnect/schoolconnect/internal/authz"
	"github.com/schoolconnect/schoolconnect/internal/config"
	"github.com/schoolconnect/schoolconnect/internal/database"
	"github.com/schoolconnect/schoolconnect/internal/feed"
	"github.com/schoolconnect/schoolconnect/internal/handler"
	"github.com/schoolconnect/schoolconnect/internal/queue"
	"github.com/schoolconnect/schoolconnect/internal/repository"
	"github.com/schoolconnect/schoolconnect/internal/router"
)

func main() {
	// .env is a developer convenience; in production the variables come
	// from the environment and the file is simply absent.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	profiles := repository.NewProfileRepo(db)
	members := repository.NewMembershipRepo(db)
	schools := repository.NewSchoolRepo(db)
	scholarships := repository.NewScholarshipRepo(db)
	fees := repository.NewFeeRepo(db)
	notices := repository.NewNoticeRepo(db)

	engine := authz.NewEngine(members, schools)

	hub := feed.NewHub()
	go func() {
		if err := queue.StartNoticeConsumer(cfg.AMQPURL, hub); err != nil {
			log.Printf("notice-consumer stopped: %v", err)
		}
	}()

	asst := assistant.New(cfg.AssistantURL, time.Duration(cfg.AssistantTimeout)*time.Second)

	h := router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users, tokens, profiles, members),
		School:       handler.NewSchoolHandler(engine, schools, profiles),
		Scholarship:  handler.NewScholarshipHandler(engine, scholarships, schools),
		Fee:          handler.NewFeeHandler(engine, fees, schools),
		Notice:       handler.NewNoticeHandler(engine, notices, schools, cfg.AMQPURL),
		NoticeStream: handler.NewNoticeStreamHandler(engine, hub),
		Dashboard:    handler.NewDashboardHandler(engine, scholarships, fees, notices),
		Assistant:    handler.NewAssistantHandler(engine, asst, scholarships, fees, notices),
	}

	rdb := config.NewRedisClient() // nil when Redis is not configured

	e := echo.New()
	e.HideBanner = true
	router.Register(e, h, cfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

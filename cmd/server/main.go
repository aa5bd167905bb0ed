package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/avetra/workstation-allocation/internal/approval"
	"github.com/avetra/workstation-allocation/internal/config"
	"github.com/avetra/workstation-allocation/internal/database"
	"github.com/avetra/workstation-allocation/internal/handler"
	"github.com/avetra/workstation-allocation/internal/queue"
	"github.com/avetra/workstation-allocation/internal/repository"
	"github.com/avetra/workstation-allocation/internal/router"
	queue_publisher "github.com/avetra/workstation-allocation/internal/service"
)

func main() {
	// .env is a dev convenience; absence is fine in production
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; cache and limiter then no-op

	offices := repository.NewOfficeRepo(db)
	floors := repository.NewFloorRepo(db)
	labs := repository.NewLabRepo(db)
	holds := repository.NewSeatHoldRepo(db)
	allocs := repository.NewDivisionAllocationRepo(db)
	requests := repository.NewRequestRepo(db)
	users := repository.NewUserRepo(db)
	divisions := repository.NewDivisionRepo(db)

	var publish approval.PublishFunc
	if cfg.AMQPURL != "" {
		publish = queue_publisher.PublishAllocationFinalized
		go func() {
			if err := queue.StartAllocationConsumer(); err != nil {
				log.Printf("allocation consumer stopped: %v", err)
			}
		}()
	}

	store := repository.NewSessionStore(labs, holds, allocs, requests)
	approver := approval.NewApprover(db, holds, allocs, requests, publish)
	sessions := handler.NewSessionRegistry(store, approver, requests)

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, users),
		Browse:   handler.NewBrowseHandler(offices, floors, labs, divisions),
		Requests: handler.NewRequestHandler(requests),
		Grid:     handler.NewGridHandler(store, sessions),
		Session:  handler.NewSessionHandler(sessions),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, h, cfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

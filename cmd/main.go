package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"records-web-server/config"
	"records-web-server/internal/handler"
	"records-web-server/internal/repository"
	"records-web-server/internal/security"
	"records-web-server/internal/service"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Ошибка применения миграций: %v", err)
	}

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	srv, router := config.SetupServer(cfg.ServerAddr)

	cacheTTL := time.Duration(cfg.TTL.S3AndRedis) * time.Second

	docRepo := repository.NewDocumentRepository(db)
	recordRepo := repository.NewRecordRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	refDataRepo := repository.NewRefDataRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, cacheTTL)

	s3Service, err := service.NewS3Service(ctx, &cfg.S3Config)
	if err != nil {
		log.Fatalf("Ошибка создания S3 сервиса: %v", err)
	}

	docService := service.NewDocumentService(docRepo, cacheRepo, s3Service, cacheTTL)
	recordService := service.NewRecordService(recordRepo, docRepo, cacheRepo, s3Service, cacheTTL)

	seedService := service.NewSeedService(refDataRepo, db)
	if err := seedService.Run(ctx); err != nil {
		log.Fatalf("Ошибка наполнения справочников: %v", err)
	}

	notifierTimeout, err := time.ParseDuration(cfg.Scanner.NotifierTimeout)
	if err != nil {
		log.Fatalf("Некорректный таймаут нотификатора: %v", err)
	}
	scanInterval, err := time.ParseDuration(cfg.Scanner.Interval)
	if err != nil {
		log.Fatalf("Некорректный интервал сканера: %v", err)
	}

	notifier := service.NewWebhookNotifier(cfg.Webhook.URL)
	dispatcher := service.NewAlertDispatcherService(accountRepo, notifier, db, notifierTimeout)
	scanner := service.NewExpiryScanner(docRepo, cacheRepo, dispatcher, db, scanInterval, cfg.Scanner.AlertWindowDays)

	scanner.Start(ctx)
	defer scanner.Stop()

	jwtService := security.NewJWTService(&cfg.JWT)
	recordHandler := handler.NewRecordHandler(recordService)
	docHandler := handler.NewDocumentHandler(docService)
	refDataHandler := handler.NewRefDataHandler(service.NewRefDataService(refDataRepo))

	router.Use(config.DBMiddleware(db))
	router.Handle("/metrics", promhttp.Handler())

	setupRecordRoutes(router, recordHandler, jwtService)
	setupDocumentRoutes(router, docHandler, jwtService)
	setupRefDataRoutes(router, refDataHandler, jwtService)

	runServer(ctx, srv)
}

func setupRecordRoutes(r chi.Router, h *handler.RecordHandler, jwtService *security.JWTService) {
	r.Route("/api/records/{family}", func(r chi.Router) {
		r.Use(security.JWTMiddleware(jwtService))
		r.Get("/", h.ListRecords)
		r.Post("/", h.CreateRecord)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetRecord)
			r.Put("/", h.UpdateRecord)
			r.Delete("/", h.DeleteRecord)
		})
	})
}

func setupDocumentRoutes(r chi.Router, h *handler.DocumentHandler, jwtService *security.JWTService) {
	r.Route("/api/files", func(r chi.Router) {
		r.Use(security.JWTMiddleware(jwtService))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetDocument)
			r.Put("/expiry", h.UpdateExpiry)
			r.Delete("/", h.DeleteDocument)
		})
	})
}

func setupRefDataRoutes(r chi.Router, h *handler.RefDataHandler, jwtService *security.JWTService) {
	r.Route("/api/refdata", func(r chi.Router) {
		r.Use(security.JWTMiddleware(jwtService))
		r.Get("/statuses", h.ListStatuses)
		r.Get("/categories", h.ListSectionCategories)
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}

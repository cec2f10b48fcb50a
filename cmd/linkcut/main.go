package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"net/http"
	_ "net/http/pprof"

	"github.com/Popolzen/linkcut/internal/audit"
	"github.com/Popolzen/linkcut/internal/config"
	"github.com/Popolzen/linkcut/internal/db"
	"github.com/Popolzen/linkcut/internal/handler"
	"github.com/Popolzen/linkcut/internal/logger"
	"github.com/Popolzen/linkcut/internal/middleware/auth"
	"github.com/Popolzen/linkcut/internal/middleware/compressor"
	"github.com/Popolzen/linkcut/internal/middleware/subnet"
	"github.com/Popolzen/linkcut/internal/qr"
	"github.com/Popolzen/linkcut/internal/repository"
	"github.com/Popolzen/linkcut/internal/repository/database"
	"github.com/Popolzen/linkcut/internal/repository/filestorage"
	"github.com/Popolzen/linkcut/internal/repository/memory"
	"github.com/Popolzen/linkcut/internal/service/links"
	"github.com/Popolzen/linkcut/internal/service/users"
	"github.com/gin-gonic/gin"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

// shutdownTimeout сколько ждем завершения активных запросов
const shutdownTimeout = 5 * time.Second

func main() {
	printBuildInfo()

	// Инициализируем логгер
	if err := logger.Init(); err != nil {
		log.Fatal("Не удалось инициализировать логгер:", err)
	}
	defer logger.Close()

	gin.SetMode(gin.ReleaseMode)
	cfg := config.NewConfig()

	// Запускаем pprof сервер на настраиваемом порту
	if cfg.PprofAddr != "" {
		go func() {
			log.Printf("pprof сервер запущен на http://%s/debug/pprof/", cfg.PprofAddr)
			if err := http.ListenAndServe(cfg.PprofAddr, nil); err != nil {
				log.Printf("Ошибка запуска pprof сервера: %v", err)
			}
		}()
	}

	// Инициализируем паблишера событий аудита
	publisher := initAudit(cfg)

	// Инициализируем репозиторий
	repo, dbInstance := initRepository(cfg)

	// Хранилище QR-кодов. Без него сервис работает, просто без картинок.
	var artifacts links.ArtifactStore
	if qrStore, err := qr.NewStore(cfg.QRDir); err != nil {
		log.Printf("QR-коды отключены: %v", err)
	} else {
		artifacts = qrStore
	}

	// Создаем сервисы
	registrar := links.NewRegistrar(repo, artifacts, cfg.BaseURL)
	resolver := links.NewResolver(repo, artifacts)
	userService := users.NewService(repo)

	// Настраиваем роутер
	r := setupRouter(registrar, resolver, userService, repo, dbInstance, cfg, publisher)

	app := &App{
		server:    &http.Server{Addr: cfg.ServerAddr, Handler: r},
		repo:      repo,
		publisher: publisher,
	}

	go func() {
		log.Printf("linkcut запущен на http://%s", cfg.ServerAddr)
		if err := app.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Не удалось запустить сервер:", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Получен сигнал остановки, завершаем работу...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Shutdown(ctx); err != nil {
		log.Printf("Ошибка остановки: %v", err)
	}
	log.Println("Сервис остановлен gracefully")
}

func printBuildInfo() {
	version := "N/A"
	date := "N/A"
	commit := "N/A"

	if buildVersion != "" {
		version = buildVersion
	}
	if buildDate != "" {
		date = buildDate
	}
	if buildCommit != "" {
		commit = buildCommit
	}

	fmt.Printf("Build version: %s\n", version)
	fmt.Printf("Build date: %s\n", date)
	fmt.Printf("Build commit: %s\n", commit)
}

// Repository объединяет хранилища ссылок и учетных записей:
// все три реализации держат их вместе
type Repository interface {
	repository.LinkRepository
	repository.UserRepository
}

// initRepository инициализирует репозиторий в зависимости от конфигурации.
// Второе значение не nil только для PostgreSQL, его использует /ping.
func initRepository(cfg *config.Config) (Repository, *db.DataBase) {
	switch {
	case cfg.DBurl != "":
		dbInstance, err := db.NewDataBase(cfg.DBurl)
		if err != nil {
			log.Fatal("Ошибка подключения к БД:", err)
		}
		if err := dbInstance.Migrate(); err != nil {
			log.Fatal("Ошибка выполнения миграций:", err)
		}
		log.Println("Используется БД репозиторий")
		return database.NewRepository(dbInstance.DB), dbInstance
	case cfg.FilePath != "":
		log.Println("Используется файл")
		return filestorage.NewRepository(cfg.FilePath), nil
	default:
		log.Println("Используется память")
		return memory.NewRepository(), nil
	}
}

// initAudit подключает наблюдателей аудита из конфигурации
func initAudit(cfg *config.Config) *audit.Publisher {
	publisher := audit.NewPublisher()

	// Файловый observer
	if cfg.AuditFile != "" {
		fileObs, err := audit.NewFileObserver(cfg.AuditFile)
		if err != nil {
			log.Printf("Не удалось создать file observer: %v", err)
		} else {
			publisher.Subscribe(fileObs)
			log.Printf("Аудит в файл: %s", cfg.AuditFile)
		}
	}

	// HTTP observer
	if cfg.AuditURL != "" {
		publisher.Subscribe(audit.NewHTTPObserver(cfg.AuditURL))
		log.Printf("Аудит на сервер: %s", cfg.AuditURL)
	}

	return publisher
}

// setupRouter настраивает роуты и middleware
func setupRouter(
	registrar links.Registrar,
	resolver links.Resolver,
	userService users.Service,
	repo Repository,
	dbInstance *db.DataBase,
	cfg *config.Config,
	auditPub *audit.Publisher,
) *gin.Engine {
	r := gin.Default()
	r.Use(logger.RequestLogger())
	r.Use(compressor.Compresser())
	r.Use(auth.Identity(cfg.SecretKey))

	r.GET("/", handler.IndexHandler())
	r.GET("/:code", handler.RedirectHandler(resolver, auditPub))
	r.GET("/ping", handler.PingHandler(dbInstance))

	api := r.Group("/api")
	api.POST("/shorten_anon", handler.ShortenAnonHandler(registrar, auditPub))
	api.POST("/shorten", auth.RequireAuth(), handler.ShortenHandler(registrar, auditPub))
	api.POST("/delete/:id", auth.RequireAuth(), handler.DeleteHandler(registrar, auditPub))
	api.GET("/user/urls", auth.RequireAuth(), handler.UserURLsHandler(registrar))

	api.POST("/user/register", handler.RegisterUserHandler(userService, cfg))
	api.POST("/user/login", handler.LoginHandler(userService, cfg))
	api.POST("/user/logout", handler.LogoutHandler())

	// Статистика только для доверенной подсети
	api.GET("/internal/stats", subnet.TrustedSubnetMiddleware(cfg.TrustedSubnet), handler.StatsHandler(repo))

	return r
}

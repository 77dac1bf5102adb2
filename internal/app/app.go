package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"revisionHub/internal/config"
	"revisionHub/internal/handlers"
	"revisionHub/internal/logger"
	"revisionHub/internal/metrics"
	"revisionHub/internal/middleware"
	"revisionHub/internal/repository/inmemory"
	"revisionHub/internal/repository/postgres"
	"revisionHub/internal/service"
	"revisionHub/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config      *config.Config
	server      *http.Server
	router      *chi.Mux
	collections service.CollectionRepository
	users       service.UserRepository
	calendar    *service.CalendarService
	auth        *service.AuthService
	metrics     metrics.Provider
	worker      *worker.DaySeedWorker
	shutdowns   []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	if err := a.initRepositories(ctx); err != nil {
		return err
	}

	a.metrics = metrics.New(a.config.Metrics.Enabled)
	a.calendar = service.NewCalendarService(a.collections)
	a.auth = service.NewAuthService(a.users, a.config.Auth.Secret, a.config.Auth.TokenTTL)

	interval := a.config.Worker.Interval
	a.worker = worker.NewDaySeedWorker(a.calendar, &interval, worker.WithMetrics(a.metrics))

	a.router = a.buildRouter()
	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      otelhttp.NewHandler(a.router, "revisionHub"),
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	logger.Info("Приложение инициализировано",
		zap.String("repository", a.config.Repository.Type),
		zap.String("addr", a.server.Addr))
	return nil
}

func (a *App) initRepositories(ctx context.Context) error {
	switch a.config.Repository.Type {
	case "postgres":
		storage, err := postgres.New(ctx, a.config.Database)
		if err != nil {
			return fmt.Errorf("подключение к PostgreSQL: %w", err)
		}
		a.shutdowns = append(a.shutdowns, storage.Close)

		if err := storage.Migrate(ctx); err != nil {
			return fmt.Errorf("миграции: %w", err)
		}
		a.collections = storage
		a.users = storage
	case "inmemory", "":
		a.collections = inmemory.NewCollectionStorage()
		a.users = inmemory.NewUserStorage()
	default:
		return fmt.Errorf("неизвестный тип репозитория %q", a.config.Repository.Type)
	}
	return nil
}

func (a *App) buildRouter() *chi.Mux {
	calendarHandler := handlers.NewCalendarHandler(a.calendar)
	authHandler := handlers.NewAuthHandler(a.auth)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.config.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.Metrics(a.metrics))
	r.Use(middleware.RateLimit(a.config.RateLimit.RequestsPerMinute))

	r.Get("/health", calendarHandler.HealthCheck)
	if a.config.Metrics.Enabled {
		r.Handle("/metrics", a.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", authHandler.Routes)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(a.auth))
			authHandler.ProtectedRoutes(r)
			calendarHandler.Routes(r)
		})
	})
	return r
}

// Handler отдаёт корневой обработчик вместе с инструментированием
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run запускает HTTP-сервер и воркер и блокируется до отмены ctx или ошибки сервера
func (a *App) Run(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP-сервер: %w", err)
		}
		return nil
	})

	if a.config.Worker.Enabled {
		group.Go(func() error {
			a.worker.Start(groupCtx)
			return nil
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("Остановка сервера...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("остановка сервера: %w", err)
		}
		return nil
	})

	return group.Wait()
}

// Shutdown освобождает ресурсы в обратном порядке
func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}

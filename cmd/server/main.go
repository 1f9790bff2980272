package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	createAppointmentHandler "github.com/m04kA/SMB-AppointmentService/internal/api/handlers/create_appointment"
	createAppointmentTypeHandler "github.com/m04kA/SMB-AppointmentService/internal/api/handlers/create_appointment_type"
	createPublicAppointmentHandler "github.com/m04kA/SMB-AppointmentService/internal/api/handlers/create_public_appointment"
	deleteAppointmentHandler "github.com/m04kA/SMB-AppointmentService/internal/api/handlers/delete_appointment"
	deleteAppointmentTypeHandler "github.com/m04kA/SMB-AppointmentService/internal/api/handlers/delete_appointment_type"
	exportDataHandler "github.com/m04kA/SMB-AppointmentService/internal/api/handlers/export_data"
	getAppointmentHandler "github.com/m04kA/SMB-AppointmentService/internal/api/handlers/get_appointment"
	getAppointmentTypesHandler "github.com/m04kA/SMB-AppointmentService/internal/api/handlers/get_appointment_types"
	getAppointmentsHandler "github.com/m04kA/SMB-AppointmentService/internal/api/handlers/get_appointments"
	getPublicAvailabilityHandler "github.com/m04kA/SMB-AppointmentService/internal/api/handlers/get_public_availability"
	getPublicPageHandler "github.com/m04kA/SMB-AppointmentService/internal/api/handlers/get_public_page"
	getSettingsHandler "github.com/m04kA/SMB-AppointmentService/internal/api/handlers/get_settings"
	healthHandler "github.com/m04kA/SMB-AppointmentService/internal/api/handlers/health"
	importDataHandler "github.com/m04kA/SMB-AppointmentService/internal/api/handlers/import_data"
	updateAppointmentHandler "github.com/m04kA/SMB-AppointmentService/internal/api/handlers/update_appointment"
	updateAppointmentStatusHandler "github.com/m04kA/SMB-AppointmentService/internal/api/handlers/update_appointment_status"
	updateAppointmentTypeHandler "github.com/m04kA/SMB-AppointmentService/internal/api/handlers/update_appointment_type"
	updateSettingsHandler "github.com/m04kA/SMB-AppointmentService/internal/api/handlers/update_settings"
	"github.com/m04kA/SMB-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMB-AppointmentService/internal/config"
	appointmentRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/appointment"
	appointmentTypeRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/appointmenttype"
	businessRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/business"
	settingsRepo "github.com/m04kA/SMB-AppointmentService/internal/infra/storage/settings"
	"github.com/m04kA/SMB-AppointmentService/internal/integrations/mailer"
	appointmentsService "github.com/m04kA/SMB-AppointmentService/internal/service/appointments"
	catalogService "github.com/m04kA/SMB-AppointmentService/internal/service/catalog"
	createAppointmentUC "github.com/m04kA/SMB-AppointmentService/internal/usecase/create_appointment"
	exportDataUC "github.com/m04kA/SMB-AppointmentService/internal/usecase/export_data"
	getAvailabilityUC "github.com/m04kA/SMB-AppointmentService/internal/usecase/get_availability"
	importDataUC "github.com/m04kA/SMB-AppointmentService/internal/usecase/import_data"
	updateAppointmentUC "github.com/m04kA/SMB-AppointmentService/internal/usecase/update_appointment"
	"github.com/m04kA/SMB-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMB-AppointmentService/pkg/logger"
	"github.com/m04kA/SMB-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMB-AppointmentService/pkg/simpletxmanager"
	"github.com/m04kA/SMB-AppointmentService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMB-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем почтовый клиент
	mailClient := mailer.NewClient(
		cfg.Notifications.SMTPHost,
		cfg.Notifications.SMTPPort,
		cfg.Notifications.From,
		cfg.Notifications.Enabled,
		log,
	)
	log.Info("Mailer initialized (enabled=%t, host=%s)", cfg.Notifications.Enabled, cfg.Notifications.SMTPHost)

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		typeRepository        *appointmentTypeRepo.Repository
		businessRepository    *businessRepo.Repository
		settingsRepository    *settingsRepo.Repository
	)

	// Интерфейс transaction manager'а: общий для сервисов и usecases
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		typeRepository = appointmentTypeRepo.NewRepository(wrappedDB)
		businessRepository = businessRepo.NewRepository(wrappedDB)
		settingsRepository = settingsRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		appointmentRepository = appointmentRepo.NewRepository(db)
		typeRepository = appointmentTypeRepo.NewRepository(db)
		businessRepository = businessRepo.NewRepository(db)
		settingsRepository = settingsRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		businessRepository,
		settingsRepository,
		mailClient,
		log,
	)
	catalogSvc := catalogService.NewService(
		typeRepository,
		businessRepository,
		settingsRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		typeRepository,
		businessRepository,
		settingsRepository,
		mailClient,
		txMgr,
		log,
	)
	updateAppointmentUseCase := updateAppointmentUC.NewUseCase(
		appointmentRepository,
		typeRepository,
		txMgr,
		log,
	)
	exportDataUseCase := exportDataUC.NewUseCase(
		appointmentRepository,
		typeRepository,
		businessRepository,
		settingsRepository,
		txMgr,
		log,
	)
	importDataUseCase := importDataUC.NewUseCase(
		appointmentRepository,
		typeRepository,
		businessRepository,
		settingsRepository,
		txMgr,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		appointmentRepository,
		typeRepository,
		businessRepository,
		settingsRepository,
		log,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	getAppointments := getAppointmentsHandler.NewHandler(appointmentSvc, log)
	updateAppointment := updateAppointmentHandler.NewHandler(updateAppointmentUseCase, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	deleteAppointment := deleteAppointmentHandler.NewHandler(appointmentSvc, log)
	createAppointmentType := createAppointmentTypeHandler.NewHandler(catalogSvc, log)
	getAppointmentTypes := getAppointmentTypesHandler.NewHandler(catalogSvc, log)
	updateAppointmentType := updateAppointmentTypeHandler.NewHandler(catalogSvc, log)
	deleteAppointmentType := deleteAppointmentTypeHandler.NewHandler(catalogSvc, log)
	getSettings := getSettingsHandler.NewHandler(catalogSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(catalogSvc, log)
	exportData := exportDataHandler.NewHandler(exportDataUseCase, log)
	importData := importDataHandler.NewHandler(importDataUseCase, log)
	getPublicPage := getPublicPageHandler.NewHandler(catalogSvc, log)
	getPublicAvailability := getPublicAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createPublicAppointment := createPublicAppointmentHandler.NewHandler(catalogSvc, createAppointmentUseCase, log)
	health := healthHandler.NewHandler(db, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Сквозной идентификатор запроса - на всех маршрутах
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Health endpoint (публичный, без аутентификации)
	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации, с rate limiting)
	// ============================================================

	rateLimiter := middleware.NewRateLimiter(
		cfg.Public.RateLimit,
		time.Duration(cfg.Public.RateWindow)*time.Second,
	)

	public := api.PathPrefix("/public").Subrouter()
	public.Use(middleware.RateLimit(rateLimiter))

	// Публичная страница бизнеса
	public.HandleFunc("/{slug}", getPublicPage.Handle).Methods(http.MethodGet)

	// Доступные слоты на дату
	public.HandleFunc("/{slug}/availability", getPublicAvailability.Handle).Methods(http.MethodGet)

	// Запись клиента с публичной страницы
	public.HandleFunc("/{slug}/appointments", createPublicAppointment.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Business-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание записи
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Список записей с фильтрами
	protected.HandleFunc("/appointments", getAppointments.Handle).Methods(http.MethodGet)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Изменение записи
	protected.HandleFunc("/appointments/{appointmentId}", updateAppointment.Handle).Methods(http.MethodPut)

	// Смена статуса записи
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// Удаление записи
	protected.HandleFunc("/appointments/{appointmentId}", deleteAppointment.Handle).Methods(http.MethodDelete)

	// --- Типы записи ---
	// Создание типа
	protected.HandleFunc("/appointment-types", createAppointmentType.Handle).Methods(http.MethodPost)

	// Список типов
	protected.HandleFunc("/appointment-types", getAppointmentTypes.Handle).Methods(http.MethodGet)

	// Изменение типа
	protected.HandleFunc("/appointment-types/{typeId}", updateAppointmentType.Handle).Methods(http.MethodPut)

	// Деактивация типа
	protected.HandleFunc("/appointment-types/{typeId}", deleteAppointmentType.Handle).Methods(http.MethodDelete)

	// --- Настройки бизнеса ---
	// Получение настроек
	protected.HandleFunc("/settings", getSettings.Handle).Methods(http.MethodGet)

	// Обновление настроек
	protected.HandleFunc("/settings", updateSettings.Handle).Methods(http.MethodPut)

	// --- Данные ---
	// Экспорт бандла
	protected.HandleFunc("/data/export", exportData.Handle).Methods(http.MethodGet)

	// Импорт бандла
	protected.HandleFunc("/data/import", importData.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

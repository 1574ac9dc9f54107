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

	advanceWizardHandler "github.com/nkrasko/BM-AppointmentService/internal/api/handlers/advance_wizard"
	createServiceHandler "github.com/nkrasko/BM-AppointmentService/internal/api/handlers/create_service"
	createSlotHandler "github.com/nkrasko/BM-AppointmentService/internal/api/handlers/create_slot"
	generateSlotsHandler "github.com/nkrasko/BM-AppointmentService/internal/api/handlers/generate_slots"
	getAppointmentHandler "github.com/nkrasko/BM-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/nkrasko/BM-AppointmentService/internal/api/handlers/get_available_slots"
	getPendingAppointmentHandler "github.com/nkrasko/BM-AppointmentService/internal/api/handlers/get_pending_appointment"
	listAppointmentsHandler "github.com/nkrasko/BM-AppointmentService/internal/api/handlers/list_appointments"
	listServicesHandler "github.com/nkrasko/BM-AppointmentService/internal/api/handlers/list_services"
	startBookingHandler "github.com/nkrasko/BM-AppointmentService/internal/api/handlers/start_booking"
	transitionAppointmentHandler "github.com/nkrasko/BM-AppointmentService/internal/api/handlers/transition_appointment"
	updateServiceHandler "github.com/nkrasko/BM-AppointmentService/internal/api/handlers/update_service"
	"github.com/nkrasko/BM-AppointmentService/internal/api/middleware"
	"github.com/nkrasko/BM-AppointmentService/internal/config"
	appointmentRepo "github.com/nkrasko/BM-AppointmentService/internal/infra/storage/appointment"
	photoRepo "github.com/nkrasko/BM-AppointmentService/internal/infra/storage/photo"
	serviceRepo "github.com/nkrasko/BM-AppointmentService/internal/infra/storage/service"
	slotRepo "github.com/nkrasko/BM-AppointmentService/internal/infra/storage/slot"
	notifierClient "github.com/nkrasko/BM-AppointmentService/internal/integrations/notifier"
	appointmentsService "github.com/nkrasko/BM-AppointmentService/internal/service/appointments"
	catalogService "github.com/nkrasko/BM-AppointmentService/internal/service/catalog"
	lifecycleService "github.com/nkrasko/BM-AppointmentService/internal/service/lifecycle"
	reminderService "github.com/nkrasko/BM-AppointmentService/internal/service/reminder"
	reservationService "github.com/nkrasko/BM-AppointmentService/internal/service/reservation"
	scheduleService "github.com/nkrasko/BM-AppointmentService/internal/service/schedule"
	wizardService "github.com/nkrasko/BM-AppointmentService/internal/service/wizard"
	confirmBookingUC "github.com/nkrasko/BM-AppointmentService/internal/usecase/confirm_booking"
	getAvailableSlotsUC "github.com/nkrasko/BM-AppointmentService/internal/usecase/get_available_slots"
	"github.com/nkrasko/BM-AppointmentService/pkg/dbmetrics"
	"github.com/nkrasko/BM-AppointmentService/pkg/logger"
	"github.com/nkrasko/BM-AppointmentService/pkg/metrics"
	"github.com/nkrasko/BM-AppointmentService/pkg/simpletxmanager"
	"github.com/nkrasko/BM-AppointmentService/pkg/txmanager"
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

	log.Info("Starting BM-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
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

	// Клиент шлюза уведомлений (бота)
	notifier := notifierClient.NewClient(
		cfg.Notifier.URL,
		cfg.Notifier.MasterID,
		time.Duration(cfg.Notifier.Timeout)*time.Second,
		log,
	)
	log.Info("Notifier client initialized (url=%s, timeout=%ds)", cfg.Notifier.URL, cfg.Notifier.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		slots        *slotRepo.Repository
		appointments *appointmentRepo.Repository
		services     *serviceRepo.Repository
		photos       *photoRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		slots = slotRepo.NewRepository(wrappedDB)
		appointments = appointmentRepo.NewRepository(wrappedDB)
		services = serviceRepo.NewRepository(wrappedDB)
		photos = photoRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		slots = slotRepo.NewRepository(db)
		appointments = appointmentRepo.NewRepository(db)
		services = serviceRepo.NewRepository(db)
		photos = photoRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Интерфейсы метрик остаются nil, если метрики выключены
	var (
		reservationMetrics reservationService.Metrics
		lifecycleMetrics   lifecycleService.Metrics
		reminderMetrics    reminderService.Metrics
		confirmMetrics     confirmBookingUC.Metrics
	)
	if cfg.Metrics.Enabled {
		reservationMetrics = metricsCollector
		lifecycleMetrics = metricsCollector
		reminderMetrics = metricsCollector
		confirmMetrics = metricsCollector
	}

	tzOffset := cfg.Booking.TimezoneOffsetHours
	location := time.FixedZone("master", tzOffset*3600)

	// Инициализируем сервисы
	reservationSvc := reservationService.NewService(slots, log, reservationMetrics)

	reminderScheduler := reminderService.NewScheduler(
		appointments,
		notifier,
		cfg.Booking.RebuildWindowWeeks,
		tzOffset,
		log,
		reminderMetrics,
	)

	lifecycleSvc := lifecycleService.NewService(
		appointments,
		reservationSvc,
		reminderScheduler,
		notifier,
		txMgr,
		tzOffset,
		log,
		lifecycleMetrics,
	)

	appointmentsSvc := appointmentsService.NewService(appointments, photos, log)
	catalogSvc := catalogService.NewService(services, log)
	scheduleSvc := scheduleService.NewService(slots, location, log)

	// Инициализируем use cases
	confirmBookingUseCase := confirmBookingUC.NewUseCase(
		appointments,
		reservationSvc,
		photos,
		notifier,
		confirmMetrics,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(slots, location, log)

	wizardSvc := wizardService.NewService(slots, services, confirmBookingUseCase, tzOffset, log)

	// Восстанавливаем напоминания по подтвержденным записям
	rebuilt, err := reminderScheduler.Rebuild(context.Background())
	if err != nil {
		log.Fatal("Failed to rebuild reminders: %v", err)
	}
	log.Info("Reminder timers rebuilt: %d scheduled", rebuilt)

	// Инициализируем handlers
	startBooking := startBookingHandler.NewHandler(wizardSvc, log)
	advanceWizard := advanceWizardHandler.NewHandler(wizardSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createSlot := createSlotHandler.NewHandler(scheduleSvc, log)
	generateSlots := generateSlotsHandler.NewHandler(scheduleSvc, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	createService := createServiceHandler.NewHandler(catalogSvc, log)
	updateService := updateServiceHandler.NewHandler(catalogSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	getPendingAppointment := getPendingAppointmentHandler.NewHandler(appointmentsSvc, log)
	transitionAppointment := transitionAppointmentHandler.NewHandler(lifecycleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты для записи
	api.HandleFunc("/slots/available", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Каталог услуг
	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Мастер записи ---
	protected.HandleFunc("/bookings/draft", startBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/draft/advance", advanceWizard.Handle).Methods(http.MethodPost)

	// --- Записи ---
	// pending регистрируется раньше {appointmentId}, иначе mux сматчит его как ID
	protected.HandleFunc("/appointments/pending", getPendingAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/status", transitionAppointment.Handle).Methods(http.MethodPatch)

	// --- Расписание мастера ---
	protected.HandleFunc("/slots", createSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/slots/generate", generateSlots.Handle).Methods(http.MethodPost)

	// --- Каталог услуг (управление) ---
	protected.HandleFunc("/services", createService.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/services/{serviceId}", updateService.Handle).Methods(http.MethodPatch)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем таймеры напоминаний
	reminderScheduler.Stop()
	log.Info("Reminder scheduler stopped")

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

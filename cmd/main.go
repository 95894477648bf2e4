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
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	createBookingHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/create_booking"
	createExceptionHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/create_exception"
	deleteAppointmentHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/delete_appointment"
	deleteExceptionHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/delete_exception"
	getAppointmentHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_available_slots"
	getBookingPolicyHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_booking_policy"
	getExceptionsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_exceptions"
	getProfessionalAppointmentsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_professional_appointments"
	getWeeklyScheduleHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_weekly_schedule"
	rescheduleBookingHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/reschedule_booking"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/update_appointment_status"
	updateBookingPolicyHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/update_booking_policy"
	updateWeeklyScheduleHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/update_weekly_schedule"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/config"
	appointmentRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/appointment"
	availabilityRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/availability"
	serviceRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/service"
	appointmentsService "github.com/m04kA/SMC-AvailabilityService/internal/service/appointments"
	availabilityService "github.com/m04kA/SMC-AvailabilityService/internal/service/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/usecase/common"
	createBookingUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots"
	rescheduleBookingUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/metrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/txmanager"
)

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-AvailabilityService...")
	log.Info("Configuration loaded from %s", configPath)

	// Метрики опциональны: nil *metrics.Metrics безопасен во всех вызовах
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

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без метрик обертка работает как прозрачный прокси
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Database.DBName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB, cfg.Booking.MaxSerializationRetries)

	// Репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	availabilityRepository := availabilityRepo.NewRepository(wrappedDB)
	serviceRepository := serviceRepo.NewRepository(wrappedDB)

	loader := common.NewLoader(appointmentRepository, availabilityRepository, common.PolicyDefaults{
		TimeZone:                cfg.Booking.DefaultTimeZone,
		MinBookingNoticeMinutes: cfg.Booking.MinBookingNoticeMinutes,
		AdvanceBookingDays:      cfg.Booking.AdvanceBookingDays,
	})

	// Сервисы
	appointmentsSvc := appointmentsService.NewService(appointmentRepository, txMgr, log)
	availabilitySvc := availabilityService.NewService(availabilityRepository, loader, txMgr, log)

	// Use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(loader, serviceRepository, metricsCollector, log)
	createBookingUseCase := createBookingUC.NewUseCase(
		appointmentRepository,
		serviceRepository,
		loader,
		txMgr,
		metricsCollector,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		appointmentRepository,
		loader,
		txMgr,
		metricsCollector,
		log,
	)

	// Handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	deleteAppointment := deleteAppointmentHandler.NewHandler(appointmentsSvc, log)
	getProfessionalAppointments := getProfessionalAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getWeeklySchedule := getWeeklyScheduleHandler.NewHandler(availabilitySvc, log)
	updateWeeklySchedule := updateWeeklyScheduleHandler.NewHandler(availabilitySvc, log)
	getExceptions := getExceptionsHandler.NewHandler(availabilitySvc, log)
	createException := createExceptionHandler.NewHandler(availabilitySvc, log)
	deleteException := deleteExceptionHandler.NewHandler(availabilitySvc, log)
	getBookingPolicy := getBookingPolicyHandler.NewHandler(availabilitySvc, log)
	updateBookingPolicy := updateBookingPolicyHandler.NewHandler(availabilitySvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.AccessLog(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (клиенты без аутентификации)
	// ============================================================

	api.HandleFunc("/professionals/{professionalId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/professionals/{professionalId}/appointments",
		createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/professionals/{professionalId}/weekly-schedule",
		getWeeklySchedule.Handle).Methods(http.MethodGet)
	api.HandleFunc("/professionals/{professionalId}/booking-policy",
		getBookingPolicy.Handle).Methods(http.MethodGet)

	// Перенос клиентом, право подтверждается телефоном из записи
	api.HandleFunc("/appointments/{appointmentId}/client-reschedule",
		rescheduleBooking.HandleClient).Methods(http.MethodPatch)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Professional-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Владелец записи проверяется в сервисе
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", deleteAppointment.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/appointments/{appointmentId}/status",
		updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/reschedule",
		rescheduleBooking.Handle).Methods(http.MethodPatch)

	// Управление расписанием: только сам профессионал
	owner := api.PathPrefix("/professionals/{professionalId}").Subrouter()
	owner.Use(middleware.Auth, middleware.OwnerOnly("professionalId"))

	owner.HandleFunc("/appointments", getProfessionalAppointments.Handle).Methods(http.MethodGet)
	owner.HandleFunc("/weekly-schedule", updateWeeklySchedule.Handle).Methods(http.MethodPut)
	owner.HandleFunc("/exceptions", getExceptions.Handle).Methods(http.MethodGet)
	owner.HandleFunc("/exceptions", createException.Handle).Methods(http.MethodPost)
	owner.HandleFunc("/exceptions/{exceptionId}", deleteException.Handle).Methods(http.MethodDelete)
	owner.HandleFunc("/booking-policy", updateBookingPolicy.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

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

	// Останавливаем сбор статистики connection pool
	close(stopMetricsCh)

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

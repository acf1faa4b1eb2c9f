package main

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"

	_ "github.com/kilbil-1980/kilbil-school-api/api/swagger"
	"github.com/kilbil-1980/kilbil-school-api/internal/handler"
	"github.com/kilbil-1980/kilbil-school-api/internal/repository"
	"github.com/kilbil-1980/kilbil-school-api/internal/router"
	"github.com/kilbil-1980/kilbil-school-api/internal/service"
	"github.com/kilbil-1980/kilbil-school-api/pkg/cache"
	"github.com/kilbil-1980/kilbil-school-api/pkg/config"
	"github.com/kilbil-1980/kilbil-school-api/pkg/database"
	"github.com/kilbil-1980/kilbil-school-api/pkg/export"
	"github.com/kilbil-1980/kilbil-school-api/pkg/logger"
)

// @title Kilbil School API
// @version 1.0.0
// @description School website backend: admissions pipeline and public content
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	var cacheService *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close() //nolint:errcheck
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheService = service.NewCacheService(cacheRepo, metrics, cfg.Cache.DefaultTTL, logr, true)
	}

	validate := validator.New()

	admissionRepo := repository.NewAdmissionRepository(db)
	userRepo := repository.NewUserRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	galleryRepo := repository.NewGalleryRepository(db)
	facilityRepo := repository.NewFacilityRepository(db)
	testimonialRepo := repository.NewTestimonialRepository(db)
	careerRepo := repository.NewCareerRepository(db)

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	admissionService := service.NewAdmissionService(admissionRepo, userRepo, validate, logr, service.AdmissionServiceConfig{
		MaxFileSize: cfg.Admissions.MaxFileSizeBytes,
	})
	exportService := service.NewAdmissionExportService(admissionRepo, export.NewSummaryPDF(), export.NewCSVExporter(), logr)
	announcementService := service.NewAnnouncementService(announcementRepo, userRepo, cacheService, validate, logr)
	facultyService := service.NewFacultyService(facultyRepo, userRepo, validate, logr)
	timetableService := service.NewTimetableService(timetableRepo, userRepo, validate, logr)
	galleryService := service.NewGalleryService(galleryRepo, userRepo, cacheService, validate, logr)
	facilityService := service.NewFacilityService(facilityRepo, userRepo, validate, logr)
	testimonialService := service.NewTestimonialService(testimonialRepo, userRepo, validate, logr)
	careerService := service.NewCareerService(careerRepo, userRepo, validate, logr)

	handlers := router.Handlers{
		Admissions:    handler.NewAdmissionHandler(admissionService, exportService, metrics, logr),
		Auth:          handler.NewAuthHandler(authService),
		Announcements: handler.NewAnnouncementHandler(announcementService),
		Faculty:       handler.NewFacultyHandler(facultyService),
		Timetables:    handler.NewTimetableHandler(timetableService),
		Gallery:       handler.NewGalleryHandler(galleryService),
		Facilities:    handler.NewFacilityHandler(facilityService),
		Testimonials:  handler.NewTestimonialHandler(testimonialService),
		Careers:       handler.NewCareerHandler(careerService),
		Metrics:       handler.NewMetricsHandler(metrics),
	}

	r := router.New(handlers, router.Deps{
		Config:      cfg,
		Logger:      logr,
		AuthService: authService,
		Metrics:     metrics,
		Users:       userRepo,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

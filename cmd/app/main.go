package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coursestream/config"
	"coursestream/internal/application/usecase"
	"coursestream/internal/infrastructure/cache"
	"coursestream/internal/infrastructure/email"
	"coursestream/internal/infrastructure/logger"
	"coursestream/internal/infrastructure/ratelimit"
	"coursestream/internal/infrastructure/repository"
	"coursestream/internal/infrastructure/security"
	"coursestream/internal/middleware"
	grpc_server "coursestream/internal/transport/grpc"
	handlers "coursestream/internal/transport/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const version = "1.0.0"

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	host, _ := os.Hostname()
	appLog := logger.New(log.New(os.Stdout, "", log.LstdFlags), logger.Options{
		RollbarToken: cfg.RollbarToken,
		Env:          cfg.Env,
		Host:         host,
		Version:      version,
	})
	defer appLog.Close()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	appLog.Info("connected to redis", "addr", cfg.RedisAddr)

	var sender email.Sender
	if cfg.SendGridAPIKey != "" {
		sender = email.NewSendGridSender(cfg.SendGridAPIKey, cfg.SMTPEmail, cfg.FrontendURL)
	} else {
		appLog.Warn("SENDGRID_API_KEY is empty, reset links are only logged")
		sender = email.NewConsoleSender(appLog, cfg.FrontendURL)
	}

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db, rdb)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	contentRepo := repository.NewContentRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	certRepo := repository.NewCertificateRepository(db)
	qaRepo := repository.NewQARepository(db)

	tokenManager := security.NewTokenManager(cfg.AccessSecret, cfg.RefreshSecret)
	guard := usecase.NewAccessGuard(courseRepo, enrollmentRepo)

	authUseCase := usecase.NewAuthUseCase(userRepo, cache.NewTokenCache(rdb), security.NewPasswordHasher(),
		tokenManager, sender, ratelimit.NewAttemptLimiter(), appLog)
	courseUseCase := usecase.NewCourseUseCase(courseRepo, enrollmentRepo, contentRepo, quizRepo, guard, appLog)
	certUseCase := usecase.NewCertificateUseCase(certRepo, contentRepo, quizRepo, progressRepo, guard, cfg.CertMinScore, appLog)
	quizUseCase := usecase.NewQuizUseCase(quizRepo, courseRepo, guard, certUseCase, cfg.PassThreshold, appLog)
	progressUseCase := usecase.NewProgressUseCase(progressRepo, contentRepo, guard, certUseCase, appLog)
	qaUseCase := usecase.NewQAUseCase(qaRepo, contentRepo, guard, appLog)
	userUseCase := usecase.NewUserAdminUseCase(userRepo, appLog)

	router := handlers.NewRouter(handlers.Handlers{
		Auth:         handlers.NewAuthHandler(authUseCase, appLog, cfg.IsProduction()),
		Courses:      handlers.NewCourseHandler(courseUseCase, appLog),
		Quizzes:      handlers.NewQuizHandler(quizUseCase, appLog),
		Progress:     handlers.NewProgressHandler(progressUseCase, appLog),
		Certificates: handlers.NewCertificateHandler(certUseCase, appLog),
		QA:           handlers.NewQAHandler(qaUseCase, appLog),
		Users:        handlers.NewUserHandler(userUseCase, appLog),
	}, tokenManager, middleware.NewRateLimiter(rdb, appLog), cfg.Origins())

	httpServer := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer, healthServer := grpc_server.NewServer(grpc_server.NewCertificateServer(certUseCase, appLog), appLog)
	lis, err := net.Listen("tcp", cfg.GRPCPort)
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}

	go func() {
		appLog.Info("http server running", "addr", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to run HTTP server: %v", err)
		}
	}()

	go func() {
		appLog.Info("grpc server running", "addr", cfg.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	appLog.Info("shutting down")
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthServer.SetServingStatus(grpc_server.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		appLog.Error("http shutdown", err)
	}
	grpcServer.GracefulStop()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = rdb.Close()
}

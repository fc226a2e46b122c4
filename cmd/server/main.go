package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"prompt-hub/internal/config"
	apphttp "prompt-hub/internal/http"
	"prompt-hub/internal/policy"
	"prompt-hub/internal/repository/sqlite"
	"prompt-hub/internal/service"
	"prompt-hub/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}
	if cfg.Auth.SuperAdminID <= 0 {
		logger.Fatalf("super admin id must be positive")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	adminRepo := sqlite.NewAdminRepository(db)
	promptRepo := sqlite.NewPromptRepository(db)
	likeRepo := sqlite.NewLikeRepository(db)
	commentRepo := sqlite.NewCommentRepository(db)
	labelRepo := sqlite.NewLabelRepository(db)
	auditRepo := sqlite.NewAuditRepository(db)

	for name, init := range map[string]func(context.Context) error{
		"user":    userRepo.Init,
		"admin":   adminRepo.Init,
		"prompt":  promptRepo.Init,
		"like":    likeRepo.Init,
		"comment": commentRepo.Init,
		"label":   labelRepo.Init,
		"audit":   auditRepo.Init,
	} {
		if err := init(ctx); err != nil {
			logger.Fatalf("init %s repository: %v", name, err)
		}
	}

	visibility := policy.NewVisibility(adminRepo, cfg.Auth.SuperAdminID)
	privilege := policy.NewPrivilege(adminRepo, cfg.Auth.SuperAdminID)

	userService := service.NewUserService(userRepo, privilege, service.BcryptVerify)
	totpService := service.NewTOTPService(userRepo, cfg.Auth.TOTPIssuer)
	promptService := service.NewPromptService(promptRepo, likeRepo, labelRepo, visibility, privilege)
	commentService := service.NewCommentService(commentRepo, promptRepo, visibility)
	labelService := service.NewLabelService(labelRepo, promptRepo, likeRepo, visibility)
	adminService := service.NewAdminService(userRepo, adminRepo, promptRepo, privilege)
	auditRecorder := service.NewAuditRecorder(auditRepo, logger)

	storageSvc, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	var archiver *service.AuditArchiver
	if storageSvc != nil {
		archiver = service.NewAuditArchiver(auditRepo, storageSvc, service.ArchiverConfig{
			Bucket:    cfg.Audit.ArchiveBucket,
			KeyPrefix: cfg.Audit.ArchiveKeyPrefix,
			Interval:  time.Duration(cfg.Audit.ArchiveMinutes) * time.Minute,
			Logger:    logger,
		})
		archiver.Start(ctx)
	}

	tokens := apphttp.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(
		userService,
		totpService,
		promptService,
		commentService,
		labelService,
		adminService,
		auditRecorder,
		tokens,
		storageSvc,
		cfg.Audit.ArchiveBucket,
		cfg.Audit.ArchiveKeyPrefix,
	)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	if archiver != nil {
		archiver.Shutdown()
	}

	logger.Info("bye")
}

// buildStorage returns nil when no archive bucket is configured; the audit
// export is optional.
func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Audit.ArchiveBucket == "" {
		logger.Info("audit archive disabled (no bucket configured)")
		return nil, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Audit.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Audit.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Audit.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("archiving audit logs to s3 bucket %s (region %s)", cfg.Audit.ArchiveBucket, cfg.Audit.Region)
	return storage.NewS3Service(client), nil
}

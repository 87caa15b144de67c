// Package app wires configuration into stores, clients and services. It is
// shared by the API server and the seed command.
package app

import (
	"context"
	"fmt"

	"github.com/vcscsvcscs/skincare-journal/internal/analysis"
	"github.com/vcscsvcscs/skincare-journal/internal/audit"
	"github.com/vcscsvcscs/skincare-journal/internal/azure"
	"github.com/vcscsvcscs/skincare-journal/internal/config"
	"github.com/vcscsvcscs/skincare-journal/internal/localstore"
	"github.com/vcscsvcscs/skincare-journal/internal/pdf"
	"github.com/vcscsvcscs/skincare-journal/internal/repository"
	"github.com/vcscsvcscs/skincare-journal/internal/security"
	"github.com/vcscsvcscs/skincare-journal/internal/service"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the zap logger for the configured environment, level and format
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Server.Environment == "production" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.Logging.Format == "console" || cfg.Logging.Format == "json" {
		zcfg.Encoding = cfg.Logging.Format
	}

	return zcfg.Build()
}

// Store is the persistence backend selected by DATABASE_DRIVER
type Store struct {
	SkinLogs service.SkinLogRepositoryInterface
	Products service.ProductRepositoryInterface
	Reports  service.ReportRepositoryInterface
	UserData service.UserDataDeleter
	Audit    audit.Store
	DB       interface{ Ping(ctx context.Context) error }

	close func()
}

// Close releases the database connections
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// Migrate applies pending schema migrations. The sqlite schema is applied on open.
func Migrate(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) error {
	if cfg.Driver != "postgres" {
		return nil
	}
	return repository.RunMigrations(ctx, cfg.URL, logger)
}

// OpenStore migrates and connects the configured database
func OpenStore(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	switch cfg.Driver {
	case "sqlite":
		db, err := localstore.Open(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return &Store{
			SkinLogs: db.SkinLogs(),
			Products: db.Products(),
			Reports:  db.Reports(),
			UserData: db,
			Audit:    db,
			DB:       db,
			close:    func() { db.Close() },
		}, nil

	case "postgres":
		if err := Migrate(ctx, cfg, logger); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		pool, err := repository.NewPool(ctx, cfg.URL, int32(cfg.MaxOpenConns))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		logger.Info("Successfully connected to database")
		return &Store{
			SkinLogs: repository.NewSkinLogRepository(pool, logger),
			Products: repository.NewProductRepository(pool, logger),
			Reports:  repository.NewReportRepository(pool, logger),
			UserData: repository.NewUserDataRepository(pool, logger),
			Audit:    audit.NewPostgresStore(pool),
			DB:       pool,
			close:    pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
}

// NewBlobStores returns the photo and report containers. Without Azure
// credentials both live in process memory.
func NewBlobStores(cfg *config.Config, logger *zap.Logger) (photos, reports azure.BlobStorage, err error) {
	if !cfg.BlobStorageEnabled() {
		logger.Warn("Azure storage not configured, keeping photos and reports in memory")
		return azure.NewMockBlobStorageClient(logger), azure.NewMockBlobStorageClient(logger), nil
	}

	photoClient, err := azure.NewBlobStorageClient(cfg.Storage.AccountName, cfg.Storage.AccountKey, cfg.Storage.PhotoContainer, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize photo blob storage client: %w", err)
	}
	reportClient, err := azure.NewBlobStorageClient(cfg.Storage.AccountName, cfg.Storage.AccountKey, cfg.Storage.ReportContainer, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize report blob storage client: %w", err)
	}
	return photoClient, reportClient, nil
}

// Services is the service layer shared by the server and the seed command
type Services struct {
	SkinLogs *service.SkinLogService
	Products *service.ProductService
	Insights *service.InsightService
	Analysis *service.AnalysisService
	Reports  *service.ReportService
	Data     *service.DataService
}

// NewServices builds the service layer on top of a store
func NewServices(cfg *config.Config, store *Store, photos, reports azure.BlobStorage, analyzer analysis.Analyzer, logger *zap.Logger) (*Services, error) {
	encryptor, err := security.NewOptionalEncryptor(cfg.EncryptionKeyBytes())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize encryption: %w", err)
	}
	if encryptor == nil {
		logger.Warn("ENCRYPTION_KEY not set, notes are stored in plaintext")
	}

	auditLogger := audit.NewLogger(store.Audit, logger)

	logs := service.NewSkinLogService(store.SkinLogs, encryptor, auditLogger, logger)
	products := service.NewProductService(store.Products, encryptor, auditLogger, logger)
	reportService := service.NewReportService(logs, products, store.Reports, reports, pdf.NewPDFGenerator(logger), auditLogger, logger)

	return &Services{
		SkinLogs: logs,
		Products: products,
		Insights: service.NewInsightService(store.SkinLogs, store.Products, logger),
		Analysis: service.NewAnalysisService(analyzer, photos, logs, auditLogger, cfg.Server.MaxImageBytes, logger),
		Reports:  reportService,
		Data:     service.NewDataService(logs, products, reportService, store.UserData, auditLogger, logger, photos, reports),
	}, nil
}

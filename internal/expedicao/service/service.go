package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/mqsfps1-maker/ecomflow/internal/config"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/pipeline"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/repository"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/sse"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services is the application service set of the expedition module.
type Services struct {
	Settings *SettingsService
	Import   *ImportService
	Material *MaterialService
	Print    *PrintService
}

// NewServices wires repositories, cache, object storage and the external
// rasterizer into the service set.
func NewServices(repos *repository.Repositories, rdb *redis.Client, renderer pipeline.Renderer,
	hub *sse.Hub, cfg *config.Config, logger *zap.Logger) *Services {

	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			logger.Warn("MinIO indisponível, uploads não serão arquivados", zap.Error(err))
			minioClient = nil
		}
	}

	settingsSvc := NewSettingsService(repos.Settings)

	return &Services{
		Settings: settingsSvc,
		Import:   NewImportService(repos.Order, repos.Catalog, settingsSvc, minioClient, cfg.MinIO.Bucket, logger),
		Material: NewMaterialService(repos.Order, repos.Catalog, settingsSvc, logger),
		Print: NewPrintService(repos.Order, repos.Print, settingsSvc, renderer, hub, rdb,
			cfg.Labelary.ChunkSize, cfg.Labelary.FastMode, logger),
	}
}

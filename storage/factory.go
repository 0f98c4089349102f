package storage

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/aurapaste/aurapaste/config"
)

// NewStore creates a storage backend based on the configuration.
func NewStore(cfg *config.Config, logger *zap.Logger) (PasteStore, error) {
	switch cfg.StorageBackend {
	case "mongodb":
		logger.Info("using mongodb storage",
			zap.String("uri", cfg.MongoURI),
			zap.String("database", cfg.MongoDatabase))
		return NewMongoStore(cfg.MongoURI, cfg.MongoDatabase)

	case "dynamodb":
		logger.Info("using dynamodb storage",
			zap.String("table", cfg.DynamoTable),
			zap.String("region", cfg.AWSRegion))
		return NewDynamoStore(cfg.DynamoTable, cfg.AWSRegion)

	case "filesystem":
		logger.Info("using filesystem storage", zap.String("data_dir", cfg.DataDir))
		return NewFilesystemStore(cfg.DataDir)

	case "memory":
		logger.Warn("using in-memory storage, pastes will not survive a restart")
		return NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unsupported storage backend: %s (supported: mongodb, dynamodb, filesystem, memory)", cfg.StorageBackend)
	}
}

package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	cfg "github.com/feichai0017/document-printer/config"
	"github.com/feichai0017/document-printer/pkg/logger"
	"github.com/feichai0017/document-printer/pkg/storage/local"
	"github.com/feichai0017/document-printer/pkg/storage/minio"
	"github.com/feichai0017/document-printer/pkg/storage/s3"
)

// StorageType 定义存储类型
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
	StorageTypeMinio StorageType = "minio"
)

// Storage 打印队列文件存储
type Storage interface {
	// Store 存储文件，返回文件 ID
	Store(ctx context.Context, reader io.Reader, key string) (string, error)
	// Get 获取文件
	Get(ctx context.Context, fileID string) (io.ReadCloser, error)
	// Delete 删除文件
	Delete(ctx context.Context, fileID string) error
	// CleanupBefore 清理过期文件
	CleanupBefore(ctx context.Context, threshold time.Time) error
}

// NewStorage 创建存储实例的工厂方法
func NewStorage(ctx context.Context, c cfg.StorageConfig, log logger.Logger) (Storage, error) {
	log = log.Named("storage")
	switch StorageType(c.Adapter) {
	case StorageTypeLocal:
		return local.NewLocalStorage(c.Local.BasePath, log)
	case StorageTypeS3:
		return s3.NewS3Storage(ctx, c.S3, log)
	case StorageTypeMinio:
		return minio.NewMinioStorage(ctx, c.Minio, log)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", c.Adapter)
	}
}

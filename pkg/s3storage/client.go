// "Тупой" клиент объектного хранилища: stat и скачивание, ничего больше.
package s3storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ilkoid/vision-mcp/pkg/config"
)

// ClientInterface определяет интерфейс для S3 клиента.
// Используется для мокания в тестах и внедрения зависимостей.
type ClientInterface interface {
	StatFile(ctx context.Context, bucket, key string) (StoredObject, error)
	DownloadFile(ctx context.Context, bucket, key string) ([]byte, error)
}

// StoredObject - метаданные объекта из S3.
type StoredObject struct {
	Bucket string
	Key    string
	Size   int64
}

type Client struct {
	api *minio.Client
}

// Проверка что Client реализует ClientInterface
var _ ClientInterface = (*Client)(nil)

// New создает клиент, используя наш конфиг.
func New(cfg config.S3Config) (*Client, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	return &Client{api: minioClient}, nil
}

// StatFile возвращает метаданные объекта без скачивания.
//
// Используется резолвером для проверки размера ДО загрузки байтов.
func (c *Client) StatFile(ctx context.Context, bucket, key string) (StoredObject, error) {
	info, err := c.api.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return StoredObject{}, fmt.Errorf("failed to stat s3 object %s/%s: %w", bucket, key, err)
	}

	return StoredObject{
		Bucket: bucket,
		Key:    key,
		Size:   info.Size,
	}, nil
}

// DownloadFile скачивает объект целиком в память.
func (c *Client) DownloadFile(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := c.api.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3 object %s/%s: %w", bucket, key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3 object %s/%s: %w", bucket, key, err)
	}

	return data, nil
}

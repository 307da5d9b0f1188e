package ports

import (
	"context"
	"time"
)

// S3Storage : генерация pre-signed URL. Сами байты файлов подсистема
// не читает — загрузка и скачивание идут напрямую между клиентом и S3.
type S3Storage interface {
	GeneratePresignedGetURL(ctx context.Context, key string, expire time.Duration) (string, error)
	GeneratePresignedPutURL(ctx context.Context, key string, expire time.Duration) (string, error)
}

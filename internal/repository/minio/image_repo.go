package minio

import (
	"bytes"
	"context"
	"net/url"

	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
	"github.com/techstore/storefront-backend/internal/cfg"
	"github.com/techstore/storefront-backend/internal/domain"
	"github.com/techstore/storefront-backend/pkg/e"
)

// ImageRepo реализует репозиторий изображений товаров поверх MinIO.
type ImageRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewImageRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *ImageRepo {
	return &ImageRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Upload загружает изображение в MinIO и возвращает ключ объекта.
func (i *ImageRepo) Upload(ctx context.Context, image *domain.Image) (string, error) {
	reader := bytes.NewReader(image.Bytes)

	info, err := i.mc.PutObject(ctx, i.cfg.BucketName, image.ObjectKey, reader, *image.Size, minio.PutObjectOptions{
		ContentType: *image.ContentType,
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}

// Delete удаляет объект из MinIO по указанному ключу.
func (i *ImageRepo) Delete(ctx context.Context, key string) error {
	if err := i.mc.RemoveObject(ctx, i.cfg.BucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// PresignedURL возвращает временную ссылку на изображение товара.
// Время жизни ссылки задаётся конфигурацией PresignTTL.
func (i *ImageRepo) PresignedURL(ctx context.Context, key string) (string, error) {
	u, err := i.mc.PresignedGetObject(ctx, i.cfg.BucketName, key, i.cfg.PresignTTL, url.Values{})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return u.String(), nil
}

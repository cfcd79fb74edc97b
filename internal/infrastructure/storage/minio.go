package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/leon37/SnapFeed/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	ErrUploadFailed = errors.New("upload failed")
	ErrDeleteFailed = errors.New("delete failed")
	ErrInvalidImage = errors.New("invalid image")
	ErrImageTooBig  = errors.New("image too large")
)

// MaxImageSize 上传图片的大小上限 (2MB)
const MaxImageSize = 2 << 20

// Store 是媒体文件存储的抽象，帖子和头像的图片都走这里
type Store interface {
	// SaveImage 校验并写入图片，返回可直接落库的公开 URL
	SaveImage(ctx context.Context, prefix, filename string, r io.Reader, size int64) (string, error)
	// DeleteByURL 按落库的 URL 删除对应的存储对象
	DeleteByURL(ctx context.Context, url string) error
}

// MinioStore 基于 MinIO 的实现
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinioStore(cfg config.MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client failed: %w", err)
	}

	s := &MinioStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}
	return s, nil
}

// EnsureBucket 启动时确认桶存在，不存在则创建
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (s *MinioStore) SaveImage(ctx context.Context, prefix, filename string, r io.Reader, size int64) (string, error) {
	if size > MaxImageSize {
		return "", ErrImageTooBig
	}

	// 读进内存做一次格式嗅探，上限 2MB 可以接受
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if int64(len(data)) > MaxImageSize {
		return "", ErrImageTooBig
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", ErrInvalidImage
	}

	ext := path.Ext(filename)
	if ext == "" {
		ext = "." + format
	}
	objectName := prefix + "/" + uuid.NewString() + ext

	_, err = s.client.PutObject(ctx, s.bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "image/" + format})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	return s.publicURL + "/" + s.bucket + "/" + objectName, nil
}

func (s *MinioStore) DeleteByURL(ctx context.Context, url string) error {
	objectName := s.objectNameFromURL(url)
	if objectName == "" {
		// 不是本存储的 URL，没有可删的对象
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}

// objectNameFromURL 把落库的公开 URL 还原成对象名
func (s *MinioStore) objectNameFromURL(url string) string {
	base := s.publicURL + "/" + s.bucket + "/"
	if !strings.HasPrefix(url, base) {
		return ""
	}
	return strings.TrimPrefix(url, base)
}

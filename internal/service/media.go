package service

import (
	"context"
	"errors"
	"io"

	"github.com/leon37/SnapFeed/internal/infrastructure/storage"
)

// 媒体对象的命名空间，头像和帖子图片分开存
const (
	avatarPrefix    = "images"
	postImagePrefix = "posts"
)

// Upload 是控制器从 multipart 表单取出的待上传文件
type Upload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// saveUpload 写入图片并把存储层的校验错误翻译成字段级错误
func saveUpload(ctx context.Context, store storage.Store, prefix string, up *Upload) (string, error) {
	url, err := store.SaveImage(ctx, prefix, up.Filename, up.Reader, up.Size)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidImage):
			return "", &ValidationError{Fields: map[string]string{"image": "The image must be an image."}}
		case errors.Is(err, storage.ErrImageTooBig):
			return "", &ValidationError{Fields: map[string]string{"image": "The image must not be greater than 2048 kilobytes."}}
		}
		return "", err
	}
	return url, nil
}

package controller

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/leon37/SnapFeed/internal/service"
)

// openUpload 从 multipart 表单取出可选的 image 文件。
// 没带文件返回 (nil, nil, nil)，调用方用完负责 Close
func openUpload(c *gin.Context) (*service.Upload, io.Closer, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		// 表单里没有 image 字段，不算错误
		return nil, nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	up := &service.Upload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Reader:   f,
	}
	return up, f, nil
}

package util

import (
	"path/filepath"

	"github.com/google/uuid"
)

// GenerateUniqueFilename 生成唯一的文件名，保留原始扩展名
func GenerateUniqueFilename(originalFilename string) string {
	ext := filepath.Ext(originalFilename)
	return uuid.NewString() + ext
}

// IsValidImageExt 验证图片扩展名是否有效
func IsValidImageExt(filename string) bool {
	switch filepath.Ext(filename) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	}
	return false
}

// ImageContentType 根据文件扩展名返回对应的Content-Type
func ImageContentType(filename string) string {
	switch filepath.Ext(filename) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	}
	return "application/octet-stream"
}

package storage

import "mime/multipart"

// Storage 文件存储接口，支持本地存储和S3
type Storage interface {
	UploadFile(file *multipart.FileHeader, path string) (string, error)
}

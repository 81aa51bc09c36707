package constants

import (
	"path/filepath"
	"strings"
)

const (
	FileKindUnknown  = 0
	FileKindImage    = 1
	FileKindDocument = 2
)

func DetectFileTypeFromExt(filename string) int {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".gif":
		return FileKindImage
	case ".pdf", ".doc", ".docx":
		return FileKindDocument
	default:
		return FileKindUnknown
	}
}

// ContentTypeFromExt is used when the multipart header carries no content type.
func ContentTypeFromExt(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}

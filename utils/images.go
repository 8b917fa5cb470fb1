package utils

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// SaveBase64Image decodes a data:image/... URL, writes it under dir and
// returns the public /uploads path.
func SaveBase64Image(dir, base64String string) (string, error) {
	parts := strings.SplitN(base64String, ",", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid base64 string format")
	}

	meta := parts[0]
	data := parts[1]

	contentType := strings.TrimPrefix(meta, "data:")
	contentType = strings.SplitN(contentType, ";", 2)[0]

	var extension string
	switch contentType {
	case "image/png":
		extension = ".png"
	case "image/jpeg", "image/jpg":
		extension = ".jpg"
	case "image/gif":
		extension = ".gif"
	case "image/webp":
		extension = ".webp"
	default:
		return "", fmt.Errorf("unsupported image content type: %s", contentType)
	}

	decodedData, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64 string: %w", err)
	}

	fileName := uuid.New().String() + extension
	filePath := filepath.Join(dir, fileName)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(filePath, decodedData, 0644); err != nil {
		return "", fmt.Errorf("failed to save image file: %w", err)
	}

	return fmt.Sprintf("/uploads/%s", fileName), nil
}

// IsDataURL reports whether s is an inline-encoded image rather than a
// plain URL.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:image/")
}

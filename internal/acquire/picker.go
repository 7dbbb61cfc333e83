package acquire

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	unsafeFilenameChars = regexp.MustCompile(`[^\p{L}\p{N}\s\-_]`)
	repeatedSpaces      = regexp.MustCompile(`\s+`)
)

// FilePicker selects boleto files from the local filesystem
type FilePicker struct {
	basePath string
}

// NewFilePicker creates a FilePicker resolving relative paths against basePath
func NewFilePicker(basePath string) *FilePicker {
	return &FilePicker{basePath: basePath}
}

// Pick reads the file at path and returns it as a Payload, untouched
func (f *FilePicker) Pick(path string) (*Payload, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrCancelled
	}

	fullPath := path
	if !filepath.IsAbs(path) && f.basePath != "" {
		fullPath = filepath.Join(f.basePath, path)
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	return &Payload{
		Data:     data,
		Filename: sanitizeFilename(filepath.Base(fullPath)),
		MimeType: DetectContentType(filepath.Base(fullPath), data),
	}, nil
}

// DetectContentType picks a MIME type from the file extension, falling back to sniffing
func DetectContentType(filename string, data []byte) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".pdf":
		return ContentTypePDF
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	}

	if isHEICFormat(data) {
		return "image/heic"
	}
	if len(data) == 0 {
		return "application/octet-stream"
	}

	// DetectContentType may append parameters such as "; charset=utf-8"
	sniffed := http.DetectContentType(data)
	if mediaType, _, found := strings.Cut(sniffed, ";"); found {
		return strings.TrimSpace(mediaType)
	}
	return sniffed
}

// sanitizeFilename cleans up a filename by removing symbols and truncating length. Accented letters are kept.
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	base = unsafeFilenameChars.ReplaceAllString(base, "")
	base = repeatedSpaces.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	// Phone galleries produce very long names
	maxLen := 50
	if runes := []rune(base); len(runes) > maxLen {
		base = strings.TrimSpace(string(runes[:maxLen]))
	}

	if base == "" {
		base = "boleto"
	}

	return base + strings.ToLower(ext)
}

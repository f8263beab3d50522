package classifier

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
)

// FileInfo is the detector's view of an input file.
type FileInfo struct {
	FileName    string
	FileType    domain.FileType
	ContentType string
	Size        int64
	Checksum    string
	Encoding    string
}

// Detector identifies file type, MIME type, checksum and text encoding.
type Detector struct{}

// NewDetector creates a Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect inspects the file name and content and returns its metadata.
// The extension is authoritative for the file type; content sniffing
// fills in the MIME type and resolves extensionless names.
func (d *Detector) Detect(fileName string, content []byte) FileInfo {
	info := FileInfo{
		FileName: fileName,
		Size:     int64(len(content)),
		Checksum: checksumSHA256(content),
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	if ft, ok := domain.AllowedExtensions[ext]; ok {
		info.FileType = ft
	} else {
		info.FileType = sniffType(content)
	}

	info.ContentType = http.DetectContentType(content)
	if ct, ok := domain.AllowedFileTypes[info.FileType]; ok {
		info.ContentType = ct
	}

	if info.FileType.IsTextType() {
		info.Encoding = detectEncoding(content, info.ContentType)
	}
	return info
}

func checksumSHA256(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// sniffType guesses a file type from content when the extension is unknown.
func sniffType(content []byte) domain.FileType {
	mime := http.DetectContentType(content)
	switch {
	case strings.HasPrefix(mime, "text/html"):
		return domain.FileTypeHTML
	case strings.HasPrefix(mime, "image/png"):
		return domain.FileTypePNG
	case strings.HasPrefix(mime, "image/jpeg"):
		return domain.FileTypeJPG
	case strings.HasPrefix(mime, "application/pdf"):
		return domain.FileTypePDF
	case strings.HasPrefix(mime, "text/plain"):
		trimmed := strings.TrimSpace(string(content))
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			return domain.FileTypeJSON
		}
		if looksLikeLog(trimmed) {
			return domain.FileTypeLOG
		}
		return domain.FileTypeTXT
	}
	return domain.FileTypeUnknown
}

// looksLikeLog checks whether most leading lines carry a log level token.
func looksLikeLog(content string) bool {
	lines := strings.Split(content, "\n")
	if len(lines) > 20 {
		lines = lines[:20]
	}
	levelled := 0
	for _, line := range lines {
		upper := strings.ToUpper(line)
		for _, lvl := range []string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL", "TRACE"} {
			if strings.Contains(upper, lvl) {
				levelled++
				break
			}
		}
	}
	return len(lines) > 0 && levelled*2 > len(lines)
}

// detectEncoding determines the text encoding of the content.
func detectEncoding(content []byte, contentType string) string {
	if utf8.Valid(content) {
		return "utf-8"
	}
	_, name, _ := charset.DetermineEncoding(content, contentType)
	return name
}

// DecodeToUTF8 transcodes text content to UTF-8. Content that is already
// valid UTF-8 is returned unchanged.
func DecodeToUTF8(content []byte, contentType string) ([]byte, error) {
	if utf8.Valid(content) {
		return content, nil
	}
	enc, _, _ := charset.DetermineEncoding(content, contentType)
	decoded, _, err := transform.Bytes(enc.NewDecoder(), content)
	if err != nil {
		return nil, fmt.Errorf("decoding content to utf-8: %w", err)
	}
	return decoded, nil
}

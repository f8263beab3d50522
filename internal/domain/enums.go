package domain

// FileType represents the detected type of an input file.
type FileType string

const (
	FileTypeHTML    FileType = "html"
	FileTypeTXT     FileType = "txt"
	FileTypeJSON    FileType = "json"
	FileTypeLOG     FileType = "log"
	FileTypePDF     FileType = "pdf"
	FileTypeDOCX    FileType = "docx"
	FileTypePNG     FileType = "png"
	FileTypeJPG     FileType = "jpg"
	FileTypeUnknown FileType = "unknown"
)

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"html": FileTypeHTML,
	"htm":  FileTypeHTML,
	"txt":  FileTypeTXT,
	"json": FileTypeJSON,
	"log":  FileTypeLOG,
	"pdf":  FileTypePDF,
	"docx": FileTypeDOCX,
	"png":  FileTypePNG,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
}

// AllowedFileTypes maps FileType to its canonical MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypeHTML: "text/html",
	FileTypeTXT:  "text/plain",
	FileTypeJSON: "application/json",
	FileTypeLOG:  "text/plain",
	FileTypePDF:  "application/pdf",
	FileTypeDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	FileTypePNG:  "image/png",
	FileTypeJPG:  "image/jpeg",
}

// IsTextType reports whether the file type is processed by text parsers.
func (t FileType) IsTextType() bool {
	switch t {
	case FileTypeTXT, FileTypeHTML, FileTypeJSON, FileTypeLOG:
		return true
	}
	return false
}

// IsImageType reports whether the file type is a raster image.
func (t FileType) IsImageType() bool {
	return t == FileTypePNG || t == FileTypeJPG
}

// PipelineType identifies which processing pipeline handles a file.
type PipelineType string

const (
	PipelineText   PipelineType = "text"
	PipelineOCR    PipelineType = "ocr"
	PipelineHybrid PipelineType = "hybrid"
)

// ProcessingStatus represents the lifecycle of a processing job.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// FileStatus represents the lifecycle of an uploaded file.
type FileStatus string

const (
	FileStatusPending  FileStatus = "pending"
	FileStatusUploaded FileStatus = "uploaded"
	FileStatusFailed   FileStatus = "failed"
	FileStatusDeleted  FileStatus = "deleted"
)

// ElementType classifies a structured element extracted from a document.
type ElementType string

const (
	ElementHeading   ElementType = "heading"
	ElementParagraph ElementType = "paragraph"
	ElementList      ElementType = "list"
	ElementTable     ElementType = "table"
	ElementCodeBlock ElementType = "code_block"
	ElementKeyValue  ElementType = "key_value_pairs"
	ElementLogGroup  ElementType = "log_entries"
	ElementObject    ElementType = "json_object"
	ElementArray     ElementType = "json_array"
	ElementPrimitive ElementType = "primitive"
)

// ComplexityLevel buckets a complexity score.
type ComplexityLevel string

const (
	ComplexitySimple   ComplexityLevel = "simple"
	ComplexityModerate ComplexityLevel = "moderate"
	ComplexityComplex  ComplexityLevel = "complex"
)

// ValidationSeverity indicates how a failed validation rule is treated.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
)

// ValidationStatus is the aggregate outcome of validating a structured document.
type ValidationStatus string

const (
	ValidationValid   ValidationStatus = "valid"
	ValidationWarning ValidationStatus = "warning"
	ValidationInvalid ValidationStatus = "invalid"
)

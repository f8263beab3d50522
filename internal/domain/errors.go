package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrJobNotFound         = errors.New("processing job not found")
	ErrJobNotCompleted     = errors.New("processing job has not completed")
	ErrResultNotFound      = errors.New("extraction result not found")
	ErrClassification      = errors.New("file classification failed")
	ErrExtraction          = errors.New("content extraction failed")
	ErrAnalysis            = errors.New("context analysis failed")
	ErrStructuring         = errors.New("output structuring failed")
	ErrEmptyContent        = errors.New("no content extracted from non-empty file")
)

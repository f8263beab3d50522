package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/classifier"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/config"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/port"
)

// FileUploadInput is the DTO for file upload requests.
type FileUploadInput struct {
	File   multipart.File
	Header *multipart.FileHeader
}

// FileService defines the file management contract.
type FileService interface {
	Upload(ctx context.Context, input FileUploadInput) (*domain.FileMeta, error)
	GetByID(ctx context.Context, fileID uuid.UUID) (*domain.FileMeta, error)
	List(ctx context.Context, limit, offset int) ([]domain.FileMeta, error)
	GetDownloadURL(ctx context.Context, fileID uuid.UUID) (string, error)
	Download(ctx context.Context, fileID uuid.UUID) (*domain.FileMeta, []byte, error)
	Delete(ctx context.Context, fileID uuid.UUID) error
}

type fileService struct {
	fileRepo port.FileMetaRepository
	storage  port.ObjectStorage
	detector *classifier.Detector
	cfg      *config.S3Config
}

// NewFileService creates a new FileService implementation.
func NewFileService(
	fileRepo port.FileMetaRepository,
	storage port.ObjectStorage,
	cfg *config.S3Config,
) FileService {
	return &fileService{
		fileRepo: fileRepo,
		storage:  storage,
		detector: classifier.NewDetector(),
		cfg:      cfg,
	}
}

func (s *fileService) Upload(ctx context.Context, input FileUploadInput) (*domain.FileMeta, error) {
	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	content, err := io.ReadAll(io.LimitReader(input.File, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(content)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	info := s.detector.Detect(input.Header.Filename, content)
	if info.FileType == domain.FileTypeUnknown {
		return nil, domain.ErrUnsupportedFileType
	}

	// Re-uploading identical content returns the existing record.
	if existing, err := s.fileRepo.GetByChecksum(ctx, info.Checksum); err == nil {
		log.Printf("fileService.Upload: %s matches existing file %s by checksum",
			input.Header.Filename, existing.ID)
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("checking checksum: %w", err)
	}

	fileID := uuid.New()
	s3Key := fmt.Sprintf("files/%s/%s", fileID, input.Header.Filename)

	meta := &domain.FileMeta{
		ID:           fileID,
		FileName:     fmt.Sprintf("%s.%s", fileID, info.FileType),
		OriginalName: input.Header.Filename,
		FileType:     info.FileType,
		FileSize:     int64(len(content)),
		ContentType:  info.ContentType,
		Checksum:     info.Checksum,
		Encoding:     info.Encoding,
		S3Bucket:     s.cfg.Bucket,
		S3Key:        s3Key,
		Status:       domain.FileStatusPending,
	}

	log.Printf("fileService.Upload: uploading %s (%s, %d bytes)",
		input.Header.Filename, info.ContentType, len(content))

	if err := s.fileRepo.Create(ctx, meta); err != nil {
		log.Printf("fileService.Upload: failed to create file metadata: %v", err)
		return nil, fmt.Errorf("creating file metadata: %w", err)
	}

	_, err = s.storage.Upload(ctx, s3Key, info.ContentType, bytes.NewReader(content), int64(len(content)))
	if err != nil {
		log.Printf("fileService.Upload: storage upload failed for file %s: %v", meta.ID, err)
		_ = s.fileRepo.UpdateStatus(ctx, meta.ID, domain.FileStatusFailed)
		return nil, domain.ErrUploadFailed
	}

	if err := s.fileRepo.UpdateStatus(ctx, meta.ID, domain.FileStatusUploaded); err != nil {
		return nil, fmt.Errorf("marking file uploaded: %w", err)
	}
	meta.Status = domain.FileStatusUploaded
	return meta, nil
}

func (s *fileService) GetByID(ctx context.Context, fileID uuid.UUID) (*domain.FileMeta, error) {
	return s.fileRepo.GetByID(ctx, fileID)
}

func (s *fileService) List(ctx context.Context, limit, offset int) ([]domain.FileMeta, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.fileRepo.List(ctx, limit, offset)
}

func (s *fileService) GetDownloadURL(ctx context.Context, fileID uuid.UUID) (string, error) {
	meta, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return "", err
	}
	url, err := s.storage.GetPresignedURL(ctx, meta.S3Key, time.Duration(s.cfg.PresignExpiry)*time.Second)
	if err != nil {
		return "", fmt.Errorf("presigning download for %s: %w", fileID, err)
	}
	return url, nil
}

func (s *fileService) Download(ctx context.Context, fileID uuid.UUID) (*domain.FileMeta, []byte, error) {
	meta, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	body, err := s.storage.Download(ctx, meta.S3Key)
	if err != nil {
		return nil, nil, fmt.Errorf("downloading %s: %w", fileID, err)
	}
	defer body.Close()

	content, err := io.ReadAll(body)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", fileID, err)
	}
	return meta, content, nil
}

func (s *fileService) Delete(ctx context.Context, fileID uuid.UUID) error {
	meta, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, meta.S3Key); err != nil {
		log.Printf("fileService.Delete: storage delete failed for %s: %v", fileID, err)
	}
	return s.fileRepo.Delete(ctx, fileID)
}

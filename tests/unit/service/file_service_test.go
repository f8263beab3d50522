package service_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/config"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/service"
	"github.com/ShriniwasAhirrao/MetaStitch/mocks"
)

func testS3Config() config.S3Config {
	return config.S3Config{
		Region:        "us-east-1",
		Bucket:        "test-bucket",
		MaxFileSizeMB: 50,
		PresignExpiry: 3600,
	}
}

// createMultipartFile creates a fake multipart file header and content for testing.
func createMultipartFile(filename string, content []byte, contentType string) (multipart.File, *multipart.FileHeader) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)

	part, _ := writer.CreatePart(h)
	_, _ = part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(int64(len(content) + 1024))
	file, _ := form.File["file"][0].Open()
	return file, form.File["file"][0]
}

func TestFileService_Upload_Success(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewFileService(fileRepo, storage, &cfg)

	content := []byte("# Release Notes\n\nVersion 2.1 ships incremental indexing.\n")
	file, header := createMultipartFile("notes.txt", content, "text/plain")
	defer file.Close()

	fileRepo.On("GetByChecksum", mock.Anything, mock.AnythingOfType("string")).
		Return(nil, domain.ErrNotFound)
	fileRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.FileMeta")).Return(nil)
	storage.On("Upload", mock.Anything, mock.AnythingOfType("string"), "text/plain",
		mock.Anything, int64(len(content))).
		Return("s3://test-bucket/files", nil)
	fileRepo.On("UpdateStatus", mock.Anything, mock.AnythingOfType("uuid.UUID"), domain.FileStatusUploaded).
		Return(nil)

	meta, err := svc.Upload(context.Background(), service.FileUploadInput{File: file, Header: header})

	assert.NoError(t, err)
	assert.Equal(t, domain.FileStatusUploaded, meta.Status)
	assert.Equal(t, domain.FileTypeTXT, meta.FileType)
	assert.Equal(t, "notes.txt", meta.OriginalName)
	assert.Len(t, meta.Checksum, 64)
	fileRepo.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestFileService_Upload_DuplicateChecksumReturnsExisting(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewFileService(fileRepo, storage, &cfg)

	existing := &domain.FileMeta{
		ID:           uuid.New(),
		OriginalName: "notes.txt",
		Status:       domain.FileStatusUploaded,
	}
	file, header := createMultipartFile("notes_copy.txt", []byte("same bytes\n"), "text/plain")
	defer file.Close()

	fileRepo.On("GetByChecksum", mock.Anything, mock.AnythingOfType("string")).
		Return(existing, nil)

	meta, err := svc.Upload(context.Background(), service.FileUploadInput{File: file, Header: header})

	assert.NoError(t, err)
	assert.Equal(t, existing.ID, meta.ID)
	fileRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFileService_Upload_FileTooLarge(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	cfg.MaxFileSizeMB = 0
	svc := service.NewFileService(fileRepo, storage, &cfg)

	file, header := createMultipartFile("big.txt", []byte("content"), "text/plain")
	defer file.Close()

	_, err := svc.Upload(context.Background(), service.FileUploadInput{File: file, Header: header})

	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestFileService_Upload_UnsupportedType(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewFileService(fileRepo, storage, &cfg)

	// Binary content with no recognizable extension or signature.
	content := []byte{0x00, 0x01, 0x02, 0x03, 0xFF, 0xFE, 0x00, 0x10}
	file, header := createMultipartFile("blob.bin", content, "application/octet-stream")
	defer file.Close()

	_, err := svc.Upload(context.Background(), service.FileUploadInput{File: file, Header: header})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestFileService_Upload_StorageFailureMarksFailed(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewFileService(fileRepo, storage, &cfg)

	file, header := createMultipartFile("notes.txt", []byte("some text content\n"), "text/plain")
	defer file.Close()

	fileRepo.On("GetByChecksum", mock.Anything, mock.AnythingOfType("string")).
		Return(nil, domain.ErrNotFound)
	fileRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.FileMeta")).Return(nil)
	storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("connection reset"))
	fileRepo.On("UpdateStatus", mock.Anything, mock.AnythingOfType("uuid.UUID"), domain.FileStatusFailed).
		Return(nil)

	_, err := svc.Upload(context.Background(), service.FileUploadInput{File: file, Header: header})

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	fileRepo.AssertCalled(t, "UpdateStatus", mock.Anything, mock.AnythingOfType("uuid.UUID"), domain.FileStatusFailed)
}

func TestFileService_Download(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewFileService(fileRepo, storage, &cfg)

	fileID := uuid.New()
	meta := &domain.FileMeta{ID: fileID, S3Key: "files/abc/notes.txt"}

	fileRepo.On("GetByID", mock.Anything, fileID).Return(meta, nil)
	storage.On("Download", mock.Anything, "files/abc/notes.txt").
		Return(io.NopCloser(bytes.NewReader([]byte("stored content"))), nil)

	got, content, err := svc.Download(context.Background(), fileID)

	assert.NoError(t, err)
	assert.Equal(t, fileID, got.ID)
	assert.Equal(t, []byte("stored content"), content)
}

func TestFileService_GetDownloadURL(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewFileService(fileRepo, storage, &cfg)

	fileID := uuid.New()
	meta := &domain.FileMeta{ID: fileID, S3Key: "files/abc/notes.txt"}

	fileRepo.On("GetByID", mock.Anything, fileID).Return(meta, nil)
	storage.On("GetPresignedURL", mock.Anything, "files/abc/notes.txt", 3600*time.Second).
		Return("https://test-bucket.s3.amazonaws.com/files/abc/notes.txt?sig=x", nil)

	url, err := svc.GetDownloadURL(context.Background(), fileID)

	assert.NoError(t, err)
	assert.Contains(t, url, "files/abc/notes.txt")
}

func TestFileService_Delete_IgnoresStorageError(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewFileService(fileRepo, storage, &cfg)

	fileID := uuid.New()
	meta := &domain.FileMeta{ID: fileID, S3Key: "files/abc/notes.txt"}

	fileRepo.On("GetByID", mock.Anything, fileID).Return(meta, nil)
	storage.On("Delete", mock.Anything, "files/abc/notes.txt").Return(errors.New("object gone"))
	fileRepo.On("Delete", mock.Anything, fileID).Return(nil)

	err := svc.Delete(context.Background(), fileID)

	assert.NoError(t, err)
	fileRepo.AssertCalled(t, "Delete", mock.Anything, fileID)
}

func TestFileService_List_ClampsLimit(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewFileService(fileRepo, storage, &cfg)

	fileRepo.On("List", mock.Anything, 20, 0).Return([]domain.FileMeta{}, nil)

	_, err := svc.List(context.Background(), 500, -3)

	assert.NoError(t, err)
	fileRepo.AssertCalled(t, "List", mock.Anything, 20, 0)
}

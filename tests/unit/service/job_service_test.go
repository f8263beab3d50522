package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/service"
	"github.com/ShriniwasAhirrao/MetaStitch/mocks"
)

func testDocument() *domain.StructuredDocument {
	return &domain.StructuredDocument{
		Classification: domain.ClassificationResult{
			FileType:   domain.FileTypeTXT,
			Pipeline:   domain.PipelineText,
			Confidence: 0.95,
		},
		RawText: "hello",
		Elements: []domain.StructuredElement{
			{Type: domain.ElementParagraph, Position: 0, Content: "hello", Confidence: 0.7},
		},
		Quality:    domain.QualityReport{Score: 0.82, IsValid: true},
		Validation: domain.ValidationValid,
		Method:     "txt_parser",
		Confidence: 0.75,
	}
}

func TestJobService_Enqueue(t *testing.T) {
	jobRepo := new(mocks.MockJobRepo)
	resultRepo := new(mocks.MockResultRepo)
	files := new(mocks.MockFileService)
	pipeline := new(mocks.MockPipelineService)
	svc := service.NewJobService(jobRepo, resultRepo, files, pipeline)

	fileID := uuid.New()
	files.On("GetByID", mock.Anything, fileID).
		Return(&domain.FileMeta{ID: fileID, Status: domain.FileStatusUploaded}, nil)
	jobRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ProcessingJob")).Return(nil)

	job, err := svc.Enqueue(context.Background(), fileID, domain.PipelineText)

	assert.NoError(t, err)
	assert.Equal(t, fileID, job.FileID)
	assert.Equal(t, domain.StatusPending, job.Status)
	assert.Equal(t, domain.PipelineText, job.Pipeline)
}

func TestJobService_List_ClampsPagination(t *testing.T) {
	jobRepo := new(mocks.MockJobRepo)
	resultRepo := new(mocks.MockResultRepo)
	files := new(mocks.MockFileService)
	pipeline := new(mocks.MockPipelineService)
	svc := service.NewJobService(jobRepo, resultRepo, files, pipeline)

	jobRepo.On("List", mock.Anything, domain.StatusPending, 20, 0).
		Return([]domain.ProcessingJob{}, nil)

	_, err := svc.List(context.Background(), domain.StatusPending, 500, -3)

	assert.NoError(t, err)
	jobRepo.AssertCalled(t, "List", mock.Anything, domain.StatusPending, 20, 0)
}

func TestJobService_Enqueue_FileNotUploaded(t *testing.T) {
	jobRepo := new(mocks.MockJobRepo)
	resultRepo := new(mocks.MockResultRepo)
	files := new(mocks.MockFileService)
	pipeline := new(mocks.MockPipelineService)
	svc := service.NewJobService(jobRepo, resultRepo, files, pipeline)

	fileID := uuid.New()
	files.On("GetByID", mock.Anything, fileID).
		Return(&domain.FileMeta{ID: fileID, Status: domain.FileStatusPending}, nil)

	_, err := svc.Enqueue(context.Background(), fileID, "")

	assert.Error(t, err)
	jobRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestJobService_ProcessJob_Success(t *testing.T) {
	jobRepo := new(mocks.MockJobRepo)
	resultRepo := new(mocks.MockResultRepo)
	files := new(mocks.MockFileService)
	pipeline := new(mocks.MockPipelineService)
	svc := service.NewJobService(jobRepo, resultRepo, files, pipeline)

	fileID := uuid.New()
	job := &domain.ProcessingJob{ID: uuid.New(), FileID: fileID, Attempts: 1}
	meta := &domain.FileMeta{ID: fileID, OriginalName: "notes.txt"}
	content := []byte("hello")

	files.On("Download", mock.Anything, fileID).Return(meta, content, nil)
	pipeline.On("Process", mock.Anything, "notes.txt", content, domain.PipelineType("")).
		Return(testDocument(), nil)
	resultRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ExtractionRecord")).Return(nil)
	jobRepo.On("MarkCompleted", mock.Anything, job.ID).Return(nil)

	svc.ProcessJob(context.Background(), job, 3)

	resultRepo.AssertExpectations(t)
	jobRepo.AssertExpectations(t)

	rec := resultRepo.Calls[0].Arguments.Get(1).(*domain.ExtractionRecord)
	assert.Equal(t, job.ID, rec.JobID)
	assert.Equal(t, domain.PipelineText, rec.Pipeline)
	assert.Equal(t, "txt_parser", rec.Method)
	assert.Equal(t, 0.82, rec.QualityScore)
	assert.Equal(t, domain.ValidationValid, rec.ValidationStatus)
	assert.NotEmpty(t, rec.StructuredData)
}

func TestJobService_ProcessJob_RetryableFailure(t *testing.T) {
	jobRepo := new(mocks.MockJobRepo)
	resultRepo := new(mocks.MockResultRepo)
	files := new(mocks.MockFileService)
	pipeline := new(mocks.MockPipelineService)
	svc := service.NewJobService(jobRepo, resultRepo, files, pipeline)

	fileID := uuid.New()
	job := &domain.ProcessingJob{ID: uuid.New(), FileID: fileID, Attempts: 1}

	files.On("Download", mock.Anything, fileID).
		Return(nil, []byte(nil), errors.New("storage timeout"))
	jobRepo.On("MarkFailed", mock.Anything, job.ID, mock.AnythingOfType("string"), true).Return(nil)

	svc.ProcessJob(context.Background(), job, 3)

	jobRepo.AssertCalled(t, "MarkFailed", mock.Anything, job.ID, mock.AnythingOfType("string"), true)
}

func TestJobService_ProcessJob_FailureWritesUnderFreshContext(t *testing.T) {
	jobRepo := new(mocks.MockJobRepo)
	resultRepo := new(mocks.MockResultRepo)
	files := new(mocks.MockFileService)
	pipeline := new(mocks.MockPipelineService)
	svc := service.NewJobService(jobRepo, resultRepo, files, pipeline)

	fileID := uuid.New()
	job := &domain.ProcessingJob{ID: uuid.New(), FileID: fileID, Attempts: 1}

	jobCtx, cancel := context.WithCancel(context.Background())
	cancel()

	files.On("Download", mock.Anything, fileID).
		Return(nil, []byte(nil), context.Canceled)
	liveCtx := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })
	jobRepo.On("MarkFailed", liveCtx, job.ID, mock.AnythingOfType("string"), true).Return(nil)

	svc.ProcessJob(jobCtx, job, 3)

	jobRepo.AssertExpectations(t)
}

func TestJobService_ProcessJob_ExhaustedRetries(t *testing.T) {
	jobRepo := new(mocks.MockJobRepo)
	resultRepo := new(mocks.MockResultRepo)
	files := new(mocks.MockFileService)
	pipeline := new(mocks.MockPipelineService)
	svc := service.NewJobService(jobRepo, resultRepo, files, pipeline)

	fileID := uuid.New()
	job := &domain.ProcessingJob{ID: uuid.New(), FileID: fileID, Attempts: 3}

	files.On("Download", mock.Anything, fileID).
		Return(nil, []byte(nil), errors.New("storage timeout"))
	jobRepo.On("MarkFailed", mock.Anything, job.ID, mock.AnythingOfType("string"), false).Return(nil)

	svc.ProcessJob(context.Background(), job, 3)

	jobRepo.AssertCalled(t, "MarkFailed", mock.Anything, job.ID, mock.AnythingOfType("string"), false)
}

func TestJobService_ProcessJob_UnsupportedTypeNeverRetries(t *testing.T) {
	jobRepo := new(mocks.MockJobRepo)
	resultRepo := new(mocks.MockResultRepo)
	files := new(mocks.MockFileService)
	pipeline := new(mocks.MockPipelineService)
	svc := service.NewJobService(jobRepo, resultRepo, files, pipeline)

	fileID := uuid.New()
	job := &domain.ProcessingJob{ID: uuid.New(), FileID: fileID, Attempts: 1}
	meta := &domain.FileMeta{ID: fileID, OriginalName: "blob.bin"}

	files.On("Download", mock.Anything, fileID).Return(meta, []byte("x"), nil)
	pipeline.On("Process", mock.Anything, "blob.bin", []byte("x"), domain.PipelineType("")).
		Return(nil, domain.ErrUnsupportedFileType)
	jobRepo.On("MarkFailed", mock.Anything, job.ID, mock.AnythingOfType("string"), false).Return(nil)

	svc.ProcessJob(context.Background(), job, 3)

	jobRepo.AssertCalled(t, "MarkFailed", mock.Anything, job.ID, mock.AnythingOfType("string"), false)
}

func TestJobService_GetResult_RequiresCompletedJob(t *testing.T) {
	jobRepo := new(mocks.MockJobRepo)
	resultRepo := new(mocks.MockResultRepo)
	files := new(mocks.MockFileService)
	pipeline := new(mocks.MockPipelineService)
	svc := service.NewJobService(jobRepo, resultRepo, files, pipeline)

	jobID := uuid.New()
	jobRepo.On("GetByID", mock.Anything, jobID).
		Return(&domain.ProcessingJob{ID: jobID, Status: domain.StatusProcessing}, nil)

	_, err := svc.GetResult(context.Background(), jobID)

	assert.ErrorIs(t, err, domain.ErrJobNotCompleted)
	resultRepo.AssertNotCalled(t, "GetByJobID", mock.Anything, mock.Anything)
}

func TestJobService_GetResult_Completed(t *testing.T) {
	jobRepo := new(mocks.MockJobRepo)
	resultRepo := new(mocks.MockResultRepo)
	files := new(mocks.MockFileService)
	pipeline := new(mocks.MockPipelineService)
	svc := service.NewJobService(jobRepo, resultRepo, files, pipeline)

	jobID := uuid.New()
	record := &domain.ExtractionRecord{ID: uuid.New(), JobID: jobID}

	jobRepo.On("GetByID", mock.Anything, jobID).
		Return(&domain.ProcessingJob{ID: jobID, Status: domain.StatusCompleted}, nil)
	resultRepo.On("GetByJobID", mock.Anything, jobID).Return(record, nil)

	got, err := svc.GetResult(context.Background(), jobID)

	assert.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
}
